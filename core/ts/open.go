// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package ts

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Extensions recognised by [OpenFile] and [OpenFS].
const (
	Ext     = ".ts"
	ExtGzip = ".ts.gz"
	ExtZstd = ".ts.zst"
)

// HasExt reports whether name looks like a plain or compressed TS file.
func HasExt(name string) bool {
	return strings.HasSuffix(name, Ext) || strings.HasSuffix(name, ExtGzip) || strings.HasSuffix(name, ExtZstd)
}

// TrimExt removes a plain or compressed TS extension from name.
func TrimExt(name string) string {
	for _, ext := range []string{ExtGzip, ExtZstd, Ext} {
		if s, ok := strings.CutSuffix(name, ext); ok {
			return s
		}
	}

	return name
}

// OpenFile decodes the TS file at path, decompressing ".ts.gz" and ".ts.zst" files.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path) // #nosec G304 -- the caller chooses which catalogue to read
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return decodeNamed(f, path)
}

// OpenFS is like [OpenFile] but reads name from fsys.
func OpenFS(fsys fs.FS, name string) (*File, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return decodeNamed(f, name)
}

func decodeNamed(r io.Reader, name string) (*File, error) {
	switch {
	case strings.HasSuffix(name, ExtGzip):
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream %s: %w", name, err)
		}
		defer zr.Close()

		r = zr
	case strings.HasSuffix(name, ExtZstd):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream %s: %w", name, err)
		}
		defer zr.Close()

		r = zr
	}

	f, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	return f, nil
}

// WriteFile encodes f to path, compressing it when path ends in ".ts.gz" or ".ts.zst".
func WriteFile(path string, f *File) (err error) {
	out, err := os.Create(path) // #nosec G304 -- the caller chooses the output path
	if err != nil {
		return err
	}

	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	var (
		w      io.Writer = out
		closer io.Closer
	)

	switch {
	case strings.HasSuffix(path, ExtGzip):
		zw := gzip.NewWriter(out)
		w, closer = zw, zw
	case strings.HasSuffix(path, ExtZstd):
		zw, zerr := zstd.NewWriter(out)
		if zerr != nil {
			return zerr
		}

		w, closer = zw, zw
	}

	if err := Encode(w, f); err != nil {
		return err
	}

	if closer != nil {
		return closer.Close()
	}

	return nil
}
