// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"runtime/debug"
	"time"
)

// BuildVersion is the latest tagged release of tslate.
const BuildVersion string = "v0.4.0"

// develVersion is what the toolchain stamps on binaries built from a checkout.
const develVersion = "(devel)"

// shortHashLen is the number of revision characters shown in version strings.
const shortHashLen = 8

// buildInfo describes the running binary as stamped by the Go toolchain.
type buildInfo struct {
	ModuleVersion string
	GoVersion     string
	VcsRevision   string
	VcsTime       time.Time
	VcsModified   bool
}

// Version returns the module version of a binary installed with
// "go install codeberg.org/tslate/tslate@<version>", and BuildVersion for
// binaries built from a checkout.
func (b *buildInfo) Version() string {
	if b.ModuleVersion == "" || b.ModuleVersion == develVersion {
		return BuildVersion
	}

	return b.ModuleVersion
}

// Revision returns "<date>-<short hash>", with "+dirty" for modified trees,
// or "unknown" when the binary carries no VCS stamp.
func (b *buildInfo) Revision() string {
	if len(b.VcsRevision) < shortHashLen {
		return "unknown"
	}

	s := b.VcsRevision[:shortHashLen]
	if !b.VcsTime.IsZero() {
		s = b.VcsTime.UTC().Format(time.DateOnly) + "-" + s
	}

	if b.VcsModified {
		s += "+dirty"
	}

	return s
}

func (b *buildInfo) load() {
	if info, ok := debug.ReadBuildInfo(); ok {
		b.fill(info)
	}
}

func (b *buildInfo) fill(info *debug.BuildInfo) {
	b.ModuleVersion = info.Main.Version
	b.GoVersion = info.GoVersion

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			b.VcsRevision = s.Value
		case "vcs.time":
			// An unparsable stamp only drops the date from Revision.
			b.VcsTime, _ = time.Parse(time.RFC3339, s.Value)
		case "vcs.modified":
			b.VcsModified = s.Value == "true"
		}
	}
}
