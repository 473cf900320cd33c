// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"io"
)

// Translatable is a value that can translate itself using a context.
// Types such as [MsgKey] implement Translatable.
type Translatable interface {
	Tr(ctx context.Context) string
}

// MsgKey names a message by context and source text, to be translated later.
//
// Construct with MsgKey{Context: "Wallet", Source: "Daemon is busy"} and call
// Tr(ctx) to resolve using the current locale in ctx.
type MsgKey struct {
	Context string
	Source  string
}

// Tr translates this message within the current locale.
// It is equivalent to calling [Tr] with the same context and source.
// The ctx may be nil, in which case the base locale is used.
func (k MsgKey) Tr(ctx context.Context) string {
	return Tr(ctx, k.Context, k.Source)
}

// Render writes the translation to w.
func (k MsgKey) Render(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, k.Tr(ctx))

	return err
}
