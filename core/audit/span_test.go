// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"testing"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpan(t *testing.T) {
	t.Parallel()

	timing := &servertiming.Header{}
	ctx := servertiming.NewContext(context.Background(), timing)

	span := Span{Route: "GET /api/v1/translate"}
	_ = span.Begin(ctx)

	time.Sleep(time.Millisecond)
	span.End()

	first := span.Duration()
	assert.Positive(t, first)

	span.End()
	assert.Equal(t, first, span.Duration(), "End only takes effect once")

	require.Len(t, timing.Metrics, 1)
	assert.Equal(t, "api", timing.Metrics[0].Name)
	assert.Equal(t, "GET /api/v1/translate", timing.Metrics[0].Desc)
	assert.Equal(t, first, timing.Metrics[0].Duration)
}

func TestHumanizeSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512", humanizeSize(512))
	assert.Equal(t, "1.50K", humanizeSize(1536))
	assert.Equal(t, "2.00M", humanizeSize(2*bytesInMB))
}
