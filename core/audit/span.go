// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"fmt"
	"runtime/trace"
	"strconv"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog/log"
)

// Span represents an API request in flight.
type Span struct {
	// only these fields are set automatically
	task     *trace.Task
	start    time.Time
	duration time.Duration
	metric   *servertiming.Metric

	// Route is the matched route pattern, e.g. "GET /api/v1/translate".
	Route      string
	RequestID  string
	Method     string
	URL        string
	Locale     string
	StatusCode int
	Size       int
	Cached     bool
	Error      error
}

// ServerTimingName is the metric name reported in the Server-Timing header.
func (span Span) ServerTimingName() string {
	return "api"
}

// Begin starts the runtime trace task and, when the request carries a
// Server-Timing context, its metric.
func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "http.api")
	trace.Log(ctx, "route", span.Route)

	if timing := servertiming.FromContext(ctx); timing != nil {
		span.metric = timing.NewMetric(span.ServerTimingName())
		span.metric.Desc = span.Route
		span.metric.Extra = map[string]string{
			"start": strconv.FormatFloat(float64(span.start.UnixNano())/float64(time.Millisecond), 'f', -1, 64),
		}
	}

	return ctx
}

// End stops the span. Only the first call has an effect.
func (span *Span) End() {
	if span.task == nil {
		return
	}

	span.duration = time.Since(span.start)
	span.task.End()

	if span.metric != nil {
		span.metric.Duration = span.duration
	}

	span.task = nil
}

// Duration is the time between Begin and End.
func (span Span) Duration() time.Duration {
	return span.duration
}

// Log writes the span as one sys=http event. Server errors are logged at
// error level, everything else at debug.
func (span Span) Log() {
	event := log.Debug()
	if span.StatusCode >= 500 {
		event = log.Error()
	}

	event.
		Str("sys", "http").
		Str("method", span.Method).
		Str("url", span.URL).
		Int("status_code", span.StatusCode).
		Str("len", humanizeSize(span.Size)).
		Dur("dur", span.duration).
		Str("request_id", span.RequestID)

	if span.Route != "" {
		event.Str("route", span.Route)
	}

	if span.Locale != "" {
		event.Str("locale", span.Locale)
	}

	if span.Cached {
		event.Bool("cached", true)
	}

	if span.Error != nil {
		event.Err(span.Error)
	}

	event.Send()
}

const (
	bytesInKB = 1024
	bytesInMB = bytesInKB * bytesInKB
	bytesInGB = bytesInMB * bytesInKB
)

func humanizeSize(x int) string {
	if x < bytesInKB {
		return strconv.Itoa(x)
	}

	if x < bytesInMB {
		return fmt.Sprintf("%.2fK", float64(x)/bytesInKB)
	}

	if x < bytesInGB {
		return fmt.Sprintf("%.2fM", float64(x)/bytesInMB)
	}

	return fmt.Sprintf("%.2fG", float64(x)/bytesInGB)
}
