// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package query

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/pony-tui/internal/logging"
)

// ErrNoMutation is returned when a request has no Run function.
var ErrNoMutation = errors.New("mutation has no run function")

// MutationRequest is a one-shot write. Invalidates lists the keys whose
// data the write changes.
type MutationRequest struct {
	Name        string
	Run         func(ctx context.Context) (any, error)
	Invalidates []Key
}

// Outcome is the result of one mutation run.
type Outcome struct {
	ID       string
	Data     any
	Err      error
	Duration time.Duration
}

// OK reports whether the mutation succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Runner executes mutations against a cache. It never retries and never
// coalesces; callers prevent double submission.
type Runner struct {
	cache *Cache
}

// NewRunner creates a runner that invalidates through cache.
func NewRunner(cache *Cache) *Runner {
	return &Runner{cache: cache}
}

// Run executes req once. On success every key in req.Invalidates is
// invalidated before Run returns; on failure nothing is.
func (r *Runner) Run(ctx context.Context, req MutationRequest) Outcome {
	out := Outcome{ID: uuid.NewString()}
	log := logging.With().Str("mutation", req.Name).Str("mutation_id", out.ID).Logger()

	if req.Run == nil {
		out.Err = ErrNoMutation
		return out
	}

	start := time.Now()
	out.Data, out.Err = callMutation(ctx, req.Run)
	out.Duration = time.Since(start)

	if out.Err != nil {
		log.Warn().Err(out.Err).Dur("duration", out.Duration).Msg("mutation failed")
		return out
	}

	for _, key := range req.Invalidates {
		r.cache.Invalidate(key)
	}
	log.Debug().
		Dur("duration", out.Duration).
		Int("invalidated", len(req.Invalidates)).
		Msg("mutation succeeded")
	return out
}

func callMutation(ctx context.Context, run func(context.Context) (any, error)) (any, error) {
	return safeCall(ctx, FetchFunc(run))
}
