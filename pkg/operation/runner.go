// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 OperationRunner executes operations
type OperationRunner struct {
	logger   *zerolog.Logger
	reporter status.StatusReporter
	async    bool
	limit    int
}

// 🏗️ NewRunner creates a new runner. With async set, distinct files are
// processed concurrently; each file is still handled by one goroutine.
func NewRunner(logger *zerolog.Logger, reporter status.StatusReporter, async bool) *OperationRunner {
	return &OperationRunner{
		logger:   logger,
		reporter: reporter,
		async:    async,
		limit:    runtime.NumCPU(),
	}
}

// 🏃 Run executes an operation
func (r *OperationRunner) Run(ctx context.Context, op Operation) error {
	r.logger.Debug().Str("operation", op.Name()).Bool("async", r.async).Msg("running operation")

	targets, err := op.Targets(ctx)
	if err != nil {
		return errors.Errorf("resolving targets: %w", err)
	}

	r.reporter.StartOperation(ctx, len(targets))
	defer r.reporter.FinishOperation(ctx)

	if r.async {
		err = r.runAsync(ctx, op, targets)
	} else {
		err = r.runSync(ctx, op, targets)
	}
	if err != nil {
		return err
	}

	return op.Finish(ctx)
}

// 🔄 runSync processes targets one after another, stopping at the first error
func (r *OperationRunner) runSync(ctx context.Context, op Operation, targets []Target) error {
	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation cancelled: %w", err)
		}
		if err := op.Process(ctx, target); err != nil {
			return errors.Errorf("processing %s: %w", target.Path, err)
		}
		r.reporter.UpdateProgress(ctx, i+1)
	}
	return nil
}

// ⚡ runAsync processes targets concurrently; the first error cancels the rest
func (r *OperationRunner) runAsync(ctx context.Context, op Operation, targets []Target) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)

	var processed atomic.Int64
	for _, target := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Errorf("operation cancelled: %w", err)
			}
			if err := op.Process(gctx, target); err != nil {
				return errors.Errorf("processing %s: %w", target.Path, err)
			}
			r.reporter.UpdateProgress(ctx, int(processed.Add(1)))
			return nil
		})
	}

	return g.Wait()
}
