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
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/status"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errBoom = errors.Base("boom")

// fakeOperation records what the runner hands it
type fakeOperation struct {
	targets  []Target
	failOn   string
	delay    time.Duration
	finished atomic.Bool

	mu        sync.Mutex
	processed []string
	inFlight  atomic.Int32
	peak      atomic.Int32
}

func (f *fakeOperation) Name() string { return "fake" }

func (f *fakeOperation) Targets(ctx context.Context) ([]Target, error) {
	return f.targets, nil
}

func (f *fakeOperation) Process(ctx context.Context, target Target) error {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.peak.Load()
		if n <= peak || f.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if target.Path == f.failOn {
		return errBoom
	}

	f.mu.Lock()
	f.processed = append(f.processed, target.Path)
	f.mu.Unlock()
	return nil
}

func (f *fakeOperation) Finish(ctx context.Context) error {
	f.finished.Store(true)
	return nil
}

func targetsNamed(n int) []Target {
	targets := make([]Target, 0, n)
	for i := 0; i < n; i++ {
		targets = append(targets, Target{Path: fmt.Sprintf("file-%02d.js", i)})
	}
	return targets
}

func TestRunner(t *testing.T) {
	tests := []struct {
		name          string
		async         bool
		failOn        string
		wantErr       bool
		wantProcessed int
		wantFinished  bool
	}{
		{name: "sync_all", async: false, wantProcessed: 8, wantFinished: true},
		{name: "async_all", async: true, wantProcessed: 8, wantFinished: true},
		{name: "sync_stops_at_first_error", async: false, failOn: "file-03.js", wantErr: true, wantProcessed: 3},
		{name: "async_error", async: true, failOn: "file-03.js", wantErr: true, wantProcessed: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zerolog.Nop()
			ctx := logger.WithContext(context.Background())
			mgr := status.NewManager(t.TempDir(), nil)

			op := &fakeOperation{targets: targetsNamed(8), failOn: tt.failOn}
			err := NewRunner(&logger, mgr, tt.async).Run(ctx, op)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errBoom))
				assert.Contains(t, err.Error(), "processing "+tt.failOn)
			} else {
				require.NoError(t, err)
			}

			if tt.wantProcessed >= 0 {
				assert.Len(t, op.processed, tt.wantProcessed)
			}
			assert.Equal(t, tt.wantFinished, op.finished.Load())
		})
	}
}

func TestRunner_SyncKeepsOrder(t *testing.T) {
	logger := zerolog.Nop()
	op := &fakeOperation{targets: targetsNamed(5)}

	require.NoError(t, NewRunner(&logger, status.NewManager(t.TempDir(), nil), false).Run(context.Background(), op))

	want := make([]string, 0, 5)
	for _, target := range op.targets {
		want = append(want, target.Path)
	}
	assert.Equal(t, want, op.processed)
	assert.Equal(t, int32(1), op.peak.Load())
}

func TestRunner_AsyncRunsConcurrently(t *testing.T) {
	logger := zerolog.Nop()
	op := &fakeOperation{targets: targetsNamed(4), delay: 50 * time.Millisecond}

	runner := NewRunner(&logger, status.NewManager(t.TempDir(), nil), true)
	runner.limit = 4

	require.NoError(t, runner.Run(context.Background(), op))
	assert.ElementsMatch(t, []string{"file-00.js", "file-01.js", "file-02.js", "file-03.js"}, op.processed)
	assert.Greater(t, op.peak.Load(), int32(1))
}

func TestRunner_Cancelled(t *testing.T) {
	logger := zerolog.Nop()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, async := range []bool{false, true} {
		op := &fakeOperation{targets: targetsNamed(3)}
		err := NewRunner(&logger, status.NewManager(t.TempDir(), nil), async).Run(ctx, op)
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.False(t, op.finished.Load())
	}
}

func TestRunner_AsyncApply(t *testing.T) {
	h := newHarness(t)

	patches := make([]config.Patch, 0, 6)
	for i := 0; i < 6; i++ {
		file := fmt.Sprintf("pkg/file-%d.js", i)
		h.write(t, file, []byte("let version = 1;\nlet version = 1;\n"), 0o644)
		patches = append(patches,
			config.Patch{Name: fmt.Sprintf("first-%d", i), Target: file, Pattern: `version = 1`, Replacement: "version = 2"},
			config.Patch{Name: fmt.Sprintf("second-%d", i), Target: file, Pattern: `version = 2`, Replacement: "version = 3"},
		)
	}

	op := NewApplyOperation(h.options(&config.Config{Patches: patches}))
	logger := zerolog.Nop()
	require.NoError(t, NewRunner(&logger, h.mgr, true).Run(logger.WithContext(context.Background()), op))

	for i := 0; i < 6; i++ {
		assert.Equal(t, "let version = 3;\nlet version = 1;\n", string(h.read(t, fmt.Sprintf("pkg/file-%d.js", i))))
	}
	assert.Contains(t, h.console.String(), "6 files updated successfully!")
	assert.Len(t, op.Changed(), 6)
}

func TestRunner_AsyncGroupsPathSpellings(t *testing.T) {
	h := newHarness(t)
	h.write(t, "a.js", []byte("let one = 1;\nlet two = 2;\nlet three = 3;\n"), 0o644)

	cfg := &config.Config{Patches: []config.Patch{
		{Name: "one", Target: "a.js", Pattern: `one = 1`, Replacement: "one = 10"},
		{Name: "two", Target: "./a.js", Pattern: `two = 2`, Replacement: "two = 20"},
		{Name: "three", Target: "sub/../a.js", Pattern: `three = 3`, Replacement: "three = 30"},
	}}

	op := NewApplyOperation(h.options(cfg))
	logger := zerolog.Nop()
	ctx := logger.WithContext(context.Background())

	targets, err := op.Targets(ctx)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "a.js", targets[0].Path)
	assert.Len(t, targets[0].Patches, 3)

	require.NoError(t, NewRunner(&logger, h.mgr, true).Run(ctx, op))
	assert.Equal(t, "let one = 10;\nlet two = 20;\nlet three = 30;\n", string(h.read(t, "a.js")))
	assert.Equal(t, []string{"a.js"}, op.Changed())
}
