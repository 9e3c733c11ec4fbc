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
	"strings"
	"sync"
	"time"

	"github.com/walteh/patchrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// ♻️ RestoreOperation puts <target>.bak back over each target
type RestoreOperation struct {
	BaseOperation

	mu       sync.Mutex
	restored int
}

// 🏭 NewRestoreOperation creates the restore operation
func NewRestoreOperation(opts Options) *RestoreOperation {
	return &RestoreOperation{BaseOperation: NewBaseOperation(opts)}
}

func (op *RestoreOperation) Name() string {
	return "restore"
}

// 🔄 Process restores one target from its backup
func (op *RestoreOperation) Process(ctx context.Context, target Target) error {
	start := time.Now()
	info := status.FileInfo{
		Path:  target.Path,
		Patch: patchNames(target),
	}

	if err := op.StatusMgr.RestoreFile(ctx, target.Path); err != nil {
		info.Status = status.StatusFailed
		info.Error = err
		op.report(ctx, info)
		return errors.Errorf("restoring %s: %w", target.Path, err)
	}

	content, err := op.StatusMgr.ReadFile(ctx, target.Path)
	if err != nil {
		return errors.Errorf("reading restored %s: %w", target.Path, err)
	}

	info.Status = status.StatusRestored
	info.Size = int64(len(content))
	info.Checksum = status.Checksum(content)
	op.report(ctx, info)

	op.mu.Lock()
	op.restored++
	op.mu.Unlock()

	op.Logger.Debug().Str("file", target.Path).Dur("took", time.Since(start)).Msg("restored target")
	return nil
}

// 🏁 Finish prints the run summary
func (op *RestoreOperation) Finish(ctx context.Context) error {
	op.mu.Lock()
	defer op.mu.Unlock()

	op.Console.Successf("%d file(s) restored", op.restored)
	return nil
}

func patchNames(target Target) string {
	names := make([]string, 0, len(target.Patches))
	for _, p := range target.Patches {
		names = append(names, p.Name)
	}
	return strings.Join(names, ",")
}
