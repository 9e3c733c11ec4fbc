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
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/status"
	"github.com/walteh/patchrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔨 ApplyOperation rewrites targets with their patches. In check mode it
// only reports whether every patch would apply.
type ApplyOperation struct {
	BaseOperation
	replacer text.TextReplacer
	check    bool

	mu        sync.Mutex
	changed   []string
	unmatched []status.FileInfo
}

// 🏭 NewApplyOperation creates the apply operation
func NewApplyOperation(opts Options) *ApplyOperation {
	return &ApplyOperation{
		BaseOperation: NewBaseOperation(opts),
		replacer:      text.NewRegexpReplacer(),
	}
}

// 🏭 NewCheckOperation creates an apply operation that never writes and fails
// when any patch would not apply
func NewCheckOperation(opts Options) *ApplyOperation {
	opts.DryRun = true
	opts.RequireMatch = true
	opts.Backup = false
	op := NewApplyOperation(opts)
	op.check = true
	return op
}

func (op *ApplyOperation) Name() string {
	if op.check {
		return "check"
	}
	return "apply"
}

// 🔄 Process applies the target's patches in order and writes the file once
func (op *ApplyOperation) Process(ctx context.Context, target Target) error {
	start := time.Now()

	raw, err := op.StatusMgr.ReadFile(ctx, target.Path)
	if err != nil {
		op.fail(ctx, target, start, err)
		return errors.Errorf("reading %s: %w", target.Path, err)
	}

	content := raw
	infos := make([]status.FileInfo, 0, len(target.Patches))

	for _, p := range target.Patches {
		info := status.FileInfo{
			Path:  target.Path,
			Patch: p.Name,
		}

		next, match, err := op.patch(ctx, content, p)
		if err != nil {
			op.fail(ctx, target, start, err)
			return errors.Errorf("patch %q: %w", p.Name, err)
		}

		if match == nil {
			info.Status = status.StatusNoMatch
		} else {
			info.Status = status.StatusPatched
			if op.DryRun {
				info.Status = status.StatusWouldPatch
			}
			info.Start = match.Start
			info.End = match.End
			content = next
		}
		infos = append(infos, info)
	}

	modified := !bytes.Equal(raw, content)

	if modified && op.DryRun && !op.check {
		op.Console.Diff(text.LineDiff(target.Path, string(raw), string(content)))
	}

	if modified && !op.DryRun {
		if err := op.write(ctx, target.Path, content); err != nil {
			op.fail(ctx, target, start, err)
			return err
		}
	}

	stat, err := op.StatusMgr.Stat(ctx, target.Path)
	if err != nil {
		return errors.Errorf("stat %s: %w", target.Path, err)
	}

	onDisk := content
	if op.DryRun {
		onDisk = raw
	}

	for _, info := range infos {
		info.Size = stat.Size()
		info.Mode = stat.Mode()
		info.Checksum = status.Checksum(onDisk)
		op.report(ctx, info)
	}

	op.record(target.Path, modified, infos)

	op.Logger.Debug().
		Str("file", target.Path).
		Bool("modified", modified).
		Dur("took", time.Since(start)).
		Msg("processed target")

	return nil
}

// patch runs one patch against content, returning the new bytes and the match
// or a nil match when the pattern found nothing
func (op *ApplyOperation) patch(ctx context.Context, content []byte, p config.Patch) ([]byte, *text.Match, error) {
	codec, err := text.LookupCodec(p.Encoding)
	if err != nil {
		return nil, nil, err
	}

	decoded, err := codec.Decode(content)
	if err != nil {
		return nil, nil, errors.Errorf("encoding error: %w", err)
	}

	result, err := op.replacer.ReplaceText(ctx, strings.NewReader(decoded), []text.ReplacementRule{p.Rule()})
	if err != nil {
		return nil, nil, err
	}

	if len(result.Matches) == 0 {
		return content, nil, nil
	}

	encoded, err := codec.Encode(string(result.ModifiedContent))
	if err != nil {
		return nil, nil, errors.Errorf("encoding error: %w", err)
	}

	return encoded, &result.Matches[0], nil
}

// write stores content over path, keeping a backup first when asked to
func (op *ApplyOperation) write(ctx context.Context, path string, content []byte) error {
	if op.Backup {
		if err := op.StatusMgr.BackupFile(ctx, path); err != nil {
			return errors.Errorf("backing up %s: %w", path, err)
		}
	}

	if err := op.StatusMgr.WriteFile(ctx, path, content); err != nil {
		return errors.Errorf("writing %s: %w", path, err)
	}

	return nil
}

// fail reports every patch on target as failed
func (op *ApplyOperation) fail(ctx context.Context, target Target, start time.Time, err error) {
	op.Logger.Error().Err(err).Str("file", target.Path).Dur("took", time.Since(start)).Msg("patching failed")

	for _, p := range target.Patches {
		op.report(ctx, status.FileInfo{
			Path:   target.Path,
			Patch:  p.Name,
			Status: status.StatusFailed,
			Error:  err,
		})
	}
}

func (op *ApplyOperation) record(path string, modified bool, infos []status.FileInfo) {
	op.mu.Lock()
	defer op.mu.Unlock()

	if modified {
		op.changed = append(op.changed, path)
	}
	for _, info := range infos {
		if info.Status == status.StatusNoMatch {
			op.unmatched = append(op.unmatched, info)
		}
	}
}

// 🏁 Finish prints the run summary. A pattern that found nothing is a warning,
// or an error wrapping text.ErrNoMatch when a match is required.
func (op *ApplyOperation) Finish(ctx context.Context) error {
	op.mu.Lock()
	defer op.mu.Unlock()

	sort.Strings(op.changed)
	sort.Slice(op.unmatched, func(i, j int) bool {
		if op.unmatched[i].Path != op.unmatched[j].Path {
			return op.unmatched[i].Path < op.unmatched[j].Path
		}
		return op.unmatched[i].Patch < op.unmatched[j].Patch
	})

	for _, info := range op.unmatched {
		if op.check {
			op.Console.Warningf("pattern %q would not apply to %s", info.Patch, info.Path)
		} else {
			op.Console.Warningf("pattern %q not found in %s; file left unchanged", info.Patch, info.Path)
		}
	}

	switch {
	case op.check:
		if len(op.unmatched) == 0 {
			op.Console.Success("All patches apply")
		}
	case op.DryRun:
		op.Console.Infof("dry run: %d file(s) would be updated", len(op.changed))
	case len(op.changed) == 1:
		op.Console.Success("File updated successfully!")
	case len(op.changed) > 1:
		op.Console.Successf("%d files updated successfully!", len(op.changed))
	}

	if len(op.unmatched) > 0 && op.RequireMatch {
		return errors.Errorf("%d patch(es) did not match: %w", len(op.unmatched), text.ErrNoMatch)
	}

	return nil
}

// Changed returns the files the run modified, or would modify in a dry run
func (op *ApplyOperation) Changed() []string {
	op.mu.Lock()
	defer op.mu.Unlock()
	return append([]string(nil), op.changed...)
}
