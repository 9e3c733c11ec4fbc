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

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// ErrNoTargets is returned when a glob target resolves to no files
var ErrNoTargets = errors.Base("target matched no files")

// 🎯 Operation is a unit of work the runner drives target by target
type Operation interface {
	// Name is the command name shown to the operator
	Name() string
	// Targets resolves the files the operation touches
	Targets(ctx context.Context) ([]Target, error)
	// Process handles a single file
	Process(ctx context.Context, target Target) error
	// Finish runs once every target was processed
	Finish(ctx context.Context) error
}

// 📄 Target is one resolved file and the patches that apply to it, in
// declaration order
type Target struct {
	Path    string
	Patches []config.Patch
}

// 🔧 Options contains configuration for operations
type Options struct {
	// Config is the patch set
	Config *config.Config
	// StatusMgr reads, writes and tracks files under the workspace root
	StatusMgr *status.Manager
	// Console receives operator-facing output
	Console *log.Logger
	// Logger receives structured records
	Logger *zerolog.Logger

	// DryRun computes results and prints a diff without writing
	DryRun bool
	// Backup copies each target to <target>.bak before writing it
	Backup bool
	// RequireMatch fails the run when any patch finds nothing
	RequireMatch bool
}

// BaseOperation holds what every operation shares
type BaseOperation struct {
	Options
}

// 🏭 NewBaseOperation creates a base operation, filling in a no-op logger
func NewBaseOperation(opts Options) BaseOperation {
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}
	return BaseOperation{Options: opts}
}

// 🔍 Targets expands every patch target and groups patches by file. Files
// keep the order in which they were first named.
func (op *BaseOperation) Targets(ctx context.Context) ([]Target, error) {
	if op.Config == nil {
		return nil, errors.Errorf("config is required")
	}

	var targets []Target
	index := make(map[string]int)

	for _, p := range op.Config.Patches {
		paths, err := op.StatusMgr.Glob(ctx, p.Target)
		if err != nil {
			return nil, errors.Errorf("patch %q: %w", p.Name, err)
		}
		if len(paths) == 0 {
			return nil, errors.Errorf("patch %q: %s: %w", p.Name, p.Target, ErrNoTargets)
		}

		for _, path := range paths {
			i, ok := index[path]
			if !ok {
				i = len(targets)
				index[path] = i
				targets = append(targets, Target{Path: path})
			}
			targets[i].Patches = append(targets[i].Patches, p)
		}
	}

	op.Logger.Debug().Int("targets", len(targets)).Msg("resolved targets")
	return targets, nil
}

// 📝 report tracks an outcome and prints it
func (op *BaseOperation) report(ctx context.Context, info status.FileInfo) {
	op.StatusMgr.TrackFile(ctx, info.Path, info)
	op.Console.LogPatchOperation(ctx, log.PatchOperation{
		Path:   info.Path,
		Patch:  info.Patch,
		Status: info.Status,
		Start:  info.Start,
		End:    info.End,
	})
}
