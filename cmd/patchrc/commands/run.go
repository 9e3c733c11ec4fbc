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

package commands

import (
	"context"

	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/operation"
	"github.com/walteh/patchrc/pkg/status"
)

// newOperationFunc builds the operation a command runs
type newOperationFunc func(operation.Options) operation.Operation

// run loads the patch set and drives one operation over the workspace
func run(ctx context.Context, o *opts.RootOpts, command string, options operation.Options, newOp newOperationFunc) error {
	cfg, source, err := o.LoadConfig(ctx)
	if err != nil {
		return err
	}

	mgr := status.NewManager(o.Dir, status.NewDefaultFileFormatter())
	console := log.FromContext(ctx)

	options.Config = cfg
	options.StatusMgr = mgr
	options.Console = console
	options.Logger = &o.Logger

	console.StartRun(ctx, log.RunOperation{
		Command: command,
		Root:    mgr.BaseDir(),
		Source:  source,
		DryRun:  options.DryRun,
	})
	defer console.EndRun(ctx)

	return operation.NewRunner(&o.Logger, mgr, o.Async).Run(ctx, newOp(options))
}
