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
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewRestoreCmd creates the restore command
func NewRestoreCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Put <target>.bak back over each target",
		Long: `Restore copies the backup written by apply --backup over each target and
removes the backup. A target without a backup is an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd.Context(), o, "restore", operation.Options{}, func(options operation.Options) operation.Operation {
				return operation.NewRestoreOperation(options)
			})
			if err != nil {
				return errors.Errorf("restoring backups: %w", err)
			}
			return nil
		},
	}
}
