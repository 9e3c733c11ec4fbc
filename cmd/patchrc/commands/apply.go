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

// ApplyFlags are the flags shared by the root command and apply
type ApplyFlags struct {
	DryRun       bool
	Backup       bool
	RequireMatch bool
}

// AddApplyFlags registers the apply flags on cmd
func AddApplyFlags(cmd *cobra.Command, flags *ApplyFlags) {
	cmd.Flags().BoolVarP(&flags.DryRun, "dry-run", "n", false, "print a diff instead of writing")
	cmd.Flags().BoolVarP(&flags.Backup, "backup", "b", false, "copy each target to <target>.bak before writing")
	cmd.Flags().BoolVar(&flags.RequireMatch, "require-match", false, "fail when a pattern is not found")
}

// RunApply applies the patch set
func RunApply(cmd *cobra.Command, o *opts.RootOpts, flags *ApplyFlags) error {
	err := run(cmd.Context(), o, "apply", operation.Options{
		DryRun:       flags.DryRun,
		Backup:       flags.Backup,
		RequireMatch: flags.RequireMatch,
	}, func(options operation.Options) operation.Operation {
		return operation.NewApplyOperation(options)
	})
	if err != nil {
		return errors.Errorf("applying patches: %w", err)
	}
	return nil
}

// NewApplyCmd creates the apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	flags := &ApplyFlags{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Replace each pattern's first match with its replacement",
		Long: `Apply reads every target, replaces the first match of each pattern with the
literal replacement text and writes the file back in place.

A pattern that finds nothing leaves the file untouched and prints a warning.
Pass --require-match to make that an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunApply(cmd, o, flags)
		},
	}

	AddApplyFlags(cmd, flags)
	return cmd
}
