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

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/commands"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
)

// newRootOpts creates root options bound to the process streams
func newRootOpts() *opts.RootOpts {
	return opts.New(os.Stdout, os.Stderr)
}

// newRootCmd builds the command tree. Running the root command applies the
// patch set, same as apply.
func newRootCmd(o *opts.RootOpts) *cobra.Command {
	flags := &commands.ApplyFlags{}

	cmd := &cobra.Command{
		Use:   "patchrc",
		Short: "Rewrite source files by replacing a pattern's first match",
		Long: `patchrc rewrites files in place: for each patch it replaces the first span
matching a regular expression with literal replacement text.

With no --config it applies the built-in patch, which replaces the
getAdminProducts function in src/lib/api/admin.js with a filtering version.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(o.Setup(cmd.Context()))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunApply(cmd, o, flags)
		},
	}

	addRootFlags(cmd, o)
	commands.AddApplyFlags(cmd, flags)

	cmd.AddCommand(
		commands.NewApplyCmd(o),
		commands.NewCheckCmd(o),
		commands.NewRestoreCmd(o),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.Dir, "dir", "C", ".", "workspace root targets resolve against")
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "patch set file (.yaml, .json or .hcl); empty uses the built-in patch")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&o.Async, "async", false, "patch different files concurrently")
}
