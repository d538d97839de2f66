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
	"github.com/spf13/cobra"
	"github.com/walteh/overflo/cmd/overflo/commands"
	"github.com/walteh/overflo/cmd/overflo/opts"
)

func newRootCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overflo",
		Short: "Move or copy a slice of a directory's files somewhere else",
		Long: `overflo frees up space by transferring a percentage of the files in a
directory that match size, age and type filters to another directory.

Ad hoc transfers use the copy and move commands. Named transfers are read
from a job file (overflo.hcl, overflo.yaml or overflo.json) by run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if o.Console == nil {
				o.Console = cmd.OutOrStdout()
			}
			cmd.SetContext(o.Setup(cmd.Context(), o.Level()))
		},
	}

	addRootFlags(cmd, o)

	cmd.AddCommand(
		commands.NewCopyCmd(o),
		commands.NewMoveCmd(o),
		commands.NewRunCmd(o),
		commands.NewHistoryCmd(o),
		newVersionCmd(),
	)

	return cmd
}

func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "job file path (default: overflo.hcl, overflo.yaml or overflo.json in the working directory)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&o.HistoryFile, "history-file", "", "history database path (default from the job file or ~/.overflo/history.db)")
	cmd.PersistentFlags().BoolVar(&o.NoHistory, "no-history", false, "do not record runs")
}
