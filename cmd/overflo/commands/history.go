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
	"fmt"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/overflo/cmd/overflo/opts"
	"github.com/walteh/overflo/pkg/history"
	"github.com/walteh/overflo/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd(o *opts.RootOpts) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past transfers, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := o.History(ctx)
			if err != nil {
				return err
			}
			if store == nil {
				o.Logger.Warning("history is disabled")
				return nil
			}
			defer store.Close()

			runs, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				o.Logger.Info("no transfers recorded yet")
				return nil
			}

			table, err := renderRuns(runs)
			if err != nil {
				return errors.Errorf("rendering history: %w", err)
			}
			fmt.Fprintln(o.Console, table)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show, 0 for all")
	return cmd
}

// 📋 renderRuns lays runs out as a table
func renderRuns(runs []history.Run) (string, error) {
	data := pterm.TableData{
		{"Started", "Job", "Mode", "Done", "Failed", "Size", "Took", "Filter"},
	}
	for _, run := range runs {
		job := run.Job
		if job == "" {
			job = "-"
		}
		failed := strconv.Itoa(run.Failure)
		if run.Error != "" {
			failed = "error: " + run.Error
		}
		data = append(data, []string{
			run.StartedAt.Local().Format(time.DateTime),
			job,
			string(run.Mode),
			strconv.Itoa(run.Success),
			failed,
			status.HumanBytes(run.Bytes),
			run.Duration().Round(time.Millisecond).String(),
			run.Filter,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}
