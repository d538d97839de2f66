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

	"github.com/spf13/cobra"
	"github.com/walteh/overflo/cmd/overflo/opts"
	"github.com/walteh/overflo/pkg/config"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// NewRunCmd creates the run command
func NewRunCmd(o *opts.RootOpts) *cobra.Command {
	var (
		dryRun     bool
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "run [job...]",
		Short: "Run transfers from the job file",
		Long: `Run executes the named transfers from the job file, or all of them when
no name is given. At most "parallel" transfers run at the same time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := o.Config(ctx)
			if err != nil {
				return err
			}
			if cfg == nil {
				return errors.Errorf("no job file found, pass one with --config")
			}
			if !o.Debug {
				ctx = o.Setup(ctx, cfg.LogLevel())
			}

			jobs, err := selectJobs(cfg, args)
			if err != nil {
				return err
			}

			journal, err := o.History(ctx)
			if err != nil {
				return err
			}
			if journal != nil {
				defer journal.Close()
			}

			o.Logger.Header(fmt.Sprintf("running %d of %d transfers", len(jobs), len(cfg.Transfers)))

			// bars from concurrent jobs would overwrite each other
			progress := !noProgress && cfg.Parallel == 1

			g := new(errgroup.Group)
			g.SetLimit(cfg.Parallel)
			for _, job := range jobs {
				g.Go(func() error {
					req, err := job.Request()
					if err != nil {
						return errors.Errorf("%s: %w", job.Name, err)
					}
					t := transfer{
						request:  req,
						scan:     job.ScanOptions(),
						storage:  job.StorageOptions(),
						dryRun:   dryRun,
						progress: progress,
					}
					store := journal
					if dryRun {
						store = nil
					}
					if _, err := runTransfer(ctx, o, t, store); err != nil {
						o.Logger.Errorf("%s: %v", job.Name, err)
						return errors.Errorf("%s: %w", job.Name, err)
					}
					return nil
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be transferred without doing it")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "do not draw a progress bar")
	return cmd
}

// selectJobs returns the jobs named in args, or every job when args is empty
func selectJobs(cfg *config.Config, args []string) ([]*config.Job, error) {
	var jobs []*config.Job
	if len(args) == 0 {
		for i := range cfg.Transfers {
			jobs = append(jobs, &cfg.Transfers[i])
		}
		return jobs, nil
	}
	for _, name := range args {
		job, err := cfg.Job(name)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
