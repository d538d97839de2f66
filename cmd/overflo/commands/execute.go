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
	"strings"
	"time"

	"github.com/walteh/overflo/cmd/overflo/opts"
	"github.com/walteh/overflo/pkg/history"
	"github.com/walteh/overflo/pkg/log"
	"github.com/walteh/overflo/pkg/operation"
	"github.com/walteh/overflo/pkg/scan"
	"github.com/walteh/overflo/pkg/status"
	"github.com/walteh/overflo/pkg/storage"
	"gitlab.com/tozd/go/errors"
)

// ErrFilesFailed is returned when a transfer finished but some files did not make it
var ErrFilesFailed = errors.New("some files failed to transfer")

// transfer is everything a command needs to run one request
type transfer struct {
	request  operation.Request
	scan     scan.Options
	storage  storage.FSOptions
	dryRun   bool
	progress bool
}

// runTransfer runs t to completion, prints its result and journals it
func runTransfer(ctx context.Context, o *opts.RootOpts, t transfer, journal *history.Store) (status.Outcome, error) {
	req := t.request
	o.Logger.StartTransfer(ctx, log.TransferOperation{
		Name:        req.Name,
		Source:      req.Source,
		Destination: req.Destination,
		Mode:        req.Mode,
		Filter:      req.Filter.String(),
		DryRun:      t.dryRun,
	})

	exec, err := operation.NewExecutor(operation.Options{
		Storage: storage.NewOsFS(t.storage),
		Scan:    t.scan,
	})
	if err != nil {
		return status.Outcome{}, errors.Errorf("creating executor: %w", err)
	}

	if t.dryRun {
		return status.Outcome{}, plan(ctx, o, exec, req)
	}

	runner, err := operation.NewRunner(exec, operation.RunnerOptions{})
	if err != nil {
		return status.Outcome{}, errors.Errorf("creating runner: %w", err)
	}
	defer runner.Close()

	var reporter operation.Reporter = o.Logger
	if t.progress {
		reporter = newProgressReporter(o.Logger, req.Mode.Verb())
	}

	started := time.Now()
	outcome, runErr := runner.Run(ctx, req, reporter)

	o.Logger.LogNewline()

	if journal != nil {
		if err := record(ctx, journal, req, outcome, runErr, started); err != nil {
			o.Logger.Warningf("run not recorded in history: %v", err)
		}
	}

	if runErr != nil {
		return outcome, runErr
	}
	if outcome.Failure > 0 {
		return outcome, errors.Errorf("%w: %d of %d", ErrFilesFailed, outcome.Failure, outcome.Attempted())
	}
	return outcome, nil
}

func record(ctx context.Context, journal *history.Store, req operation.Request, outcome status.Outcome, runErr error, started time.Time) error {
	// a request that failed before a worker picked it up has no timestamps
	if outcome.StartedAt.IsZero() {
		outcome.StartedAt = started
		outcome.FinishedAt = time.Now()
	}
	if outcome.Mode == "" {
		outcome.Mode = req.Mode
	}

	run := history.RunFromOutcome(req.Name, req.Source, req.Destination, req.Filter.String(), outcome, runErr)
	_, err := journal.Record(ctx, run)
	return err
}

// plan prints what a transfer would do without touching any file
func plan(ctx context.Context, o *opts.RootOpts, exec *operation.Executor, req operation.Request) error {
	sel, err := exec.Plan(ctx, req)
	if err != nil {
		return err
	}

	verb := strings.ToLower(req.Mode.Verb())
	for _, entry := range sel.Selected {
		o.Logger.Infof("%s %s (%s)", verb, entry.Name, status.HumanBytes(entry.Size))
	}
	o.Logger.Successf("dry run: %d of %d matching files selected, %d scanned",
		len(sel.Selected), len(sel.Candidates), len(sel.Scanned))
	return nil
}
