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

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/overflo/pkg/status"
	"github.com/walteh/overflo/pkg/storage"
)

// 🎫 Task is the handle to one running transfer.
// Read its events either through Events or through Drain/Wait, not both.
type Task struct {
	ID      string
	Request Request

	events chan Event
}

func newTask(req Request, buffer int) *Task {
	return &Task{
		ID:      uuid.NewString(),
		Request: req,
		events:  make(chan Event, buffer),
	}
}

// Events yields every Progress in order, then one Completed, then closes
func (t *Task) Events() <-chan Event {
	return t.events
}

// 📣 Drain reads every event on the calling goroutine and hands it to reporter,
// which may be nil. It returns the final outcome and any error that kept the
// run from starting.
func (t *Task) Drain(ctx context.Context, reporter Reporter) (status.Outcome, error) {
	var done Completed
	for ev := range t.events {
		switch ev := ev.(type) {
		case Progress:
			if reporter != nil {
				reporter.Progress(ctx, ev)
			}
		case Completed:
			done = ev
			if reporter != nil {
				reporter.Complete(ctx, ev.Outcome)
			}
		}
	}
	return done.Outcome, done.Err
}

// Wait drains the task without reporting
func (t *Task) Wait() (status.Outcome, error) {
	return t.Drain(context.Background(), nil)
}

// run is the worker body; it owns the outcome until Completed is sent
func (t *Task) run(ctx context.Context, exec *Executor, src, dst storage.Dir) {
	defer close(t.events)
	logger := zerolog.Ctx(ctx)

	sel, err := exec.plan(ctx, t.Request, src, dst)
	if err != nil {
		logger.Error().Err(err).Msg("planning transfer")
		out := status.NewOutcome(t.Request.Mode, t.Request.Filter.TimeDescription(), exec.now())
		out.Finish(exec.now())
		t.events <- Completed{Outcome: *out, Err: err}
		return
	}

	outcome := exec.Execute(ctx, sel, func(ev Event) {
		t.events <- ev
	})

	logger.Info().
		Int("success", outcome.Success).
		Int("failure", outcome.Failure).
		Dur("took", outcome.Duration()).
		Msg("transfer complete")

	t.events <- Completed{Outcome: outcome}
}
