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

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
	"github.com/walteh/overflo/pkg/status"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultPoolSize bounds how many requests transfer at the same time
	DefaultPoolSize = 4
	// DefaultEventBuffer is how many events a worker may get ahead of its reader
	DefaultEventBuffer = 16
)

// ErrRunnerBusy is returned by Submit when every worker is already running a request
var ErrRunnerBusy = errors.New("all transfer workers are busy")

// 🔧 RunnerOptions configures a Runner
type RunnerOptions struct {
	PoolSize    int
	EventBuffer int
}

// 🏃 Runner schedules one worker per submitted request on a bounded pool
type Runner struct {
	exec   *Executor
	pool   *ants.Pool
	buffer int
}

// 🏭 NewRunner creates a Runner around exec
func NewRunner(exec *Executor, opts RunnerOptions) (*Runner, error) {
	if exec == nil {
		return nil, errors.Errorf("executor is required")
	}
	size := opts.PoolSize
	if size <= 0 {
		size = DefaultPoolSize
	}
	buffer := opts.EventBuffer
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}

	pool, err := ants.NewPool(size, ants.WithNonblocking(true))
	if err != nil {
		return nil, errors.Errorf("creating worker pool: %w", err)
	}

	return &Runner{exec: exec, pool: pool, buffer: buffer}, nil
}

// 🚀 Submit validates req, resolves both directories and starts the transfer on
// a pool worker. It does not wait for any file to be transferred. A directory
// that cannot be resolved fails here, before anything is scheduled.
func (r *Runner) Submit(ctx context.Context, req Request) (*Task, error) {
	src, dst, err := r.exec.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	task := newTask(req, r.buffer)
	logger := zerolog.Ctx(ctx).With().Str("task", task.ID).Str("mode", string(req.Mode)).Logger()
	workerCtx := logger.WithContext(ctx)

	err = r.pool.Submit(func() {
		task.run(workerCtx, r.exec, src, dst)
	})
	if err != nil {
		if errors.Is(err, ants.ErrPoolOverload) {
			return nil, errors.Errorf("submitting %q: %w", req.Name, ErrRunnerBusy)
		}
		return nil, errors.Errorf("submitting %q: %w", req.Name, err)
	}

	logger.Debug().Str("source", src.Ref).Str("destination", dst.Ref).Msg("transfer scheduled")
	return task, nil
}

// Run submits req and drains its events into reporter on the calling goroutine
func (r *Runner) Run(ctx context.Context, req Request, reporter Reporter) (status.Outcome, error) {
	task, err := r.Submit(ctx, req)
	if err != nil {
		return status.Outcome{}, err
	}
	return task.Drain(ctx, reporter)
}

// Close releases the worker pool. Tasks already running finish their selection.
func (r *Runner) Close() {
	r.pool.Release()
}
