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
	"fmt"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/overflo/pkg/storage"
	"github.com/walteh/overflo/pkg/testutils"
	"gitlab.com/tozd/go/errors"
)

func TestEventsArriveInOrder(t *testing.T) {
	ctx := testutils.Context(t)
	fs := afero.NewMemMapFs()

	var files []testutils.File
	for i := 0; i < 20; i++ {
		files = append(files, testutils.File{Name: fmt.Sprintf("f%02d.txt", i), Content: []byte{byte(i)}})
	}
	testutils.WriteFiles(t, fs, "/src", files...)
	testutils.WriteFiles(t, fs, "/dst")

	exec, err := NewExecutor(Options{Storage: storage.NewFS(fs, storage.FSOptions{}), Scan: scanOptions()})
	require.NoError(t, err)
	// a tiny buffer forces the worker to wait on the reader
	runner, err := NewRunner(exec, RunnerOptions{EventBuffer: 1})
	require.NoError(t, err)
	defer runner.Close()

	task, err := runner.Submit(ctx, request(ModeCopy))
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)

	var progress []Progress
	var completed []Completed
	for ev := range task.Events() {
		switch ev := ev.(type) {
		case Progress:
			require.Empty(t, completed, "no progress after completion")
			progress = append(progress, ev)
		case Completed:
			completed = append(completed, ev)
		}
	}

	require.Len(t, progress, 20)
	for i, p := range progress {
		assert.Equal(t, i, p.Index, "events must not be reordered")
		assert.Equal(t, fmt.Sprintf("f%02d.txt", i), p.Name)
	}
	require.Len(t, completed, 1, "exactly one terminal event")
	require.NoError(t, completed[0].Err)
	assert.Equal(t, 20, completed[0].Outcome.Success)

	_, open := <-task.Events()
	assert.False(t, open, "channel closes after completion")
}

func TestSubmitDoesNotWaitForTransfer(t *testing.T) {
	fx := newFixture(t, "a.txt", "b.txt", "c.txt")

	exec, err := NewExecutor(Options{Storage: fx.faulty, Scan: scanOptions()})
	require.NoError(t, err)
	runner, err := NewRunner(exec, RunnerOptions{PoolSize: 1, EventBuffer: 1})
	require.NoError(t, err)
	defer runner.Close()

	first, err := runner.Submit(fx.ctx, request(ModeCopy))
	require.NoError(t, err, "submit returns while the worker is blocked on its reader")

	_, err = runner.Submit(fx.ctx, request(ModeCopy))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRunnerBusy))

	outcome, err := first.Wait()
	require.NoError(t, err)
	assert.Equal(t, 3, outcome.Success)
}

func TestListingFailureAfterSubmit(t *testing.T) {
	fx := newFixture(t, "a.txt")

	exec, err := NewExecutor(Options{Storage: &vanishingStorage{Storage: fx.faulty}, Scan: scanOptions()})
	require.NoError(t, err)
	runner, err := NewRunner(exec, RunnerOptions{})
	require.NoError(t, err)
	defer runner.Close()

	rec := &recordingReporter{}
	outcome, err := runner.Run(fx.ctx, request(ModeCopy), rec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrDirectoryUnavailable))
	require.Len(t, rec.outcomes, 1, "a terminal outcome is still delivered")
	assert.Equal(t, 0, outcome.Attempted())
	assert.False(t, outcome.FinishedAt.IsZero())
}

func TestRunnerTimestamps(t *testing.T) {
	fx := newFixture(t, "a.txt", "b.txt")

	outcome, err := fx.runner.Run(fx.ctx, request(ModeCopy), nil)
	require.NoError(t, err)
	assert.Equal(t, fixedNow, outcome.StartedAt)
	assert.Equal(t, fixedNow, outcome.FinishedAt)
	assert.Equal(t, time.Duration(0), outcome.Duration())
	assert.Equal(t, ModeCopy, outcome.Mode)
	assert.Equal(t, "any age", outcome.TimeFilter)
}

// vanishingStorage resolves directories but fails to list them, as if the
// source disappeared between Submit and the worker starting
type vanishingStorage struct {
	storage.Storage
}

func (v *vanishingStorage) ListFiles(ctx context.Context, dir storage.Dir) ([]storage.Entry, error) {
	return nil, &storage.PathError{Kind: storage.ErrDirectoryUnavailable, Path: dir.Ref}
}
