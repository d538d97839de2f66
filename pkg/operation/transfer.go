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
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/overflo/pkg/filter"
	"github.com/walteh/overflo/pkg/scan"
	"github.com/walteh/overflo/pkg/status"
	"github.com/walteh/overflo/pkg/storage"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options configures an Executor
type Options struct {
	// Storage is the file system the transfer reads from and writes to
	Storage storage.Storage
	// Scan configures source enumeration
	Scan scan.Options
	// Now is the clock used for time filters and timestamps, time.Now when nil
	Now func() time.Time
}

// 🏃 Executor turns a Request into transferred files
type Executor struct {
	store   storage.Storage
	scanner *scan.Scanner
	now     func() time.Time
}

// 🏭 NewExecutor creates an Executor
func NewExecutor(opts Options) (*Executor, error) {
	if opts.Storage == nil {
		return nil, errors.Errorf("storage is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Executor{
		store:   opts.Storage,
		scanner: scan.New(opts.Storage, opts.Scan),
		now:     now,
	}, nil
}

// 📋 Selection is a planned transfer: what was found, what matched and what will move
type Selection struct {
	Request     Request
	Source      storage.Dir
	Destination storage.Dir
	Scanned     []storage.Entry
	Candidates  []storage.Entry
	Selected    []storage.Entry
	PlannedAt   time.Time
}

// Plan resolves, lists, filters and selects without transferring anything
func (e *Executor) Plan(ctx context.Context, req Request) (*Selection, error) {
	src, dst, err := e.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	return e.plan(ctx, req, src, dst)
}

// resolve validates the request and resolves both directories
func (e *Executor) resolve(ctx context.Context, req Request) (storage.Dir, storage.Dir, error) {
	if err := req.Validate(); err != nil {
		return storage.Dir{}, storage.Dir{}, err
	}
	src, err := e.scanner.Resolve(ctx, req.Source)
	if err != nil {
		return storage.Dir{}, storage.Dir{}, errors.Errorf("source: %w", err)
	}
	dst, err := e.scanner.Resolve(ctx, req.Destination)
	if err != nil {
		return storage.Dir{}, storage.Dir{}, errors.Errorf("destination: %w", err)
	}
	return src, dst, nil
}

func (e *Executor) plan(ctx context.Context, req Request, src, dst storage.Dir) (*Selection, error) {
	now := e.now()

	scanned, err := e.scanner.List(ctx, src)
	if err != nil {
		return nil, err
	}
	candidates := req.Filter.Apply(scanned, now.UnixMilli())
	selected := filter.Select(candidates, req.Filter.Percentage)

	zerolog.Ctx(ctx).Debug().
		Str("source", src.Ref).
		Int("scanned", len(scanned)).
		Int("candidates", len(candidates)).
		Int("selected", len(selected)).
		Str("filter", req.Filter.String()).
		Msg("planned transfer")

	return &Selection{
		Request:     req,
		Source:      src,
		Destination: dst,
		Scanned:     scanned,
		Candidates:  candidates,
		Selected:    selected,
		PlannedAt:   now,
	}, nil
}

// ⚡ Execute transfers every selected entry in order. A failing file is
// recorded and never stops the files after it. emit receives one Progress
// per file before its attempt; it is called on the executing goroutine.
func (e *Executor) Execute(ctx context.Context, sel *Selection, emit func(Event)) status.Outcome {
	logger := zerolog.Ctx(ctx)
	mode := sel.Request.Mode

	out := status.NewOutcome(mode, sel.Request.Filter.TimeDescription(), e.now())
	out.Scanned = len(sel.Scanned)
	out.Candidates = len(sel.Candidates)

	total := len(sel.Selected)
	for i, entry := range sel.Selected {
		if emit != nil {
			emit(Progress{Index: i, Total: total, Name: entry.Name, Verb: mode.Verb()})
		}

		result := e.transferOne(ctx, sel, i, entry)
		if result.OK() {
			logger.Debug().Str("file", entry.Name).Str("destination", result.Destination).Int64("bytes", result.Bytes).Msg("transferred")
		} else {
			logger.Error().Err(result.Err).Str("file", entry.Name).Str("kind", kindOf(result.Err)).Msg("transfer failed")
		}
		out.Record(result)
	}

	out.Finish(e.now())
	return *out
}

// transferOne copies one entry and, for moves, removes its source afterwards
func (e *Executor) transferOne(ctx context.Context, sel *Selection, index int, entry storage.Entry) status.FileResult {
	result := status.FileResult{Index: index, Name: entry.Name}

	result.Destination, result.Bytes, result.Err = e.copyEntry(ctx, sel.Destination, entry)
	if result.Err != nil {
		return result
	}

	if sel.Request.Mode == ModeMove {
		if err := e.store.Delete(ctx, entry.Ref); err != nil {
			// the copy stays in place, both files now exist
			result.Err = &storage.PathError{Kind: ErrSourceDeleteFailed, Path: entry.Ref, Err: err}
		}
	}
	return result
}

// copyEntry streams entry into a new file under dst. Both streams are closed
// before it returns.
func (e *Executor) copyEntry(ctx context.Context, dst storage.Dir, entry storage.Entry) (string, int64, error) {
	src, err := e.store.OpenRead(ctx, entry.Ref)
	if err != nil {
		return "", 0, withKind(storage.ErrSourceUnreadable, entry.Ref, err)
	}
	defer src.Close()

	mimeType := filter.ResolveMIMEType(entry.MIMEType, entry.Name)
	name := entry.Name
	if name == "" {
		name = e.fallbackName()
	}

	ref, err := e.store.CreateFile(ctx, dst, mimeType, name)
	if err != nil {
		return "", 0, withKind(storage.ErrDestinationUnwritable, name, err)
	}

	out, err := e.store.OpenWrite(ctx, ref)
	if err != nil {
		return ref, 0, withKind(storage.ErrDestinationUnwritable, ref, err)
	}

	n, copyErr := io.Copy(out, src)
	closeErr := out.Close()
	if copyErr != nil {
		return ref, n, errors.Errorf("copying %s to %s: %w", entry.Ref, ref, copyErr)
	}
	if closeErr != nil {
		return ref, n, withKind(storage.ErrDestinationUnwritable, ref, closeErr)
	}
	return ref, n, nil
}

func (e *Executor) fallbackName() string {
	return fmt.Sprintf("file_%d_%s", e.now().UnixMilli(), uuid.NewString()[:8])
}

// withKind makes sure err matches kind with errors.Is
func withKind(kind error, path string, err error) error {
	if errors.Is(err, kind) {
		return err
	}
	return &storage.PathError{Kind: kind, Path: path, Err: err}
}

func kindOf(err error) string {
	for _, kind := range []error{
		storage.ErrSourceUnreadable,
		storage.ErrDestinationUnwritable,
		ErrSourceDeleteFailed,
	} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "copy failed"
}
