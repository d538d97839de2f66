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
	"strings"

	"github.com/walteh/overflo/pkg/filter"
	"github.com/walteh/overflo/pkg/status"
	"gitlab.com/tozd/go/errors"
)

type Mode = status.Mode

const (
	ModeCopy = status.ModeCopy
	ModeMove = status.ModeMove
)

var (
	// ErrSourceDeleteFailed marks a move whose bytes were copied but whose source could not be removed
	ErrSourceDeleteFailed = errors.New("source delete failed")
	// ErrInvalidRequest is returned for requests missing a source or destination
	ErrInvalidRequest = errors.New("invalid transfer request")
)

// 📦 Request describes one transfer. It is consumed once and never mutated.
type Request struct {
	// Name labels the request in logs and history, optional
	Name        string
	Source      string
	Destination string
	Mode        Mode
	Filter      filter.Spec
}

// Validate checks the request before any storage is touched
func (r Request) Validate() error {
	if strings.TrimSpace(r.Source) == "" {
		return errors.Errorf("%w: source is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Destination) == "" {
		return errors.Errorf("%w: destination is required", ErrInvalidRequest)
	}
	if r.Mode != ModeCopy && r.Mode != ModeMove {
		return errors.Errorf("%w: mode %q", status.ErrUnknownMode, r.Mode)
	}
	if err := r.Filter.Validate(); err != nil {
		return errors.Errorf("validating filter: %w", err)
	}
	return nil
}

// 📨 Event is delivered from the worker to the caller, in emission order.
// It is either a Progress or the terminal Completed.
type Event interface {
	isEvent()
}

// ⏳ Progress is emitted once per selected file, before its transfer starts
type Progress struct {
	Index int // zero based position in the selection
	Total int
	Name  string
	Verb  string
}

// ✅ Completed is the last event of a task
type Completed struct {
	Outcome status.Outcome
	// Err is set when the run could not start after scheduling, e.g. the listing failed
	Err error
}

func (Progress) isEvent()  {}
func (Completed) isEvent() {}

// 📣 Reporter receives the events of a task on the caller's goroutine
type Reporter interface {
	Progress(ctx context.Context, p Progress)
	Complete(ctx context.Context, outcome status.Outcome)
}
