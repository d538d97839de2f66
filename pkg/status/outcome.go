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

package status

import (
	"fmt"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
)

// 🔀 Mode is the transfer mode
type Mode string

const (
	ModeCopy Mode = "copy"
	ModeMove Mode = "move"
)

var ErrUnknownMode = errors.New("unknown transfer mode")

// ParseMode accepts "copy" or "move" in any case; empty means copy
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeCopy:
		return ModeCopy, nil
	case ModeMove:
		return ModeMove, nil
	}
	return "", errors.Errorf("%w: %q", ErrUnknownMode, s)
}

// Verb is the progressive form shown while a file is in flight
func (m Mode) Verb() string {
	if m == ModeMove {
		return "Moving"
	}
	return "Copying"
}

// PastTense is used in the final summary
func (m Mode) PastTense() string {
	if m == ModeMove {
		return "Moved"
	}
	return "Copied"
}

// 📄 FileResult is the outcome of one file's transfer attempt
type FileResult struct {
	Index       int
	Name        string
	Destination string // empty when the destination was never created
	Bytes       int64
	Err         error
}

func (r FileResult) OK() bool {
	return r.Err == nil
}

// 📊 Outcome accumulates the results of one transfer run
type Outcome struct {
	Mode       Mode
	Success    int
	Failure    int
	Scanned    int // files found in the source directory
	Candidates int // files that passed every filter
	Results    []FileResult
	TimeFilter string
	StartedAt  time.Time
	FinishedAt time.Time
}

// 🏭 NewOutcome starts an empty tally
func NewOutcome(mode Mode, timeFilter string, startedAt time.Time) *Outcome {
	return &Outcome{
		Mode:       mode,
		TimeFilter: timeFilter,
		StartedAt:  startedAt,
	}
}

// Record adds one file result to the tally
func (o *Outcome) Record(r FileResult) {
	if r.OK() {
		o.Success++
	} else {
		o.Failure++
	}
	o.Results = append(o.Results, r)
}

// Finish stamps the completion time
func (o *Outcome) Finish(at time.Time) {
	o.FinishedAt = at
}

// Attempted is the number of files the run tried to transfer
func (o Outcome) Attempted() int {
	return o.Success + o.Failure
}

// Bytes is the total number of bytes written by successful transfers
func (o Outcome) Bytes() int64 {
	var total int64
	for _, r := range o.Results {
		if r.OK() {
			total += r.Bytes
		}
	}
	return total
}

func (o Outcome) Duration() time.Duration {
	if o.FinishedAt.IsZero() || o.StartedAt.IsZero() {
		return 0
	}
	return o.FinishedAt.Sub(o.StartedAt)
}

// Failures returns only the failed results
func (o Outcome) Failures() []FileResult {
	var out []FileResult
	for _, r := range o.Results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// 📝 Summary is the human readable closing message of a run
func (o Outcome) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d files\n", o.Mode.PastTense(), o.Success)
	fmt.Fprintf(&b, "Filter: %s", o.TimeFilter)
	if o.Failure > 0 {
		fmt.Fprintf(&b, "\nFailed: %d", o.Failure)
	}
	return b.String()
}
