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
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/overflo/pkg/operation"
	"github.com/walteh/overflo/pkg/status"
)

// 📊 progressReporter draws a progress bar while forwarding every event
type progressReporter struct {
	next  operation.Reporter
	title string
	bar   *pterm.ProgressbarPrinter
}

var _ operation.Reporter = (*progressReporter)(nil)

func newProgressReporter(next operation.Reporter, title string) *progressReporter {
	return &progressReporter{next: next, title: title}
}

func (r *progressReporter) Progress(ctx context.Context, p operation.Progress) {
	if r.bar == nil {
		bar, err := pterm.DefaultProgressbar.
			WithTotal(p.Total).
			WithTitle(r.title).
			WithRemoveWhenDone(true).
			Start()
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Msg("progress bar unavailable")
		} else {
			r.bar = bar
		}
	} else {
		// the previous file is done once the next one starts
		r.bar.Increment()
	}

	if r.bar != nil {
		r.bar.UpdateTitle(fmt.Sprintf("%s %s", p.Verb, p.Name))
	}
	r.next.Progress(ctx, p)
}

func (r *progressReporter) Complete(ctx context.Context, outcome status.Outcome) {
	if r.bar != nil {
		r.bar.Increment()
		if _, err := r.bar.Stop(); err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Msg("stopping progress bar")
		}
		r.bar = nil
	}
	r.next.Complete(ctx, outcome)
}
