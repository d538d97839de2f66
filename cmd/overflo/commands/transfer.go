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
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/overflo/cmd/overflo/opts"
	"github.com/walteh/overflo/pkg/filter"
	"github.com/walteh/overflo/pkg/operation"
	"github.com/walteh/overflo/pkg/scan"
	"github.com/walteh/overflo/pkg/status"
	"github.com/walteh/overflo/pkg/storage"
	"gitlab.com/tozd/go/errors"
)

// transferFlags are the filter and behaviour flags of copy and move
type transferFlags struct {
	size       string
	sizeMB     int64
	modified   string
	days       string
	extension  string
	percent    int
	ignore     []string
	dryRun     bool
	noSort     bool
	noSniff    bool
	noProgress bool
}

func (f *transferFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.size, "size", string(filter.SizeAny), "size filter: any, large or small")
	flags.Int64Var(&f.sizeMB, "size-mb", 100, "size threshold in MB for --size large or small")
	flags.StringVar(&f.modified, "modified", string(filter.TimeAny), "age filter: any, older or newer")
	flags.StringVar(&f.days, "days", fmt.Sprint(filter.DefaultDays), "age threshold in days, anything that is not a number means the default")
	flags.StringVar(&f.extension, "ext", string(filter.CategoryAll), "file category: all, image, video or document")
	flags.IntVar(&f.percent, "percent", filter.DefaultPercentage, "percentage of matching files to transfer (1-100)")
	flags.StringSliceVar(&f.ignore, "ignore", nil, "glob patterns of file names to skip")
	flags.BoolVar(&f.dryRun, "dry-run", false, "show what would be transferred without doing it")
	flags.BoolVar(&f.noSort, "no-sort", false, "keep the order the file system lists files in")
	flags.BoolVar(&f.noSniff, "no-sniff", false, "do not read file headers to detect types")
	flags.BoolVar(&f.noProgress, "no-progress", false, "do not draw a progress bar")
}

// spec builds the filter from the flags
func (f *transferFlags) spec() filter.Spec {
	return filter.Spec{
		Size:       filter.SizeFilter{Kind: filter.SizeKind(strings.ToLower(f.size)), MB: f.sizeMB},
		Time:       filter.TimeFilter{Kind: filter.TimeKind(strings.ToLower(f.modified)), Days: filter.ParseDays(f.days)},
		Extension:  filter.Category(strings.ToLower(f.extension)),
		Percentage: f.percent,
		Ignore:     f.ignore,
	}
}

// NewCopyCmd creates the copy command
func NewCopyCmd(o *opts.RootOpts) *cobra.Command {
	return newTransferCmd(o, status.ModeCopy)
}

// NewMoveCmd creates the move command
func NewMoveCmd(o *opts.RootOpts) *cobra.Command {
	return newTransferCmd(o, status.ModeMove)
}

func newTransferCmd(o *opts.RootOpts, mode status.Mode) *cobra.Command {
	flags := &transferFlags{}
	title := strings.ToUpper(string(mode)[:1]) + string(mode)[1:]

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s SOURCE DESTINATION", mode),
		Short: fmt.Sprintf("%s a share of the matching files in SOURCE to DESTINATION", title),
		Long: fmt.Sprintf(`%s lists the files directly inside SOURCE, keeps the ones that pass
every filter and transfers the first --percent of them (at least one) to
DESTINATION. Files that fail are reported and do not stop the others.`, title),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			src, err := filepath.Abs(args[0])
			if err != nil {
				return errors.Errorf("resolving source: %w", err)
			}
			dst, err := filepath.Abs(args[1])
			if err != nil {
				return errors.Errorf("resolving destination: %w", err)
			}

			req := operation.Request{
				Source:      src,
				Destination: dst,
				Mode:        mode,
				Filter:      flags.spec(),
			}
			if err := req.Validate(); err != nil {
				return err
			}

			t := transfer{
				request:  req,
				scan:     scan.Options{SortByName: !flags.noSort},
				storage:  storage.FSOptions{SniffTypes: !flags.noSniff},
				dryRun:   flags.dryRun,
				progress: !flags.noProgress,
			}

			if t.dryRun {
				_, err := runTransfer(ctx, o, t, nil)
				return err
			}

			journal, err := o.History(ctx)
			if err != nil {
				return err
			}
			if journal != nil {
				defer journal.Close()
			}

			_, err = runTransfer(ctx, o, t, journal)
			return err
		},
	}

	flags.register(cmd)
	return cmd
}
