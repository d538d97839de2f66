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

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/walteh/overflo/cmd/overflo/opts"
	"github.com/walteh/overflo/pkg/status"
)

func main() {
	root := newRootCmd(&opts.RootOpts{})
	if err := root.ExecuteContext(context.Background()); err != nil {
		reportError(os.Stderr, status.NewDefaultFileFormatter(), err)
		os.Exit(1)
	}
}

// reportError prints the error that ended the command
func reportError(w io.Writer, f status.FileFormatter, err error) {
	fmt.Fprintln(w, color.New(color.FgRed).Sprint(f.FormatError(err)))
}
