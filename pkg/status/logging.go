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

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	sizeWidth   = 10 // Width for the byte count
	statusWidth = 15 // Width for status text
)

// 🎯 FormatFileLine formats one file result as an aligned, colored console line
func FormatFileLine(mode Mode, result FileResult) string {
	var prefix, state string
	switch {
	case !result.OK():
		prefix = color.RedString("✗")
		state = "failed"
	case mode == ModeMove:
		prefix = color.GreenString("✓")
		state = "moved"
	default:
		prefix = color.GreenString("✓")
		state = "copied"
	}

	name := result.Name
	if name == "" {
		name = "<unnamed>"
	}

	namePart := fmt.Sprintf("%-*s", nameWidth, name)
	sizePart := fmt.Sprintf("%-*s", sizeWidth, HumanBytes(result.Bytes))
	statusPart := fmt.Sprintf("%-*s", statusWidth, state)

	line := fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		sizePart,
		statusPart,
	)
	if !result.OK() {
		line += color.HiBlackString(result.Err.Error())
	}
	return strings.TrimRight(line, " ")
}

// HumanBytes renders a byte count with a binary unit
func HumanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
