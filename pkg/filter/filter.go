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

// Package filter holds the pure predicates that decide which files take part
// in a transfer, and the percentage based selector applied after them.
package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/overflo/pkg/storage"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultDays is the threshold used when the configured one is not a number
	DefaultDays = 7
	// DefaultPercentage is used when no percentage is configured
	DefaultPercentage = 50

	bytesPerMB = 1_048_576
	msPerDay   = int64(24 * time.Hour / time.Millisecond)
)

var ErrInvalidSpec = errors.New("invalid filter")

// 📏 SizeKind selects how SizeFilter.MB is interpreted
type SizeKind string

const (
	SizeAny   SizeKind = "any"
	SizeLarge SizeKind = "large"
	SizeSmall SizeKind = "small"
)

// ⏰ TimeKind selects how TimeFilter.Days is interpreted
type TimeKind string

const (
	TimeAny   TimeKind = "any"
	TimeOlder TimeKind = "older"
	TimeNewer TimeKind = "newer"
)

type SizeFilter struct {
	Kind SizeKind
	MB   int64
}

type TimeFilter struct {
	Kind TimeKind
	Days int
}

// 🎯 Spec is the immutable set of filters for one transfer
type Spec struct {
	Size       SizeFilter
	Time       TimeFilter
	Extension  Category
	Percentage int
	Ignore     []string // doublestar patterns matched against the file name
}

// 🏭 NewSpec returns a Spec that lets every file through and selects all of them
func NewSpec() Spec {
	return Spec{
		Size:       SizeFilter{Kind: SizeAny},
		Time:       TimeFilter{Kind: TimeAny, Days: DefaultDays},
		Extension:  CategoryAll,
		Percentage: 100,
	}
}

// Range returns the inclusive megabyte bounds of the size filter
func (f SizeFilter) Range() (minMB, maxMB int64) {
	switch f.Kind {
	case SizeLarge:
		return f.MB, math.MaxInt64
	case SizeSmall:
		return 0, f.MB
	default:
		return 0, math.MaxInt64
	}
}

// PassesSize reports whether the whole megabytes of sizeBytes fall in [minMB, maxMB]
func PassesSize(sizeBytes, minMB, maxMB int64) bool {
	mb := sizeBytes / bytesPerMB
	return mb >= minMB && mb <= maxMB
}

// PassesTime reports whether lastModified (epoch millis) satisfies the time filter at now.
// An unknown time (0) only passes TimeAny.
func PassesTime(lastModified int64, kind TimeKind, now int64, days int) bool {
	span := int64(days) * msPerDay
	if int64(days) > math.MaxInt64/msPerDay {
		span = math.MaxInt64
	}
	threshold := now - span
	switch kind {
	case TimeOlder:
		return lastModified > 0 && lastModified < threshold
	case TimeNewer:
		return lastModified > 0 && lastModified >= threshold
	default:
		return true
	}
}

// ParseDays converts user input into a day threshold.
// Non numeric or out of 32 bit range input yields DefaultDays and values
// below one are raised to one.
func ParseDays(text string) int {
	days, err := strconv.ParseInt(strings.TrimSpace(text), 10, 32)
	if err != nil {
		return DefaultDays
	}
	if days < 1 {
		return 1
	}
	return int(days)
}

// ✅ Matches reports whether entry passes every filter axis at now (epoch millis)
func (s Spec) Matches(entry storage.Entry, now int64) bool {
	minMB, maxMB := s.Size.Range()
	if !PassesSize(entry.Size, minMB, maxMB) {
		return false
	}
	if !PassesTime(entry.LastModified, s.Time.Kind, now, s.Time.Days) {
		return false
	}
	if !PassesExtension(Classify(entry.Name), s.extension()) {
		return false
	}
	return !s.ignored(entry.Name)
}

// Apply keeps the entries that match, preserving their order
func (s Spec) Apply(entries []storage.Entry, now int64) []storage.Entry {
	out := make([]storage.Entry, 0, len(entries))
	for _, e := range entries {
		if s.Matches(e, now) {
			out = append(out, e)
		}
	}
	return out
}

func (s Spec) ignored(name string) bool {
	for _, pattern := range s.Ignore {
		// patterns are validated up front, a bad one simply never matches
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func (s Spec) extension() Category {
	if s.Extension == "" {
		return CategoryAll
	}
	return s.Extension
}

// 🔍 Validate checks that the spec can be applied
func (s Spec) Validate() error {
	if s.Percentage < 1 || s.Percentage > 100 {
		return errors.Errorf("%w: percentage %d outside [1,100]", ErrInvalidSpec, s.Percentage)
	}
	switch s.Size.Kind {
	case SizeAny, SizeLarge, SizeSmall:
	default:
		return errors.Errorf("%w: unknown size kind %q", ErrInvalidSpec, s.Size.Kind)
	}
	if s.Size.MB < 0 {
		return errors.Errorf("%w: negative size %d MB", ErrInvalidSpec, s.Size.MB)
	}
	switch s.Time.Kind {
	case TimeAny, TimeOlder, TimeNewer:
	default:
		return errors.Errorf("%w: unknown time kind %q", ErrInvalidSpec, s.Time.Kind)
	}
	if s.Time.Kind != TimeAny && s.Time.Days < 1 {
		return errors.Errorf("%w: day threshold %d must be at least 1", ErrInvalidSpec, s.Time.Days)
	}
	if !s.extension().Valid() {
		return errors.Errorf("%w: unknown extension category %q", ErrInvalidSpec, s.Extension)
	}
	for _, pattern := range s.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("%w: bad ignore pattern %q", ErrInvalidSpec, pattern)
		}
	}
	return nil
}

// TimeDescription renders the time filter for summaries
func (s Spec) TimeDescription() string {
	switch s.Time.Kind {
	case TimeOlder:
		return fmt.Sprintf("older than %d days", s.Time.Days)
	case TimeNewer:
		return fmt.Sprintf("newer than %d days", s.Time.Days)
	default:
		return "any age"
	}
}

func (s Spec) String() string {
	size := "any size"
	switch s.Size.Kind {
	case SizeLarge:
		size = fmt.Sprintf(">= %d MB", s.Size.MB)
	case SizeSmall:
		size = fmt.Sprintf("<= %d MB", s.Size.MB)
	}
	str := fmt.Sprintf("%s, %s, %s files, %d%%", size, s.TimeDescription(), s.extension(), s.Percentage)
	if len(s.Ignore) > 0 {
		str += fmt.Sprintf(", ignoring %s", strings.Join(s.Ignore, " "))
	}
	return str
}
