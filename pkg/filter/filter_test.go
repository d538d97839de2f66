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

package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/overflo/pkg/storage"
	"gitlab.com/tozd/go/errors"
)

const (
	mb  = int64(1_048_576)
	day = int64(86_400_000)
	now = int64(1_700_000_000_000)
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		file string
		want Category
	}{
		{name: "lower_jpg", file: "a.jpg", want: CategoryImage},
		{name: "upper_jpg", file: "A.JPG", want: CategoryImage},
		{name: "mixed_case_webp", file: "shot.WebP", want: CategoryImage},
		{name: "video", file: "clip.mkv", want: CategoryVideo},
		{name: "document", file: "notes.txt", want: CategoryDocument},
		{name: "office", file: "deck.PPTX", want: CategoryDocument},
		{name: "no_extension", file: "README", want: CategoryOther},
		{name: "unknown_extension", file: "archive.zip", want: CategoryOther},
		{name: "suffix_without_dot", file: "notjpg", want: CategoryOther},
		{name: "empty", file: "", want: CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.file))
		})
	}
}

func TestPassesExtension(t *testing.T) {
	assert.True(t, PassesExtension(CategoryOther, CategoryAll), "all accepts anything")
	assert.True(t, PassesExtension(CategoryImage, CategoryImage))
	assert.False(t, PassesExtension(CategoryVideo, CategoryImage))
	assert.False(t, PassesExtension(Classify(""), CategoryDocument), "nameless files only pass all")
}

func TestPassesSize(t *testing.T) {
	tests := []struct {
		name   string
		size   int64
		filter SizeFilter
		want   bool
	}{
		{name: "large_at_bound", size: 100 * mb, filter: SizeFilter{Kind: SizeLarge, MB: 100}, want: true},
		{name: "large_just_below", size: 100*mb - 1, filter: SizeFilter{Kind: SizeLarge, MB: 100}, want: false},
		{name: "small_truncates_partial_mb", size: 10*mb + mb - 1, filter: SizeFilter{Kind: SizeSmall, MB: 10}, want: true},
		{name: "small_over", size: 11 * mb, filter: SizeFilter{Kind: SizeSmall, MB: 10}, want: false},
		{name: "small_empty_file", size: 0, filter: SizeFilter{Kind: SizeSmall, MB: 0}, want: true},
		{name: "any_huge", size: math.MaxInt64, filter: SizeFilter{Kind: SizeAny}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			minMB, maxMB := tt.filter.Range()
			assert.Equal(t, tt.want, PassesSize(tt.size, minMB, maxMB))
		})
	}
}

func TestPassesTime(t *testing.T) {
	threshold := now - 7*day

	tests := []struct {
		name string
		lm   int64
		kind TimeKind
		want bool
	}{
		{name: "older_passes", lm: threshold - 1, kind: TimeOlder, want: true},
		{name: "older_at_threshold_fails", lm: threshold, kind: TimeOlder, want: false},
		{name: "newer_at_threshold_passes", lm: threshold, kind: TimeNewer, want: true},
		{name: "newer_before_threshold_fails", lm: threshold - 1, kind: TimeNewer, want: false},
		{name: "unknown_fails_older", lm: 0, kind: TimeOlder, want: false},
		{name: "unknown_fails_newer", lm: 0, kind: TimeNewer, want: false},
		{name: "unknown_passes_any", lm: 0, kind: TimeAny, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PassesTime(tt.lm, tt.kind, now, 7))
		})
	}
}

func TestPassesTimeHugeThreshold(t *testing.T) {
	tenDaysAgo := now - 10*day

	for _, days := range []int{math.MaxInt32, ParseDays("200000000000"), math.MaxInt} {
		assert.False(t, PassesTime(tenDaysAgo, TimeOlder, now, days), "older than %d days", days)
		assert.True(t, PassesTime(tenDaysAgo, TimeNewer, now, days), "newer than %d days", days)
	}
}

func TestParseDays(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{name: "number", in: "30", want: 30},
		{name: "padded", in: " 3 ", want: 3},
		{name: "zero_raised", in: "0", want: 1},
		{name: "negative_raised", in: "-4", want: 1},
		{name: "text_defaults", in: "week", want: DefaultDays},
		{name: "empty_defaults", in: "", want: DefaultDays},
		{name: "max_int32", in: "2147483647", want: math.MaxInt32},
		{name: "above_int32_defaults", in: "2147483648", want: DefaultDays},
		{name: "huge_defaults", in: "200000000000", want: DefaultDays},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDays(tt.in))
		})
	}
}

func TestMIMEType(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		declared string
		want     string
	}{
		{name: "image_wildcard", file: "a.PNG", want: "image/*"},
		{name: "video_wildcard", file: "a.mov", want: "video/*"},
		{name: "pdf", file: "a.pdf", want: "application/pdf"},
		{name: "docx", file: "a.docx", want: "application/msword"},
		{name: "xlsx", file: "a.xlsx", want: "application/vnd.ms-excel"},
		{name: "ppt", file: "a.ppt", want: "application/vnd.ms-powerpoint"},
		{name: "txt_is_binary", file: "a.txt", want: OctetStream},
		{name: "unknown", file: "a.bin", want: OctetStream},
		{name: "declared_wins", file: "a.pdf", declared: "image/jpeg", want: "image/jpeg"},
		{name: "blank_declared_ignored", file: "a.pdf", declared: " ", want: "application/pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveMIMEType(tt.declared, tt.file))
		})
	}
}

func TestSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Spec)
		wantErr string
	}{
		{name: "defaults_valid", modify: func(s *Spec) {}},
		{name: "percentage_zero", modify: func(s *Spec) { s.Percentage = 0 }, wantErr: "percentage 0"},
		{name: "percentage_over", modify: func(s *Spec) { s.Percentage = 101 }, wantErr: "percentage 101"},
		{name: "unknown_size_kind", modify: func(s *Spec) { s.Size.Kind = "huge" }, wantErr: "unknown size kind"},
		{name: "negative_size", modify: func(s *Spec) { s.Size = SizeFilter{Kind: SizeLarge, MB: -1} }, wantErr: "negative size"},
		{name: "unknown_time_kind", modify: func(s *Spec) { s.Time.Kind = "ancient" }, wantErr: "unknown time kind"},
		{name: "zero_days", modify: func(s *Spec) { s.Time = TimeFilter{Kind: TimeOlder} }, wantErr: "at least 1"},
		{name: "other_category", modify: func(s *Spec) { s.Extension = CategoryOther }, wantErr: "unknown extension"},
		{name: "empty_category_means_all", modify: func(s *Spec) { s.Extension = "" }},
		{name: "bad_glob", modify: func(s *Spec) { s.Ignore = []string{"[abc"} }, wantErr: "bad ignore pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := NewSpec()
			tt.modify(&spec)
			err := spec.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSpec))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSpecDescriptions(t *testing.T) {
	spec := NewSpec()
	assert.Equal(t, "any age", spec.TimeDescription())

	spec.Time = TimeFilter{Kind: TimeOlder, Days: 7}
	assert.Equal(t, "older than 7 days", spec.TimeDescription())

	spec.Time = TimeFilter{Kind: TimeNewer, Days: 3}
	spec.Size = SizeFilter{Kind: SizeLarge, MB: 100}
	spec.Extension = CategoryImage
	spec.Percentage = 50
	spec.Ignore = []string{"*.tmp"}
	assert.Equal(t, ">= 100 MB, newer than 3 days, image files, 50%, ignoring *.tmp", spec.String())
}

func TestSpecMatchesIgnore(t *testing.T) {
	spec := NewSpec()
	spec.Ignore = []string{"*.tmp", ".*"}

	assert.False(t, spec.Matches(storage.Entry{Name: "scratch.tmp"}, now))
	assert.False(t, spec.Matches(storage.Entry{Name: ".hidden"}, now))
	assert.True(t, spec.Matches(storage.Entry{Name: "keep.txt"}, now))
}

func TestApplyProperties(t *testing.T) {
	var entries []storage.Entry
	for i := int64(0); i < 20; i++ {
		entries = append(entries, storage.Entry{
			Name:         []string{"a.jpg", "b.mp4", "c.pdf", "d.bin"}[i%4],
			Size:         i * 13 * mb,
			LastModified: now - i*day,
		})
	}

	t.Run("large_lower_bound", func(t *testing.T) {
		spec := NewSpec()
		spec.Size = SizeFilter{Kind: SizeLarge, MB: 100}
		out := spec.Apply(entries, now)
		require.NotEmpty(t, out)
		for _, e := range out {
			assert.GreaterOrEqual(t, e.Size/mb, int64(100))
		}
	})

	t.Run("small_upper_bound", func(t *testing.T) {
		spec := NewSpec()
		spec.Size = SizeFilter{Kind: SizeSmall, MB: 100}
		out := spec.Apply(entries, now)
		require.NotEmpty(t, out)
		for _, e := range out {
			assert.LessOrEqual(t, e.Size/mb, int64(100))
		}
	})

	t.Run("any_is_noop", func(t *testing.T) {
		assert.Equal(t, entries, NewSpec().Apply(entries, now))
	})

	t.Run("older_bound", func(t *testing.T) {
		spec := NewSpec()
		spec.Time = TimeFilter{Kind: TimeOlder, Days: 5}
		out := spec.Apply(entries, now)
		require.NotEmpty(t, out)
		for _, e := range out {
			assert.Positive(t, e.LastModified)
			assert.Less(t, e.LastModified, now-5*day)
		}
	})

	t.Run("newer_bound", func(t *testing.T) {
		spec := NewSpec()
		spec.Time = TimeFilter{Kind: TimeNewer, Days: 5}
		out := spec.Apply(entries, now)
		require.Len(t, out, 6)
		for _, e := range out {
			assert.GreaterOrEqual(t, e.LastModified, now-5*day)
		}
	})

	t.Run("preserves_order", func(t *testing.T) {
		spec := NewSpec()
		spec.Extension = CategoryVideo
		out := spec.Apply(entries, now)
		require.Len(t, out, 5)
		for i := 1; i < len(out); i++ {
			assert.Less(t, out[i-1].Size, out[i].Size)
		}
	})
}

func TestLargeOldImagesScenario(t *testing.T) {
	tenDaysAgo := now - 10*day
	entries := []storage.Entry{
		{Name: "p1.jpg", Size: 50 * mb, LastModified: tenDaysAgo},
		{Name: "p2.jpg", Size: 100 * mb, LastModified: tenDaysAgo},
		{Name: "p3.jpg", Size: 120 * mb, LastModified: tenDaysAgo},
		{Name: "p4.jpg", Size: 150 * mb, LastModified: now - day},
		{Name: "v1.mp4", Size: 150 * mb, LastModified: tenDaysAgo},
		{Name: "d1.pdf", Size: 200 * mb, LastModified: tenDaysAgo},
		{Name: "n1.txt", Size: 1, LastModified: tenDaysAgo},
		{Name: "n2.txt", Size: 1, LastModified: tenDaysAgo},
		{Name: "x.bin", Size: 300 * mb, LastModified: tenDaysAgo},
		{Name: "p5.png", Size: 10 * mb, LastModified: tenDaysAgo},
	}

	spec := Spec{
		Size:       SizeFilter{Kind: SizeLarge, MB: 100},
		Time:       TimeFilter{Kind: TimeOlder, Days: 7},
		Extension:  CategoryImage,
		Percentage: 50,
	}
	require.NoError(t, spec.Validate())

	candidates := spec.Apply(entries, now)
	require.Len(t, candidates, 2)
	assert.Equal(t, "p2.jpg", candidates[0].Name)
	assert.Equal(t, "p3.jpg", candidates[1].Name)

	selected := Select(candidates, spec.Percentage)
	require.Len(t, selected, 1)
	assert.Equal(t, "p2.jpg", selected[0].Name)
}
