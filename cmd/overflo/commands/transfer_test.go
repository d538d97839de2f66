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
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/overflo/cmd/overflo/opts"
	"github.com/walteh/overflo/pkg/filter"
)

func TestExtFlagListsOnlyUsableCategories(t *testing.T) {
	cmd := NewCopyCmd(&opts.RootOpts{})
	flag := cmd.Flags().Lookup("ext")
	require.NotNil(t, flag)

	for _, c := range []filter.Category{filter.CategoryAll, filter.CategoryImage, filter.CategoryVideo, filter.CategoryDocument, filter.CategoryOther} {
		mentioned := strings.Contains(flag.Usage, string(c))
		assert.Equal(t, c.Valid(), mentioned, "category %q", c)
	}
}

func TestFlagsBuildSpec(t *testing.T) {
	f := &transferFlags{}
	cmd := &cobra.Command{Use: "x"}
	f.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{
		"--size", "LARGE", "--size-mb", "5",
		"--modified", "older", "--days", "200000000000",
		"--ext", "video", "--percent", "25", "--ignore", "*.tmp,*.part",
	}))

	spec := f.spec()
	require.NoError(t, spec.Validate())
	assert.Equal(t, filter.Spec{
		Size:       filter.SizeFilter{Kind: filter.SizeLarge, MB: 5},
		Time:       filter.TimeFilter{Kind: filter.TimeOlder, Days: filter.DefaultDays},
		Extension:  filter.CategoryVideo,
		Percentage: 25,
		Ignore:     []string{"*.tmp", "*.part"},
	}, spec)
}
