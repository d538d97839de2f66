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

package storage

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}

func setupTestFS(t *testing.T) (context.Context, afero.Fs) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/src/nested", 0o755))
	require.NoError(t, fs.MkdirAll("/dst", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/src/a.txt", []byte("hello"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/src/b.png", pngHeader, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/src/nested/c.txt", []byte("nested"), 0o644))
	return ctx, fs
}

func TestResolveDirectory(t *testing.T) {
	ctx, fs := setupTestFS(t)
	s := NewFS(fs, FSOptions{})

	tests := []struct {
		name    string
		ref     string
		wantErr bool
	}{
		{name: "existing_directory", ref: "/src"},
		{name: "trailing_slash", ref: "/src/"},
		{name: "missing_directory", ref: "/missing", wantErr: true},
		{name: "regular_file", ref: "/src/a.txt", wantErr: true},
		{name: "empty_reference", ref: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, err := s.ResolveDirectory(ctx, tt.ref)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrDirectoryUnavailable), "error should be ErrDirectoryUnavailable")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "/src", dir.Ref)
		})
	}
}

func TestListFiles(t *testing.T) {
	ctx, fs := setupTestFS(t)
	modTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, fs.Chtimes("/src/a.txt", modTime, modTime))

	t.Run("excludes_directories", func(t *testing.T) {
		s := NewFS(fs, FSOptions{})
		dir, err := s.ResolveDirectory(ctx, "/src")
		require.NoError(t, err)

		entries, err := s.ListFiles(ctx, dir)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		names := []string{entries[0].Name, entries[1].Name}
		assert.ElementsMatch(t, []string{"a.txt", "b.png"}, names)
		for _, e := range entries {
			assert.Empty(t, e.MIMEType, "type hint should be empty without sniffing")
			if e.Name == "a.txt" {
				assert.Equal(t, int64(5), e.Size)
				assert.Equal(t, modTime.UnixMilli(), e.LastModified)
				assert.Equal(t, "/src/a.txt", e.Ref)
			}
		}
	})

	t.Run("sniffs_types", func(t *testing.T) {
		s := NewFS(fs, FSOptions{SniffTypes: true})
		entries, err := s.ListFiles(ctx, Dir{Ref: "/src"})
		require.NoError(t, err)

		types := map[string]string{}
		for _, e := range entries {
			types[e.Name] = e.MIMEType
		}
		assert.Equal(t, "image/png", types["b.png"])
		assert.Empty(t, types["a.txt"], "plain text has no magic number")
	})

	t.Run("missing_directory", func(t *testing.T) {
		s := NewFS(fs, FSOptions{})
		_, err := s.ListFiles(ctx, Dir{Ref: "/gone"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDirectoryUnavailable))
	})
}

func TestLastModified(t *testing.T) {
	ctx, fs := setupTestFS(t)
	s := NewFS(fs, FSOptions{})

	modTime := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, fs.Chtimes("/src/a.txt", modTime, modTime))

	assert.Equal(t, modTime.UnixMilli(), s.LastModified(ctx, "/src/a.txt"))
	assert.Equal(t, int64(0), s.LastModified(ctx, "/src/missing.txt"), "unknown files report zero")
}

func TestCreateWriteReadDelete(t *testing.T) {
	ctx, fs := setupTestFS(t)
	s := NewFS(fs, FSOptions{})
	dst := Dir{Ref: "/dst"}

	ref, err := s.CreateFile(ctx, dst, "text/plain", "copy.txt")
	require.NoError(t, err)
	assert.Equal(t, "/dst/copy.txt", ref)

	w, err := s.OpenWrite(ctx, ref)
	require.NoError(t, err)
	_, err = w.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := s.OpenRead(ctx, ref)
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "payload", string(content))

	require.NoError(t, s.Delete(ctx, ref))
	exists, err := afero.Exists(fs, ref)
	require.NoError(t, err)
	assert.False(t, exists, "file should be deleted")
}

func TestCreateFileNaming(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		mimeType string
		file     string
		want     string
	}{
		{
			name:     "plain_name",
			mimeType: "application/octet-stream",
			file:     "report.pdf",
			want:     "/dst/report.pdf",
		},
		{
			name:     "collision_gets_suffix",
			existing: []string{"/dst/report.pdf"},
			mimeType: "application/pdf",
			file:     "report.pdf",
			want:     "/dst/report_1.pdf",
		},
		{
			name:     "second_collision",
			existing: []string{"/dst/report.pdf", "/dst/report_1.pdf"},
			mimeType: "application/pdf",
			file:     "report.pdf",
			want:     "/dst/report_2.pdf",
		},
		{
			name:     "extension_from_concrete_type",
			mimeType: "application/pdf",
			file:     "scan",
			want:     "/dst/scan.pdf",
		},
		{
			name:     "wildcard_type_adds_nothing",
			mimeType: "image/*",
			file:     "photo",
			want:     "/dst/photo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, fs := setupTestFS(t)
			for _, p := range tt.existing {
				require.NoError(t, afero.WriteFile(fs, p, []byte("old"), 0o644))
			}
			s := NewFS(fs, FSOptions{})

			ref, err := s.CreateFile(ctx, Dir{Ref: "/dst"}, tt.mimeType, tt.file)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref)

			for _, p := range tt.existing {
				content, err := afero.ReadFile(fs, p)
				require.NoError(t, err)
				assert.Equal(t, "old", string(content), "existing files must not be touched")
			}
		})
	}
}

func TestOpenErrors(t *testing.T) {
	ctx, fs := setupTestFS(t)
	s := NewFS(fs, FSOptions{})

	_, err := s.OpenRead(ctx, "/src/missing.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnreadable))

	var pathErr *PathError
	require.True(t, errors.As(err, &pathErr))
	assert.Equal(t, "/src/missing.txt", pathErr.Path)

	ro := NewFS(afero.NewReadOnlyFs(fs), FSOptions{})
	_, err = ro.CreateFile(ctx, Dir{Ref: "/dst"}, "text/plain", "x.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDestinationUnwritable))
}

func TestExtensionForMIME(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		want     string
	}{
		{name: "pdf", mimeType: "application/pdf", want: "pdf"},
		{name: "png", mimeType: "image/png", want: "png"},
		{name: "mp4", mimeType: "video/mp4", want: "mp4"},
		{name: "unregistered", mimeType: "application/x-overflo", want: ""},
		{name: "wildcard", mimeType: "video/*", want: ""},
		{name: "octet_stream", mimeType: "application/octet-stream", want: ""},
		{name: "empty", mimeType: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extensionForMIME(tt.mimeType))
		})
	}
}
