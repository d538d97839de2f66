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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

var errNotDirectory = errors.New("not a directory")

// sniffSize is the number of leading bytes filetype needs to match every known type
const sniffSize = 262

// 🔧 FSOptions tunes an FS
type FSOptions struct {
	// SniffTypes fills Entry.MIMEType from the file's magic numbers while listing
	SniffTypes bool
}

// 💾 FS implements Storage on top of an afero file system
type FS struct {
	fs   afero.Fs
	opts FSOptions
}

var _ Storage = (*FS)(nil)

// 🏭 NewFS creates a Storage backed by fs
func NewFS(fs afero.Fs, opts FSOptions) *FS {
	return &FS{fs: fs, opts: opts}
}

// NewOsFS creates a Storage backed by the real file system
func NewOsFS(opts FSOptions) *FS {
	return NewFS(afero.NewOsFs(), opts)
}

func (s *FS) ResolveDirectory(ctx context.Context, ref string) (Dir, error) {
	if strings.TrimSpace(ref) == "" {
		return Dir{}, newPathError(ErrDirectoryUnavailable, ref, nil)
	}
	clean := filepath.Clean(ref)
	info, err := s.fs.Stat(clean)
	if err != nil {
		return Dir{}, newPathError(ErrDirectoryUnavailable, clean, err)
	}
	if !info.IsDir() {
		return Dir{}, newPathError(ErrDirectoryUnavailable, clean, errNotDirectory)
	}
	return Dir{Ref: clean}, nil
}

func (s *FS) ListFiles(ctx context.Context, dir Dir) ([]Entry, error) {
	infos, err := afero.ReadDir(s.fs, dir.Ref)
	if err != nil {
		return nil, newPathError(ErrDirectoryUnavailable, dir.Ref, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		ref := filepath.Join(dir.Ref, info.Name())
		entry := Entry{
			Name:         info.Name(),
			Size:         info.Size(),
			LastModified: millis(info),
			Ref:          ref,
		}
		if s.opts.SniffTypes {
			entry.MIMEType = s.sniff(ctx, ref)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *FS) LastModified(ctx context.Context, ref string) int64 {
	info, err := s.fs.Stat(ref)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("path", ref).Msg("last modified time unavailable")
		return 0
	}
	return millis(info)
}

func (s *FS) OpenRead(ctx context.Context, ref string) (io.ReadCloser, error) {
	f, err := s.fs.Open(ref)
	if err != nil {
		return nil, newPathError(ErrSourceUnreadable, ref, err)
	}
	return f, nil
}

func (s *FS) CreateFile(ctx context.Context, dir Dir, mimeType, name string) (string, error) {
	if filepath.Ext(name) == "" {
		if ext := extensionForMIME(mimeType); ext != "" {
			name = name + "." + ext
		}
	}

	target, err := s.uniquePath(filepath.Join(dir.Ref, name))
	if err != nil {
		return "", newPathError(ErrDestinationUnwritable, filepath.Join(dir.Ref, name), err)
	}

	f, err := s.fs.Create(target)
	if err != nil {
		return "", newPathError(ErrDestinationUnwritable, target, err)
	}
	if err := f.Close(); err != nil {
		return "", newPathError(ErrDestinationUnwritable, target, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", target).Str("mime_type", mimeType).Msg("created destination file")
	return target, nil
}

func (s *FS) OpenWrite(ctx context.Context, ref string) (io.WriteCloser, error) {
	f, err := s.fs.OpenFile(ref, os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, newPathError(ErrDestinationUnwritable, ref, err)
	}
	return f, nil
}

func (s *FS) Delete(ctx context.Context, ref string) error {
	return s.fs.Remove(ref)
}

// 🔍 sniff matches the file's leading bytes against known magic numbers
func (s *FS) sniff(ctx context.Context, ref string) string {
	f, err := s.fs.Open(ref)
	if err != nil {
		return ""
	}
	defer f.Close()

	buf := make([]byte, sniffSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		zerolog.Ctx(ctx).Debug().Err(err).Str("path", ref).Msg("reading file header")
		return ""
	}

	kind, err := filetype.Match(buf[:n])
	if err != nil || kind == types.Unknown {
		return ""
	}
	return kind.MIME.Value
}

// uniquePath appends _N before the extension until the path is free
func (s *FS) uniquePath(path string) (string, error) {
	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return "", err
	}
	if !exists {
		return path, nil
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		exists, err := afero.Exists(s.fs, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

// extensionForMIME returns the extension filetype registers for a concrete MIME type
func extensionForMIME(mimeType string) string {
	if mimeType == "" || strings.Contains(mimeType, "*") || mimeType == "application/octet-stream" {
		return ""
	}

	var matches []string
	types.Types.Range(func(ext, kind any) bool {
		if kind.(types.Type).MIME.Value == mimeType {
			matches = append(matches, ext.(string))
		}
		return true
	})
	if len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)
	return matches[0]
}

func millis(info os.FileInfo) int64 {
	if info.ModTime().IsZero() {
		return 0
	}
	return info.ModTime().UnixMilli()
}
