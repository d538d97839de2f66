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

// Package scan enumerates the files of a single source directory.
package scan

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"github.com/walteh/overflo/pkg/storage"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options configures a Scanner
type Options struct {
	// SortByName orders entries by name so selection is reproducible across runs
	SortByName bool
}

// 🔭 Scanner lists the direct file children of a directory with metadata resolved
type Scanner struct {
	store storage.Storage
	opts  Options
}

// 🏭 New creates a Scanner over store
func New(store storage.Storage, opts Options) *Scanner {
	return &Scanner{store: store, opts: opts}
}

// Resolve turns a directory reference into a handle
func (s *Scanner) Resolve(ctx context.Context, ref string) (storage.Dir, error) {
	dir, err := s.store.ResolveDirectory(ctx, ref)
	if err != nil {
		return storage.Dir{}, errors.Errorf("resolving %q: %w", ref, err)
	}
	return dir, nil
}

// 📋 List returns every file directly under dir. Entries are fresh on each call.
func (s *Scanner) List(ctx context.Context, dir storage.Dir) ([]storage.Entry, error) {
	logger := zerolog.Ctx(ctx)

	entries, err := s.store.ListFiles(ctx, dir)
	if err != nil {
		return nil, errors.Errorf("listing %q: %w", dir.Ref, err)
	}

	for i := range entries {
		if entries[i].LastModified == 0 {
			entries[i].LastModified = s.store.LastModified(ctx, entries[i].Ref)
		}
	}

	if s.opts.SortByName {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Name < entries[j].Name
		})
	}

	logger.Debug().Str("dir", dir.Ref).Int("files", len(entries)).Msg("scanned directory")
	return entries, nil
}

// ListRef resolves ref and lists it
func (s *Scanner) ListRef(ctx context.Context, ref string) ([]storage.Entry, error) {
	dir, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, dir)
}
