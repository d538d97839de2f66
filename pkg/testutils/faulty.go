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

package testutils

import (
	"context"
	"io"
	"path/filepath"
	"sync"

	"github.com/walteh/overflo/pkg/storage"
	"gitlab.com/tozd/go/errors"
)

// 💥 FaultyStorage wraps a Storage and injects failures for chosen file names
type FaultyStorage struct {
	storage.Storage

	mu          sync.Mutex
	failRead    map[string]bool
	failWrite   map[string]bool
	failDelete  map[string]bool
	failMidCopy map[string]bool
	deleted     []string
}

// 🏭 NewFaultyStorage wraps inner
func NewFaultyStorage(inner storage.Storage) *FaultyStorage {
	return &FaultyStorage{
		Storage:     inner,
		failRead:    map[string]bool{},
		failWrite:   map[string]bool{},
		failDelete:  map[string]bool{},
		failMidCopy: map[string]bool{},
	}
}

func (f *FaultyStorage) FailRead(name string)    { f.set(f.failRead, name) }
func (f *FaultyStorage) FailWrite(name string)   { f.set(f.failWrite, name) }
func (f *FaultyStorage) FailDelete(name string)  { f.set(f.failDelete, name) }
func (f *FaultyStorage) FailMidCopy(name string) { f.set(f.failMidCopy, name) }

// Deleted returns the references successfully deleted so far
func (f *FaultyStorage) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func (f *FaultyStorage) set(m map[string]bool, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m[name] = true
}

func (f *FaultyStorage) has(m map[string]bool, ref string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return m[filepath.Base(ref)]
}

func (f *FaultyStorage) OpenRead(ctx context.Context, ref string) (io.ReadCloser, error) {
	if f.has(f.failRead, ref) {
		return nil, &storage.PathError{Kind: storage.ErrSourceUnreadable, Path: ref, Err: errors.New("injected read failure")}
	}
	rc, err := f.Storage.OpenRead(ctx, ref)
	if err != nil {
		return nil, err
	}
	if f.has(f.failMidCopy, ref) {
		return &brokenReader{ReadCloser: rc}, nil
	}
	return rc, nil
}

func (f *FaultyStorage) CreateFile(ctx context.Context, dir storage.Dir, mimeType, name string) (string, error) {
	if f.has(f.failWrite, name) {
		return "", &storage.PathError{Kind: storage.ErrDestinationUnwritable, Path: name, Err: errors.New("injected create failure")}
	}
	return f.Storage.CreateFile(ctx, dir, mimeType, name)
}

func (f *FaultyStorage) Delete(ctx context.Context, ref string) error {
	if f.has(f.failDelete, ref) {
		return errors.New("injected delete failure")
	}
	if err := f.Storage.Delete(ctx, ref); err != nil {
		return err
	}
	f.mu.Lock()
	f.deleted = append(f.deleted, ref)
	f.mu.Unlock()
	return nil
}

// brokenReader fails after the first read
type brokenReader struct {
	io.ReadCloser
	reads int
}

func (r *brokenReader) Read(p []byte) (int, error) {
	r.reads++
	if r.reads > 1 {
		return 0, errors.New("injected read failure mid copy")
	}
	if len(p) > 1 {
		p = p[:1]
	}
	return r.ReadCloser.Read(p)
}
