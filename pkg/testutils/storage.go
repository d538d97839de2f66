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

// Package testutils holds fixtures shared by package tests.
package testutils

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/overflo/pkg/storage"
)

// Context returns a context carrying a logger that writes to the test output
func Context(t testing.TB) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

// 📄 File describes a fixture file written by WriteFiles
type File struct {
	Name     string
	Content  []byte
	Modified int64 // epoch millis, left as created when 0
}

// WriteFiles creates dir on fs and writes every file into it
func WriteFiles(t testing.TB, fs afero.Fs, dir string, files ...File) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(dir, 0o755), "creating %s", dir)
	for _, f := range files {
		path := dir + "/" + f.Name
		require.NoError(t, afero.WriteFile(fs, path, f.Content, 0o644), "writing %s", path)
		if f.Modified > 0 {
			ts := time.UnixMilli(f.Modified)
			require.NoError(t, fs.Chtimes(path, ts, ts), "touching %s", path)
		}
	}
}

// 🎭 MockStorage is a testify mock of storage.Storage
type MockStorage struct {
	mock.Mock
}

var _ storage.Storage = (*MockStorage)(nil)

// NewMockStorage creates a MockStorage whose expectations are asserted on cleanup
func NewMockStorage(t testing.TB) *MockStorage {
	m := &MockStorage{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockStorage) ResolveDirectory(ctx context.Context, ref string) (storage.Dir, error) {
	result := m.Called(ctx, ref)
	return result.Get(0).(storage.Dir), result.Error(1)
}

func (m *MockStorage) ListFiles(ctx context.Context, dir storage.Dir) ([]storage.Entry, error) {
	result := m.Called(ctx, dir)
	entries, _ := result.Get(0).([]storage.Entry)
	return entries, result.Error(1)
}

func (m *MockStorage) LastModified(ctx context.Context, ref string) int64 {
	result := m.Called(ctx, ref)
	return result.Get(0).(int64)
}

func (m *MockStorage) OpenRead(ctx context.Context, ref string) (io.ReadCloser, error) {
	result := m.Called(ctx, ref)
	rc, _ := result.Get(0).(io.ReadCloser)
	return rc, result.Error(1)
}

func (m *MockStorage) CreateFile(ctx context.Context, dir storage.Dir, mimeType, name string) (string, error) {
	result := m.Called(ctx, dir, mimeType, name)
	return result.String(0), result.Error(1)
}

func (m *MockStorage) OpenWrite(ctx context.Context, ref string) (io.WriteCloser, error) {
	result := m.Called(ctx, ref)
	wc, _ := result.Get(0).(io.WriteCloser)
	return wc, result.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, ref string) error {
	result := m.Called(ctx, ref)
	return result.Error(0)
}
