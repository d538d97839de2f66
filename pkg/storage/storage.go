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

// Package storage defines the file system collaborator used by the transfer
// pipeline and an afero backed implementation of it.
package storage

import (
	"context"
	"fmt"
	"io"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrDirectoryUnavailable is returned when a directory reference does not
	// resolve to an existing, accessible directory.
	ErrDirectoryUnavailable = errors.New("directory unavailable")
	// ErrSourceUnreadable is returned when a source file cannot be opened for reading.
	ErrSourceUnreadable = errors.New("source unreadable")
	// ErrDestinationUnwritable is returned when a destination file cannot be created or opened.
	ErrDestinationUnwritable = errors.New("destination unwritable")
)

// 📄 Entry is one file discovered in a source directory
type Entry struct {
	Name         string // Base name, may be empty when the provider has none
	Size         int64  // Size in bytes
	LastModified int64  // Epoch millis, 0 when unknown
	MIMEType     string // Declared type, empty when the provider has none
	Ref          string // Opaque reference understood by the Storage that listed it
}

// 📁 Dir is a resolved directory handle
type Dir struct {
	Ref string
}

// 💾 Storage is everything the pipeline needs from the underlying file system
type Storage interface {
	// ResolveDirectory resolves ref to a directory or fails with ErrDirectoryUnavailable
	ResolveDirectory(ctx context.Context, ref string) (Dir, error)
	// ListFiles lists the direct file children of dir, directories excluded
	ListFiles(ctx context.Context, dir Dir) ([]Entry, error)
	// LastModified returns the modification time in epoch millis, or 0 when unknown
	LastModified(ctx context.Context, ref string) int64
	// OpenRead opens a file for reading or fails with ErrSourceUnreadable
	OpenRead(ctx context.Context, ref string) (io.ReadCloser, error)
	// CreateFile creates a new file under dir and returns its reference
	CreateFile(ctx context.Context, dir Dir, mimeType, name string) (string, error)
	// OpenWrite opens a created file for writing or fails with ErrDestinationUnwritable
	OpenWrite(ctx context.Context, ref string) (io.WriteCloser, error)
	// Delete removes a file
	Delete(ctx context.Context, ref string) error
}

// PathError records a storage failure together with its kind and the path involved.
type PathError struct {
	Kind error
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

// Unwrap exposes both the kind and the cause so errors.Is matches either.
func (e *PathError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newPathError(kind error, path string, err error) error {
	return &PathError{Kind: kind, Path: path, Err: err}
}
