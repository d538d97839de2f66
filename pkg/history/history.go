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

package history

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/overflo/pkg/status"
	bolt "go.etcd.io/bbolt"
	"gitlab.com/tozd/go/errors"
)

var bucketRuns = []byte("runs")

// ErrClosed is returned by a Store after Close
var ErrClosed = errors.New("history store closed")

// 📜 Run is one executed transfer as it is kept in the journal
type Run struct {
	ID          uuid.UUID    `json:"id"`
	Job         string       `json:"job,omitempty"`
	Source      string       `json:"source"`
	Destination string       `json:"destination"`
	Mode        status.Mode  `json:"mode"`
	Filter      string       `json:"filter"`
	Scanned     int          `json:"scanned"`
	Candidates  int          `json:"candidates"`
	Success     int          `json:"success"`
	Failure     int          `json:"failure"`
	Bytes       int64        `json:"bytes"`
	Error       string       `json:"error,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
	Files       []FileRecord `json:"files,omitempty"`
}

// FileRecord is one attempted file of a Run
type FileRecord struct {
	Name        string `json:"name"`
	Destination string `json:"destination,omitempty"`
	Bytes       int64  `json:"bytes"`
	Error       string `json:"error,omitempty"`
}

// Duration is how long the run took
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// 🏗️ RunFromOutcome builds a journal record. runErr is the request level
// error, if any, which means no file was attempted.
func RunFromOutcome(job, source, destination, filter string, out status.Outcome, runErr error) Run {
	run := Run{
		ID:          uuid.New(),
		Job:         job,
		Source:      source,
		Destination: destination,
		Mode:        out.Mode,
		Filter:      filter,
		Scanned:     out.Scanned,
		Candidates:  out.Candidates,
		Success:     out.Success,
		Failure:     out.Failure,
		Bytes:       out.Bytes(),
		StartedAt:   out.StartedAt,
		FinishedAt:  out.FinishedAt,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	for _, res := range out.Results {
		rec := FileRecord{Name: res.Name, Destination: res.Destination, Bytes: res.Bytes}
		if res.Err != nil {
			rec.Error = res.Err.Error()
		}
		run.Files = append(run.Files, rec)
	}
	return run
}

// 🗄️ Store is a bbolt backed journal of runs
type Store struct {
	db *bolt.DB
}

// 🏭 Open opens (creating if needed) the journal at path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Errorf("creating history directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Errorf("opening history %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRuns)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Errorf("creating runs bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// 📝 Record appends run to the journal. A zero ID is replaced with a new one.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	if s.db == nil {
		return run, ErrClosed
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	data, err := json.Marshal(run)
	if err != nil {
		return run, errors.Errorf("encoding run: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRuns).Put(runKey(run), data)
	})
	if err != nil {
		return run, errors.Errorf("recording run %s: %w", run.ID, err)
	}

	zerolog.Ctx(ctx).Debug().Str("run", run.ID.String()).Str("job", run.Job).Msg("recorded run")
	return run, nil
}

// 📚 List returns up to limit runs, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	var runs []Run
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketRuns).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(runs) >= limit {
				break
			}
			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Hex("key", k).Msg("skipping unreadable run")
				continue
			}
			runs = append(runs, run)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// Close releases the database file
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// runKey sorts by start time, the id breaks ties
func runKey(run Run) []byte {
	key := make([]byte, 8, 8+len(run.ID))
	binary.BigEndian.PutUint64(key, uint64(run.StartedAt.UnixNano()))
	return append(key, run.ID[:]...)
}
