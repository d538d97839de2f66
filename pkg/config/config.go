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

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/overflo/pkg/filter"
	"github.com/walteh/overflo/pkg/operation"
	"github.com/walteh/overflo/pkg/scan"
	"github.com/walteh/overflo/pkg/status"
	"github.com/walteh/overflo/pkg/storage"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultHistoryPath = "~/.overflo/history.db"
	DefaultLogLevel    = "info"
	DefaultParallel    = 1
)

var ErrInvalidConfig = errors.New("invalid config")

// 📚 Config is the content of a job file
type Config struct {
	Logging   *LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty" hcl:"logging,block"`
	History   *HistoryConfig `json:"history,omitempty" yaml:"history,omitempty" hcl:"history,block"`
	Parallel  int            `json:"parallel,omitempty" yaml:"parallel,omitempty" hcl:"parallel,optional"`
	Transfers []Job          `json:"transfers" yaml:"transfers" hcl:"transfer,block"`

	location string
}

// 📝 LoggingConfig sets the structured log level
type LoggingConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty" hcl:"level,optional"`
}

// 🗄️ HistoryConfig controls the run journal
type HistoryConfig struct {
	Path     string `json:"path,omitempty" yaml:"path,omitempty" hcl:"path,optional"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty" hcl:"disabled,optional"`
}

// 🚚 Job is one named transfer
type Job struct {
	Name        string      `json:"name" yaml:"name" hcl:"name,label"`
	Source      string      `json:"source" yaml:"source" hcl:"source"`
	Destination string      `json:"destination" yaml:"destination" hcl:"destination"`
	Mode        string      `json:"mode,omitempty" yaml:"mode,omitempty" hcl:"mode,optional"`
	Percentage  int         `json:"percentage,omitempty" yaml:"percentage,omitempty" hcl:"percentage,optional"`
	Extension   string      `json:"extension,omitempty" yaml:"extension,omitempty" hcl:"extension,optional"`
	Ignore      []string    `json:"ignore,omitempty" yaml:"ignore,omitempty" hcl:"ignore,optional"`
	Size        *SizeConfig `json:"size,omitempty" yaml:"size,omitempty" hcl:"size,block"`
	Modified    *TimeConfig `json:"modified,omitempty" yaml:"modified,omitempty" hcl:"modified,block"`
	SortByName  *bool       `json:"sort_by_name,omitempty" yaml:"sort_by_name,omitempty" hcl:"sort_by_name,optional"`
	SniffTypes  bool        `json:"sniff_types,omitempty" yaml:"sniff_types,omitempty" hcl:"sniff_types,optional"`
}

// 📏 SizeConfig is the size filter of a job
type SizeConfig struct {
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty" hcl:"kind,optional"`
	MB   int64  `json:"mb,omitempty" yaml:"mb,omitempty" hcl:"mb,optional"`
}

// ⏰ TimeConfig is the modification time filter of a job
type TimeConfig struct {
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty" hcl:"kind,optional"`
	Days Days   `json:"days,omitempty" yaml:"days,omitempty" hcl:"days,optional"`
}

// Days is a day threshold as the user typed it. Text that is not a number
// falls back to filter.DefaultDays when the job is converted.
type Days string

// UnmarshalJSON accepts both 7 and "7"
func (d *Days) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = Days(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Errorf("days must be a number or a string: %w", err)
	}
	*d = Days(n.String())
	return nil
}

// Int parses the threshold, see filter.ParseDays
func (d Days) Int() int {
	return filter.ParseDays(string(d))
}

// Location is the file the config was loaded from, empty when built in code
func (cfg *Config) Location() string {
	return cfg.location
}

// 🔍 Validate fills in defaults and checks every job
func (cfg *Config) Validate() error {
	if cfg.Logging == nil {
		cfg.Logging = &LoggingConfig{}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if _, err := zerolog.ParseLevel(cfg.Logging.Level); err != nil {
		return errors.Errorf("%w: logging.level %q", ErrInvalidConfig, cfg.Logging.Level)
	}

	if cfg.History == nil {
		cfg.History = &HistoryConfig{}
	}
	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}

	if cfg.Parallel < 0 {
		return errors.Errorf("%w: parallel must not be negative", ErrInvalidConfig)
	}
	if cfg.Parallel == 0 {
		cfg.Parallel = DefaultParallel
	}

	seen := map[string]bool{}
	for i := range cfg.Transfers {
		job := &cfg.Transfers[i]
		if err := job.Validate(); err != nil {
			return errors.Errorf("transfer %d: %w", i, err)
		}
		if seen[job.Name] {
			return errors.Errorf("%w: duplicate transfer name %q", ErrInvalidConfig, job.Name)
		}
		seen[job.Name] = true
	}
	return nil
}

// LogLevel is the validated zerolog level
func (cfg *Config) LogLevel() zerolog.Level {
	if cfg.Logging == nil {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// HistoryPath returns the journal location with a leading ~ expanded
func (cfg *Config) HistoryPath() (string, error) {
	path := DefaultHistoryPath
	if cfg.History != nil && cfg.History.Path != "" {
		path = cfg.History.Path
	}
	return expandHome(path)
}

// HistoryEnabled reports whether runs should be journaled
func (cfg *Config) HistoryEnabled() bool {
	return cfg.History == nil || !cfg.History.Disabled
}

// 🎯 Job returns the transfer with the given name
func (cfg *Config) Job(name string) (*Job, error) {
	for i := range cfg.Transfers {
		if cfg.Transfers[i].Name == name {
			return &cfg.Transfers[i], nil
		}
	}
	return nil, errors.Errorf("no transfer named %q", name)
}

// 🔍 Validate fills in the job's defaults and checks it
func (j *Job) Validate() error {
	if strings.TrimSpace(j.Name) == "" {
		return errors.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(j.Source) == "" {
		return errors.Errorf("%w: %s: source is required", ErrInvalidConfig, j.Name)
	}
	if strings.TrimSpace(j.Destination) == "" {
		return errors.Errorf("%w: %s: destination is required", ErrInvalidConfig, j.Name)
	}

	mode, err := status.ParseMode(j.Mode)
	if err != nil {
		return errors.Errorf("%s: %w", j.Name, err)
	}
	j.Mode = string(mode)

	if j.Percentage == 0 {
		j.Percentage = filter.DefaultPercentage
	}
	if j.Extension == "" {
		j.Extension = string(filter.CategoryAll)
	}
	if j.Size == nil {
		j.Size = &SizeConfig{}
	}
	if j.Size.Kind == "" {
		j.Size.Kind = string(filter.SizeAny)
	}
	if j.Modified == nil {
		j.Modified = &TimeConfig{}
	}
	if j.Modified.Kind == "" {
		j.Modified.Kind = string(filter.TimeAny)
	}
	if j.Modified.Days == "" {
		j.Modified.Days = Days(strconv.Itoa(filter.DefaultDays))
	}
	if j.SortByName == nil {
		sort := true
		j.SortByName = &sort
	}

	if err := j.FilterSpec().Validate(); err != nil {
		return errors.Errorf("%s: %w", j.Name, err)
	}
	return nil
}

// FilterSpec converts the job's filters
func (j *Job) FilterSpec() filter.Spec {
	spec := filter.Spec{
		Extension:  filter.Category(strings.ToLower(j.Extension)),
		Percentage: j.Percentage,
		Ignore:     j.Ignore,
		Size:       filter.SizeFilter{Kind: filter.SizeAny},
		Time:       filter.TimeFilter{Kind: filter.TimeAny, Days: filter.DefaultDays},
	}
	if j.Size != nil {
		spec.Size = filter.SizeFilter{Kind: filter.SizeKind(strings.ToLower(j.Size.Kind)), MB: j.Size.MB}
	}
	if j.Modified != nil {
		spec.Time = filter.TimeFilter{Kind: filter.TimeKind(strings.ToLower(j.Modified.Kind)), Days: j.Modified.Days.Int()}
	}
	return spec
}

// Request builds the transfer request for the job
func (j *Job) Request() (operation.Request, error) {
	mode, err := status.ParseMode(j.Mode)
	if err != nil {
		return operation.Request{}, err
	}
	src, err := expandHome(j.Source)
	if err != nil {
		return operation.Request{}, err
	}
	dst, err := expandHome(j.Destination)
	if err != nil {
		return operation.Request{}, err
	}
	return operation.Request{
		Name:        j.Name,
		Source:      src,
		Destination: dst,
		Mode:        mode,
		Filter:      j.FilterSpec(),
	}, nil
}

// ScanOptions returns how the job's source should be enumerated
func (j *Job) ScanOptions() scan.Options {
	return scan.Options{SortByName: j.SortByName == nil || *j.SortByName}
}

// StorageOptions returns how the job's files should be inspected
func (j *Job) StorageOptions() storage.FSOptions {
	return storage.FSOptions{SniffTypes: j.SniffTypes}
}

// 📝 String returns a string representation of the job
func (j *Job) String() string {
	return fmt.Sprintf("%s: %s %s -> %s (%s)", j.Name, j.Mode, j.Source, j.Destination, j.FilterSpec())
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Errorf("expanding %q: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
