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
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// 🎯 DefaultFiles are tried in order when no config path is given
var DefaultFiles = []string{"overflo.hcl", "overflo.yaml", "overflo.yml", "overflo.json"}

// ErrNoParser is returned for files whose extension no parser claims
var ErrNoParser = errors.New("no parser for file")

// 📝 Parser turns raw bytes into a Config
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, filename string, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	name := strings.ToLower(filepath.Base(filename))
	for _, p := range parsers {
		if p.CanParse(name) {
			return p
		}
	}
	return nil
}

// 📂 Load reads, parses and validates the config file at path
func Load(ctx context.Context, path string) (*Config, error) {
	return LoadFS(ctx, afero.NewOsFs(), path)
}

// 📂 LoadFS is Load against any afero file system
func LoadFS(ctx context.Context, fs afero.Fs, path string) (*Config, error) {
	parser := GetParser(path)
	if parser == nil {
		return nil, errors.Errorf("%w: %s", ErrNoParser, path)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	cfg, err := parser.Parse(ctx, path, data)
	if err != nil {
		return nil, err
	}
	cfg.location = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("transfers", len(cfg.Transfers)).Msg("loaded config")
	return cfg, nil
}

// 🔍 Find returns the first of DefaultFiles that exists in dir
func Find(fs afero.Fs, dir string) (string, error) {
	for _, name := range DefaultFiles {
		path := filepath.Join(dir, name)
		ok, err := afero.Exists(fs, path)
		if err != nil {
			return "", errors.Errorf("checking %s: %w", path, err)
		}
		if ok {
			return path, nil
		}
	}
	return "", errors.Errorf("no config file found in %s (tried %s)", dir, strings.Join(DefaultFiles, ", "))
}
