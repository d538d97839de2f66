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

package opts

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/overflo/pkg/config"
	"github.com/walteh/overflo/pkg/history"
	"github.com/walteh/overflo/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// RootOpts is shared by every command
type RootOpts struct {
	ConfigFile  string
	Debug       bool
	HistoryFile string
	NoHistory   bool

	Console io.Writer
	Logger  *log.Logger

	// Fs is where config files are looked up, the OS file system when nil
	Fs afero.Fs
	// WorkDir is searched for a default config file, the process cwd when empty
	WorkDir string

	cfg *config.Config
}

// Level is the log level chosen on the command line
func (o *RootOpts) Level() zerolog.Level {
	if o.Debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// 🎯 Setup builds the loggers and stores them in ctx
func (o *RootOpts) Setup(ctx context.Context, level zerolog.Level) context.Context {
	if o.Console == nil {
		o.Console = os.Stdout
	}
	o.Logger = log.New(o.Console, level)
	zlog := o.Logger.Zerolog()
	ctx = zlog.WithContext(ctx)
	return log.NewContext(ctx, o.Logger)
}

func (o *RootOpts) fs() afero.Fs {
	if o.Fs == nil {
		return afero.NewOsFs()
	}
	return o.Fs
}

// 📂 Config loads the config file named by --config or, when none was given,
// the first default file in the working directory. It returns nil without an
// error when no file was named and none exists.
func (o *RootOpts) Config(ctx context.Context) (*config.Config, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}

	path := o.ConfigFile
	if path == "" {
		dir := o.WorkDir
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return nil, errors.Errorf("getting working directory: %w", err)
			}
			dir = wd
		}
		found, err := config.Find(o.fs(), dir)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Msg("no default config")
			return nil, nil
		}
		path = found
	}

	cfg, err := config.LoadFS(ctx, o.fs(), path)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	o.cfg = cfg
	return cfg, nil
}

// 🗄️ History opens the run journal. It returns nil when history is disabled.
func (o *RootOpts) History(ctx context.Context) (*history.Store, error) {
	if o.NoHistory {
		return nil, nil
	}

	path := o.HistoryFile
	if path == "" {
		cfg, err := o.Config(ctx)
		if err != nil {
			return nil, err
		}
		if cfg == nil {
			cfg = &config.Config{}
		}
		if !cfg.HistoryEnabled() {
			return nil, nil
		}
		path, err = cfg.HistoryPath()
		if err != nil {
			return nil, err
		}
	}

	store, err := history.Open(path)
	if err != nil {
		return nil, err
	}
	return store, nil
}
