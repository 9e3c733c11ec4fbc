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

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// BuiltinSource names the config source when no config file is given
const BuiltinSource = "builtin"

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// Flags
	Dir        string
	ConfigFile string
	Debug      bool
	Async      bool

	Stdout io.Writer
	Stderr io.Writer

	Logger  zerolog.Logger
	Console *log.Logger
}

// New creates root options writing operator output to stdout and structured
// records to stderr
func New(stdout, stderr io.Writer) *RootOpts {
	return &RootOpts{
		Dir:     ".",
		Stdout:  stdout,
		Stderr:  stderr,
		Logger:  zerolog.Nop(),
		Console: log.New(stdout, zerolog.Nop()),
	}
}

// Setup builds the loggers once flags are parsed and stores them in ctx
func (o *RootOpts) Setup(ctx context.Context) context.Context {
	level := zerolog.WarnLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}

	o.Logger = zerolog.New(zerolog.ConsoleWriter{Out: o.Stderr, NoColor: true}).
		Level(level).
		With().
		Timestamp().
		Logger()
	o.Console = log.New(o.Stdout, o.Logger)

	ctx = o.Logger.WithContext(ctx)
	return log.NewContext(ctx, o.Console)
}

// LoadConfig loads the patch set named by --config, or the built-in patch set
// when none was given. It also returns a label for the source.
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, string, error) {
	if o.ConfigFile == "" {
		return config.Default(), BuiltinSource, nil
	}

	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, "", errors.Errorf("loading config: %w", err)
	}
	return cfg, o.ConfigFile, nil
}
