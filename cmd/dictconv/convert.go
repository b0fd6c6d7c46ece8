// Copyright 2026 Ian Lewis
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

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/urfave/cli/v2"

	dictconv "github.com/ianlewis/go-dictconv"
	"github.com/ianlewis/go-dictconv/batch"
	"github.com/ianlewis/go-dictconv/config"
	"github.com/ianlewis/go-dictconv/internal/folding"
	"github.com/ianlewis/go-dictconv/row"
)

// loadConfig loads the configuration file. A relative path is resolved
// against the base directory. A missing default configuration file is
// treated as an empty configuration.
func loadConfig(c *cli.Context) (*config.File, error) {
	path := c.String("config")
	explicit := path != ""
	if !explicit {
		path = config.DefaultPath
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.String("dir"), path)
	}

	f, err := config.Load(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &config.File{}, nil
		}
		return nil, err
	}
	return f, nil
}

// override applies the column flags to jobs that were not configured in the
// configuration file.
func override(c *cli.Context, jobs []*dictconv.Job, fields dictconv.Fields) error {
	if c.IsSet("direction") {
		d, err := row.ParseDirection(c.String("direction"), fields.First, fields.Second)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFlagParse, err)
		}
		for _, j := range jobs {
			j.Direction = d
		}
	}
	for _, j := range jobs {
		if c.IsSet("src-col") {
			j.SrcColumn = c.Int("src-col")
		}
		if c.IsSet("dst-col") {
			j.DstColumn = c.Int("dst-col")
		}
	}
	return nil
}

func convert(c *cli.Context) error {
	baseDir := c.String("dir")

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	fields := cfg.RecordFields()

	modes := cfg.FoldModes()
	if c.IsSet("fold") {
		modes, err = folding.ParseModes(c.StringSlice("fold"))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFlagParse, err)
		}
	}
	fold, err := folding.New(modes...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFlagParse, err)
	}

	manifestPath := cfg.ManifestPath()
	if c.IsSet("manifest") {
		manifestPath = c.String("manifest")
	}

	var jobs []*dictconv.Job
	var jobErrs []error
	switch {
	case c.Args().Present():
		for _, src := range c.Args().Slice() {
			jobs = append(jobs, dictconv.NewJob(src))
		}
		if err := override(c, jobs, fields); err != nil {
			return err
		}
	case len(cfg.Files) > 0:
		jobs, jobErrs = cfg.Jobs()
	default:
		jobs, jobErrs = config.Discover(baseDir, cfg.Extensions)
		if err := override(c, jobs, fields); err != nil {
			return err
		}
	}

	r := &batch.Runner{
		Converter: &dictconv.Converter{
			BaseDir: baseDir,
			Fields:  fields,
			Strict:  cfg.Strict || c.Bool("strict"),
			Fold:    fold,
		},
		ManifestPath: manifestPath,
		Out:          c.App.Writer,
		Err:          c.App.ErrWriter,
	}

	s, err := r.Run(jobs, jobErrs)
	if err != nil {
		return fmt.Errorf("%w: writing manifest: %w", ErrDictconv, err)
	}

	if c.Bool("table") {
		printManifest(c.App.Writer, s.Manifest)
	}

	return s.Err()
}
