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
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"
	"sigs.k8s.io/release-utils/version"

	"github.com/ianlewis/go-dictconv/config"
	"github.com/ianlewis/go-dictconv/manifest"
)

const (
	// ExitCodeSuccess is successful error code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is the exit code for a flag parsing error.
	ExitCodeFlagParseError

	// ExitCodeUnknownError is the exit code for failed jobs and unknown
	// errors.
	ExitCodeUnknownError

	// ExitCodeConfigError is the exit code for an invalid configuration file.
	ExitCodeConfigError
)

// ErrDictconv is a parent error for all command errors.
var ErrDictconv = errors.New("dictconv")

// ErrFlagParse is a flag parsing error.
var ErrFlagParse = fmt.Errorf("%w: parsing flags", ErrDictconv)

var copyrightNames = []string{
	"2026 Ian Lewis",
}

//nolint:gochecknoinits // init needed needed for global variable.
func init() {
	// Set the HelpFlag to a random name so that it isn't used. `cli` handles
	// the flag with the root command such that it takes a command name argument
	// but we don't use commands.
	//
	// This is done because `dictconv --help foo` will display a
	// "command foo not found" error instead of the help.
	//
	// This flag is hidden by the help output.
	// See: github.com/urfave/cli/issues/1809
	cli.HelpFlag = &cli.BoolFlag{
		// NOTE: Use a random name no one would guess.
		Name:               "d41d8cd98f00b204e980",
		DisableDefaultText: true,
	}
}

// exitCode returns the process exit code for an error returned by the app.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitCodeSuccess
	case errors.Is(err, ErrFlagParse):
		return ExitCodeFlagParseError
	case errors.Is(err, config.ErrConfig):
		return ExitCodeConfigError
	default:
		return ExitCodeUnknownError
	}
}

func newDictconvApp() *cli.App {
	return &cli.App{
		Name:      filepath.Base(os.Args[0]),
		Usage:     "Convert tabular word lists to JSON datasets.",
		UsageText: "dictconv [OPTION]... [SOURCE]...",
		Description: strings.Join([]string{
			"Converts CSV and TSV word lists in mixed encodings to JSON",
			"datasets and writes a manifest of the generated datasets.",
			"",
			"SOURCE files are converted with default settings. Without SOURCE",
			"arguments the jobs in the configuration file are run. Without a",
			"configuration file, sources found under DIR are converted.",
			"http://github.com/ianlewis/go-dictconv",
		}, "\n"),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Usage:   "resolve relative paths against `DIR`",
				Aliases: []string{"C"},
				Value:   ".",
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "read jobs from `FILE`, relative to DIR (default: " + config.DefaultPath + ")",
				Aliases: []string{"c"},
			},
			&cli.StringFlag{
				Name:    "manifest",
				Usage:   "write the manifest to `FILE`, relative to DIR (default: " + manifest.DefaultPath + ")",
				Aliases: []string{"m"},
			},
			&cli.BoolFlag{
				Name:               "strict",
				Usage:              "skip comment lines and drop empty records",
				DisableDefaultText: true,
			},
			&cli.StringSliceFlag{
				Name:  "fold",
				Usage: "fold fields with `MODE` (trim, space, nfc, nfkc, width)",
			},
			&cli.StringFlag{
				Name:  "direction",
				Usage: "column `DIRECTION` of SOURCE and discovered files",
			},
			&cli.IntFlag{
				Name:  "src-col",
				Usage: "source column `INDEX` of SOURCE and discovered files",
			},
			&cli.IntFlag{
				Name:  "dst-col",
				Usage: "destination column `INDEX` of SOURCE and discovered files",
			},
			&cli.BoolFlag{
				Name:               "table",
				Usage:              "print the manifest as a table",
				DisableDefaultText: true,
			},

			// Special flags are shown at the end.
			&cli.BoolFlag{
				Name:               "help",
				Usage:              "print this help text and exit",
				Aliases:            []string{"h"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "version",
				Usage:              "print version information and exit",
				Aliases:            []string{"V"},
				DisableDefaultText: true,
			},
		},
		Copyright:       strings.Join(copyrightNames, "\n"),
		HideHelp:        true,
		HideHelpCommand: true,
		OnUsageError: func(_ *cli.Context, err error, _ bool) error {
			return fmt.Errorf("%w: %w", ErrFlagParse, err)
		},
		Action: func(c *cli.Context) error {
			if c.Bool("help") {
				return cli.ShowAppHelp(c)
			}
			if c.Bool("version") {
				return printVersion(c)
			}

			return convert(c)
		},
	}
}

func printVersion(c *cli.Context) error {
	versionInfo := version.GetVersionInfo()

	_, err := fmt.Fprintf(c.App.Writer, "%s %s\nCopyright (c) %s\n",
		c.App.Name, versionInfo.GitVersion, strings.Join(copyrightNames, ", "))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDictconv, err)
	}
	return nil
}

func printManifest(w io.Writer, m *manifest.Manifest) {
	tbl := table.New("Path", "Source", "Label", "Version").WithWriter(w)
	for _, e := range m.Datasets {
		tbl.AddRow(e.Path, e.Source, e.Label, e.Version)
	}
	tbl.Print()
}
