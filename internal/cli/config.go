// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - The config command.

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jeranaias/pony-tui/internal/config"
)

// HandleConfig shows the effective configuration or writes the defaults.
func HandleConfig(env *Env, args Args) error {
	switch args.Subcommand {
	case "init":
		return configInit(env, args)
	default:
		fmt.Fprint(env.Out, env.Config.String())
		return nil
	}
}

func configInit(env *Env, args Args) error {
	path := args.ConfigPath
	if path == "" {
		p, err := config.ConfigPathTOML()
		if err != nil {
			return &ConfigError{Err: err}
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		return &ConfigError{Err: fmt.Errorf("%s already exists", path)}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &ConfigError{Err: err}
	}

	if err := config.SaveTOML(config.Default(), path); err != nil {
		return &ConfigError{Err: err}
	}
	fmt.Fprintln(env.Err, SuccessStyle.Render("Wrote "+path))
	return nil
}
