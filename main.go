// pony - A terminal client for the Pony Express chat service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/pony-tui/internal/api"
	"github.com/jeranaias/pony-tui/internal/cli"
	"github.com/jeranaias/pony-tui/internal/config"
	"github.com/jeranaias/pony-tui/internal/logging"
	"github.com/jeranaias/pony-tui/internal/query"
	"github.com/jeranaias/pony-tui/internal/session"
	"github.com/jeranaias/pony-tui/internal/ui/app"
	"github.com/jeranaias/pony-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args, err := cli.Parse()
	if err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(cli.ExitCodeFor(err))
	}

	cfg, err := loadConfig(args)
	if err != nil {
		err = &cli.ConfigError{Err: err}
		cli.PrintError(os.Stderr, err)
		os.Exit(cli.ExitCodeFor(err))
	}

	closeLog := initLogging(cfg, args, cmd == cli.CmdTUI)
	defer closeLog()

	client := api.NewClientFromConfig(cfg.API).WithUserAgent("pony/" + Version)
	sess := session.FromEnv()

	if cmd == cli.CmdTUI {
		if err := runTUI(cfg, client, sess); err != nil {
			fmt.Fprintf(os.Stderr, "Error running pony: %v\n", err)
			closeLog()
			os.Exit(cli.ExitGeneralError)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	env := cli.NewEnv(cfg, client, sess)
	err = cli.Run(ctx, cmd, args, env)
	env.Close()
	stop()
	if err != nil {
		cli.PrintError(os.Stderr, err)
		closeLog()
		os.Exit(cli.ExitCodeFor(err))
	}
}

// loadConfig reads --config when given, otherwise the default locations,
// then applies --base-url.
func loadConfig(args cli.Args) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if args.BaseURL != "" {
		cfg.API.BaseURL = args.BaseURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	config.SetGlobal(cfg)
	return cfg, nil
}

// initLogging sends logs to a file while the TUI owns the terminal and to
// stderr otherwise. The returned func closes the file.
func initLogging(cfg *config.Config, args cli.Args, tui bool) func() {
	level := cfg.Log.Level
	if args.Verbose {
		level = "debug"
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}
	if tui {
		f, err := logging.OpenFile(cfg.LogPath())
		if err != nil {
			out = io.Discard
		} else {
			out = f
			closeFn = func() { f.Close() }
		}
	}

	logging.Init(logging.Config{Level: level, Format: cfg.Log.Format, Output: out})
	logging.Debug().Str("base_url", cfg.API.BaseURL).Bool("tui", tui).Msg("starting pony")
	return closeFn
}

func runTUI(cfg *config.Config, client *api.Client, sess *session.Store) error {
	cache := query.New(query.WithIdleEntries(cfg.Cache.IdleEntries))
	defer cache.Close()

	deps := app.NewDeps(client, cache, sess, styles.NewTheme(cfg.UI.Theme))
	deps.ScrollDelay = cfg.UI.ScrollDelay()
	deps.SmoothScroll = cfg.UI.SmoothScroll

	m := app.New(deps)
	defer m.Close()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	deps.SetSend(p.Send)

	_, err := p.Run()
	return err
}
