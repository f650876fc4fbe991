// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the one-shot commands
// that share the TUI's client, cache and session.
//
// # Usage
//
//	cmd, args, err := cli.Parse()
//	if cmd == cli.CmdTUI {
//	    // start the terminal UI
//	}
//	env := cli.NewEnv(cfg, client, sess)
//	defer env.Close()
//	if err := cli.Run(ctx, cmd, args, env); err != nil {
//	    cli.PrintError(os.Stderr, err)
//	    os.Exit(cli.ExitCodeFor(err))
//	}
//
// # Commands
//
//   - login [username]: exchange a password for a token
//   - chats: list chats
//   - messages <chat-id>: print a thread
//   - send <chat-id> <text>: post a message and print the thread
//   - chat <chat-id>: interactive prompt for one chat
//   - profile: show the signed-in account
//   - config [show|init]: print or write the configuration
//
// Reads go through the query cache and writes through the mutation
// runner, so the CLI sees the same invalidation rules as the TUI.
package cli
