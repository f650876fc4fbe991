// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing for pony.

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdChats
	CmdMessages
	CmdSend
	CmdChat
	CmdProfile
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdLogin:
		return "login"
	case CmdChats:
		return "chats"
	case CmdMessages:
		return "messages"
	case CmdSend:
		return "send"
	case CmdChat:
		return "chat"
	case CmdProfile:
		return "profile"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "tui"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string
	BaseURL    string
	Verbose    bool

	// Command-specific
	Subcommand string
	ChatID     string
	Username   string
	Text       string

	// Raw args (remaining after the command name)
	Raw []string
}

const usageText = `pony - terminal client for the Pony Express chat service

Usage:
  pony                          Start the TUI (default)
  pony tui                      Start the TUI
  pony login [username]         Log in and print the token to export
  pony chats                    List your chats
  pony messages <chat-id>       Show a chat's messages
  pony send <chat-id> <text...> Send a message, then show the chat
  pony chat <chat-id>           Line-mode chat (type to send, /quit to leave)
  pony profile                  Show your account
  pony config [show|init]       Show the effective config or write defaults
  pony version                  Show version information
  pony help                     Show this help

Global Flags:
  --config PATH      Read configuration from PATH
  --base-url URL     Override the service URL
  -v, --verbose      Debug logging

Authentication:
  The session lives in memory only. 'pony login' prints
    export PONY_TOKEN=...
  and every later command reads the token from PONY_TOKEN.

Examples:
  eval "$(pony login alice)"
  pony chats
  pony send 3 "on my way"

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "pony version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
}

// Parse parses os.Args.
func Parse() (Command, Args, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses command-line arguments and returns the command and args.
func ParseArgs(argv []string) (Command, Args, error) {
	remaining, parsedArgs, err := parseGlobalFlags(argv)
	if err != nil {
		return CmdHelp, parsedArgs, err
	}

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs, nil
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs, nil

	case "login":
		if len(remaining) > 0 {
			parsedArgs.Username = remaining[0]
		}
		return CmdLogin, parsedArgs, nil

	case "chats", "ls":
		return CmdChats, parsedArgs, nil

	case "messages", "thread":
		if len(remaining) < 1 {
			return CmdMessages, parsedArgs, usage("messages", "missing chat id", "pony messages 3")
		}
		parsedArgs.ChatID = remaining[0]
		return CmdMessages, parsedArgs, nil

	case "send":
		if len(remaining) < 2 {
			return CmdSend, parsedArgs, usage("send", "need a chat id and message text", `pony send 3 "hello"`)
		}
		parsedArgs.ChatID = remaining[0]
		parsedArgs.Text = strings.Join(remaining[1:], " ")
		return CmdSend, parsedArgs, nil

	case "chat":
		if len(remaining) < 1 {
			return CmdChat, parsedArgs, usage("chat", "missing chat id", "pony chat 3")
		}
		parsedArgs.ChatID = remaining[0]
		return CmdChat, parsedArgs, nil

	case "profile", "me", "whoami":
		return CmdProfile, parsedArgs, nil

	case "config":
		parsedArgs.Subcommand = "show"
		if len(remaining) > 0 {
			parsedArgs.Subcommand = strings.ToLower(remaining[0])
		}
		switch parsedArgs.Subcommand {
		case "show", "init":
		default:
			return CmdConfig, parsedArgs, usage("config", "unknown subcommand "+parsedArgs.Subcommand, "pony config init")
		}
		return CmdConfig, parsedArgs, nil

	case "version", "--version", "-V":
		return CmdVersion, parsedArgs, nil

	case "help", "--help", "-h":
		return CmdHelp, parsedArgs, nil

	default:
		return CmdHelp, parsedArgs, usage("", "unknown command: "+cmd, "pony help")
	}
}

// parseGlobalFlags removes global flags from args wherever they appear.
func parseGlobalFlags(args []string) ([]string, Args, error) {
	var remaining []string
	var parsedArgs Args

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-v" || arg == "--verbose":
			parsedArgs.Verbose = true
		case arg == "--config" || arg == "--base-url":
			if i+1 >= len(args) {
				return nil, parsedArgs, usage("", arg+" needs a value", "")
			}
			i++
			setGlobal(&parsedArgs, arg, args[i])
		case strings.HasPrefix(arg, "--config="), strings.HasPrefix(arg, "--base-url="):
			name, value, _ := strings.Cut(arg, "=")
			setGlobal(&parsedArgs, name, value)
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, parsedArgs, nil
}

func setGlobal(a *Args, name, value string) {
	switch name {
	case "--config":
		a.ConfigPath = value
	case "--base-url":
		a.BaseURL = value
	}
}
