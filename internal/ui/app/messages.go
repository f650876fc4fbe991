// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/jeranaias/pony-tui/internal/model"
	"github.com/jeranaias/pony-tui/internal/query"
)

// =============================================================================
// NAVIGATION MESSAGES
// =============================================================================

// ScreenID names a screen.
type ScreenID int

const (
	ScreenHome ScreenID = iota
	ScreenLogin
	ScreenRegister
	ScreenChats
	ScreenProfile
)

// String returns the screen name.
func (s ScreenID) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenRegister:
		return "register"
	case ScreenChats:
		return "chats"
	case ScreenProfile:
		return "profile"
	default:
		return "home"
	}
}

// NavigateMsg switches screens. ChatID preselects a thread on the chats
// screen; Notice is shown once on the target screen.
type NavigateMsg struct {
	To     ScreenID
	ChatID model.ID
	Notice string
}

// LogoutMsg ends the session and clears cached data.
type LogoutMsg struct{}

// =============================================================================
// REQUEST RESULTS
// =============================================================================

// loginResultMsg is the outcome of a token request.
type loginResultMsg struct {
	token model.Token
	err   error
}

// registerResultMsg is the outcome of a registration.
type registerResultMsg struct {
	user model.User
	err  error
}

// sendResultMsg is the outcome of the send mutation.
type sendResultMsg struct {
	chatID  model.ID
	outcome query.Outcome
}
