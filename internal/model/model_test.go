// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalNumberAndString(t *testing.T) {
	var out struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":42,"b":"abc","c":null}`), &out))
	assert.Equal(t, ID("42"), out.A)
	assert.Equal(t, ID("abc"), out.B)
	assert.Equal(t, ID(""), out.C)

	var bad struct {
		A ID `json:"a"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"a":true}`), &bad))
}

func TestTimestamp_Formats(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2024-03-05T14:07:09Z"`, time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)},
		{`"2024-03-05T14:07:09.250000"`, time.Date(2024, 3, 5, 14, 7, 9, 250000000, time.UTC)},
		{`"2024-03-05T14:07:09"`, time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)},
		{`"2024-03-05"`, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestMessagesEnvelope_DecodeAndValidate(t *testing.T) {
	body := `{"messages":[{"id":1,"user_id":7,"text":"hi","created_at":"2024-01-02T03:04:05","user":{"username":"alice"}}]}`
	var env MessagesEnvelope
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	require.NoError(t, Validate(env))
	require.Len(t, env.Messages, 1)
	assert.Equal(t, "alice", env.Messages[0].AuthorName())
	assert.Equal(t, ID("7"), env.Messages[0].UserID)
}

func TestValidate_EmptyListIsValid(t *testing.T) {
	var env ChatsEnvelope
	require.NoError(t, json.Unmarshal([]byte(`{"chats":[]}`), &env))
	assert.NoError(t, Validate(env))
}

func TestValidate_MissingFields(t *testing.T) {
	var env ChatsEnvelope
	require.NoError(t, json.Unmarshal([]byte(`{"other":1}`), &env))
	err := Validate(env)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "chats", verr.Fields[0].Field)

	// Nested entity missing its id.
	require.NoError(t, json.Unmarshal([]byte(`{"chats":[{"name":"general"}]}`), &env))
	assert.Error(t, Validate(env))
}

func TestToken_Value(t *testing.T) {
	var tok Token
	require.NoError(t, json.Unmarshal([]byte(`{"access_token":"abc","token_type":"bearer"}`), &tok))
	require.NoError(t, Validate(tok))
	assert.Equal(t, "abc", tok.Value())

	tok = Token{}
	require.NoError(t, json.Unmarshal([]byte(`{"token":"xyz"}`), &tok))
	require.NoError(t, Validate(tok))
	assert.Equal(t, "xyz", tok.Value())

	assert.Error(t, Validate(Token{TokenType: "bearer"}))
}

func TestRegistration_Validate(t *testing.T) {
	ok := Registration{Username: "alice", Email: "alice@example.com", Password: "pw"}
	assert.NoError(t, Validate(ok))

	err := Validate(Registration{Username: "alice", Email: "not-an-email"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email must be a valid email address")
	assert.Contains(t, err.Error(), "password is required")
}

func TestNormalizeText(t *testing.T) {
	// "e" followed by a combining acute accent composes to a single rune.
	assert.Equal(t, "caf\u00e9", NormalizeText("  cafe\u0301\x07 "))
	assert.Equal(t, "line1\nline2", NormalizeText("line1\nline2\r"))
	assert.Equal(t, "", NormalizeText(" \t "))
}

func TestFormatTimes(t *testing.T) {
	ts := time.Date(2024, 3, 5, 4, 7, 9, 0, time.Local)
	assert.Equal(t, "3-5-2024 - 4:7:9", FormatMessageTime(ts))
	assert.Equal(t, "3/5/2024", FormatDate(ts))
	assert.Equal(t, "", FormatMessageTime(time.Time{}))
	assert.Equal(t, "", FormatDate(time.Time{}))
}
