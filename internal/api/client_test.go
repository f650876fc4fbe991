// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/pony-tui/internal/config"
	"github.com/jeranaias/pony-tui/internal/model"
)

// =============================================================================
// RAW REQUEST TESTS
// =============================================================================

func TestRequest_HeadersAndRawResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chats", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "pony/test", r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte(`raw body`))
	}))
	defer server.Close()

	client := NewClient(server.URL + "/").WithUserAgent("pony/test")
	resp, err := client.Request(context.Background(), http.MethodGet, "chats", nil, "tok")
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.Status)
	assert.Equal(t, "raw body", string(resp.Body))
	assert.False(t, resp.OK())
}

func TestRequest_NoCredentialNoHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Request(context.Background(), http.MethodGet, "/", nil, "")
	require.NoError(t, err)
	assert.True(t, resp.OK())
}

func TestRequest_Bodies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(r.Header.Get("Content-Type") + "|" + string(data)))
	}))
	defer server.Close()
	client := NewClient(server.URL)

	resp, err := client.Request(context.Background(), http.MethodPost, "/x", JSONBody(map[string]string{"text": "hi"}), "")
	require.NoError(t, err)
	assert.Equal(t, `application/json|{"text":"hi"}`, string(resp.Body))

	resp, err = client.Request(context.Background(), http.MethodPost, "/x", FormBody(url.Values{"a": {"b c"}}), "")
	require.NoError(t, err)
	assert.Equal(t, "application/x-www-form-urlencoded|a=b+c", string(resp.Body))
}

func TestRequest_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	_, err := NewClient(addr).Request(context.Background(), http.MethodGet, "/chats", nil, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, "could not reach server", UserMessage(err))
}

func TestRequest_BreakerOpensOnTransportFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	client := NewClient(addr).WithBreaker(2, time.Minute)
	for i := 0; i < 2; i++ {
		_, err := client.Request(context.Background(), http.MethodGet, "/", nil, "")
		require.ErrorIs(t, err, ErrTransport)
		assert.NotErrorIs(t, err, ErrCircuitOpen)
	}

	_, err := client.Request(context.Background(), http.MethodGet, "/", nil, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestRequest_BreakerIgnoresHTTPErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL).WithBreaker(1, time.Minute)
	for i := 0; i < 5; i++ {
		resp, err := client.Request(context.Background(), http.MethodGet, "/", nil, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.Status)
	}
	assert.Equal(t, int32(5), hits.Load())
}

func TestRequest_ResponseTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", MaxResponseSize+10)))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Request(context.Background(), http.MethodGet, "/", nil, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestRequest_RateLimitHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client := NewClient(server.URL).WithRateLimit(0.001, 1)
	_, err := client.Request(context.Background(), http.MethodGet, "/", nil, "")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.Request(ctx, http.MethodGet, "/", nil, "")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestNewClientFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.API.BaseURL = "http://example.test/"
	client := NewClientFromConfig(cfg.API)
	assert.Equal(t, "http://example.test", client.BaseURL())
	assert.Equal(t, 15*time.Second, client.httpClient.Timeout)
	assert.NotNil(t, client.breaker)
	assert.Nil(t, client.limiter)
}

// =============================================================================
// ENDPOINT TESTS
// =============================================================================

func TestToken_BadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "/auth/token", r.URL.Path)
		assert.Equal(t, "alice", r.PostForm.Get("username"))
		assert.Equal(t, "wrong", r.PostForm.Get("password"))
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":{"error":"invalid_client","error_description":"bad credentials"}}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Token(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "invalid_client", authErr.Code)
	assert.Equal(t, "bad credentials", LoginMessage(err))
	assert.Equal(t, "bad credentials", UserMessage(err))
}

func TestToken_OtherFailuresAreOpaque(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>oops</html>`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Token(context.Background(), "alice", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, LoginFailedMessage, LoginMessage(err))
}

func TestToken_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"abc","token_type":"bearer","expires_in":3600}`))
	}))
	defer server.Close()

	tok, err := NewClient(server.URL).Token(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok.Value())
	assert.Equal(t, 3600, tok.ExpiresIn)
}

func TestChats_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rooms":[]}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Chats(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestChats_RequiresCredential(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Chats(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.Equal(t, int32(0), hits.Load())
}

func TestChat_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chats/9", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":{"type":"entity_not_found","entity_name":"Chat","entity_id":9}}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Chat(context.Background(), "tok", "9")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Chat not found", UserMessage(err))
}

func TestMessages_Decode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chats/42/messages", r.URL.Path)
		w.Write([]byte(`{"messages":[
			{"id":1,"user_id":2,"text":"hello","created_at":"2024-01-01T10:00:00","user":{"username":"bob"}},
			{"id":2,"user_id":3,"text":"hi","created_at":"2024-01-01T10:01:00","user":{"username":"alice"}}
		]}`))
	}))
	defer server.Close()

	msgs, err := NewClient(server.URL).Messages(context.Background(), "tok", "42")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "bob", msgs[0].AuthorName())
	assert.Equal(t, "hi", msgs[1].Text)
}

func TestCreateMessage_EmptySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"text":"hi"}`, string(data))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	_, created, err := NewClient(server.URL).CreateMessage(context.Background(), "tok", "42", " hi ")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestCreateMessage_ReturnsMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":{"id":7,"user_id":1,"text":"hi","created_at":"2024-01-01T00:00:00Z"}}`))
	}))
	defer server.Close()

	msg, created, err := NewClient(server.URL).CreateMessage(context.Background(), "tok", "42", "hi")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.ID("7"), msg.ID)
}

func TestCreateMessage_RejectsBlank(t *testing.T) {
	_, _, err := NewClient("http://127.0.0.1:1").CreateMessage(context.Background(), "tok", "42", "   ")
	var verr *model.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestRegister_Duplicate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":{"type":"duplicate_value","entity_name":"User","entity_field":"username","entity_value":"alice"}}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Register(context.Background(), model.Registration{
		Username: "alice", Email: "alice@example.com", Password: "pw",
	})
	require.Error(t, err)
	assert.Equal(t, "username already taken", UserMessage(err))
}

func TestCurrentUser_BareAndEnveloped(t *testing.T) {
	bodies := []string{
		`{"user":{"id":1,"username":"alice","email":"a@x.io","created_at":"2024-02-03T00:00:00"}}`,
		`{"id":1,"username":"alice","email":"a@x.io","created_at":"2024-02-03T00:00:00"}`,
	}
	for _, body := range bodies {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		user, err := NewClient(server.URL).CurrentUser(context.Background(), "tok")
		server.Close()
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, 2024, user.CreatedAt.Year())
	}
}
