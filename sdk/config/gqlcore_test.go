// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package config_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideafast/dmp-cli-sdk/sdk/config"
)

type fixedCreds struct {
	loggedIn bool
	header   string
	value    string
}

func (c *fixedCreds) IsLoggedIn() bool { return c.loggedIn }

func (c *fixedCreds) AddHeaders(h http.Header) { h.Set(c.header, c.value) }

func TestQueryPostsGraphQLPayload(t *testing.T) {
	var gotPath, gotAuth string
	var gotPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotPayload)
		http.SetCookie(w, &http.Cookie{Name: config.SessionCookieName, Value: "sid-42"})
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	creds := &fixedCreds{loggedIn: true, header: "Authorization", value: "Bearer tok"}
	core := config.NewGraphQLCore(srv.Client(), config.CoreConfig{Server: srv.URL}, creds)

	resp, err := core.Query(context.Background(), "query q {}", map[string]any{"a": "b"}, true)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "/graphql", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "query q {}", gotPayload["query"])
	assert.Equal(t, map[string]any{"a": "b"}, gotPayload["variables"])
	assert.Equal(t, "sid-42", resp.Cookies[config.SessionCookieName])
}

func TestAuthenticatedQueryRequiresCredential(t *testing.T) {
	core := config.NewGraphQLCore(nil, config.CoreConfig{Server: "example.org"}, &fixedCreds{loggedIn: false})
	_, err := core.Query(context.Background(), "query q {}", nil, true)
	assert.Error(t, err)
}

func TestStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/file/abc", r.URL.Path)
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	core := config.NewGraphQLCore(srv.Client(), config.CoreConfig{Server: srv.URL}, nil)
	status, body, err := core.Stream(context.Background(), "/file/abc", false)
	require.NoError(t, err)
	defer body.Close()
	assert.Equal(t, http.StatusOK, status)
	data, _ := io.ReadAll(body)
	assert.Equal(t, "payload", string(data))
}

func TestResponseMessage(t *testing.T) {
	assert.Equal(t, "boom", config.ResponseMessage([]byte(`{"message":"boom"}`)))
	assert.Equal(t, "bad query", config.ResponseMessage([]byte(`{"errors":[{"message":"bad query"}]}`)))
	assert.Empty(t, config.ResponseMessage([]byte(`not json`)))
}
