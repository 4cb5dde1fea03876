// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SessionCookieName is the name of the session cookie the platform
// issues on login.
const SessionCookieName = "connect.sid"

// CredentialProvider injects authentication headers into outgoing
// requests. The one implementation lives in the remote service, backed
// by the persisted login state.
type CredentialProvider interface {
	// IsLoggedIn reports whether a credential is available, independent
	// of its server-side validity.
	IsLoggedIn() bool
	// AddHeaders adds the authentication headers for the current
	// credential.
	AddHeaders(h http.Header)
}

// GqlResponse is the raw outcome of one GraphQL request.
type GqlResponse struct {
	Status  int
	Body    []byte
	Cookies map[string]string // cookies the server asked to set
}

// CoreGraphQL is the transport capability the SDK consumes: opaque
// GraphQL queries plus streaming file GETs, with authentication header
// injection.
type CoreGraphQL interface {
	Query(ctx context.Context, query string, variables map[string]any, authenticated bool) (*GqlResponse, error)
	Stream(ctx context.Context, path string, authenticated bool) (int, io.ReadCloser, error)
}

type gqlCore struct {
	httpClient *http.Client
	coreConfig CoreConfig
	creds      CredentialProvider
}

// NewGraphQLCore builds the default CoreGraphQL over net/http. A nil
// httpClient falls back to http.DefaultClient.
func NewGraphQLCore(httpClient *http.Client, coreConfig CoreConfig, creds CredentialProvider) CoreGraphQL {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &gqlCore{httpClient: httpClient, coreConfig: coreConfig, creds: creds}
}

func (c *gqlCore) baseURL() string {
	server := c.coreConfig.Server
	if strings.Contains(server, "://") {
		return strings.TrimSuffix(server, "/")
	}
	return "https://" + server
}

func (c *gqlCore) Query(ctx context.Context, query string, variables map[string]any, authenticated bool) (*GqlResponse, error) {
	payload := map[string]any{"query": query}
	if variables != nil {
		payload["variables"] = variables
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+"/graphql", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		if c.creds == nil || !c.creds.IsLoggedIn() {
			return nil, fmt.Errorf("authenticated query without login credentials")
		}
		c.creds.AddHeaders(req.Header)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	cookies := map[string]string{}
	for _, ck := range resp.Cookies() {
		cookies[ck.Name] = ck.Value
	}
	return &GqlResponse{Status: resp.StatusCode, Body: body, Cookies: cookies}, nil
}

func (c *gqlCore) Stream(ctx context.Context, path string, authenticated bool) (int, io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+path, nil)
	if err != nil {
		return 0, nil, err
	}
	if authenticated {
		if c.creds == nil || !c.creds.IsLoggedIn() {
			return 0, nil, fmt.Errorf("authenticated request without login credentials")
		}
		c.creds.AddHeaders(req.Header)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, resp.Body, nil
}

// ResponseMessage digs a human-readable message out of an error
// response body, if there is one.
func ResponseMessage(body []byte) string {
	var m map[string]any
	if json.Unmarshal(body, &m) != nil {
		return ""
	}
	if msg, ok := m["message"].(string); ok {
		return msg
	}
	if errs, ok := m["errors"].([]any); ok && len(errs) > 0 {
		if em, ok := errs[0].(map[string]any); ok {
			if msg, ok := em["message"].(string); ok {
				return msg
			}
		}
	}
	return ""
}
