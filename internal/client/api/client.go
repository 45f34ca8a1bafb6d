// Copyright (c) 2026 PrepDeck. All rights reserved.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// TokenSource supplies the credential attached to authenticated requests.
// It returns false when no credential is stored.
type TokenSource interface {
	Token() (string, bool)
}

/*
Client is the HTTP collaborator the session service delegates remote calls
to. It is safe for concurrent use.

Parameters of NewClient:
  - baseURL: server origin including scheme, without a trailing slash.
  - tokens: credential source consulted per request; may be nil for a
    client that only calls public endpoints.
*/
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
}

func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Keep the Authorization header across same-host redirects.
				if len(via) > 0 {
					req.Header = via[0].Header
				}
				return nil
			},
		},
		baseURL: baseURL,
		tokens:  tokens,
	}
}

// dataEnvelope matches the server's success body.
type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// errorEnvelope matches the server's error body.
type errorEnvelope struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

/*
doRequest performs one round trip against the server.

Parameters:
  - method, path: HTTP method and path relative to the base URL.
  - body: marshalled as the JSON request body when non-nil.
  - result: when non-nil, the "data" field of the success envelope is
    unmarshalled into it.

Returns an [*Error] when the server answers with a non-2xx status, or a
plain error on transport failures.
*/
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		var envelope errorEnvelope
		if json.Unmarshal(raw, &envelope) == nil {
			apiErr.Code = envelope.Code
			apiErr.Message = envelope.Message
		}
		return apiErr
	}

	if result == nil {
		return nil
	}
	var envelope dataEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode response envelope: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, result); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and returns the issued session.
func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	var session Session
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/register",
		registerRequest{Name: name, Email: email, Password: password}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login",
		loginRequest{Email: email, Password: password}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Logout revokes the current token server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil)
}

// Me returns the account behind the current token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ProfileUpdate carries the fields of a partial profile edit. Nil fields
// are left untouched by the server.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// UpdateMe applies a partial profile edit and returns the stored result.
func (c *Client) UpdateMe(ctx context.Context, update ProfileUpdate) (*User, error) {
	var user User
	if err := c.doRequest(ctx, http.MethodPatch, "/api/v1/users/me", update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
