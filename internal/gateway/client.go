// Package gateway is the single HTTP abstraction in front of the SeedSmart
// REST backend: one method per remote operation, bearer auth attached when
// a session credential exists, typed errors for every non-success status.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/amythology/seedsmart-client/internal/nav"
	"github.com/amythology/seedsmart-client/pkg/config"
	"github.com/amythology/seedsmart-client/pkg/enums"
	pkgerrors "github.com/amythology/seedsmart-client/pkg/errors"
	"github.com/amythology/seedsmart-client/pkg/logger"
	"github.com/google/uuid"
)

// TokenProvider yields the current bearer credential, if any.
type TokenProvider interface {
	Token(ctx context.Context) (string, bool)
}

// SessionWriter persists identity fields after login and clears them on logout.
type SessionWriter interface {
	EstablishSession(ctx context.Context, token, userID string, role enums.UserRole) error
	ClearSession(ctx context.Context) error
}

// Client issues authenticated JSON requests against the backend. Failures
// propagate to the caller immediately: no retries, no response caching.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	tokens   TokenProvider
	sessions SessionWriter
	nav      nav.Navigator
	logg     *logger.Logger
}

// NewClient builds the gateway from the API config and its collaborators.
func NewClient(cfg config.APIConfig, tokens TokenProvider, sessions SessionWriter, navigator nav.Navigator, logg *logger.Logger) (*Client, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token provider required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session writer required")
	}
	if navigator == nil {
		return nil, fmt.Errorf("navigator required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	return &Client{
		baseURL:  base,
		http:     &http.Client{Timeout: cfg.Timeout},
		tokens:   tokens,
		sessions: sessions,
		nav:      navigator,
		logg:     logg,
	}, nil
}

// errorBody matches the backend's error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

const genericFailureMessage = "request failed"

type requestOptions struct {
	skipAuth bool
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any, opts requestOptions) error {
	target := *c.baseURL
	target.Path = strings.TrimRight(target.Path, "/") + path
	if query != nil {
		target.RawQuery = query.Encode()
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding request body")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	if !opts.skipAuth {
		if token, ok := c.tokens.Token(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	lctx := c.logg.WithFields(ctx, map[string]any{
		"request_id": requestID,
		"method":     method,
		"path":       path,
	})
	c.logg.Debug(lctx, "gateway request")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logg.Error(lctx, "gateway request failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, genericFailureMessage)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.errorFromResponse(lctx, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logg.Error(lctx, "gateway response decode failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decoding response body")
	}
	return nil
}

func (c *Client) errorFromResponse(ctx context.Context, resp *http.Response) error {
	message := genericFailureMessage
	var envelope errorBody
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && strings.TrimSpace(envelope.Detail) != "" {
		message = envelope.Detail
	}
	code := pkgerrors.FromHTTPStatus(resp.StatusCode)
	err := pkgerrors.New(code, message).WithDetails(map[string]any{"status": resp.StatusCode})
	c.logg.Warn(c.logg.WithField(ctx, "status", resp.StatusCode), "gateway call rejected: "+message)
	return err
}
