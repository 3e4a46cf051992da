// Package api is the vaultctl HTTP client for the DataVault REST API.
//
// Every authenticated call carries the current access token. When the server
// answers 401 the client trades the refresh token for a new pair once,
// reports it through the OnRefresh hook and repeats the call.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/dmitrijs2005/datavault/internal/logging"
	"github.com/dmitrijs2005/datavault/internal/netx"
	"github.com/dmitrijs2005/datavault/internal/server/models"
	"github.com/go-resty/resty/v2"
)

// ErrNotLoggedIn is returned by authenticated calls made without tokens.
var ErrNotLoggedIn = errors.New("not logged in")

type Client struct {
	rc *resty.Client

	mu        sync.Mutex
	access    string
	refresh   string
	onRefresh func(models.TokenPair) error
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, timeout time.Duration, logger logging.Logger) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout).
		SetLogger(restyLogger{l: logger.With("module", "api")})
	return &Client{rc: rc}
}

// SetDebug makes resty log every request and response.
func (c *Client) SetDebug(on bool) {
	c.rc.SetDebug(on)
}

// SetTokens installs the token pair used by authenticated calls.
func (c *Client) SetTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.access, c.refresh = access, refresh
}

func (c *Client) Tokens() (access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.access, c.refresh
}

// OnRefresh registers fn to be called with every pair obtained by Refresh.
func (c *Client) OnRefresh(fn func(models.TokenPair) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRefresh = fn
}

// call describes one request so it can be sent again after a refresh.
type call struct {
	method     string
	path       string
	pathParams map[string]string
	query      url.Values
	body       any
	out        any
}

func (c *Client) send(ctx context.Context, cl call, token string) (*resty.Response, error) {
	req := c.rc.R().SetContext(ctx).SetError(&errorBody{})
	if token != "" {
		req.SetAuthToken(token)
	}
	if cl.pathParams != nil {
		req.SetPathParams(cl.pathParams)
	}
	if cl.query != nil {
		req.SetQueryParamsFromValues(cl.query)
	}
	if cl.body != nil {
		req.SetBody(cl.body)
	}
	if cl.out != nil {
		req.SetResult(cl.out)
	}

	resp, err := req.Execute(cl.method, cl.path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", cl.method, cl.path, err)
	}
	return resp, nil
}

// public sends a request that needs no token.
func (c *Client) public(ctx context.Context, cl call) error {
	resp, err := c.send(ctx, cl, "")
	if err != nil {
		return err
	}
	return responseError(resp)
}

// authed sends a request with the access token, refreshing once on 401.
func (c *Client) authed(ctx context.Context, cl call) error {
	access, _ := c.Tokens()
	if access == "" {
		return ErrNotLoggedIn
	}

	resp, err := c.send(ctx, cl, access)
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusUnauthorized {
		return responseError(resp)
	}

	if err := c.Refresh(ctx); err != nil {
		return err
	}
	access, _ = c.Tokens()

	resp, err = c.send(ctx, cl, access)
	if err != nil {
		return err
	}
	return responseError(resp)
}

// Refresh exchanges the refresh token for a new pair.
func (c *Client) Refresh(ctx context.Context) error {
	_, refresh := c.Tokens()
	if refresh == "" {
		return ErrNotLoggedIn
	}

	var pair models.TokenPair
	err := c.public(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/refresh",
		body:   map[string]string{"refresh_token": refresh},
		out:    &pair,
	})
	if err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}

	c.mu.Lock()
	c.access, c.refresh = pair.AccessToken, pair.RefreshToken
	hook := c.onRefresh
	c.mu.Unlock()

	if hook != nil {
		if err := hook(pair); err != nil {
			return fmt.Errorf("store refreshed session: %w", err)
		}
	}
	return nil
}

// Download fetches an absolute URL, such as a presigned snapshot link,
// without sending credentials.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	return netx.Download(ctx, c.rc, rawURL)
}
