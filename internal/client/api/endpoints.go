package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/datavault/internal/server/models"
)

type envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func (c *Client) Register(ctx context.Context, username, password string) (*models.User, error) {
	var out envelope[models.User]
	err := c.public(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/register",
		body:   map[string]string{"username": username, "password": password},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Login authenticates and installs the returned tokens on c.
func (c *Client) Login(ctx context.Context, username, password string) (*models.TokenPair, error) {
	var pair models.TokenPair
	err := c.public(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   map[string]string{"username": username, "password": password},
		out:    &pair,
	})
	if err != nil {
		return nil, err
	}
	c.SetTokens(pair.AccessToken, pair.RefreshToken)
	return &pair, nil
}

// Logout revokes the refresh token on the server and forgets both tokens.
func (c *Client) Logout(ctx context.Context) error {
	_, refresh := c.Tokens()
	err := c.authed(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/logout",
		body:   map[string]string{"refresh_token": refresh},
	})
	if err != nil {
		return err
	}
	c.SetTokens("", "")
	return nil
}

func (c *Client) User(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.authed(ctx, call{method: http.MethodGet, path: "/api/auth/user", out: &u}); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := c.authed(ctx, call{method: http.MethodGet, path: "/api/data-categories", out: &cats}); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *Client) Category(ctx context.Context, id string) (*models.Category, error) {
	var cat models.Category
	err := c.authed(ctx, call{
		method:     http.MethodGet,
		path:       "/api/data-categories/{id}",
		pathParams: map[string]string{"id": id},
		out:        &cat,
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	var out envelope[models.Category]
	err := c.authed(ctx, call{method: http.MethodPost, path: "/api/data-categories", body: in, out: &out})
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.authed(ctx, call{
		method:     http.MethodDelete,
		path:       "/api/data-categories/{id}",
		pathParams: map[string]string{"id": id},
	})
}

// RecordQuery mirrors the query parameters of GET /api/personal-data.
type RecordQuery struct {
	CategoryID    string
	FavoritesOnly bool
	Search        string
	Page          int
	PerPage       int
}

func (q RecordQuery) values() url.Values {
	v := url.Values{}
	if q.CategoryID != "" {
		v.Set("category_id", q.CategoryID)
	}
	if q.FavoritesOnly {
		v.Set("favorites", "1")
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	setPage(v, q.Page, q.PerPage)
	return v
}

func setPage(v url.Values, page, perPage int) {
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		v.Set("per_page", strconv.Itoa(perPage))
	}
}

func (c *Client) Records(ctx context.Context, q RecordQuery) (*models.Page[models.Record], error) {
	var p models.Page[models.Record]
	err := c.authed(ctx, call{method: http.MethodGet, path: "/api/personal-data", query: q.values(), out: &p})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Search(ctx context.Context, query string, page, perPage int) (*models.Page[models.Record], error) {
	v := url.Values{}
	setPage(v, page, perPage)

	var p models.Page[models.Record]
	err := c.authed(ctx, call{
		method:     http.MethodGet,
		path:       "/api/personal-data/search/{query}",
		pathParams: map[string]string{"query": query},
		query:      v,
		out:        &p,
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Record fetches one record with its payload decrypted.
func (c *Client) Record(ctx context.Context, id string) (*models.Record, error) {
	var rec models.Record
	err := c.authed(ctx, call{
		method:     http.MethodGet,
		path:       "/api/personal-data/{id}",
		pathParams: map[string]string{"id": id},
		out:        &rec,
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) CreateRecord(ctx context.Context, in models.RecordInput) (*models.Record, error) {
	var out envelope[models.Record]
	err := c.authed(ctx, call{method: http.MethodPost, path: "/api/personal-data", body: in, out: &out})
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) DeleteRecord(ctx context.Context, id string) error {
	return c.authed(ctx, call{
		method:     http.MethodDelete,
		path:       "/api/personal-data/{id}",
		pathParams: map[string]string{"id": id},
	})
}

// Reset deletes every record of the current user and returns how many
// were removed.
func (c *Client) Reset(ctx context.Context) (int64, error) {
	var out struct {
		DeletedCount int64 `json:"deleted_count"`
	}
	if err := c.authed(ctx, call{method: http.MethodDelete, path: "/api/personal-data", out: &out}); err != nil {
		return 0, err
	}
	return out.DeletedCount, nil
}

func (c *Client) Export(ctx context.Context) (*models.ExportBundle, error) {
	var b models.ExportBundle
	if err := c.authed(ctx, call{method: http.MethodGet, path: "/api/personal-data/export", out: &b}); err != nil {
		return nil, err
	}
	return &b, nil
}

// Snapshot asks the server to upload an export bundle to object storage.
func (c *Client) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	var s models.Snapshot
	if err := c.authed(ctx, call{method: http.MethodPost, path: "/api/personal-data/export/snapshot", out: &s}); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Import(ctx context.Context, req models.ImportRequest) (*models.ImportResult, error) {
	var res models.ImportResult
	err := c.authed(ctx, call{method: http.MethodPost, path: "/api/personal-data/import", body: req, out: &res})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Healthz reports whether the REST API and its database are up.
func (c *Client) Healthz(ctx context.Context) error {
	return c.public(ctx, call{method: http.MethodGet, path: "/healthz"})
}
