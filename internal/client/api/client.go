// Package api implements the generic REST accessor used by the client state
// containers to reach the users and blogs collections.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// Collection names a top-level resource collection on the server.
type Collection string

const (
	Users Collection = "users"
	Blogs Collection = "blogs"
)

// Client performs CRUD calls against a json resource server.
type Client struct {
	http    *http.Client
	baseURL string
}

// New returns a Client that sends requests with httpClient to baseURL.
func New(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

// List fetches every record of col whose field equals value and decodes the
// JSON array into out. An empty field lists the whole collection.
func (c *Client) List(ctx context.Context, col Collection, field, value string, out any) error {
	u := c.baseURL + "/" + string(col)
	if field != "" {
		u += "?" + url.Values{field: []string{value}}.Encode()
	}
	return c.do(ctx, http.MethodGet, u, nil, out)
}

// Get fetches a single record by id.
func (c *Client) Get(ctx context.Context, col Collection, id string, out any) error {
	return c.do(ctx, http.MethodGet, c.recordURL(col, id), nil, out)
}

// Create posts in as a new record and decodes the stored record into out.
func (c *Client) Create(ctx context.Context, col Collection, in, out any) error {
	return c.do(ctx, http.MethodPost, c.baseURL+"/"+string(col), in, out)
}

// Patch merges patch into the record and decodes the full updated record into out.
func (c *Client) Patch(ctx context.Context, col Collection, id string, patch, out any) error {
	return c.do(ctx, http.MethodPatch, c.recordURL(col, id), patch, out)
}

// Delete removes the record with the given id.
func (c *Client) Delete(ctx context.Context, col Collection, id string) error {
	return c.do(ctx, http.MethodDelete, c.recordURL(col, id), nil, nil)
}

func (c *Client) recordURL(col Collection, id string) string {
	return c.baseURL + "/" + string(col) + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, u string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return newAPIError(resp, data)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	return nil
}

func newAPIError(resp *http.Response, data []byte) *APIError {
	apiErr := &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return apiErr
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		apiErr.Msg = payload.Message
	}
	return apiErr
}
