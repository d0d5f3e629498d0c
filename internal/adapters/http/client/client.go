// Package client talks to a running skillcards server over HTTP.
//
// Its methods mirror the service so cardctl can work against either.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/skillcards/internal/adapters/repository"
	service "github.com/okian/skillcards/internal/app"
	"github.com/okian/skillcards/internal/domain/csvcodec"
	"github.com/okian/skillcards/internal/domain/interchange"
	"github.com/okian/skillcards/internal/domain/model"
)

const defaultTimeout = 30 * time.Second

// Client is an HTTP client for the card API.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBadURL, baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type importResponse struct {
	Imported int `json:"imported"`
	Skipped  []struct {
		Row     int    `json:"row"`
		Message string `json:"message"`
	} `json:"skipped"`
}

func (r importResponse) result() service.ImportResult {
	res := service.ImportResult{Imported: r.Imported}
	for _, s := range r.Skipped {
		res.Skipped = append(res.Skipped, &csvcodec.RowError{Row: s.Row, Err: errors.New(s.Message)})
	}
	return res
}

// ListCards fetches every card.
func (c *Client) ListCards(ctx context.Context) ([]model.Card, error) {
	var cards []model.Card
	if err := c.doJSON(ctx, http.MethodGet, "/cards", nil, "", &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// AddCard creates a card with the default stat block.
func (c *Client) AddCard(ctx context.Context, in service.NewCardInput) (model.Card, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return model.Card{}, fmt.Errorf("failed to marshal request body: %w", err)
	}
	var card model.Card
	err = c.doJSON(ctx, http.MethodPost, "/cards", body, "application/json", &card)
	return card, err
}

// DeleteCard removes the card with id.
func (c *Client) DeleteCard(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/cards/"+url.PathEscape(id), nil, "", nil)
}

// ImportCSV uploads a primary-format document.
func (c *Client) ImportCSV(ctx context.Context, text string) (service.ImportResult, error) {
	return c.upload(ctx, "/import/csv", []byte(text), "text/csv")
}

// ImportLegacyCSV uploads a legacy document. A zero delimiter means comma.
func (c *Client) ImportLegacyCSV(ctx context.Context, text string, delimiter rune) (service.ImportResult, error) {
	q := url.Values{"format": {"legacy"}}
	if delimiter != 0 {
		q.Set("delimiter", string(delimiter))
	}
	return c.upload(ctx, "/import/csv?"+q.Encode(), []byte(text), "text/csv")
}

// ImportJSON uploads a JSON card array.
func (c *Client) ImportJSON(ctx context.Context, data []byte) (service.ImportResult, error) {
	return c.upload(ctx, "/import/json", data, "application/json")
}

// ExportCSV downloads the collection as CSV.
func (c *Client) ExportCSV(ctx context.Context) (string, error) {
	data, err := c.download(ctx, "/export/csv")
	return string(data), err
}

// ExportJSON downloads the collection as JSON.
func (c *Client) ExportJSON(ctx context.Context) ([]byte, error) {
	return c.download(ctx, "/export/json")
}

func (c *Client) upload(ctx context.Context, path string, body []byte, contentType string) (service.ImportResult, error) {
	var resp importResponse
	if err := c.doJSON(ctx, http.MethodPost, path, body, contentType, &resp); err != nil {
		return service.ImportResult{}, err
	}
	return resp.result(), nil
}

func (c *Client) download(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	return readResponseBody(resp)
}

// doJSON performs a request and decodes a JSON response into out when out is
// non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, body []byte, contentType string, out any) error {
	resp, err := c.do(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	data, err := readResponseBody(resp)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string) (*http.Response, error) {
	var r io.Reader = http.NoBody
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeError(resp)
	}
	return resp, nil
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

// importErrors are recognised by their message in server error responses.
var importErrors = []error{ //nolint:gochecknoglobals // fixed lookup
	csvcodec.ErrEmptyOrHeaderOnly,
	csvcodec.ErrNoValidRows,
	interchange.ErrNotArray,
	interchange.ErrEmptyCollection,
	interchange.ErrInvalidJSON,
}

// decodeError turns an error response into an *Error whose Unwrap yields the
// matching domain sentinel, so callers can use errors.Is across the wire.
func decodeError(resp *http.Response) error {
	data, _ := readResponseBody(resp)
	e := &Error{Status: resp.StatusCode}
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) == nil {
		e.Code, e.Message = body.Code, body.Message
	} else {
		e.Message = strings.TrimSpace(string(data))
	}

	for _, kind := range importErrors {
		if strings.Contains(e.Message, kind.Error()) {
			e.kind = kind
			return e
		}
	}
	switch resp.StatusCode {
	case http.StatusNotFound:
		e.kind = repository.ErrNotFound
	case http.StatusConflict:
		e.kind = repository.ErrDuplicateID
	}
	return e
}
