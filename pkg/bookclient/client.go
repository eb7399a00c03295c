// Package bookclient is a Go client for the books API.
package bookclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jsteenb2/errors"
)

const userAgent = "bookclient (github.com/phrazzld/books-api)"

// maxResponseBytes caps how much of a response body is read off the wire.
const maxResponseBytes = 1 << 20 // 1MB

// Error kinds reported by the client. Use errors.Is to test for them.
var (
	ErrIDRequired    = errors.Kind("id is required")
	ErrValidation    = errors.Kind("validation error")
	ErrUnauthorized  = errors.Kind("unauthorized")
	ErrForbidden     = errors.Kind("forbidden")
	ErrNotFound      = errors.Kind("not found")
	ErrRateLimited   = errors.Kind("rate limited")
	ErrServer        = errors.Kind("server error")
	ErrUnexpectedAPI = errors.Kind("unexpected api response")
)

// Book is a book as returned by the API.
type Book struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// BookAttrs are the writable attributes of a book.
type BookAttrs struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// APIError is a non-2xx response decoded from the API's error body.
type APIError struct {
	StatusCode int
	Message    string   `json:"message"`
	Details    []string `json:"details,omitempty"`
	TraceID    string   `json:"trace_id,omitempty"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("books api: %d %s", e.StatusCode, e.Message)
	if len(e.Details) > 0 {
		msg += ": " + strings.Join(e.Details, "; ")
	}
	return msg
}

// Unwrap maps the status code to one of the client's error kinds.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusBadRequest:
		return ErrValidation
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.StatusCode >= http.StatusInternalServerError:
		return ErrServer
	default:
		return ErrUnexpectedAPI
	}
}

// Client calls the books API over HTTP.
type Client struct {
	addr  string
	token string
	c     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.c = c }
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(cl *Client) { cl.token = token }
}

// New creates a Client for the API served at addr, e.g. "http://localhost:3000".
func New(addr string, opts ...Option) *Client {
	c := &Client{
		addr: strings.TrimRight(addr, "/"),
		c:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListBooks returns every book.
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.booksPath(""), nil)
	if err != nil {
		return nil, errors.Wrap(err, "list books")
	}
	books, err := doJSON[[]Book](c.c, req)
	return books, errors.Wrap(err)
}

// GetBook returns the book with the given id.
func (c *Client) GetBook(ctx context.Context, id string) (Book, error) {
	if id == "" {
		return Book{}, errors.Wrap(ErrIDRequired)
	}
	req, err := c.newRequest(ctx, http.MethodGet, c.booksPath(id), nil)
	if err != nil {
		return Book{}, errors.Wrap(err, "get book")
	}
	book, err := doJSON[Book](c.c, req)
	return book, errors.Wrap(err)
}

// CreateBook creates a book. The token must carry the write scope.
func (c *Client) CreateBook(ctx context.Context, attrs BookAttrs) (Book, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, c.booksPath(""), attrs)
	if err != nil {
		return Book{}, errors.Wrap(err, "create book")
	}
	book, err := doJSON[Book](c.c, req)
	return book, errors.Wrap(err)
}

// UpdateBook replaces the title and author of the book with the given id.
func (c *Client) UpdateBook(ctx context.Context, id string, attrs BookAttrs) (Book, error) {
	if id == "" {
		return Book{}, errors.Wrap(ErrIDRequired)
	}
	req, err := c.jsonRequest(ctx, http.MethodPut, c.booksPath(id), attrs)
	if err != nil {
		return Book{}, errors.Wrap(err, "update book")
	}
	book, err := doJSON[Book](c.c, req)
	return book, errors.Wrap(err)
}

// DeleteBook deletes the book with the given id and returns it.
func (c *Client) DeleteBook(ctx context.Context, id string) (Book, error) {
	if id == "" {
		return Book{}, errors.Wrap(ErrIDRequired)
	}
	req, err := c.newRequest(ctx, http.MethodDelete, c.booksPath(id), nil)
	if err != nil {
		return Book{}, errors.Wrap(err, "delete book")
	}
	book, err := doJSON[Book](c.c, req)
	return book, errors.Wrap(err)
}

func (c *Client) booksPath(id string) string {
	u := c.addr + "/books"
	if id == "" {
		return u
	}
	return u + "/" + id
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, v any) (*http.Request, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, errors.Wrap(err, "failed to json encode request body")
	}

	req, err := c.newRequest(ctx, method, path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func doJSON[T any](c *http.Client, req *http.Request) (T, error) {
	var zero T

	resp, err := c.Do(req)
	if err != nil {
		return zero, errors.Wrap(err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return zero, errors.Wrap(err, "failed to read response body")
	}

	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		return zero, errors.Wrap(ErrUnexpectedAPI, "invalid content type received",
			errors.KVs("status", resp.StatusCode, "content", string(b)))
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(b, apiErr); err != nil {
			return zero, errors.Wrap(ErrUnexpectedAPI, "failed to decode error body",
				errors.KVs("status", resp.StatusCode, "content", string(b)))
		}
		return zero, errors.Wrap(apiErr, errors.KVs("trace_id", apiErr.TraceID))
	}

	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return zero, errors.Wrap(err, "failed to decode response body")
	}
	return out, nil
}
