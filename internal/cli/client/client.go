// Package client is the request pipeline every page uses to talk to the backend.
//
// Each call attaches the stored bearer token (when there is one), sends a JSON or
// multipart body, decodes the response body as JSON before looking at the status,
// and turns failures into *APIError or *DecodeError. There is no retry, timeout,
// cancellation or request coalescing.
package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	bearerPrefix        = "Bearer "
	contentTypeJSON     = "application/json"
)

// TokenSource yields the current bearer token, "" when signed out
type TokenSource interface {
	Token() (string, error)
}

// Options are the caller-supplied parts of a request
type Options struct {
	Method string
	Header http.Header
	Body   Body
}

// Descriptor is the fully merged request, built fresh for every call
type Descriptor struct {
	URL    string
	Method string
	Header http.Header
	Body   Body
}

// Result is a decoded success envelope: {success, message, data}
type Result struct {
	StatusCode int
	Success    bool
	Message    string
	Data       json.RawMessage
	// Raw holds the entire decoded body
	Raw json.RawMessage
}

// Decode unmarshals the data field into v
func (r *Result) Decode(v any) error {
	if len(r.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// envelope covers both the success and the error response shapes
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Detail  string          `json:"detail"`
}

// Client represents an HTTP client for the travel journal API
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// New creates a new API client. Relative URLs are resolved against baseURL.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{},
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// BaseURL returns the backend root URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request sends a request built from opts and returns the decoded envelope
func (c *Client) Request(url string, opts Options) (*Result, error) {
	desc, err := c.describe(url, opts)
	if err != nil {
		return nil, err
	}
	return c.send(desc)
}

// Get sends a GET request
func (c *Client) Get(url string) (*Result, error) {
	return c.Request(url, Options{Method: http.MethodGet})
}

// Post sends payload as JSON with POST
func (c *Client) Post(url string, payload any) (*Result, error) {
	return c.Request(url, Options{Method: http.MethodPost, Body: JSON(payload)})
}

// Put sends payload as JSON with PUT
func (c *Client) Put(url string, payload any) (*Result, error) {
	return c.Request(url, Options{Method: http.MethodPut, Body: JSON(payload)})
}

// Delete sends a DELETE request
func (c *Client) Delete(url string) (*Result, error) {
	return c.Request(url, Options{Method: http.MethodDelete})
}

// PostMultipart sends a pre-built multipart body untouched
func (c *Client) PostMultipart(url string, body *Multipart) (*Result, error) {
	return c.Request(url, Options{Method: http.MethodPost, Body: body})
}

// describe merges opts over the defaults and attaches credentials
func (c *Client) describe(url string, opts Options) (Descriptor, error) {
	header := http.Header{}
	header.Set(headerContentType, contentTypeJSON)
	for k, vs := range opts.Header {
		header.Del(k)
		for _, v := range vs {
			header.Add(k, v)
		}
	}

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return Descriptor{}, fmt.Errorf("failed to load token: %w", err)
		}
		if token != "" {
			header.Set(headerAuthorization, bearerPrefix+token)
		} else {
			header.Del(headerAuthorization)
		}
	}

	// A JSON content type on a multipart body corrupts it; the transport
	// stage supplies the boundary-carrying type instead.
	if opts.Body != nil && opts.Body.multipart() {
		header.Del(headerContentType)
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	return Descriptor{
		URL:    c.resolve(url),
		Method: method,
		Header: header,
		Body:   opts.Body,
	}, nil
}

func (c *Client) resolve(url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return c.baseURL + url
}

func (c *Client) send(desc Descriptor) (*Result, error) {
	var body io.Reader
	if desc.Body != nil {
		r, err := desc.Body.reader()
		if err != nil {
			return nil, err
		}
		body = r
	}

	req, err := http.NewRequest(desc.Method, desc.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = desc.Header.Clone()
	if desc.Body != nil && desc.Body.multipart() {
		req.Header.Set(headerContentType, desc.Body.contentType())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// The body is decoded before the status is looked at, so a non-JSON
	// error page fails here rather than as an *APIError.
	var decoded json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &DecodeError{StatusCode: resp.StatusCode, Err: err}
	}

	var env envelope
	// Valid JSON that is not an object carries no envelope fields
	_ = json.Unmarshal(decoded, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: env.Detail, Body: decoded}
	}

	return &Result{
		StatusCode: resp.StatusCode,
		Success:    env.Success,
		Message:    env.Message,
		Data:       env.Data,
		Raw:        decoded,
	}, nil
}
