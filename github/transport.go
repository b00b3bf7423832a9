package github

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

// Request is one wire call as the resilience layer sees it.
type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

// Response is the raw result of a wire call. Any HTTP status is a
// valid Response; only network-level faults surface as errors.
type Response struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// Transport sends requests. The resilience layer never assumes a
// specific implementation; tests substitute fakes here.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// HTTPTransport is the default Transport backed by net/http.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport wraps client, or a default client when nil.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &HTTPTransport{client: client}
}

func (t *HTTPTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	hreq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range req.Headers {
		for _, v := range vs {
			hreq.Header.Add(k, v)
		}
	}

	hres, err := t.client.Do(hreq)
	if err != nil {
		return nil, err
	}
	defer hres.Body.Close()

	data, err := io.ReadAll(hres.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		Status:  hres.StatusCode,
		Headers: hres.Header,
		Body:    data,
	}, nil
}

var _ Transport = (*HTTPTransport)(nil)
