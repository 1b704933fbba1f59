package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Transport posts a JSON body to the simulation endpoint and decodes the reply into out.
type Transport interface {
	Post(body any, out any) error
}

// HTTPTransport has no timeout and no retry: a hung server hangs the caller.
type HTTPTransport struct {
	URL    string
	Client *http.Client
}

func NewHTTPTransport(url string) *HTTPTransport {
	return &HTTPTransport{URL: url, Client: &http.Client{}}
}

func (t *HTTPTransport) Post(body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return &ProtocolError{Op: "encode request", Err: err}
	}

	c := t.Client
	if c == nil {
		c = http.DefaultClient
	}
	resp, err := c.Post(t.URL, "application/json", bytes.NewReader(b))
	if err != nil {
		return &TransportError{Op: "post " + t.URL, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: "read response", Err: err}
	}
	if resp.StatusCode/100 != 2 {
		return &TransportError{Op: "post " + t.URL, Err: fmt.Errorf("status %s: %s", resp.Status, bytes.TrimSpace(raw))}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ProtocolError{Op: "decode response", Err: err}
	}
	return nil
}
