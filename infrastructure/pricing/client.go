package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

const byLocationPath = "/api/skips/by-location"

// Source yields the raw skip list for the configured location.
type Source interface {
	FetchSkips(ctx context.Context) ([]RawSkipRecord, error)
}

// Client fetches skip pricing from the remote API.
type Client struct {
	baseURL  string
	location Location
	timeout  time.Duration
	http     *fasthttp.Client
}

// NewClient builds a Client. A zero timeout falls back to ten seconds.
func NewClient(baseURL string, location Location, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		location: location,
		timeout:  timeout,
		http: &fasthttp.Client{
			Name:                "skiphire",
			MaxResponseBodySize: 4 << 20,
		},
	}
}

// Location reports the postcode/area the client prices for.
func (c *Client) Location() Location {
	return c.location
}

// Endpoint is the full request URI including the location query.
func (c *Client) Endpoint() string {
	q := url.Values{}
	q.Set("postcode", c.location.Postcode)
	q.Set("area", c.location.Area)
	return c.baseURL + byLocationPath + "?" + q.Encode()
}

// FetchSkips issues a single GET. There is no retry; callers decide what a failure means.
func (c *Client) FetchSkips(ctx context.Context) ([]RawSkipRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &UnexpectedError{Op: "request", Err: err}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.Endpoint())
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, &UnexpectedError{Op: "request", Err: err}
	}

	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, &StatusError{Code: code}
	}

	return decodeRecords(resp.Body())
}

func decodeRecords(body []byte) ([]RawSkipRecord, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &UnexpectedError{Op: "decode", Err: errors.New("response is not a JSON array")}
	}
	var entries []*RawSkipRecord
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, &UnexpectedError{Op: "decode", Err: err}
	}
	records := make([]RawSkipRecord, 0, len(entries))
	for i, rec := range entries {
		if rec == nil {
			return nil, &UnexpectedError{Op: "decode", Err: fmt.Errorf("record %d is null", i)}
		}
		records = append(records, *rec)
	}
	return records, nil
}
