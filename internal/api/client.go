// Package api is the HTTP client for the remote Bargain API. Every call takes
// the shopper's Jar so the upstream session cookie travels with the request.
package api

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Jar holds the upstream cookies of one shopper.
type Jar interface {
	Cookies() []*http.Cookie
	SetCookies(cookies []*http.Cookie)
}

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper
	Metrics   *Metrics
	Logger    *zap.Logger
}

type Client struct {
	base    *url.URL
	hc      *http.Client
	metrics *Metrics
	log     *zap.Logger
}

func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api: base url %q must be absolute", opts.BaseURL)
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		base: base,
		hc: &http.Client{
			Transport: otelhttp.NewTransport(transport),
			Timeout:   timeout,
		},
		metrics: opts.Metrics,
		log:     log.Named("api"),
	}, nil
}

type request struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	jar         Jar
}

type response struct {
	status      int
	contentType string
	body        []byte
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends the request and maps transport failures, 401 and non-2xx statuses
// onto *Error. The body of a 2xx answer is returned fully read.
func (c *Client) do(ctx context.Context, r request) (resp *response, err error) {
	start := time.Now()
	defer func() {
		c.metrics.observe(r.op, outcomeOf(err), time.Since(start))
		if err != nil {
			c.log.Debug("upstream call failed", zap.String("op", r.op), zap.Error(err))
		}
	}()

	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path, r.query), r.body)
	if err != nil {
		return nil, &Error{Op: r.op, Kind: KindNetwork, Err: err}
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	if r.jar != nil {
		for _, cookie := range r.jar.Cookies() {
			req.AddCookie(cookie)
		}
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, &Error{Op: r.op, Kind: KindNetwork, Err: err}
	}
	defer res.Body.Close()

	if r.jar != nil {
		if cookies := res.Cookies(); len(cookies) > 0 {
			r.jar.SetCookies(cookies)
		}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &Error{Op: r.op, Kind: KindNetwork, Status: res.StatusCode, Err: err}
	}

	if res.StatusCode == http.StatusUnauthorized {
		return nil, &Error{Op: r.op, Kind: KindStatus, Status: res.StatusCode, Err: ErrUnauthorized}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &Error{Op: r.op, Kind: KindStatus, Status: res.StatusCode, Message: messageOf(body)}
	}

	return &response{status: res.StatusCode, contentType: res.Header.Get("Content-Type"), body: body}, nil
}

func (c *Client) getJSON(ctx context.Context, op string, jar Jar, path string, query url.Values, out any) error {
	resp, err := c.do(ctx, request{op: op, method: http.MethodGet, path: path, query: query, jar: jar})
	if err != nil {
		return err
	}
	return decodeJSON(op, resp, out)
}

func decodeJSON(op string, resp *response, out any) error {
	if err := json.Unmarshal(resp.body, out); err != nil {
		return &Error{Op: op, Kind: KindDecode, Status: resp.status, Err: err}
	}
	return nil
}

// text returns a plain-text body, unwrapping a JSON string if the server
// encoded it as one.
func (r *response) text() string {
	trimmed := bytes.TrimSpace(r.body)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return strings.TrimSpace(s)
		}
	}
	return string(trimmed)
}

func messageOf(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		return envelope.Error
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}

// rejectUnlessOK turns a {status:false} envelope into a KindRejected error.
func rejectUnlessOK(op string, ok bool, message string) error {
	if ok {
		return nil
	}
	return &Error{Op: op, Kind: KindRejected, Message: message}
}

var errEmptyArgument = errors.New("empty argument")
