// Package artifactory is a minimal client for the artifact store's REST API:
// connectivity checks, repository listing, existence probes, and package
// details.
package artifactory

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/net/http/httpproxy"
	"golang.org/x/time/rate"

	"github.com/quay/hound"
)

const (
	// DefaultTimeout bounds a single existence probe.
	DefaultTimeout = 10 * time.Second
	// SetupTimeout bounds the connectivity check and repository listing.
	SetupTimeout = time.Minute

	pingPath  = "api/system/ping"
	reposPath = "api/repositories"
)

// Options configures a [Client].
type Options struct {
	// BaseURL is the root of the store, e.g. "https://example.jfrog.io/artifactory".
	BaseURL string
	// APIKey is sent in the "X-JFrog-Art-Api" header.
	APIKey string
	// Token is sent as a bearer token when no APIKey is configured.
	Token string
	// Timeout bounds each probe. Defaults to DefaultTimeout.
	Timeout time.Duration
	// Rate limits probes per second across the whole Client. Zero means
	// unlimited.
	Rate float64
	// CAFile is a PEM bundle trusted in addition to the system roots.
	CAFile string
	// Insecure disables TLS certificate verification.
	Insecure bool
	// Transport overrides the constructed transport. Authentication is
	// still layered on top.
	Transport http.RoundTripper
}

// Client talks to the artifact store.
//
// A Client is safe for concurrent use.
type Client struct {
	base    *url.URL
	c       *http.Client
	timeout time.Duration
	limiter *rate.Limiter
}

// New constructs a Client.
func New(opts *Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, &hound.Error{Op: "artifactory.New", Kind: hound.ErrInvalid, Message: "missing base URL"}
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, &hound.Error{Op: "artifactory.New", Kind: hound.ErrInvalid, Message: "bad base URL", Inner: err}
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, &hound.Error{Op: "artifactory.New", Kind: hound.ErrInvalid, Message: fmt.Sprintf("unsupported scheme %q", base.Scheme)}
	}

	next := opts.Transport
	if next == nil {
		next, err = transport(opts)
		if err != nil {
			return nil, err
		}
	}
	c := Client{
		base: base,
		c: &http.Client{
			Transport: &authTransport{next: next, key: opts.APIKey, token: opts.Token},
		},
		timeout: opts.Timeout,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if opts.Rate > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.Rate), 1)
	}
	return &c, nil
}

func transport(opts *Options) (http.RoundTripper, error) {
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: opts.Insecure,
	}
	if opts.CAFile != "" {
		pem, err := os.ReadFile(opts.CAFile)
		if err != nil {
			return nil, &hound.Error{Op: "artifactory.New", Kind: hound.ErrInvalid, Message: "unable to read CA bundle", Inner: err}
		}
		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, &hound.Error{Op: "artifactory.New", Kind: hound.ErrInvalid, Message: fmt.Sprintf("no certificates in %q", opts.CAFile)}
		}
		tlsConfig.RootCAs = pool
	}
	proxy := httpproxy.FromEnvironment().ProxyFunc()
	return &http.Transport{
		Proxy: func(r *http.Request) (*url.URL, error) {
			return proxy(r.URL)
		},
		TLSClientConfig:     tlsConfig,
		ForceAttemptHTTP2:   true,
		MaxIdleConnsPerHost: 32,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}, nil
}

// AuthTransport adds credentials to every request.
type authTransport struct {
	next       http.RoundTripper
	key, token string
}

// RoundTrip implements [http.RoundTripper].
func (t *authTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if t.key == "" && t.token == "" {
		return t.next.RoundTrip(r)
	}
	r = r.Clone(r.Context())
	switch {
	case t.key != "":
		r.Header.Set("X-JFrog-Art-Api", t.key)
	default:
		r.Header.Set("Authorization", "Bearer "+t.token)
	}
	return t.next.RoundTrip(r)
}

// URL returns the absolute URL for a store-relative path.
func (c *Client) URL(p string) string {
	return c.base.JoinPath(p).String()
}

// Ping checks connectivity and credentials.
func (c *Client) Ping(ctx context.Context) error {
	const op = "artifactory.Ping"
	ctx, done := context.WithTimeout(ctx, SetupTimeout)
	defer done()
	res, err := c.get(ctx, pingPath)
	if err != nil {
		return &hound.Error{Op: op, Kind: hound.ErrPrecondition, Message: "unable to reach store", Inner: err}
	}
	defer res.Body.Close()
	body, err := io.ReadAll(io.LimitReader(res.Body, 1024))
	if err != nil {
		return &hound.Error{Op: op, Kind: hound.ErrPrecondition, Message: "unable to read response", Inner: err}
	}
	if res.StatusCode != http.StatusOK || strings.TrimSpace(string(body)) != "OK" {
		return &hound.Error{
			Op:      op,
			Kind:    hound.ErrPrecondition,
			Message: fmt.Sprintf("unexpected response: %s: %q", res.Status, body),
		}
	}
	slog.InfoContext(ctx, "connection to store successful")
	return nil
}

// Repositories lists every repository in the store.
func (c *Client) Repositories(ctx context.Context) ([]hound.Repository, error) {
	const op = "artifactory.Repositories"
	ctx, done := context.WithTimeout(ctx, SetupTimeout)
	defer done()
	res, err := c.get(ctx, reposPath)
	if err != nil {
		return nil, &hound.Error{Op: op, Kind: hound.ErrPrecondition, Message: "unable to list repositories", Inner: err}
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, &hound.Error{Op: op, Kind: hound.ErrPrecondition, Message: "unexpected response: " + res.Status}
	}
	var repos []hound.Repository
	if err := json.NewDecoder(res.Body).Decode(&repos); err != nil {
		return nil, &hound.Error{Op: op, Kind: hound.ErrPrecondition, Message: "unable to decode repository list", Inner: err}
	}
	slog.InfoContext(ctx, "found repositories", "count", len(repos))
	return repos, nil
}

func (c *Client) get(ctx context.Context, p string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(p), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, text/plain")
	return c.c.Do(req)
}

// Exists probes for an object with a HEAD request bounded by the configured
// timeout. It returns nil if the store answers with a successful status.
//
// Returned errors have kind [hound.ErrNotFound] for a 404,
// [hound.ErrTransient] for transport failures and timeouts, and
// [hound.ErrPermanent] for any other status.
func (c *Client) Exists(ctx context.Context, p string) error {
	const op = "artifactory.Exists"
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &hound.Error{Op: op, Kind: hound.ErrTransient, Message: p, Inner: err}
		}
	}
	ctx, done := context.WithTimeout(ctx, c.timeout)
	defer done()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.URL(p), nil)
	if err != nil {
		return &hound.Error{Op: op, Kind: hound.ErrInvalid, Message: p, Inner: err}
	}
	res, err := c.c.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("probe exceeded %v: %w", c.timeout, err)
		}
		return &hound.Error{Op: op, Kind: hound.ErrTransient, Message: p, Inner: err}
	}
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
	switch {
	case res.StatusCode >= 200 && res.StatusCode < 300:
		return nil
	case res.StatusCode == http.StatusNotFound:
		return &hound.Error{Op: op, Kind: hound.ErrNotFound, Message: p + ": " + res.Status}
	default:
		return &hound.Error{Op: op, Kind: hound.ErrPermanent, Message: p + ": " + res.Status}
	}
}

// MaxInfoSize bounds the package details document read by PackageInfo.
const MaxInfoSize = 16 << 20

// PackageInfo fetches the package details document at a store-relative API
// path. The document must be JSON.
//
// Errors are classified as for [Client.Exists]; a document that is not JSON
// has kind [hound.ErrPermanent].
func (c *Client) PackageInfo(ctx context.Context, p string) (json.RawMessage, error) {
	const op = "artifactory.PackageInfo"
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &hound.Error{Op: op, Kind: hound.ErrTransient, Message: p, Inner: err}
		}
	}
	ctx, done := context.WithTimeout(ctx, c.timeout)
	defer done()
	res, err := c.get(ctx, p)
	if err != nil {
		return nil, &hound.Error{Op: op, Kind: hound.ErrTransient, Message: p, Inner: err}
	}
	defer res.Body.Close()
	switch {
	case res.StatusCode == http.StatusOK:
	case res.StatusCode == http.StatusNotFound:
		return nil, &hound.Error{Op: op, Kind: hound.ErrNotFound, Message: p + ": " + res.Status}
	default:
		return nil, &hound.Error{Op: op, Kind: hound.ErrPermanent, Message: p + ": " + res.Status}
	}
	b, err := io.ReadAll(io.LimitReader(res.Body, MaxInfoSize))
	if err != nil {
		return nil, &hound.Error{Op: op, Kind: hound.ErrTransient, Message: p, Inner: err}
	}
	if !json.Valid(b) {
		return nil, &hound.Error{Op: op, Kind: hound.ErrPermanent, Message: p + ": response is not JSON"}
	}
	return json.RawMessage(b), nil
}
