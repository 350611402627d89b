package asana

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Version is the library version reported in the User-Agent header.
const Version = "0.3.0"

// Client is an HTTP client for the Asana REST API. It holds only
// configuration and is safe for concurrent use.
type Client struct {
	baseURL      string
	userAgent    string
	strictFields bool
	log          *zap.Logger
	http         *http.Client
}

// NewClient creates a new Asana API client.
//
// Required options (one of):
//   - WithToken: a personal access token
//   - WithTokenSource: an oauth2.TokenSource
//
// Optional options:
//   - WithBaseURL: API root (default: https://app.asana.com/api/1.0)
//   - WithTimeout: HTTP client timeout (default: 30s)
//   - WithHTTPClient: custom HTTP client
//   - WithUserAgent: User-Agent header (default: asanakit/<version>)
//   - WithLogger: zap logger for request tracing
//   - WithStrictFields: fail on absent declared fields
//
// Example:
//
//	client, err := asana.NewClient(asana.WithToken(os.Getenv("ASANA_TOKEN")))
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.tokenSource == nil {
		return nil, errors.New("token is required: use WithToken or WithTokenSource option")
	}
	if cfg.baseURL == "" {
		return nil, errors.New("base URL cannot be empty")
	}
	if !strings.HasPrefix(cfg.baseURL, "http://") && !strings.HasPrefix(cfg.baseURL, "https://") {
		return nil, fmt.Errorf("invalid base URL %q: must start with http:// or https://", cfg.baseURL)
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.baseURL, "/"),
		userAgent:    cfg.userAgent,
		strictFields: cfg.strictFields,
		log:          cfg.logger,
		http:         authorizedClient(cfg),
	}, nil
}

// Connect creates a client authenticated with token. It is shorthand for
// NewClient(WithToken(token), opts...).
func Connect(token string, opts ...ClientOption) (*Client, error) {
	return NewClient(append([]ClientOption{WithToken(token)}, opts...)...)
}

// authorizedClient returns an HTTP client whose transport injects the
// bearer token.
func authorizedClient(cfg *clientConfig) *http.Client {
	base := cfg.httpClient
	if base == nil {
		base = &http.Client{Timeout: cfg.timeout}
	}

	hc := *base
	hc.Transport = &oauth2.Transport{
		Source: oauth2.ReuseTokenSource(nil, cfg.tokenSource),
		Base:   base.Transport,
	}
	return &hc
}
