package asana

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the root of the Asana REST API.
const DefaultBaseURL = "https://app.asana.com/api/1.0"

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

// clientConfig holds the configuration for a Client.
type clientConfig struct {
	baseURL      string
	tokenSource  oauth2.TokenSource
	timeout      time.Duration
	httpClient   *http.Client
	userAgent    string
	logger       *zap.Logger
	strictFields bool
}

// defaultConfig returns the default client configuration.
func defaultConfig() *clientConfig {
	return &clientConfig{
		baseURL:   DefaultBaseURL,
		timeout:   30 * time.Second,
		userAgent: "asanakit/" + Version,
		logger:    zap.NewNop(),
	}
}

// WithToken authenticates requests with a personal access token or an
// OAuth access token obtained elsewhere.
func WithToken(token string) ClientOption {
	return func(c *clientConfig) {
		if token == "" {
			c.tokenSource = nil
			return
		}
		c.tokenSource = oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: token,
			TokenType:   "Bearer",
		})
	}
}

// WithTokenSource authenticates requests with tokens from ts, e.g. a
// refreshing source built from an oauth2.Config.
func WithTokenSource(ts oauth2.TokenSource) ClientOption {
	return func(c *clientConfig) {
		c.tokenSource = ts
	}
}

// WithBaseURL overrides the API root. Useful for tests and proxies.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the HTTP client timeout. Ignored when WithHTTPClient is
// used; configure the timeout on that client instead.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithHTTPClient sets the underlying HTTP client. Its transport is wrapped
// to add authentication.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger for request tracing. Requests are logged at
// debug level.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *clientConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStrictFields makes decoding fail when a declared top-level field is
// absent from a response object. By default absent fields keep their zero
// value.
func WithStrictFields() ClientOption {
	return func(c *clientConfig) {
		c.strictFields = true
	}
}

// RequestOption configures a single Get or List call.
type RequestOption func(*requestOptions)

// requestOptions holds per-call query parameters.
type requestOptions struct {
	limit  int
	params map[string]string
}

// WithLimit sets the page size of a List call (1-100). Only the first page
// is returned.
func WithLimit(limit int) RequestOption {
	return func(o *requestOptions) {
		o.limit = limit
	}
}

// WithParam adds a query parameter such as "workspace" or "completed_since".
// The opt_fields parameter is always derived from the model and cannot be
// overridden. The page size is set with WithLimit; passing "limit" here
// makes the call fail.
func WithParam(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.params == nil {
			o.params = make(map[string]string)
		}
		o.params[key] = value
	}
}

func (o *requestOptions) limitParam() string {
	if o.limit <= 0 {
		return ""
	}
	return strconv.Itoa(o.limit)
}
