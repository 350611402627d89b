package asana

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxErrorBody caps how much of an error response is kept on *Error.
const maxErrorBody = 64 << 10

// envelope is the {"data": ...} wrapper around every successful response.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// newRequest creates a new HTTP request with common headers.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values) (*http.Request, error) {
	reqURL := c.baseURL + "/" + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	return req, nil
}

// getData issues a GET for path and returns the raw "data" member of the
// response envelope.
func (c *Client) getData(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("asana request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Error(err))
		if isConnectionRefused(err) {
			return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
		}
		return nil, fmt.Errorf("get %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("asana request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseErrorResponse(resp)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &DecodeError{Resource: path, Err: err}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, &DecodeError{Resource: path, Err: fmt.Errorf("response has no data")}
	}

	return env.Data, nil
}

// parseErrorResponse turns a non-2xx response into an *Error.
func parseErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("failed to read error response: %w", err)
	}

	apiErr := &Error{
		StatusCode: resp.StatusCode,
		Code:       codeForStatus(resp.StatusCode),
		Body:       body,
	}

	var parsed apiErrorResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Not an Asana error envelope (proxy page, empty body); keep the raw body.
		return apiErr
	}
	for _, e := range parsed.Errors {
		if e.Message != "" {
			apiErr.Messages = append(apiErr.Messages, e.Message)
		}
		if apiErr.Help == "" && e.Help != "" {
			apiErr.Help = e.Help
		}
	}

	return apiErr
}

// isConnectionRefused checks if the error is a connection refused error.
func isConnectionRefused(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		(strings.Contains(errStr, "dial tcp") && strings.Contains(errStr, "refused"))
}
