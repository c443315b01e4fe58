package dingsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/oklog/ulid/v2"
)

// accessTokenHeader carries the bearer token on api.dingtalk.com v1.0
// endpoints. The legacy topapi surface takes the token as an access_token
// query parameter instead; which style applies is a property of each
// endpoint, not of the token.
const accessTokenHeader = "x-acs-dingtalk-access-token"

// roundTrip performs one outbound call: waits on the client-side rate
// limiter, marshals the optional JSON body, attaches the token header when
// token is non-empty, and logs the call with a ULID correlation id.
func (c *Client) roundTrip(
	ctx context.Context,
	method, rawURL, token string,
	body any,
) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(accessTokenHeader, token)
	}

	reqID := ulid.Make().String()
	c.logger.Debug("dingtalk request", "req_id", reqID, "method", method, "url", req.URL.Path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	c.logger.Debug("dingtalk response", "req_id", reqID, "status", resp.StatusCode)
	return resp, nil
}

// decodeJSON consumes resp, mapping non-2xx statuses to *APIError and
// unmarshaling successful bodies into target. A success body that fails to
// parse is an error too; callers must not cache anything from it.
func decodeJSON(resp *http.Response, target any) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		return newStatusError(resp.StatusCode, bodyBytes)
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// topEnvelope is the shared wrapper of oapi.dingtalk.com topapi responses.
// Errors are reported in-band: HTTP 200 with a non-zero errcode.
type topEnvelope struct {
	ErrCode   int    `json:"errcode"`
	ErrMsg    string `json:"errmsg"`
	RequestID string `json:"request_id"`
}

func (e topEnvelope) err() error {
	if e.ErrCode != 0 {
		return newTopError(e.ErrCode, e.ErrMsg)
	}
	return nil
}

// topResponse is satisfied by any response struct embedding topEnvelope.
type topResponse interface{ err() error }

// postTop POSTs a JSON body to a topapi endpoint, with the access token as
// a query parameter, and checks both the HTTP status and the envelope.
func (c *Client) postTop(ctx context.Context, path, token string, body any, out topResponse) error {
	query := url.Values{"access_token": {token}}
	rawURL := c.oapiBaseURL + path + "?" + query.Encode()

	resp, err := c.roundTrip(ctx, http.MethodPost, rawURL, "", body)
	if err != nil {
		return err
	}
	if err := decodeJSON(resp, out); err != nil {
		return err
	}
	return out.err()
}
