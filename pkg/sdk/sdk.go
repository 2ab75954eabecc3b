package sdk

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/beanbocchi/portage/pkg/response"
)

func (c *Client) doGET(ctx context.Context, path string, query map[string]string) (*response.CommonResponse, error) {
	url := fmt.Sprintf("%s%s", c.baseURL, path)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if len(query) > 0 {
		q := httpReq.URL.Query()
		for key, value := range query {
			if value == "" {
				continue
			}
			q.Set(key, value)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	return c.doRequest(httpReq)
}

func (c *Client) doPOST(ctx context.Context, path string, body io.Reader, contentType string) (*response.CommonResponse, error) {
	url := fmt.Sprintf("%s%s", c.baseURL, path)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	return c.doRequest(httpReq)
}

func (c *Client) doRequest(req *http.Request) (*response.CommonResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var commonResp response.CommonResponse
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&commonResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest && commonResp.Error == nil {
		return nil, fmt.Errorf("request failed with status code: %d", resp.StatusCode)
	}

	if commonResp.Error != nil {
		return nil, commonResp.Error
	}

	return &commonResp, nil
}

// decodeData maps the untyped data envelope onto the caller's type.
func decodeData(data any, out any) error {
	raw, err := sonic.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to re-encode response data: %w", err)
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
