package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	syncerrors "staysync/pkg/errors"
)

const xmlContentType = "text/xml; charset=utf-8"

// ChannelHTTP performs the raw HTTP exchange with the distribution channel:
// one POST per codec-built envelope, XML in, XML out. It classifies
// transport-level failures only; envelope-level errors belong to the codec.
type ChannelHTTP struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewChannelHTTP(baseURL string, timeout time.Duration) *ChannelHTTP {
	return &ChannelHTTP{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// PostXML sends body to the given endpoint path and returns the response
// body. A connection failure or any non-200 status is a TransportError; no
// retry happens at this level.
func (c *ChannelHTTP) PostXML(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, syncerrors.Internal("failed to build channel request", err)
	}
	req.Header.Set("Content-Type", xmlContentType)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, syncerrors.Transport("channel request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, syncerrors.Transport("failed to read channel response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, syncerrors.Transport("channel returned non-200 status", nil).WithDetails(map[string]any{
			"status": resp.StatusCode,
			"path":   path,
		})
	}

	return respBody, nil
}
