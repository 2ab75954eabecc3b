package sdk

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

// Client is the Portage SDK client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new SDK client
// baseURL is the base URL of the API, e.g., "http://localhost:8080/api/v1"
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithHTTPClient creates an SDK client with a custom HTTP client
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// RelayRequest is the request parameters for Relay
type RelayRequest struct {
	OwnerID    string `json:"owner_id"`
	SourceURL  string `json:"source_url"`
	Namespace  string `json:"namespace"`
	ObjectName string `json:"object_name,omitempty"`
}

// RelayResponse is the response from Relay
type RelayResponse struct {
	TransferID string `json:"transfer_id"`
	Status     string `json:"status"`
}

// Relay asks the server to move one object from its source into the target
// namespace. The call returns as soon as the transfer is accepted; poll
// GetTransfer with the returned id to follow it.
func (c *Client) Relay(ctx context.Context, req RelayRequest) (*RelayResponse, error) {
	body, err := sonic.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doPOST(ctx, "/relay", bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}

	var out RelayResponse
	if err := decodeData(resp.Data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Transfer is one journaled transfer as reported by the server.
type Transfer struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"owner_id"`
	ObjectName   string     `json:"object_name"`
	Namespace    string     `json:"namespace"`
	SourceRef    string     `json:"source_ref"`
	Size         *int64     `json:"size"`
	Strategy     *string    `json:"strategy"`
	Status       string     `json:"status"`
	ErrorMessage *string    `json:"error_message"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}

// TransferPart is one uploaded part of a transfer.
type TransferPart struct {
	ID         int64     `json:"id"`
	TransferID string    `json:"transfer_id"`
	Ordinal    int64     `json:"ordinal"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// TransferDetail joins a transfer with its uploaded parts.
type TransferDetail struct {
	Transfer
	Parts []TransferPart `json:"parts"`
}

// ListTransfersRequest filters the transfer listing. All fields are optional.
type ListTransfersRequest struct {
	OwnerID string
	Page    int32
	Limit   int32
}

// TransferPage is one page of the transfer listing.
type TransferPage struct {
	Data       []Transfer `json:"data"`
	Pagination struct {
		Limit    int32  `json:"limit"`
		Page     *int32 `json:"page"`
		NextPage *int32 `json:"next_page"`
	} `json:"pagination"`
}

// ListTransfers returns one page of journaled transfers, newest first.
// Pagination.NextPage is nil on the last page.
func (c *Client) ListTransfers(ctx context.Context, req ListTransfersRequest) (*TransferPage, error) {
	query := map[string]string{
		"owner_id": req.OwnerID,
	}
	if req.Page > 0 {
		query["page"] = fmt.Sprintf("%d", req.Page)
	}
	if req.Limit > 0 {
		query["limit"] = fmt.Sprintf("%d", req.Limit)
	}

	resp, err := c.doGET(ctx, "/transfers", query)
	if err != nil {
		return nil, err
	}

	var out TransferPage
	if err := decodeData(resp.Data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTransfer returns one transfer with its parts.
func (c *Client) GetTransfer(ctx context.Context, transferID string) (*TransferDetail, error) {
	resp, err := c.doGET(ctx, fmt.Sprintf("/transfers/%s", transferID), nil)
	if err != nil {
		return nil, err
	}

	var out TransferDetail
	if err := decodeData(resp.Data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
