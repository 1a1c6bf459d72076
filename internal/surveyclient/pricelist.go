// internal/surveyclient/pricelist.go
package surveyclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ImportSummary is the answer to a price list import.
type ImportSummary struct {
	Inserted  int64 `json:"inserted"`
	Updated   int64 `json:"updated"`
	Unchanged int64 `json:"unchanged"`
	Rows      int   `json:"rows"`
}

// ExportPriceList writes the price list in format ("csv" or "xlsx") to w.
func (c *Client) ExportPriceList(ctx context.Context, format string, w io.Writer) error {
	path := priceListPath + "/export?format=" + url.QueryEscape(format)
	resp, err := c.send(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	if resp.Status != http.StatusOK {
		return &APIError{Method: http.MethodGet, Path: path, Status: resp.Status, Body: string(resp.Body)}
	}
	if _, err := w.Write(resp.Body); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// ImportPriceList uploads r with the given content type (text/csv, the
// XLSX type or application/json).
func (c *Client) ImportPriceList(ctx context.Context, r io.Reader, contentType string) (ImportSummary, error) {
	path := priceListPath + "/import"
	header := http.Header{}
	header.Set("Content-Type", contentType)

	resp, err := c.send(ctx, http.MethodPost, path, r, header)
	if err != nil {
		return ImportSummary{}, err
	}
	if resp.Status != http.StatusOK {
		return ImportSummary{}, &APIError{Method: http.MethodPost, Path: path, Status: resp.Status, Body: string(resp.Body)}
	}

	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return ImportSummary{}, fmt.Errorf("decode response: %w", err)
	}
	var out ImportSummary
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return ImportSummary{}, fmt.Errorf("decode response data: %w", err)
	}
	return out, nil
}
