package sheets

import (
	"context"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/reallygood83/mathemotion/internal/errors"
)

// ValuesFetcher reads a cell range as rows of loosely typed values
type ValuesFetcher interface {
	Values(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error)
}

// Client is the Google Sheets v4 implementation of ValuesFetcher
type Client struct {
	svc *gsheets.Service
}

// NewClient builds a read-only Sheets client from a service-account JSON blob
func NewClient(ctx context.Context, credentialJSON []byte) (*Client, error) {
	opts := []option.ClientOption{
		option.WithCredentialsJSON(credentialJSON),
		option.WithScopes(gsheets.SpreadsheetsReadonlyScope),
	}
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.CredentialInvalid("failed to create Google Sheets client", err)
	}
	return &Client{svc: svc}, nil
}

// Values calls spreadsheets.values.get
func (c *Client) Values(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, errors.SourceUnavailable("Google Sheets request failed", errors.ExternalServiceError("sheets", err))
	}
	return resp.Values, nil
}
