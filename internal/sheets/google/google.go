// Package google exports the ledger summary to a Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	ports "ledger/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheet         string
}

var _ ports.SummaryExporter = (*Client)(nil)

// New creates a client authenticated with service account credentials, taken
// from CredentialsJSON or, failing that, CredentialsFile.
func New(ctx context.Context, cfg Config, extra ...goption.ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if strings.TrimSpace(cfg.SheetName) == "" {
		return nil, errors.New("missing sheet name")
	}

	opts := []goption.ClientOption{goption.WithScopes(gsheet.SpreadsheetsScope)}
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		opts = append(opts, goption.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", cfg.CredentialsFile)
		opts = append(opts, goption.WithCredentialsFile(cfg.CredentialsFile))
	case len(extra) == 0:
		return nil, errors.New("missing service account credentials")
	}
	opts = append(opts, extra...)

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: cfg.SpreadsheetID, sheet: cfg.SheetName}, nil
}

// summaryRange is the fixed block the summary occupies.
func (c *Client) summaryRange() string {
	return fmt.Sprintf("%s!A1:B%d", c.sheet, ports.SummaryRows)
}

// ExportSummary overwrites the summary block with s.
func (c *Client) ExportSummary(ctx context.Context, s ports.Summary) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rows := s.Rows()
	values := make([][]interface{}, len(rows))
	for i, r := range rows {
		values[i] = []interface{}{r[0], r[1]}
	}

	rng := c.summaryRange()
	resp, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{
		Range:          rng,
		MajorDimension: "ROWS",
		Values:         values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}

	slog.InfoContext(ctx, "Summary exported to Google Sheets",
		"range", rng,
		"updated_cells", resp.UpdatedCells)
	return nil
}
