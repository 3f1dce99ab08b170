package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/va6996/agenttools/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// Access selects the OAuth scopes a connection is opened with.
type Access int

const (
	ReadOnly Access = iota
	ReadWrite
)

func (a Access) scopes() []string {
	if a == ReadWrite {
		return []string{gsheets.SpreadsheetsScope, gsheets.DriveScope}
	}
	return []string{gsheets.SpreadsheetsReadonlyScope, gsheets.DriveReadonlyScope}
}

// Worksheet is one tab of an opened spreadsheet.
type Worksheet interface {
	// Records reads every row below the header as a Record.
	Records(ctx context.Context) ([]Record, error)
	// AppendRow adds one row after the last non-empty row of the tab.
	AppendRow(ctx context.Context, row []any) error
}

// Provider opens worksheets. Every call opens a fresh connection; nothing is
// cached between tool invocations.
type Provider interface {
	Open(ctx context.Context, spreadsheetID, tab string, access Access) (Worksheet, error)
}

// ResolveCredentials returns the first candidate path that exists.
func ResolveCredentials(candidates ...string) (string, error) {
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrCredentialsNotFound, strings.Join(candidates, ", "))
}

// GoogleProvider opens worksheets through the Google Sheets v4 API.
type GoogleProvider struct {
	CredentialsFile string
	opts            []option.ClientOption
}

// NewGoogleProvider authenticates with the first service-account file found
// among candidates.
func NewGoogleProvider(candidates ...string) (*GoogleProvider, error) {
	path, err := ResolveCredentials(candidates...)
	if err != nil {
		return nil, err
	}
	return &GoogleProvider{
		CredentialsFile: path,
		opts:            []option.ClientOption{option.WithCredentialsFile(path)},
	}, nil
}

// NewGoogleProviderWithOptions builds a provider from explicit client
// options, e.g. a custom endpoint without authentication.
func NewGoogleProviderWithOptions(opts ...option.ClientOption) *GoogleProvider {
	return &GoogleProvider{opts: opts}
}

func (p *GoogleProvider) Open(ctx context.Context, spreadsheetID, tab string, access Access) (Worksheet, error) {
	opts := append([]option.ClientOption{option.WithScopes(access.scopes()...)}, p.opts...)
	srv, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	log.Debugf(ctx, "[Sheets] Opening spreadsheet %s tab %q", spreadsheetID, tab)

	doc, err := srv.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrSpreadsheetNotFound, spreadsheetID)
		}
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}

	for _, sh := range doc.Sheets {
		if sh.Properties != nil && sh.Properties.Title == tab {
			return &googleWorksheet{srv: srv, spreadsheetID: spreadsheetID, tab: tab}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrWorksheetNotFound, tab)
}

type googleWorksheet struct {
	srv           *gsheets.Service
	spreadsheetID string
	tab           string
}

// a1Range quotes the tab title so names with spaces or quotes address the
// whole sheet.
func (w *googleWorksheet) a1Range() string {
	return "'" + strings.ReplaceAll(w.tab, "'", "''") + "'"
}

// Records reads cells as displayed in the sheet ("R$ 45,00" stays text) and
// numericises plain numbers.
func (w *googleWorksheet) Records(ctx context.Context) ([]Record, error) {
	resp, err := w.srv.Spreadsheets.Values.Get(w.spreadsheetID, w.a1Range()).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read values: %w", err)
	}

	records := recordsFromValues(resp.Values)
	log.Debugf(ctx, "[Sheets] Read %d record(s) from %q", len(records), w.tab)
	return records, nil
}

func (w *googleWorksheet) AppendRow(ctx context.Context, row []any) error {
	vr := &gsheets.ValueRange{Values: [][]any{row}}
	_, err := w.srv.Spreadsheets.Values.Append(w.spreadsheetID, w.a1Range(), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	log.Debugf(ctx, "[Sheets] Appended row to %q", w.tab)
	return nil
}
