package sheets

import (
	"errors"
	"fmt"
)

var (
	// ErrSpreadsheetNotFound is returned when the spreadsheet key does not
	// resolve to a document the service account can see.
	ErrSpreadsheetNotFound = errors.New("spreadsheet not found")
	// ErrWorksheetNotFound is returned when the spreadsheet has no tab with
	// the requested title.
	ErrWorksheetNotFound = errors.New("worksheet not found")
	// ErrCredentialsNotFound is returned when none of the candidate
	// service-account files exist.
	ErrCredentialsNotFound = errors.New("credentials not found")
)

// describe renders err as the user-facing text placed in the "error" field of
// a sheet payload. prefix is used for anything that is not a lookup failure.
func describe(err error, cfg Config, tab, prefix string) string {
	switch {
	case errors.Is(err, ErrSpreadsheetNotFound):
		return fmt.Sprintf("Planilha não encontrada com ID: %s", cfg.SpreadsheetID)
	case errors.Is(err, ErrWorksheetNotFound):
		return fmt.Sprintf("Aba '%s' não encontrada na planilha", tab)
	default:
		return fmt.Sprintf("%s: %v", prefix, err)
	}
}
