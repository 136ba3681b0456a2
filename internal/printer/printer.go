// Package printer abstracts printer enumeration and raw spooling. The
// rest of the pipeline depends only on the Manager capability surface;
// all OS spooler interaction stays behind it.
package printer

import "github.com/rprint/rprint/internal/model"

type Manager interface {
	// ListPrinters returns the current enumeration snapshot. Names
	// are unique within one snapshot and at most one entry is the
	// default.
	ListPrinters() ([]model.PrinterInfo, error)

	// DefaultPrinter returns the backend's default printer name, or
	// an empty string when none is configured.
	DefaultPrinter() (string, error)

	// PrintRaw spools data verbatim (ESC/POS, ZPL).
	PrintRaw(name string, data []byte) error

	// PrintText spools printable text.
	PrintText(name string, text string) error
}
