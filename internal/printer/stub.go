//go:build !windows

package printer

import (
	"fmt"

	"github.com/rprint/rprint/internal/model"
)

// NewSystemManager returns the platform spooler backend. On platforms
// without one the manager enumerates nothing and rejects print calls.
func NewSystemManager() Manager {
	return systemManager{}
}

type systemManager struct{}

func (systemManager) ListPrinters() ([]model.PrinterInfo, error) {
	return []model.PrinterInfo{}, nil
}

func (systemManager) DefaultPrinter() (string, error) {
	return "", nil
}

func (systemManager) PrintRaw(name string, data []byte) error {
	return fmt.Errorf("raw printing is not supported on this platform")
}

func (systemManager) PrintText(name string, text string) error {
	return fmt.Errorf("text printing is not supported on this platform")
}
