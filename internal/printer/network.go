package printer

import (
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/rprint/rprint/internal/model"
)

// NetworkManager drives raw TCP (JetDirect, port 9100) printers
// declared in the configuration. Status is decided by a connect probe.
type NetworkManager struct {
	printers     []model.NetworkPrinter
	dialTimeout  time.Duration
	probeTimeout time.Duration
	// settle gives the printer time to drain its buffer before the
	// connection is torn down.
	settle time.Duration
	logger *slog.Logger
}

func NewNetworkManager(printers []model.NetworkPrinter) *NetworkManager {
	return &NetworkManager{
		printers:     printers,
		dialTimeout:  5 * time.Second,
		probeTimeout: 300 * time.Millisecond,
		settle:       500 * time.Millisecond,
		logger:       slog.Default().With("component", "network-printer"),
	}
}

func (m *NetworkManager) ListPrinters() ([]model.PrinterInfo, error) {
	infos := make([]model.PrinterInfo, 0, len(m.printers))
	for _, p := range m.printers {
		status := "offline"
		if m.probe(p) {
			status = "ready"
		}
		infos = append(infos, model.PrinterInfo{
			Name:      p.Name,
			IsDefault: p.Default,
			Status:    status,
		})
	}
	return infos, nil
}

func (m *NetworkManager) DefaultPrinter() (string, error) {
	for _, p := range m.printers {
		if p.Default {
			return p.Name, nil
		}
	}
	return "", nil
}

func (m *NetworkManager) PrintRaw(name string, data []byte) error {
	p, err := m.find(name)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", p.IP, p.Port)
	m.logger.Info("sending payload", "printer", p.Name, "addr", addr, "bytes", len(data))

	conn, err := net.DialTimeout("tcp", addr, m.dialTimeout)
	if err != nil {
		return fmt.Errorf("connection to %s failed: %w", addr, err)
	}
	defer conn.Close()

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("write to %s failed: %w", addr, err)
	}

	time.Sleep(m.settle)
	return nil
}

func (m *NetworkManager) PrintText(name string, text string) error {
	return m.PrintRaw(name, []byte(text))
}

func (m *NetworkManager) find(name string) (model.NetworkPrinter, error) {
	for _, p := range m.printers {
		if p.Name == name {
			return p, nil
		}
	}
	return model.NetworkPrinter{}, fmt.Errorf("unknown printer: %s", name)
}

func (m *NetworkManager) probe(p model.NetworkPrinter) bool {
	addr := fmt.Sprintf("%s:%d", p.IP, p.Port)
	conn, err := net.DialTimeout("tcp", addr, m.probeTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
