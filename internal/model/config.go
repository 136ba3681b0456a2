package model

// --- Configuration Structures ---

type AppConfig struct {
	Server  ServerConfig  `json:"server"`
	Printer PrinterConfig `json:"printer"`
	UI      UIConfig      `json:"ui"`
}

type ServerConfig struct {
	Port      int    `json:"port"`
	Host      string `json:"host"`
	AutoStart bool   `json:"auto_start"`
}

type PrinterConfig struct {
	// DefaultPrinter overrides the OS-reported default when set.
	DefaultPrinter string           `json:"default_printer,omitempty"`
	PDFPrinter     string           `json:"pdf_printer,omitempty"`
	ESCPOSPrinter  string           `json:"escpos_printer,omitempty"`
	ZPLPrinter     string           `json:"zpl_printer,omitempty"`
	Network        []NetworkPrinter `json:"network,omitempty"`
}

// NetworkPrinter is a raw TCP (port 9100) printer declared in the
// config file instead of enumerated from the OS spooler.
type NetworkPrinter struct {
	Name    string `json:"name"`
	IP      string `json:"ip"`
	Port    int    `json:"port"`
	Default bool   `json:"default,omitempty"`
}

// UIConfig is persisted for the desktop shell; the server itself does
// not consume it.
type UIConfig struct {
	StartMinimized  bool `json:"start_minimized"`
	MinimizeOnClose bool `json:"minimize_on_close"`
	AutoLaunch      bool `json:"auto_launch"`
	HistoryLimit    int  `json:"history_limit"`
}

func DefaultConfig() AppConfig {
	return AppConfig{
		Server: ServerConfig{Port: 9100, Host: "0.0.0.0", AutoStart: true},
		UI:     UIConfig{StartMinimized: true, MinimizeOnClose: true, HistoryLimit: 100},
	}
}
