//go:build windows

package printer

import (
	"fmt"
	"log/slog"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/rprint/rprint/internal/model"
)

// Windows spooler backend over winspool.drv. All unsafe buffer and
// pointer handling for enumeration is confined to this file; callers
// only ever receive owned PrinterInfo values.

var (
	winspool               = windows.NewLazySystemDLL("winspool.drv")
	procEnumPrintersW      = winspool.NewProc("EnumPrintersW")
	procGetDefaultPrinterW = winspool.NewProc("GetDefaultPrinterW")
	procOpenPrinterW       = winspool.NewProc("OpenPrinterW")
	procClosePrinter       = winspool.NewProc("ClosePrinter")
	procStartDocPrinterW   = winspool.NewProc("StartDocPrinterW")
	procEndDocPrinter      = winspool.NewProc("EndDocPrinter")
	procStartPagePrinter   = winspool.NewProc("StartPagePrinter")
	procEndPagePrinter     = winspool.NewProc("EndPagePrinter")
	procWritePrinter       = winspool.NewProc("WritePrinter")
)

const (
	printerEnumLocal       = 0x00000002
	printerEnumConnections = 0x00000004
)

// printerInfo2 mirrors PRINTER_INFO_2W.
type printerInfo2 struct {
	serverName         *uint16
	printerName        *uint16
	shareName          *uint16
	portName           *uint16
	driverName         *uint16
	comment            *uint16
	location           *uint16
	devMode            uintptr
	sepFile            *uint16
	printProcessor     *uint16
	datatype           *uint16
	parameters         *uint16
	securityDescriptor uintptr
	attributes         uint32
	priority           uint32
	defaultPriority    uint32
	startTime          uint32
	untilTime          uint32
	status             uint32
	jobs               uint32
	averagePPM         uint32
}

// docInfo1 mirrors DOC_INFO_1W.
type docInfo1 struct {
	docName    *uint16
	outputFile *uint16
	datatype   *uint16
}

func NewSystemManager() Manager {
	return systemManager{logger: slog.Default().With("component", "winspool")}
}

type systemManager struct {
	logger *slog.Logger
}

func (m systemManager) ListPrinters() ([]model.PrinterInfo, error) {
	defaultName, _ := m.DefaultPrinter()

	flags := uintptr(printerEnumLocal | printerEnumConnections)
	var needed, returned uint32

	// First call sizes the buffer.
	procEnumPrintersW.Call(flags, 0, 2, 0, 0,
		uintptr(unsafe.Pointer(&needed)), uintptr(unsafe.Pointer(&returned)))
	if needed == 0 {
		return []model.PrinterInfo{}, nil
	}

	buf := make([]byte, needed)
	r1, _, _ := procEnumPrintersW.Call(flags, 0, 2,
		uintptr(unsafe.Pointer(&buf[0])), uintptr(needed),
		uintptr(unsafe.Pointer(&needed)), uintptr(unsafe.Pointer(&returned)))
	if r1 == 0 {
		return nil, fmt.Errorf("failed to enumerate printers")
	}

	entries := unsafe.Slice((*printerInfo2)(unsafe.Pointer(&buf[0])), returned)
	printers := make([]model.PrinterInfo, 0, len(entries))
	for i := range entries {
		name := windows.UTF16PtrToString(entries[i].printerName)
		if name == "" {
			continue
		}
		status := "ready"
		if entries[i].status != 0 {
			status = "busy"
		}
		printers = append(printers, model.PrinterInfo{
			Name:      name,
			IsDefault: name == defaultName && name != "",
			Status:    status,
		})
	}

	m.logger.Debug("enumerated printers", "count", len(printers))
	return printers, nil
}

func (m systemManager) DefaultPrinter() (string, error) {
	var size uint32
	procGetDefaultPrinterW.Call(0, uintptr(unsafe.Pointer(&size)))
	if size == 0 {
		return "", nil
	}

	buf := make([]uint16, size)
	r1, _, _ := procGetDefaultPrinterW.Call(
		uintptr(unsafe.Pointer(&buf[0])), uintptr(unsafe.Pointer(&size)))
	if r1 == 0 {
		return "", nil
	}
	return windows.UTF16ToString(buf), nil
}

func (m systemManager) PrintRaw(name string, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return fmt.Errorf("invalid printer name %q: %w", name, err)
	}

	var handle windows.Handle
	r1, _, _ := procOpenPrinterW.Call(
		uintptr(unsafe.Pointer(namePtr)), uintptr(unsafe.Pointer(&handle)), 0)
	if r1 == 0 || handle == 0 {
		return fmt.Errorf("failed to open printer: %s", name)
	}
	defer procClosePrinter.Call(uintptr(handle))

	docName, _ := windows.UTF16PtrFromString("rprint document")
	dataType, _ := windows.UTF16PtrFromString("RAW")
	doc := docInfo1{docName: docName, datatype: dataType}

	jobID, _, _ := procStartDocPrinterW.Call(uintptr(handle), 1, uintptr(unsafe.Pointer(&doc)))
	if jobID == 0 {
		return fmt.Errorf("failed to start document on %s", name)
	}
	defer procEndDocPrinter.Call(uintptr(handle))

	if r1, _, _ := procStartPagePrinter.Call(uintptr(handle)); r1 == 0 {
		return fmt.Errorf("failed to start page on %s", name)
	}
	defer procEndPagePrinter.Call(uintptr(handle))

	var written uint32
	r1, _, _ = procWritePrinter.Call(uintptr(handle),
		uintptr(unsafe.Pointer(&data[0])), uintptr(len(data)),
		uintptr(unsafe.Pointer(&written)))
	if r1 == 0 {
		return fmt.Errorf("failed to write to printer %s", name)
	}

	m.logger.Info("spooled raw job", "printer", name, "bytes", written)
	return nil
}

func (m systemManager) PrintText(name string, text string) error {
	return m.PrintRaw(name, []byte(text))
}
