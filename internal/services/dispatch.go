package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rprint/rprint/internal/model"
	"github.com/rprint/rprint/internal/printer"
	"github.com/rprint/rprint/internal/render"
)

var (
	ErrNoDefaultPrinter = errors.New("no default printer available")

	// Page-oriented printing belongs to the rendering-surface
	// pathway, not to raw dispatch.
	ErrPDFNotSupported = errors.New("pdf printing is not supported on the raw dispatch path")
)

// templateKind is the closed classification of template_type, resolved
// once per request before any rendering work.
type templateKind int

const (
	kindRaw templateKind = iota
	kindText
	kindPage
)

func classifyTemplate(templateType string) (templateKind, error) {
	switch templateType {
	case "escpos", "zpl":
		return kindRaw, nil
	case "text":
		return kindText, nil
	case "pdf":
		return kindPage, nil
	default:
		return 0, fmt.Errorf("unknown template type: %s", templateType)
	}
}

// Dispatcher turns a validated print request into spooler calls.
type Dispatcher struct {
	printers printer.Manager
	// defaultPrinter is the configured override, consulted after an
	// explicit request printer and before the backend default.
	defaultPrinter string
	logger         *slog.Logger
}

func NewDispatcher(printers printer.Manager, defaultPrinter string) *Dispatcher {
	return &Dispatcher{
		printers:       printers,
		defaultPrinter: defaultPrinter,
		logger:         slog.Default().With("component", "dispatcher"),
	}
}

// Dispatch renders the request's template and spools one copy per
// requested count. Copies are sequential with identical payload bytes;
// the first spool failure aborts the remainder. Completed copies are
// not rolled back and there is no retry at this layer.
func (d *Dispatcher) Dispatch(req model.PrintRequest) error {
	kind, err := classifyTemplate(req.TemplateType)
	if err != nil {
		return err
	}
	if kind == kindPage {
		return ErrPDFNotSupported
	}

	name, err := d.resolvePrinter(req.Printer)
	if err != nil {
		return err
	}

	rendered, err := render.RenderJSON(req.Template, req.Data)
	if err != nil {
		return err
	}
	payload := []byte(rendered)

	for i := uint32(0); i < req.Options.Copies; i++ {
		if kind == kindText {
			err = d.printers.PrintText(name, rendered)
		} else {
			err = d.printers.PrintRaw(name, payload)
		}
		if err != nil {
			return fmt.Errorf("copy %d of %d failed: %w", i+1, req.Options.Copies, err)
		}
	}

	d.logger.Info("print completed",
		"printer", name, "type", req.TemplateType, "copies", req.Options.Copies)
	return nil
}

func (d *Dispatcher) resolvePrinter(requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	if d.defaultPrinter != "" {
		return d.defaultPrinter, nil
	}
	name, err := d.printers.DefaultPrinter()
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", ErrNoDefaultPrinter
	}
	return name, nil
}
