package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	cdppage "github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
)

// PageRenderer produces PDF output for page-oriented (HTML) jobs
// through headless Chrome. It is a collaborator of the bridge, not
// part of the raw dispatch path: pdf requests are rejected by the
// dispatcher and handed here by the shell or the CLI.
type PageRenderer struct {
	execPath string
	newJobID func() string
	logger   *slog.Logger
}

// NewPageRenderer builds a renderer using the given browser binary;
// an empty path lets chromedp locate one.
func NewPageRenderer(execPath string) *PageRenderer {
	return &PageRenderer{
		execPath: execPath,
		newJobID: uuid.NewString,
		logger:   slog.Default().With("component", "page-renderer"),
	}
}

// RenderPDF wraps the HTML with print styling for the given paper
// size, loads it in a headless browser, and captures the printed page.
func (p *PageRenderer) RenderPDF(ctx context.Context, html, paperSize string) ([]byte, error) {
	jobID := p.newJobID()
	p.logger.Info("rendering page job", "job", jobID, "paper", paperSize)

	opts := chromedp.DefaultExecAllocatorOptions[:]
	if p.execPath != "" {
		opts = append(opts,
			chromedp.ExecPath(p.execPath),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-gpu", true),
		)
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()
	cdpCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	page := WrapHTMLForPrint(html, paperSize)

	var pdf []byte
	err := chromedp.Run(cdpCtx,
		chromedp.Navigate("data:text/html,"+urlEncode(page)),

		// Let the page settle before printing.
		chromedp.Sleep(300*time.Millisecond),

		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := cdppage.PrintToPDF().
				WithPrintBackground(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("page render failed: %w", err)
	}

	p.logger.Info("page job rendered", "job", jobID, "bytes", len(pdf))
	return pdf, nil
}

// urlEncode builds the data-URL payload.
func urlEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

const printWrapper = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        @page {
            size: %s;
            margin: 10mm;
        }
        @media print {
            body {
                -webkit-print-color-adjust: exact;
                print-color-adjust: exact;
            }
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            font-size: 12pt;
            line-height: 1.5;
            margin: 0;
            padding: 20px;
        }
    </style>
</head>
<body>%s</body>
</html>`

// WrapHTMLForPrint wraps rendered markup with the print styling and
// page setup for the requested paper size.
func WrapHTMLForPrint(content, paperSize string) string {
	return fmt.Sprintf(printWrapper, paperSizeToCSS(paperSize), content)
}

// paperSizeToCSS maps a paper-size descriptor to a CSS @page size
// value. Presets (A4, Letter, Legal, A3, A5), an optional trailing
// "landscape"/"portrait", and custom forms like "80mm 200mm" or
// "80mmx200mm" are accepted; anything else falls back to A4.
func paperSizeToCSS(paperSize string) string {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(paperSize)))
	if len(tokens) == 0 {
		return "210mm 297mm"
	}

	landscape := false
	switch tokens[len(tokens)-1] {
	case "landscape":
		landscape = true
		tokens = tokens[:len(tokens)-1]
	case "portrait":
		tokens = tokens[:len(tokens)-1]
	}

	var css string
	switch base := strings.Join(tokens, " "); base {
	case "a4":
		css = "210mm 297mm"
	case "letter":
		css = "8.5in 11in"
	case "legal":
		css = "8.5in 14in"
	case "a3":
		css = "297mm 420mm"
	case "a5":
		css = "148mm 210mm"
	default:
		if w, h, ok := parseCustomPaperCSS(base); ok {
			css = w + " " + h
		} else {
			css = "210mm 297mm"
		}
	}

	if landscape {
		if w, h, ok := strings.Cut(css, " "); ok {
			css = h + " " + w
		}
	}
	return css
}

// parseCustomPaperCSS handles "80mm 200mm" and "80mmx200mm".
func parseCustomPaperCSS(s string) (string, string, bool) {
	parts := strings.Fields(strings.ReplaceAll(s, "x", " "))
	if len(parts) != 2 {
		return "", "", false
	}
	w, ok := normalizeCSSLength(parts[0])
	if !ok {
		return "", "", false
	}
	h, ok := normalizeCSSLength(parts[1])
	if !ok {
		return "", "", false
	}
	return w, h, true
}

func normalizeCSSLength(token string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	if len(t) < 3 {
		return "", false
	}
	for _, unit := range []string{"mm", "cm", "in"} {
		num, found := strings.CutSuffix(t, unit)
		if !found {
			continue
		}
		num = strings.TrimSpace(num)
		if num == "" {
			return "", false
		}
		if _, err := strconv.ParseFloat(num, 64); err == nil {
			return num + unit, true
		}
	}
	return "", false
}
