package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rprint/rprint/internal/model"
	"github.com/rprint/rprint/internal/printer"
	"github.com/rprint/rprint/internal/render"
	"github.com/rprint/rprint/internal/services"
	"github.com/rprint/rprint/internal/utils"
)

const appVersion = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:     "rprint",
		Short:   "Remote print bridge for thermal and label printers",
		Version: appVersion,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.json", "path to the configuration file")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the websocket print server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	root.AddCommand(serve)
	root.AddCommand(newRenderPageCmd())

	return root
}

func runServe(configPath string) error {
	_ = godotenv.Load()
	setupLogging()

	cfg, err := utils.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	slog.Info("configuration loaded",
		"host", cfg.Server.Host, "port", cfg.Server.Port,
		"default_printer", cfg.Printer.DefaultPrinter)

	if ok, path := utils.CheckChrome(); ok {
		slog.Info("browser found, page rendering available", "path", path, "version", utils.ChromeVersion(path))
	} else {
		slog.Warn("no chrome/chromium found, page rendering unavailable")
	}

	backend := selectBackend(cfg.Printer)
	dispatcher := services.NewDispatcher(backend, cfg.Printer.DefaultPrinter)
	server := services.NewServer(cfg.Server, appVersion, backend, dispatcher)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx)
}

// newRenderPageCmd renders an HTML template to PDF through the page
// pipeline, for page-oriented jobs the websocket dispatcher rejects.
func newRenderPageCmd() *cobra.Command {
	var (
		templatePath string
		dataPath     string
		paperSize    string
		outPath      string
	)

	cmd := &cobra.Command{
		Use:   "render-page",
		Short: "Render an HTML template to PDF through headless Chrome",
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()

			tmpl, err := os.ReadFile(templatePath)
			if err != nil {
				return fmt.Errorf("failed to read template: %w", err)
			}
			data := []byte("{}")
			if dataPath != "" {
				if data, err = os.ReadFile(dataPath); err != nil {
					return fmt.Errorf("failed to read data: %w", err)
				}
			}

			html, err := render.RenderJSON(string(tmpl), data)
			if err != nil {
				return err
			}

			ok, chromePath := utils.CheckChrome()
			if !ok {
				return fmt.Errorf("chrome/chromium is required for page rendering but was not found")
			}

			pdf, err := services.NewPageRenderer(chromePath).RenderPDF(cmd.Context(), html, paperSize)
			if err != nil {
				return err
			}
			return os.WriteFile(outPath, pdf, 0644)
		},
	}

	cmd.Flags().StringVar(&templatePath, "template", "", "HTML template file")
	cmd.Flags().StringVar(&dataPath, "data", "", "JSON data file for template variables")
	cmd.Flags().StringVar(&paperSize, "paper", "A4", "paper size (A4, Letter, 80mm 200mm, ...)")
	cmd.Flags().StringVar(&outPath, "out", "out.pdf", "output PDF path")
	cmd.MarkFlagRequired("template")

	return cmd
}

func selectBackend(cfg model.PrinterConfig) printer.Manager {
	if len(cfg.Network) > 0 {
		return printer.NewNetworkManager(cfg.Network)
	}
	return printer.NewSystemManager()
}

func setupLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("RPRINT_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
