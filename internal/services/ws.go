package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rprint/rprint/internal/metric"
	"github.com/rprint/rprint/internal/model"
	"github.com/rprint/rprint/internal/printer"
)

const writeWait = 10 * time.Second

// Server accepts websocket clients on /ws and routes their protocol
// messages. Every response is published to the shared hub, so all
// connected clients observe all responses regardless of which
// connection triggered them.
type Server struct {
	cfg        model.ServerConfig
	version    string
	printers   printer.Manager
	dispatcher *Dispatcher
	hub        *hub
	conns      connCounter
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

func NewServer(cfg model.ServerConfig, version string, printers printer.Manager, dispatcher *Dispatcher) *Server {
	return &Server{
		cfg:        cfg,
		version:    version,
		printers:   printers,
		dispatcher: dispatcher,
		hub:        newHub(broadcastBuffer),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Clients are LAN terminals; any origin may connect.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: slog.Default().With("component", "server"),
	}
}

// Handler builds the HTTP routes: the websocket endpoint, the health
// probe, and the metrics scrape target.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/ws", s.handleWS)
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("websocket server listening", "addr", srv.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	total := s.conns.inc()
	metric.ConnectionsActive.Inc()
	s.logger.Info("websocket connected", "total", total)

	sub := s.hub.subscribe()

	// Outbound pump: drains the shared broadcast feed into this
	// socket. A write failure closes the socket, which ends the
	// inbound loop below; unsubscribing closes the channel, which
	// ends this pump. Either side finishing tears the pair down.
	go func() {
		for frm := range sub.ch {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frm); err != nil {
				conn.Close()
				return
			}
		}
	}()

	// Inbound loop: read, handle, publish to every subscriber. The
	// dispatcher's blocking spooler calls run on this goroutine, so
	// they stall only this connection's reads, never the accept loop
	// or other connections.
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}
		s.hub.publish(s.handleMessage(data))
	}

	s.hub.unsubscribe(sub)
	conn.Close()
	total = s.conns.dec()
	metric.ConnectionsActive.Dec()
	s.logger.Info("websocket disconnected", "total", total)
}

// handleMessage decodes one inbound frame and produces the response
// frame. Every per-message failure becomes a protocol response;
// nothing here terminates the connection.
func (s *Server) handleMessage(data []byte) []byte {
	msg, err := model.DecodeClientMessage(data)
	if err != nil {
		s.logger.Error("failed to parse message", "error", err)
		metric.MessagesTotal.WithLabelValues("invalid").Inc()
		return frame(model.MarshalError(model.ErrorCodeInvalidMessage, err.Error()))
	}

	metric.MessagesTotal.WithLabelValues(string(msg.Type)).Inc()

	switch msg.Type {
	case model.MessageTypePrint:
		req := *msg.Print
		s.logger.Info("print request", "id", req.ID, "type", req.TemplateType)
		if err := s.dispatcher.Dispatch(req); err != nil {
			s.logger.Error("print failed", "id", req.ID, "error", err)
			metric.PrintJobsTotal.WithLabelValues(model.StatusError).Inc()
			return frame(model.MarshalPrintResult(model.PrintResult{
				ID:      req.ID,
				Status:  model.StatusError,
				Message: err.Error(),
			}))
		}
		metric.PrintJobsTotal.WithLabelValues(model.StatusSuccess).Inc()
		return frame(model.MarshalPrintResult(model.PrintResult{
			ID:      req.ID,
			Status:  model.StatusSuccess,
			Message: "print job completed",
		}))

	case model.MessageTypeGetPrinters:
		printers, err := s.printers.ListPrinters()
		if err != nil {
			s.logger.Error("failed to list printers", "error", err)
			return frame(model.MarshalError(model.ErrorCodePrinterError, err.Error()))
		}
		return frame(model.MarshalPrinters(printers))

	case model.MessageTypeGetStatus:
		return frame(model.MarshalStatus(model.StatusResponse{
			Status:      "online",
			Connections: s.conns.count(),
			Version:     s.version,
		}))

	default:
		return frame(model.MarshalPong())
	}
}

// frame falls back to an empty object if serialization itself fails,
// so the broadcast path always carries valid JSON.
func frame(data []byte, err error) []byte {
	if err != nil {
		return []byte("{}")
	}
	return data
}
