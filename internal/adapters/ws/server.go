// Package ws exposes the palette protocol over a websocket endpoint. The
// embedded palette view connects to /ws; the latest connection becomes the
// active palette sender.
package ws

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guidekit/guidekit/internal/assets"
	"github.com/guidekit/guidekit/internal/logging"
	"github.com/guidekit/guidekit/pkg/ports"
)

// Engine is what the transport needs from the core: inbound raw messages go
// in, and palette senders are attached as connections come and go.
type Engine interface {
	HandleMessage(raw []byte)
	AttachPalette(sender ports.PaletteSender)
	DetachPalette(sender ports.PaletteSender)
}

// Server is the HTTP surface: the websocket palette channel, static assets,
// health and metrics.
type Server struct {
	engine   Engine
	assets   *assets.Manager
	logger   *slog.Logger
	registry *prometheus.Registry
	upgrader websocket.Upgrader
}

// NewServer creates the transport. registry may be nil to disable /metrics.
func NewServer(engine Engine, am *assets.Manager, registry *prometheus.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{
		engine:   engine,
		assets:   am,
		logger:   logger,
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The palette is an embedded view, not a browser origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/ws", s.handleWS)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	if s.registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	if s.assets != nil {
		r.Get("/assets/{name}", s.handleAsset)
	}
	return r
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	pc := &paletteConn{
		id:     uuid.NewString(),
		conn:   conn,
		logger: s.logger,
	}
	s.logger.Info("palette connected", "connId", pc.id, "remote", r.RemoteAddr)
	s.engine.AttachPalette(pc)
	defer func() {
		s.engine.DetachPalette(pc)
		conn.Close()
		s.logger.Info("palette disconnected", "connId", pc.id)
	}()

	for {
		kind, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("palette read failed", "connId", pc.id, "err", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		s.engine.HandleMessage(raw)
	}
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	path, err := s.assets.Resolve(name)
	if err != nil {
		http.Error(w, "asset not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", assets.ContentType(path))
	http.ServeFile(w, r, path)
}

// paletteConn adapts one websocket connection to ports.PaletteSender.
// gorilla/websocket allows one concurrent writer, so writes are serialized.
type paletteConn struct {
	id     string
	conn   *websocket.Conn
	logger *slog.Logger
	mu     sync.Mutex
}

// Send marshals msg and writes it as one text frame.
func (c *paletteConn) Send(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}
