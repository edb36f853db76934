// Package gateway serves the chat WebSocket endpoint and static assets.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/soyeahso/voli/internal/config"
	"github.com/soyeahso/voli/internal/hooks"
	"github.com/soyeahso/voli/internal/logging"
	"github.com/soyeahso/voli/internal/relay"
	"github.com/soyeahso/voli/internal/session"
	"golang.org/x/sync/errgroup"
)

// ErrConnClosed is returned when sending on a closed connection.
var ErrConnClosed = errors.New("connection closed")

const shutdownTimeout = 10 * time.Second

// Server is the voli HTTP + WebSocket server.
type Server struct {
	cfg   config.GatewayConfig
	relay *relay.Handler
	hooks *hooks.Manager
	log   *logging.Logger
	conns *ConnRegistry

	upgrader  websocket.Upgrader
	startedAt time.Time

	mu         sync.Mutex
	httpServer *http.Server
	addr       net.Addr
}

// ServerOption configures the server.
type ServerOption func(*Server)

// WithHooks sets the hook manager for lifecycle events.
func WithHooks(hm *hooks.Manager) ServerOption {
	return func(s *Server) {
		s.hooks = hm
	}
}

// New creates a server that relays chat messages through h.
func New(cfg config.GatewayConfig, h *relay.Handler, log *logging.Logger, opts ...ServerOption) *Server {
	if cfg.ChatPath == "" {
		cfg.ChatPath = config.DefaultChatPath
	}
	s := &Server{
		cfg:   cfg,
		relay: h,
		log:   log.Sub("gateway"),
		conns: NewConnRegistry(log.Sub("conns")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkWebSocketOrigin(cfg.AllowedOrigins),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// checkWebSocketOrigin accepts requests without an Origin header, requests
// whose Origin host matches the request host, and configured origins.
func checkWebSocketOrigin(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
			return true
		}
		return isOriginAllowed(origin, allowed)
	}
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.GatewayConfig) string {
	switch cfg.Bind {
	case "loopback":
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	case "custom":
		host := cfg.CustomBindHost
		if host == "" {
			host = "0.0.0.0"
		}
		return net.JoinHostPort(host, fmt.Sprint(cfg.Port))
	default:
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	}
}

// Handler returns the full HTTP handler: routes plus middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return withMiddleware(mux, s.log, s.cfg.AllowedOrigins)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET "+s.cfg.ChatPath, s.handleWebSocket)
	mux.Handle("/", s.staticHandler())
}

// Start listens and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.mu.Lock()
	s.httpServer = srv
	s.addr = ln.Addr()
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("chatPath", s.cfg.ChatPath).
		Str("static", s.cfg.StaticDir).
		Str("model", s.relay.Model()).
		Msg("server running")
	s.hooks.Emit(ctx, hooks.EventGatewayStart, map[string]any{
		"addr": ln.Addr().String(),
	})

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		s.log.Info().Msg("shutting down server")
		s.hooks.Emit(context.Background(), hooks.EventGatewayStop, nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.conns.CloseAll()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Addr returns the bound listen address, or empty string if not started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addr == nil {
		return ""
	}
	return s.addr.String()
}

// Connections returns the number of open chat connections.
func (s *Server) Connections() int { return s.conns.Count() }

// handleWebSocket upgrades the request and runs one chat session until the
// client goes away.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	socket, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}
	if s.cfg.MaxMessageSize > 0 {
		socket.SetReadLimit(s.cfg.MaxMessageSize)
	}

	ctx := r.Context()
	conn := NewConn(socket, s.log.Sub("ws"))
	sess := session.New()

	s.conns.Add(conn)
	s.hooks.Emit(ctx, hooks.EventSessionStart, map[string]any{
		"sessionId": sess.ID,
		"connId":    conn.ID,
		"remote":    conn.Remote,
	})
	defer func() {
		s.conns.Remove(conn.ID)
		conn.Close()
		s.hooks.Emit(context.Background(), hooks.EventSessionEnd, map[string]any{
			"sessionId": sess.ID,
			"connId":    conn.ID,
			"turns":     sess.Len(),
		})
	}()

	s.readLoop(ctx, conn, sess)
}

// readLoop hands each inbound frame to the relay. The next frame is not
// read until the current reply has finished streaming.
func (s *Server) readLoop(ctx context.Context, conn *Conn, sess *session.Session) {
	for {
		text, err := conn.Read()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				conn.log.Debug().Msg("client closed connection")
			} else {
				conn.log.Warn().Err(err).Msg("read error")
			}
			return
		}
		res := s.relay.Handle(ctx, sess, text, conn)
		conn.log.Debug().
			Bool("failed", res.Failed).
			Int("chunks", res.Chunks).
			Int("turns", sess.Len()).
			Dur("duration", res.Duration).
			Msg("message handled")
	}
}
