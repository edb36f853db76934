package gateway

import (
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/soyeahso/voli/internal/version"
)

//go:embed static/*
var builtinStatic embed.FS

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version,omitempty"`
	Connections int    `json:"connections"`
	UptimeSec   int64  `json:"uptimeSec,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:      "ok",
		Version:     version.Version,
		Connections: s.conns.Count(),
	}
	s.mu.Lock()
	if !s.startedAt.IsZero() {
		resp.UptimeSec = int64(time.Since(s.startedAt).Seconds())
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// staticHandler serves the configured asset directory, or the built-in
// page when that directory does not exist.
func (s *Server) staticHandler() http.Handler {
	if dir := s.cfg.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return http.FileServer(http.Dir(dir))
		}
		s.log.Warn().Str("dir", dir).Msg("static directory not found, serving built-in page")
	}
	sub, err := fs.Sub(builtinStatic, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
