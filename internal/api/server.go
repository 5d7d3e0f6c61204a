package api

import (
	"fmt"
	"net/http"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/teamkit/roster/internal/live"
)

// NewServer assembles the HTTP server: API routes, the live-update socket, a
// health check, CORS for the browser UI, and h2c so HTTP/2 works without TLS
// termination in front.
func NewServer(port string, handler *Handler, hub *live.Hub, log zerolog.Logger) *http.Server {
	mux := http.NewServeMux()

	handler.RegisterRoutes(mux)
	mux.HandleFunc("GET /ws", hub.HandleWS)
	setupHealthCheck(mux, log)

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	return &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: h2c.NewHandler(c.Handler(mux), &http2.Server{}),
	}
}

func setupHealthCheck(mux *http.ServeMux, log zerolog.Logger) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}
