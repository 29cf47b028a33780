// Package net wires the HTTP surface: the websocket endpoint, a health
// probe, and optionally the static client assets. None of these carry game
// logic.
package net

import (
	nethttp "net/http"

	"github.com/rs/zerolog"

	server "five-a-side/server"
	"five-a-side/server/internal/net/ws"
)

type HTTPHandlerConfig struct {
	// ClientDir serves the game client at / when set.
	ClientDir string
	Logger    zerolog.Logger
}

func NewHTTPHandler(hub *server.Hub, cfg HTTPHandlerConfig) nethttp.Handler {
	mux := nethttp.NewServeMux()

	wsHandler := ws.NewHandler(hub, ws.HandlerConfig{Logger: cfg.Logger})
	mux.HandleFunc("/ws", wsHandler.Handle)

	mux.HandleFunc("/healthz", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	if cfg.ClientDir != "" {
		mux.Handle("/", nethttp.FileServer(nethttp.Dir(cfg.ClientDir)))
	}

	return mux
}
