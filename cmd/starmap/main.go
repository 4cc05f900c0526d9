package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Garsondee/Star-Map/internal/chat"
	"github.com/Garsondee/Star-Map/internal/game"
	"github.com/Garsondee/Star-Map/internal/logging"
	"github.com/Garsondee/Star-Map/internal/observability"
)

func main() {
	cfg := game.DefaultConfig()
	var (
		seed        int64
		systems     int
		metricsAddr string
		chatURL     string
		chatServe   string
		player      string
		logLevel    string
		logFormat   string
	)
	flag.Float64Var(&cfg.Viewport.MinZoom, "zoom-min", cfg.Viewport.MinZoom, "minimum zoom factor")
	flag.Float64Var(&cfg.Viewport.MaxZoom, "zoom-max", cfg.Viewport.MaxZoom, "maximum zoom factor")
	flag.Float64Var(&cfg.Viewport.ZoomStep, "zoom-step", cfg.Viewport.ZoomStep, "zoom multiplier per wheel notch or key press")
	flag.Int64Var(&seed, "seed", 1, "universe generation seed")
	flag.IntVar(&systems, "systems", 40, "number of star systems")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (empty disables)")
	flag.StringVar(&chatURL, "chat-url", "", "websocket chat server to join (empty uses a local echo)")
	flag.StringVar(&chatServe, "chat-serve", "", "host a chat hub on this address")
	flag.StringVar(&player, "player", "player", "name shown on chat messages")
	flag.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	flag.StringVar(&logFormat, "log-format", "text", "text or json")
	flag.Parse()

	logger := logging.New(logging.Config{Level: logLevel, Format: logFormat})

	opts := game.Options{
		Config:    cfg,
		Seed:      seed,
		Systems:   systems,
		Clipboard: game.SystemClipboard{},
		Logger:    logger,
	}
	if (game.SystemClipboard{}).Unsupported() {
		logger.Warn("system clipboard unavailable, copy and paste stay in-process")
		opts.Clipboard = &game.MemoryClipboard{}
	}

	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		collector, err := observability.NewMapCollector(reg)
		if err != nil {
			log.Fatal(err)
		}
		opts.Metrics = collector
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		serve(logger, "metrics", metricsAddr, mux)
	}

	if chatServe != "" {
		mux := http.NewServeMux()
		mux.Handle("/chat", chat.NewHub(logger))
		serve(logger, "chat hub", chatServe, mux)
	}

	if chatURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := chat.Dial(ctx, chat.Config{URL: chatURL, Sender: player, Logger: logger})
		cancel()
		if err != nil {
			log.Fatal(err)
		}
		defer client.Close()
		opts.Chat = client
	} else {
		opts.Chat = chat.NewLoopback(player, 64)
	}

	g, err := game.New(opts)
	if err != nil {
		log.Fatal(err)
	}

	view := cfg.Viewport.ViewSize
	ebiten.SetWindowTitle("Star Map")
	ebiten.SetWindowSize(int(view.X), int(view.Y))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

// serve runs an HTTP server in the background for the life of the process.
func serve(logger logging.Logger, name, addr string, h http.Handler) {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("listening", logging.String("server", name), logging.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", logging.String("server", name), logging.Err(err))
		}
	}()
}
