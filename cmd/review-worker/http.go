package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/BearBump/ReviewBox/config"
	"github.com/BearBump/ReviewBox/internal/services/poller"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type workerHTTPOpts struct {
	httpAddr    string
	swaggerPath string // optional; /docs is served only when set
	onListen    func(httpAddr string)

	poller *poller.Poller
	cfg    *config.Config
}

func runWorkerHTTPServer(ctx context.Context, opts workerHTTPOpts) error {
	if opts.httpAddr == "" {
		opts.httpAddr = ":8082"
	}
	if opts.swaggerPath != "" {
		if _, err := os.Stat(opts.swaggerPath); os.IsNotExist(err) {
			return fmt.Errorf("worker swagger file not found: %s", opts.swaggerPath)
		}
	}

	lis, err := net.Listen("tcp", opts.httpAddr)
	if err != nil {
		return err
	}
	if opts.onListen != nil {
		opts.onListen(lis.Addr().String())
	}

	srv := &http.Server{Handler: newWorkerRouter(opts)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		_ = lis.Close()
	}()

	if err := srv.Serve(lis); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func newWorkerRouter(opts workerHTTPOpts) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Готовность: хотя бы один цикл опроса завершился, неважно с каким исходом.
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if opts.poller == nil || opts.poller.Stats().TotalCycles == 0 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		if opts.poller == nil {
			writeJSON(w, http.StatusOK, map[string]string{"error": "poller not wired"})
			return
		}
		writeJSON(w, http.StatusOK, opts.poller.Stats())
	})

	r.Get("/config", func(w http.ResponseWriter, r *http.Request) {
		if opts.cfg == nil {
			writeJSON(w, http.StatusOK, map[string]string{"error": "config not wired"})
			return
		}
		// Only operational settings: tokens and chat id live in env, not here.
		writeJSON(w, http.StatusOK, map[string]any{
			"reviewsEndpoint":              opts.cfg.Reviews.Endpoint,
			"reviewsMode":                  opts.cfg.Reviews.Mode,
			"reviewsRequestTimeoutSeconds": opts.cfg.Reviews.RequestTimeoutSeconds,
			"pollIntervalSeconds":          opts.cfg.ReviewBox.PollIntervalSeconds,
			"windowMode":                   opts.cfg.ReviewBox.WindowMode,
			"kafkaEnabled":                 opts.cfg.Kafka.Host != "",
			"statusChangedTopic":           opts.cfg.Kafka.StatusChangedTopicName,
		})
	})

	r.Post("/trigger", func(w http.ResponseWriter, r *http.Request) {
		if opts.poller == nil {
			writeJSON(w, http.StatusOK, map[string]string{"error": "poller not wired"})
			return
		}
		opts.poller.Trigger()
		writeJSON(w, http.StatusOK, map[string]bool{"triggered": true})
	})

	r.Handle("/metrics", promhttp.Handler())

	if opts.swaggerPath != "" {
		mountSwagger(r, opts.swaggerPath)
	}

	return r
}

func mountSwagger(r chi.Router, swaggerPath string) {
	r.Get("/swagger.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		http.ServeFile(w, r, swaggerPath)
	})

	// cachebuster: UI перечитывает спецификацию после её изменения
	swaggerURL := "/swagger.json"
	if fi, err := os.Stat(swaggerPath); err == nil {
		swaggerURL = fmt.Sprintf("/swagger.json?v=%d", fi.ModTime().Unix())
	}
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL(swaggerURL)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
