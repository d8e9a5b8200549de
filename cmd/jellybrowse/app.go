package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jmagar/jellybrowse/internal/api"
	"github.com/jmagar/jellybrowse/internal/browser"
	"github.com/jmagar/jellybrowse/internal/library"
	"github.com/jmagar/jellybrowse/internal/logger"
	"github.com/jmagar/jellybrowse/internal/metrics"
	"github.com/jmagar/jellybrowse/internal/model"
	"github.com/jmagar/jellybrowse/internal/server"
	"github.com/jmagar/jellybrowse/internal/stream"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// app holds the wired components shared by every subcommand.
type app struct {
	cfg     *model.Config
	log     logger.Logger
	reg     *prometheus.Registry
	client  *api.Client
	policy  *stream.Policy
	pages   *library.Registry
	hub     *server.Hub
	session *browser.Session
	apiLog  *api.APILog
}

func newApp(cfg *model.Config) (*app, error) {
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: cfg.Debug})
	if err != nil {
		return nil, err
	}
	log = log.With(logger.String("service", "jellybrowse"), logger.String("version", version))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	opts := []api.Option{api.WithObserver(m.ObserveCatalog)}
	var apiLog *api.APILog
	if cfg.APILogPath != "" {
		apiLog, err = api.OpenAPILog(cfg.APILogPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, api.WithAPILog(apiLog))
	}
	client, err := api.New(cfg, opts...)
	if err != nil {
		if apiLog != nil {
			_ = apiLog.Close()
		}
		return nil, err
	}

	policy := stream.NewPolicy(client)
	hub := server.NewHub(log)
	pages := library.NewRegistry(client, library.WithSearchFailureHook(m.SearchFailed))
	engine := browser.NewEngine(pages, policy, browser.WithLogger(log), browser.WithMetrics(m))

	return &app{
		cfg:     cfg,
		log:     log,
		reg:     reg,
		client:  client,
		policy:  policy,
		pages:   pages,
		hub:     hub,
		session: browser.NewSession(engine, hub, log, m),
		apiLog:  apiLog,
	}, nil
}

func (a *app) close() {
	if a.apiLog != nil {
		_ = a.apiLog.Close()
	}
	_ = a.log.Sync()
}
