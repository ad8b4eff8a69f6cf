package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/atriumhq/atrium/pkg/api"
	"github.com/atriumhq/atrium/pkg/auth"
	"github.com/atriumhq/atrium/pkg/config"
	"github.com/atriumhq/atrium/pkg/features"
	"github.com/atriumhq/atrium/pkg/httputil"
	"github.com/atriumhq/atrium/pkg/notify"
	"github.com/atriumhq/atrium/pkg/observability"
	"github.com/atriumhq/atrium/pkg/orgs"
	"github.com/atriumhq/atrium/pkg/scope"
	"github.com/atriumhq/atrium/pkg/seed"
	"github.com/atriumhq/atrium/pkg/usage"
	"github.com/atriumhq/atrium/pkg/users"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(prometheus.NewRegistry())
	}
	health := observability.NewHealth()

	data, err := loadSeed(cfg)
	if err != nil {
		logger.WithError(err).Error("loading seed dataset")
		os.Exit(1)
	}

	hub := notify.NewHub(cfg.Session.ToastTTL)
	delay := cfg.Session.SimulatedLatency

	session := auth.NewSession(auth.NewStaticDirectory(), auth.NewFileStore(cfg.Session.StorePath), hub, logger, delay)
	session.Initialize()
	selector := scope.NewSelector(session)

	orgService := orgs.NewService(data.Organizations, hub, logger, delay)
	userService := users.NewService(data.Users, orgService, hub, logger, delay)
	featureService := features.NewService(data.Features, data.OrgFeatures, orgService, hub, logger, delay)
	usageService := usage.NewService(orgService, logger, delay)

	if metrics != nil {
		session.Subscribe(func(p *auth.Principal) { metrics.SetSignedIn(p != nil) })
		orgService.Subscribe(func(list []orgs.Organization) { metrics.OrganizationsTotal.Set(float64(len(list))) })
		userService.Subscribe(func(list []users.User) { metrics.UsersTotal.Set(float64(len(list))) })
	}

	// Billing periods roll over at midnight on the first of the month.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("0 0 1 * *", usageService.ResetPeriod); err != nil {
		logger.WithError(err).Error("scheduling usage period reset")
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := api.NewServer(api.Deps{
		Session:  session,
		Selector: selector,
		Orgs:     orgService,
		Users:    userService,
		Features: featureService,
		Usage:    usageService,
		Hub:      hub,
		Logger:   logger,
		Metrics:  metrics,
	})

	handler := httputil.Chain(
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(logger),
		httputil.RecoveryMiddleware(logger),
		httputil.CORSMiddleware(cfg.Server.CORSAllowedOrigins),
		httputil.MaxBytesMiddleware(1<<20),
	)(server)

	apiServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux(health, metrics),
	}

	go func() {
		logger.WithField("addr", healthServer.Addr).Info("health server listening")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("health server failed")
		}
	}()

	go func() {
		logger.WithField("addr", apiServer.Addr).Info("admin console API listening")
		health.SetReady(true)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("api server failed")
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	health.SetReady(false)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("api server shutdown")
	}
	if err := healthServer.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("health server shutdown")
	}
}

func loadSeed(cfg *config.Config) (seed.Data, error) {
	if cfg.Seed.File != "" {
		return seed.LoadFile(cfg.Seed.File)
	}
	return seed.Load()
}

func healthMux(health *observability.Health, metrics *observability.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", health.LivenessHandler())
	mux.HandleFunc("/readyz", health.ReadinessHandler())
	if metrics != nil {
		mux.Handle("/metrics", metrics.Handler())
	}
	return mux
}
