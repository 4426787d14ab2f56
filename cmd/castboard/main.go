package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"castboard/internal/auth"
	"castboard/internal/broadcast"
	"castboard/internal/command"
	"castboard/internal/content"
	"castboard/internal/dispatch"
	"castboard/internal/eventlog"
	"castboard/internal/geoip"
	"castboard/internal/models"
	"castboard/internal/reconcile"
	"castboard/internal/registry"
	"castboard/internal/restart"
	"castboard/internal/server"
	"castboard/internal/store"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration from .env")
	}

	dataDir := envOr("DATA_DIR", "./data")
	listenAddr := envOr("LISTEN_ADDR", ":8034")
	eventDBPath := envOr("EVENT_DB_PATH", filepath.Join(dataDir, "events.db"))
	corsOrigin := os.Getenv("CORS_ORIGIN")

	s, err := store.New(dataDir)
	if err != nil {
		log.Fatalf("opening data dir: %v", err)
	}

	events, err := eventlog.New(eventDBPath)
	if err != nil {
		log.Fatalf("opening event log: %v", err)
	}
	defer events.Close()

	geoResolver := geoip.NewResolver(os.Getenv("GEOIP_DB"))
	defer geoResolver.Close()

	settings, err := s.ReadSettings()
	if err != nil {
		log.Fatalf("reading settings: %v", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = settings.JWTSecret
	}
	var authSvc *auth.Service
	if jwtSecret != "" {
		authSvc, err = auth.NewService(s, jwtSecret)
		if err != nil {
			log.Fatalf("initializing auth: %v", err)
		}
		log.Println("admin authentication enabled")
	} else {
		log.Println("JWT_SECRET not configured — admin authentication disabled")
	}

	screens := registry.NewScreenRegistry()
	admins := registry.NewAdminRegistry()

	dispatcher := dispatch.New(screens, dispatch.WithRecorder(events))
	broadcaster := broadcast.New(screens, admins)
	provider := content.New(s)

	restarter := restart.New(
		restart.ProcessRestart(os.Getenv("SYSTEMD_UNIT"), os.Getenv("PM2_NAME")),
		restart.WithRecorder(events),
	)

	// The reconciler watches each screen's content and pushes a
	// refresh-content command when it actually changed, covering
	// mutations that bypass the admin notify path.
	reconcilers := reconcile.NewManager(
		provider.Fingerprint,
		time.Duration(settings.PollIntervalMs)*time.Millisecond,
		settings.PollingEnabled,
		reconcile.ManagerOnChange(func(screenID string, old, cur models.ContentFingerprint) {
			screens.Send(screenID, command.NewRefreshContent(screenID))
			broadcaster.NotifyAdminRefresh("content-change")
		}),
		reconcile.ManagerOnError(func(screenID string, err error) {
			log.Printf("reconcile: fetch for screen %s failed: %v", screenID, err)
		}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reconcilers.Start(ctx)
	defer reconcilers.StopAll()

	screenList, err := s.ReadScreens()
	if err != nil {
		log.Fatalf("loading screens: %v", err)
	}
	reconcilers.Sync(screenList)

	var opts []server.Option
	if corsOrigin != "" {
		opts = append(opts, server.WithCORSOrigin(corsOrigin))
	}
	opts = append(opts,
		server.WithDispatcher(dispatcher),
		server.WithBroadcaster(broadcaster),
		server.WithContentProvider(provider),
		server.WithReconcilers(reconcilers),
		server.WithRestarter(restarter),
		server.WithEventLog(events),
		server.WithGeoResolver(geoResolver),
	)
	if authSvc != nil {
		opts = append(opts, server.WithAuth(authSvc))
	}
	srv := server.NewServer(s, screens, admins, opts...)

	httpServer := &http.Server{
		Addr:              listenAddr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Castboard listening on %s", listenAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
