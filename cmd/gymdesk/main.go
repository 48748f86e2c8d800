package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"

	"github.com/gymdesk/gymdesk/internal/backend"
	"github.com/gymdesk/gymdesk/internal/config"
	"github.com/gymdesk/gymdesk/internal/dashboard"
	"github.com/gymdesk/gymdesk/internal/localstore"
	gymmcp "github.com/gymdesk/gymdesk/internal/mcp"
	httpserver "github.com/gymdesk/gymdesk/internal/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit (postgres store only)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("GymDesk starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Error("invalid timezone", "error", err)
		os.Exit(1)
	}

	// Run migrations
	if cfg.Store.Driver == config.DriverPostgres {
		if err := localstore.RunMigrations(cfg.Store.Database.DSN(), "migrations"); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")
	}
	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Open local fallback store
	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("failed to open local store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	log.Info("local store opened", "driver", cfg.Store.Driver)

	// Backend client and service
	client := backend.New(backend.Options{
		BaseURL:         cfg.Backend.BaseURL,
		Token:           cfg.Backend.Token,
		Timeout:         cfg.Backend.Timeout,
		RoutinesPath:    cfg.Backend.RoutinesPath,
		ClassesPath:     cfg.Backend.ClassesPath,
		AssignmentsPath: cfg.Backend.AssignmentsPath,
	})
	svc := dashboard.NewService(client, store, loc, log)

	poller := dashboard.NewPoller(svc, cfg.Poll.Interval, log)
	if err := poller.Start(ctx); err != nil {
		log.Error("poller start failed", "error", err)
		os.Exit(1)
	}

	// Create server
	srv := httpserver.New(svc, cfg.Auth.APIKey, log)
	mcpSrv := server.NewStreamableHTTPServer(gymmcp.New(gymmcp.ServiceSource{Service: svc}, Version, loc, log))
	srv.MountMCP(mcpSrv)

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	poller.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := mcpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("mcp shutdown error", "error", err)
	}
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	svc.Wait()
	log.Info("server stopped")
}

// openStore opens the local fallback store selected by store.driver.
func openStore(ctx context.Context, cfg *config.Config) (localstore.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		return localstore.OpenPostgres(ctx, cfg.Store.Database.DSN())
	case config.DriverMemory:
		return localstore.NewMemory(), nil
	default:
		return localstore.OpenSQLite(cfg.Store.Dir)
	}
}
