package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gymdesk/gymdesk/internal/backend"
	"github.com/gymdesk/gymdesk/internal/config"
	"github.com/gymdesk/gymdesk/internal/dashboard"
	"github.com/gymdesk/gymdesk/internal/localstore"
	gymmcp "github.com/gymdesk/gymdesk/internal/mcp"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	remoteURL := flag.String("url", "", "base URL of a running GymDesk server (e.g. http://gymdesk.tailnet:80)")
	configPath := flag.String("config", "", "path to config file; reads the gym backend directly")
	tz := flag.String("tz", "Local", "IANA timezone of the remote server, used for the default month")
	flag.Parse()

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var (
		ds  gymmcp.DataSource
		loc *time.Location
	)
	switch {
	case *remoteURL != "":
		l, err := time.LoadLocation(*tz)
		if err != nil {
			log.Error("invalid timezone", "tz", *tz, "error", err)
			os.Exit(1)
		}
		ds, loc = gymmcp.NewHTTPClient(*remoteURL), l
		log.Info("using remote GymDesk", "url", *remoteURL, "tz", l.String())
	case *configPath != "":
		src, cleanup, err := localSource(*configPath, log)
		if err != nil {
			log.Error("failed to start local source", "error", err)
			os.Exit(1)
		}
		defer cleanup()
		ds, loc = src, src.Service.Location()
	default:
		fmt.Fprintf(os.Stderr, "Usage: gymdesk-mcp -url http://gymdesk:80 | -config config.yaml\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := server.ServeStdio(gymmcp.New(ds, Version, loc, log)); err != nil {
		log.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

// localSource builds an in-process service over the gym backend and keeps
// it refreshed while the stdio session lasts.
func localSource(path string, log *slog.Logger) (gymmcp.ServiceSource, func(), error) {
	cfg, err := config.Load(path)
	if err != nil {
		return gymmcp.ServiceSource{}, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return gymmcp.ServiceSource{}, nil, err
	}

	var store localstore.Store = localstore.NewMemory()
	if cfg.Store.Driver == config.DriverSQLite {
		sqlite, err := localstore.OpenSQLite(cfg.Store.Dir)
		if err != nil {
			return gymmcp.ServiceSource{}, nil, fmt.Errorf("opening local store: %w", err)
		}
		store = sqlite
	}

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
	if err := poller.Start(context.Background()); err != nil {
		store.Close()
		return gymmcp.ServiceSource{}, nil, fmt.Errorf("starting poller: %w", err)
	}

	cleanup := func() {
		poller.Stop()
		svc.Wait()
		store.Close()
	}
	return gymmcp.ServiceSource{Service: svc}, cleanup, nil
}
