package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"

	"github.com/fibretree/fibre"
	"github.com/fibretree/fibre/internal/config"
	"github.com/fibretree/fibre/internal/devwatch"
	"github.com/fibretree/fibre/pkg/btree"
	"github.com/fibretree/fibre/pkg/fibremetrics"
	"github.com/fibretree/fibre/pkg/fibretrace"
	"github.com/fibretree/fibre/pkg/vizweb"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <tree.yaml>",
		Short: "Load a behaviour tree and drive it on a tick interval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(args[0])
		},
	}
}

func runTree(path string) error {
	printBanner()

	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.TreePath = path

	reg := btree.Registry{
		Env: func(ctx *fibre.Ctx) map[string]any { return map[string]any{} },
	}

	root, err := loadTree(path, reg)
	if err != nil {
		return fmt.Errorf("load tree: %w", err)
	}

	rt := fibre.NewRuntime(root)

	web := vizweb.New(slog.Default())
	rt.AddTickObserver(web)

	if cfg.EnableMetrics {
		m := fibremetrics.New()
		rt.AddObserver(m)
		rt.AddTickObserver(m)
		info("metrics observer enabled")
	}
	if cfg.EnableTracing {
		rt.AddTickObserver(fibretrace.New(context.Background()))
		info("tracing observer enabled")
	}

	if cfg.DevWatch {
		watcher, err := devwatch.New(path, rt, func(p string) (fibre.Descriptor, error) {
			return loadTree(p, reg)
		}, slog.Default())
		if err != nil {
			return fmt.Errorf("devwatch: %w", err)
		}
		watcher.Start()
		defer watcher.Stop()
		info("watching %s for changes", path)
	}

	rate, err := time.ParseDuration(cfg.TickRate)
	if err != nil {
		return fmt.Errorf("parse tick rate %q: %w", cfg.TickRate, err)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	if _, err := scheduler.NewJob(
		gocron.DurationJob(rate),
		gocron.NewTask(func() {
			if err := rt.RunTick(); err != nil {
				warn("tick failed: %s", err)
			}
		}),
	); err != nil {
		return fmt.Errorf("schedule tick job: %w", err)
	}
	scheduler.Start()
	defer scheduler.Shutdown()

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{Addr: addr, Handler: web.Handler()}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			warn("viz server: %s", err)
		}
	}()
	success("serving visualization on %s every %s", addr, cfg.TickRate)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	info("shutting down")
	server.Close()
	rt.Dispose()
	return nil
}

func loadTree(path string, reg btree.Registry) (fibre.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return btree.ParseTree(data, reg)
}
