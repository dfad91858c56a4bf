package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"slidestack/config"
	"slidestack/database"
	"slidestack/handlers"
	"slidestack/media"
	"slidestack/projects"
	"slidestack/renders"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the project, media and render API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		if err := handlers.Init(log, cfg); err != nil {
			return err
		}
		if err := initAll(projects.Init, media.Init, renders.Init); err != nil {
			return err
		}

		// Create config database
		if err := os.MkdirAll(config.GetConfigDir(), 0700); err != nil {
			return fmt.Errorf("create config dir %s: %w", config.GetConfigDir(), err)
		}

		// Initialize database
		dbPath := filepath.Join(config.GetConfigDir(), "slidestack.db")
		db, err := database.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database %s: %w", dbPath, err)
		}

		// Migrate the schema
		if err := db.AutoMigrate(&projects.Project{}, &media.File{}, &renders.Job{}); err != nil {
			return err
		}

		if err := database.Init(db, log); err != nil {
			return err
		}
		defer database.Fini()

		// Initialize Echo
		e := echo.New()
		e.HideBanner = true

		// Middleware
		e.Use(middleware.Logger())
		e.Use(middleware.Recover())

		handlers.Register(e)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		g, gctx := errgroup.WithContext(ctx)

		// start the render planning worker
		g.Go(func() error {
			return renders.Worker(gctx, cfg.Render.PollInterval, cfg.Render.Planners)
		})

		// Start server
		g.Go(func() error {
			log.Infof("listening on %s", config.GetAddr())
			if err := e.Start(config.GetAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(shutdown)
		})

		return g.Wait()
	},
}
