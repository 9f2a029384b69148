package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asset-resynch/core/loader"
	"asset-resynch/core/logger"
	"asset-resynch/core/middleware/auth"
	"asset-resynch/core/middleware/rayid"
	"asset-resynch/core/reconcile"
	"asset-resynch/core/storage"

	"asset-resynch/feature/integrity"
	"asset-resynch/feature/resynch"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "asset-resynch/docs/swagger"
)

var startFlags aemFlags

// @title Asset Resynch API
// @version 1.0
// @description Dry-run replication drift reports between AEM author and publish.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the resynch report server",
	Long:  `Starts the HTTP server and initializes all enabled features. The server never replicates.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := loadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		startFlags.apply(cmd, cfg)

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to History Database (Optional)
		var db *gorm.DB
		if store, err := openHistory(cmd.Context(), cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			db = store.DB()
			logg.Info("Connected to history database", zap.String("driver", cfg.Database.Driver))
		}

		// 4. Initialize Storage (Optional)
		var store storage.Client
		if client, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Optional storage client failed", zap.Error(err))
		} else {
			store = client
		}

		// 5. AEM client and engine. The server only ever plans.
		cfg.Resynch.DryRun = true
		api, stopRecorder, err := startFlags.newAPI(cfg)
		if err != nil {
			logg.Fatal("Failed to create AEM client", zap.Error(err))
		}
		defer stopRecorder()

		var planner resynch.Planner
		if engine, err := reconcile.NewEngine(api, cfg.Resynch, logg, nil); err != nil {
			logg.Warn("Resynch feature disabled", zap.Error(err))
		} else {
			planner = engine
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(integrity.NewFeature(store, cfg.Storage, api, cfg.Resynch.StartPath, db, logg))
		mgr.Register(resynch.NewFeature(planner, time.Duration(cfg.Server.PlanCacheSeconds)*time.Second, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 4. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 5. Load Features
		loaded, err := mgr.LoadAll(app)
		if err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("addr", cfg.Server.Addr()))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	startFlags.register(startCmd.Flags())
	RootCmd.AddCommand(startCmd)
}
