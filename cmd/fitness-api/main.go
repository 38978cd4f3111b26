package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/profiler"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"ai-fitness-planner/internal/app"
	"ai-fitness-planner/internal/catalog"
	"ai-fitness-planner/internal/config"
	"ai-fitness-planner/internal/database"
	"ai-fitness-planner/internal/metrics"
	"ai-fitness-planner/internal/server"
)

const (
	serviceName    = "fitness-api"
	serviceVersion = "1.0.0"
)

func main() {
	_ = godotenv.Load()
	log := app.NewLogger()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "serve":
		serve(cfg, log)
	case "check-data":
		checkData(cfg, log)
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])
		metricsCleanup(cfg, log, *days)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func serve(cfg *config.Config, log *logrus.Logger) {
	ctx := context.Background()

	if cfg.EnableTracing {
		log.Info("Tracing enabled.")
		tp, err := server.InitTracing(ctx, cfg.CollectorServiceAddr, log)
		if err != nil {
			log.WithError(err).Warn("failed to initialize tracing")
		} else {
			defer tp.Shutdown(context.Background())
		}
	} else {
		log.Info("Tracing disabled.")
	}

	if cfg.EnableProfiler {
		log.Info("Profiling enabled.")
		go initProfiling(log, serviceName, serviceVersion)
	} else {
		log.Info("Profiling disabled.")
	}

	rt, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize application")
	}
	defer rt.Close()

	srv := &http.Server{
		Addr:    cfg.ListenAddr + ":" + cfg.Port,
		Handler: server.New(rt.App, cfg.AllowedOrigins, []string{cfg.NutritionDataPath, cfg.WorkoutDataPath}, log).Handler(),
	}

	go func() {
		log.Infof("starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	log.Info("server exiting")
}

func checkData(cfg *config.Config, log *logrus.Logger) {
	c, err := catalog.Load(cfg.NutritionDataPath, cfg.WorkoutDataPath, log)
	if err != nil {
		log.WithError(err).Fatal("reference data check failed")
	}

	s := c.Stats()
	fmt.Printf("Nutrition: %d rows, %d kept, %d dropped\n", s.NutritionRows, s.NutritionKept, s.NutritionRows-s.NutritionKept)
	fmt.Printf("Workouts:  %d rows, %d distinct exercises\n", s.WorkoutRows, s.DistinctExercises)
	if s.NutritionKept == 0 || s.DistinctExercises < 5 {
		fmt.Println("Warning: pools are too small for complete plans")
		os.Exit(2)
	}
}

func metricsCleanup(cfg *config.Config, log *logrus.Logger, days int) {
	if cfg.MetricsDBPath == "" {
		log.Fatal("METRICS_DB_PATH environment variable not set")
	}
	db, err := database.NewDB(cfg.MetricsDBPath)
	if err != nil {
		log.WithError(err).Fatal("failed to open metrics database")
	}
	defer db.Close()

	affected, err := metrics.NewStore(db.SQL).Cleanup(context.Background(), days)
	if err != nil {
		log.WithError(err).Fatal("cleanup failed")
	}
	fmt.Printf("Successfully removed %d old metric records.\n", affected)
}

func initProfiling(log logrus.FieldLogger, service, version string) {
	for i := 1; i <= 3; i++ {
		log := log.WithField("retry", i)
		if err := profiler.Start(profiler.Config{
			Service:        service,
			ServiceVersion: version,
		}); err != nil {
			log.Warnf("failed to start profiler: %+v", err)
		} else {
			log.Info("started profiler")
			return
		}
		d := time.Second * 10 * time.Duration(i)
		log.Debugf("sleeping %v to retry initializing profiler", d)
		time.Sleep(d)
	}
	log.Warn("could not initialize profiler after retrying, giving up")
}

func printUsage() {
	fmt.Println("Usage: fitness-api [command] [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  serve              Run the HTTP API (default)")
	fmt.Println("  check-data         Load the reference files and print pool statistics")
	fmt.Println("  metrics-cleanup    Remove old metric records (-days N)")
}
