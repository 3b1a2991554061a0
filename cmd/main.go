package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"restyler/internal/config"
	"restyler/internal/core/classify"
	"restyler/internal/core/design"
	"restyler/internal/core/export"
	"restyler/internal/core/job"
	"restyler/internal/core/mapper"
	"restyler/internal/core/photos"
	"restyler/internal/core/preview"
	"restyler/internal/core/scrape"
	"restyler/internal/logger"
	"restyler/internal/platform/llm"
	rds "restyler/internal/platform/redis"
	"restyler/internal/platform/storage"
	tasks "restyler/internal/platform/tasks"
	"restyler/internal/server"
	"restyler/internal/store/sqlite"
	"restyler/internal/worker"
)

func main() {
	cfg := config.Load()
	log.Printf("[restyler] starting at %s (env=%s)\n", cfg.HTTPAddr, cfg.AppEnv)

	logr := logger.New("main")

	// Redis client
	redisSvc, err := rds.New(rds.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer redisSvc.Close()

	// SQLite store
	db := sqlite.NewDB(cfg.SQLitePath)
	if err := db.Open(); err != nil {
		log.Fatalf("sqlite open: %v", err)
	}
	defer db.Close()
	projectStore := sqlite.NewProjectService(db)
	designStore := sqlite.NewDesignService(db)

	// Asynq client and server
	taskClient := tasks.New(redisSvc)
	asynqServer := asynq.NewServer(redisSvc.AsynqRedisOpt(), asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{"default": 1},
	})

	// Core services
	jobSvc := job.NewJobService(redisSvc)
	mapSvc := mapper.NewMapService()
	scrapeSvc, err := scrape.NewService(redisSvc)
	if err != nil {
		log.Fatal(err)
	}
	photosSvc := photos.NewService(redisSvc, cfg.PexelsAPIKey)
	storageSvc, err := storage.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	// LLM services: a fast primary and a stronger fallback model
	primaryLLM, err := llm.NewService(llm.Config{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.GeminiAPIKey,
		Model:    cfg.DefaultLLMModel,
	})
	if err != nil {
		log.Fatalf("failed to initialize LLM service: %v", err)
	}
	fallbackLLM, err := llm.NewService(llm.Config{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.GeminiAPIKey,
		Model:    cfg.FallbackLLMModel,
	})
	if err != nil {
		log.Fatalf("failed to initialize fallback LLM service: %v", err)
	}

	classifySvc := classify.NewService(primaryLLM, mapSvc)
	designSvc := design.NewService(primaryLLM, fallbackLLM, photosSvc, projectStore, designStore, jobSvc)
	previewSvc := preview.NewService(cfg, designStore, jobSvc, storageSvc)
	exportSvc := export.NewService(designStore, jobSvc, previewSvc, storageSvc)

	// Worker mux
	mux := worker.NewMux()
	mux.HandleFunc(design.TaskTypeGenerate, designSvc.HandleGenerateTask)
	mux.HandleFunc(preview.TaskTypeScreenshot, previewSvc.HandleScreenshotTask)
	mux.HandleFunc(export.TaskTypeExportPDF, exportSvc.HandleExportPDFTask)

	// Start worker
	_, workerCancel := context.WithCancel(context.Background())
	go func() {
		if err := asynqServer.Start(mux.Mux()); err != nil {
			log.Printf("[worker] stopped: %v\n", err)
		}
	}()

	// HTTP server
	app := fiber.New(fiber.Config{
		AppName: "Restyler Engine",
		JSONEncoder: func(v interface{}) ([]byte, error) {
			var buf bytes.Buffer
			encoder := json.NewEncoder(&buf)
			encoder.SetEscapeHTML(false)
			if err := encoder.Encode(v); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	})
	// Serve saved artifacts (previews, screenshots, exports) from DATA_DIR under /files
	app.Static("/files", cfg.DataDir)

	deps := server.Dependencies{
		Job:            jobSvc,
		Scrape:         scrapeSvc,
		Classify:       classifySvc,
		Preview:        previewSvc,
		Export:         exportSvc,
		Photos:         photosSvc,
		Projects:       projectStore,
		Designs:        designStore,
		Tasks:          taskClient,
		Redis:          redisSvc,
		DB:             db,
		TaskMaxRetries: cfg.TaskMaxRetries,
	}
	healthHandler := server.RegisterRoutes(app, deps)

	// Mark application as ready after all services are initialized
	go func() {
		time.Sleep(5 * time.Second) // Allow services to fully initialize
		healthHandler.SetReady()
	}()

	// Graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		logr.LogInfo("Shutting down...")
		workerCancel()
		asynqServer.Shutdown()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.Fatalf("server listen: %v", err)
	}
}
