package main

// @title           ProcMap Core API
// @version         1.0
// @description     Process mapping translation API. ProcMap Core turns narrative workshop transcripts into structured step records and BPMN 2.0 diagrams.

// @contact.name   ProcMap OSS
// @contact.url    https://github.com/procmap-labs/procmap-core/issues

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/procmap-labs/procmap-core/internal/adapters/driven/auth"
	"github.com/procmap-labs/procmap-core/internal/adapters/driven/postgres"
	postgresqueue "github.com/procmap-labs/procmap-core/internal/adapters/driven/queue/postgres"
	redisqueue "github.com/procmap-labs/procmap-core/internal/adapters/driven/queue/redis"
	redisadapter "github.com/procmap-labs/procmap-core/internal/adapters/driven/redis"
	"github.com/procmap-labs/procmap-core/internal/adapters/driving/http"
	"github.com/procmap-labs/procmap-core/internal/config"
	"github.com/procmap-labs/procmap-core/internal/core/ports/driven"
	"github.com/procmap-labs/procmap-core/internal/core/ports/driving"
	"github.com/procmap-labs/procmap-core/internal/core/services"
	"github.com/procmap-labs/procmap-core/internal/worker"
)

var version = "dev"

func main() {
	cfg := config.Load()

	mode := cfg.Mode
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	log.Printf("procmap-core %s starting in %s mode", version, mode)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	// ===== Parsing vocabulary =====
	labels, err := config.LoadLabelSet(cfg.LabelsPath)
	if err != nil {
		log.Fatalf("Failed to load label set: %v", err)
	}

	// ===== Initialize PostgreSQL =====
	log.Println("Connecting to PostgreSQL...")
	dbConfig := postgres.Config{
		URL:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}
	db, err := postgres.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize schema (idempotent)
	if err := db.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	log.Println("PostgreSQL connected and schema initialized")

	// ===== Initialize Redis (optional) =====
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Redis connected")
	}

	// ===== Driven adapters =====
	authAdapter := auth.NewAdapter(cfg.JWTSecret)

	processStore := postgres.NewProcessStore(db)
	stepStore := postgres.NewStepStore(db)
	userStore := postgres.NewUserStore(db)

	// ===== Session Store (Redis if available, otherwise PostgreSQL) =====
	var sessionStore driven.SessionStore
	if redisClient != nil {
		sessionStore = redisadapter.NewSessionStore(redisClient)
		log.Println("Using Redis session store")
	} else {
		sessionStore = postgres.NewSessionStore(db)
		log.Println("Using PostgreSQL session store")
	}

	// ===== Task Queue (Redis if available, otherwise PostgreSQL) =====
	var taskQueue driven.TaskQueue
	if redisClient != nil {
		taskQueue, err = redisqueue.NewQueue(redisClient, fmt.Sprintf("worker-%d", os.Getpid()))
		if err != nil {
			log.Fatalf("Failed to create task queue: %v", err)
		}
		log.Println("Using Redis task queue")
	} else {
		taskQueue = postgresqueue.NewQueue(db.DB)
		log.Println("Using PostgreSQL task queue")
	}

	// ===== Diagram Cache (Redis only; compilation is cheap without it) =====
	var diagramCache driven.DiagramCache
	if redisClient != nil {
		diagramCache = redisadapter.NewDiagramCache(redisClient)
		log.Println("Using Redis diagram cache")
	} else {
		log.Println("Diagram cache disabled (no Redis)")
	}

	// ===== Services =====
	authService := services.NewAuthService(userStore, sessionStore, authAdapter)
	importService := services.NewImportService(services.ImportServiceConfig{
		ProcessStore: processStore,
		StepStore:    stepStore,
		TaskQueue:    taskQueue,
		DiagramCache: diagramCache,
		Labels:       labels,
		Logger:       slog.Default(),
	})
	processService := services.NewProcessService(processStore, stepStore, diagramCache, slog.Default())
	diagramService := services.NewDiagramService(processStore, stepStore, diagramCache, labels, slog.Default())

	switch mode {
	case "api":
		runAPI(cfg, db, redisClient, authService, importService, processService, diagramService)

	case "worker":
		runWorkerMode(ctx, cfg, taskQueue, importService)

	case "all":
		// Worker in background, API in foreground (blocks)
		go runWorkerMode(ctx, cfg, taskQueue, importService)
		runAPI(cfg, db, redisClient, authService, importService, processService, diagramService)

	default:
		log.Fatalf("Unknown mode: %s (use: api, worker, or all)", mode)
	}
}

func runAPI(
	cfg config.Config,
	db *postgres.DB,
	redisClient *redis.Client,
	authService driving.AuthService,
	importService driving.ImportService,
	processService driving.ProcessService,
	diagramService driving.DiagramService,
) {
	serverCfg := http.Config{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        version,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         slog.Default(),
	}

	var redisPinger http.Pinger
	if redisClient != nil {
		redisPinger = redisPing{redisClient}
	}

	server := http.NewServer(
		serverCfg,
		authService,
		importService,
		processService,
		diagramService,
		db,
		redisPinger,
	)

	log.Printf("API server starting on :%d", cfg.Port)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// runWorkerMode starts the background import worker.
func runWorkerMode(
	ctx context.Context,
	cfg config.Config,
	taskQueue driven.TaskQueue,
	importService driving.ImportService,
) {
	log.Println("Starting worker mode...")

	w := worker.New(worker.Config{
		TaskQueue:      taskQueue,
		Importer:       importService,
		Logger:         slog.Default(),
		Concurrency:    cfg.WorkerConcurrency,
		DequeueTimeout: cfg.WorkerDequeueTimeout,
	})

	if err := w.Start(ctx); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}

	log.Println("Worker started, processing tasks...")
	log.Println("Worker handles:")
	log.Println("  - import_text: Import a workshop document text")

	<-ctx.Done()

	log.Println("Stopping worker...")
	w.Stop()
	log.Println("Worker stopped")
}

// redisPing adapts *redis.Client to the server health check interface.
type redisPing struct {
	client *redis.Client
}

func (p redisPing) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
