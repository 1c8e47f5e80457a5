package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/streadway/amqp"
	"golang.org/x/time/rate"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"

	"github.com/muhammadolammi/resumematch/internal/cache"
	"github.com/muhammadolammi/resumematch/internal/config"
	"github.com/muhammadolammi/resumematch/internal/database"
	"github.com/muhammadolammi/resumematch/internal/fetch"
	"github.com/muhammadolammi/resumematch/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := sql.Open("postgres", cfg.DBURL)
	if err != nil {
		log.Fatal("error opening db. err: ", err)
	}
	dbqueries := database.New(db)

	awsConfig, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2.AccessKey, cfg.R2.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		log.Fatal("error creating aws config", err)
	}
	objects := fetch.NewR2ObjectStore(awsConfig, cfg.R2.AccountID, cfg.R2.Bucket, cfg.MaxUploadBytes, logger)

	fetcher := fetch.NewClient(cfg.FetchTimeout, cfg.FetchUserAgent, cfg.MaxUploadBytes, logger)
	extraction := pipeline.New(cfg.PDFTimeout, fetcher, cfg.MaxUploadBytes, logger)

	resultCache := cache.NewRedis(cfg.RedisAddr, cfg.RedisPass, cfg.CacheTTL, logger)
	if resultCache == nil {
		log.Println("REDIS_ADDR not set, extraction cache disabled")
	}

	agentName := "resume analyzer"
	analyzer, err := GetAgent(cfg.GoogleAPIKey, cfg.AgentModel, agentName)
	if err != nil {
		log.Fatalf("failed to create agent: %v", err)
	}

	inMemoryService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        analyzer.Name(),
		Agent:          analyzer,
		SessionService: inMemoryService,
	})
	if err != nil {
		log.Fatalf("failed to create runner: %v", err)
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("error connecting to RabbitMQ. err:  %v", err)
	}
	defer conn.Close()

	workerConfig := WorkerConfig{
		DB:                  dbqueries,
		Objects:             objects,
		Pipeline:            extraction,
		Cache:               resultCache,
		RabbitConn:          conn,
		RABBITMQUrl:         cfg.RabbitMQURL,
		AgentRunner:         r,
		AgentSessionService: inMemoryService,
		AgentName:           agentName,
		AgentLimiter:        rate.NewLimiter(rate.Limit(cfg.AgentRPS), 1),
	}

	log.Printf("Starting %d workers per queue (%s, %s)", cfg.Workers, uploadsQueue, sessionsQueue)
	workerConfig.StartConsumerWorkerPool(cfg.Workers)
}
