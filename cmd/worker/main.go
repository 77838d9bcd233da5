package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OFFIS-RIT/ifcfilter/internal/db"
	"github.com/OFFIS-RIT/ifcfilter/internal/queue"
	"github.com/OFFIS-RIT/ifcfilter/internal/storage"
	"github.com/OFFIS-RIT/ifcfilter/internal/util"
	"github.com/OFFIS-RIT/ifcfilter/pkg/leaselock"
	"github.com/OFFIS-RIT/ifcfilter/pkg/loader"
	s3loader "github.com/OFFIS-RIT/ifcfilter/pkg/loader/s3"
	"github.com/OFFIS-RIT/ifcfilter/pkg/logger"
	"github.com/OFFIS-RIT/ifcfilter/pkg/logger/console"
	"github.com/OFFIS-RIT/ifcfilter/pkg/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
)

// modelSource resolves model rows to files in the model bucket. Files are
// cached by content hash, so re-uploads of the same model share an entry.
type modelSource struct {
	files *s3loader.S3ModelFileLoader
}

func (s modelSource) ModelFile(m db.Model) loader.ModelFile {
	id := m.ContentHash
	if id == "" {
		id = fmt.Sprintf("model-%d", m.ID)
	}
	return s.files.NewModelFile(id, m.ObjectKey)
}

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  debug,
		JSON:   util.GetEnvBool("LOG_JSON", false),
		Prefix: "worker",
	})
	logger.Init(consoleLogger)

	// Init s3 client
	client, err := storage.NewS3Client(ctx)
	if err != nil {
		logger.Fatal("Failed to create S3 client", "err", err)
	}
	cacheEntries := int(util.GetEnvNumeric("WORKER_MODEL_CACHE", loader.DefaultCacheEntries))
	files := s3loader.NewS3ModelFileLoaderWithClient(util.GetEnv("AWS_BUCKET"), client, cacheEntries)

	// Init pgx client
	pgConn, err := pgxpool.New(ctx, util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Unable to connect to database", "err", err)
	}
	defer pgConn.Close()
	q := db.New(pgConn)

	// Init rabbitmq
	conn := queue.Init()
	defer conn.Close()

	// Init rabbitmq queues if not exist
	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, queue.Queues); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	processor := &queue.Processor{
		Jobs:    q,
		Objects: storage.Bucket{Client: client},
		Locks:   leaselock.New(pgConn),
		Models:  modelSource{files: files},
		Events:  ch,
	}

	if port := util.GetEnv("METRICS_PORT"); port != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info("Serving worker metrics", "port", port)
			if err := http.ListenAndServe(":"+port, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics endpoint stopped", "err", err)
			}
		}()
	}

	// Requeue jobs of workers that died mid-run
	recoverEvery := util.GetEnvDuration("STALE_JOB_INTERVAL", 5*time.Minute)
	staleAfter := util.GetEnvDuration("STALE_JOB_AGE", 15*time.Minute)
	go func() {
		ticker := time.NewTicker(recoverEvery)
		defer ticker.Stop()
		for {
			n, err := queue.RecoverStaleJobs(ctx, ch, q, int64(staleAfter.Seconds()))
			if err != nil {
				logger.Error("Failed to recover stale jobs", "err", err)
			} else if n > 0 {
				logger.Info("Recovered stale jobs", "count", n)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	// One message at a time; filtering a model is memory bound.
	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	if err := consumerCh.Qos(1, 0, false); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	msgs, err := consumerCh.Consume(
		queue.FilterQueue,
		queue.FilterQueue+"_consumer",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "queue", queue.FilterQueue, "err", err)
	}

	logger.Info("Listening for messages", "queue", queue.FilterQueue)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received, exiting...")
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Info("Message channel closed", "queue", queue.FilterQueue)
				return
			}
			handleMessage(ctx, processor, consumerCh, msg)
		}
	}
}

func handleMessage(ctx context.Context, processor *queue.Processor, ch *amqp.Channel, msg amqp.Delivery) {
	startTime := time.Now()
	logger.Info("Received message", "queue", queue.FilterQueue)

	processingErr := processor.ProcessFilterMessage(ctx, msg.Body)
	if processingErr != nil {
		logger.Error("Error processing message", "queue", queue.FilterQueue, "err", processingErr)
		outcome := queue.HandleProcessingError(ch, msg, queue.FilterQueue, processingErr, func() {
			processor.MarkDeadLettered(ctx, msg.Body, processingErr)
		})
		metrics.ObserveRun(outcome, time.Since(startTime).Seconds(), 0)
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error("Failed to ack message", "err", err)
	}

	processingDuration := time.Since(startTime)
	hours := int(processingDuration.Hours())
	minutes := int(processingDuration.Minutes()) % 60
	seconds := int(processingDuration.Seconds()) % 60
	logger.Info(
		"Message processed successfully",
		"queue", queue.FilterQueue,
		"duration", fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds),
	)
}
