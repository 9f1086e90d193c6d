package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"poalerts/config"
	"poalerts/internal/clickhouse"
	"poalerts/internal/mailer"
	"poalerts/internal/postgres"
	"poalerts/internal/rabbitmq"
	"poalerts/internal/workers"
	"poalerts/pkg/logger"
)

func main() {
	once := flag.Bool("once", false, "Run the report once and exit")
	flag.Parse()

	// Initialize logger
	logger.Init()
	log.Println("🚀 Starting PO due-date alerts...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	validate := cfg.ValidateDaemon
	if *once {
		validate = cfg.Validate
	}
	if err := validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Printf("✓ Configuration loaded")
	log.Printf("  - Source: %s", cfg.Source.Type)
	log.Printf("  - Threshold: %d day(s), overdue included: %t", cfg.Report.ThresholdDays, cfg.Report.IncludeOverdue)
	log.Printf("  - Recipients: %d via %s", len(cfg.Report.Recipients), cfg.Mail.Transport)

	today, err := cfg.TodayFunc()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	source, sourceCloser, err := newSource(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to data source: %v", err)
	}
	defer sourceCloser.Close()
	log.Printf("✓ Connected to %s", cfg.Source.Type)

	sender, err := newSender(cfg.Mail)
	if err != nil {
		log.Fatalf("Failed to create mail sender: %v", err)
	}

	reportWorker := workers.NewReportWorker(source, sender, workers.SettingsFromConfig(cfg), today)
	guard := workers.NewRunGuard(reportWorker, cfg.Schedule.OverlapPolicy)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *once {
		if _, err := guard.Run(ctx); err != nil {
			sourceCloser.Close()
			log.Fatalf("Report run failed: %v", err)
		}
		log.Println("✓ Report run complete")
		return
	}

	var wg sync.WaitGroup

	scheduler := workers.NewScheduler(guard, cfg.Schedule.Interval, cfg.Schedule.RunOnStart)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Scheduler error: %v", err)
		}
	}()

	if cfg.RabbitMQ.Enabled {
		consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQ)
		if err != nil {
			log.Fatalf("Failed to create trigger consumer: %v", err)
		}
		defer consumer.Close()
		log.Println("✓ Connected to RabbitMQ")

		triggerWorker := workers.NewTriggerWorker(consumer, guard, cfg.RabbitMQ.TriggerQueue)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := triggerWorker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Trigger worker error: %v", err)
			}
		}()
	}

	log.Println("✓ All workers started successfully")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("🛑 Shutting down workers...")
	cancel()
	wg.Wait()
	log.Println("✓ Workers stopped gracefully")
}

func newSource(cfg *config.Config) (workers.Source, io.Closer, error) {
	switch cfg.Source.Type {
	case config.SourcePostgres:
		client, err := postgres.NewClient(cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}

		// Fail fast on a bad DSN
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to ping Postgres: %w", err)
		}
		return client, client, nil
	case config.SourceClickHouse:
		client, err := clickhouse.NewClient(cfg.ClickHouse)
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil
	default:
		return nil, nil, fmt.Errorf("unsupported source type: %s", cfg.Source.Type)
	}
}

func newSender(cfg config.MailConfig) (workers.Sender, error) {
	switch cfg.Transport {
	case config.TransportSMTP:
		return mailer.NewSMTPSender(cfg), nil
	case config.TransportSES:
		return mailer.NewSESSender(cfg)
	default:
		return nil, fmt.Errorf("unsupported mail transport: %s", cfg.Transport)
	}
}
