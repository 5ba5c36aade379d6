package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BearBump/ReviewBox/config"
	"github.com/BearBump/ReviewBox/internal/broker/kafka"
	"github.com/BearBump/ReviewBox/internal/integrations/reviews"
	"github.com/BearBump/ReviewBox/internal/integrations/reviews/fake"
	"github.com/BearBump/ReviewBox/internal/integrations/reviews/practicumhttp"
	"github.com/BearBump/ReviewBox/internal/integrations/telegram"
	"github.com/BearBump/ReviewBox/internal/services/poller"
)

type workerFactories struct {
	newReviewsClient func(cfg *config.Config, creds config.Credentials) reviews.Client
	newNotifier      func(cfg *config.Config, creds config.Credentials) (poller.Notifier, error)
	// newProducer returns a nil producer when Kafka is not configured.
	newProducer func(cfg *config.Config) (producer poller.Producer, closeFn func())
}

func defaultWorkerFactories() workerFactories {
	return workerFactories{
		newReviewsClient: func(cfg *config.Config, creds config.Credentials) reviews.Client {
			// Режим fake нужен для локального запуска без доступа к API Практикума.
			if cfg.Reviews.Mode == "fake" {
				return fake.New()
			}
			timeout := time.Duration(cfg.Reviews.RequestTimeoutSeconds) * time.Second
			return practicumhttp.New(cfg.Reviews.Endpoint, creds.PracticumToken, timeout)
		},
		newNotifier: func(cfg *config.Config, creds config.Credentials) (poller.Notifier, error) {
			timeout := time.Duration(cfg.Telegram.TimeoutSeconds) * time.Second
			return telegram.New(creds.TelegramToken, creds.TelegramChatID, cfg.Telegram.APIEndpoint, timeout)
		},
		newProducer: func(cfg *config.Config) (poller.Producer, func()) {
			if cfg.Kafka.Host == "" {
				return nil, nil
			}
			port := cfg.Kafka.Port
			if port == 0 {
				port = 9092
			}
			p := kafka.NewProducer([]string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, port)})
			return p, func() { _ = p.Close() }
		},
	}
}

func RunReviewWorker(ctx context.Context, cfg *config.Config, creds config.Credentials, f workerFactories, httpOpts workerHTTPOpts) error {
	if err := creds.Validate(); err != nil {
		return err
	}

	pollInterval := time.Duration(cfg.ReviewBox.PollIntervalSeconds) * time.Second
	if pollInterval <= 0 {
		pollInterval = 600 * time.Second
	}
	windowMode, ok := poller.ParseWindowMode(cfg.ReviewBox.WindowMode)
	if !ok && cfg.ReviewBox.WindowMode != "" {
		slog.Warn("unknown window mode, using trailing", "window_mode", cfg.ReviewBox.WindowMode)
	}
	topic := cfg.Kafka.StatusChangedTopicName
	if topic == "" {
		topic = "homework.status_changed"
	}
	publishTimeout := time.Duration(cfg.Kafka.PublishTimeoutSeconds) * time.Second

	notifier, err := f.newNotifier(cfg, creds)
	if err != nil {
		return err
	}
	client := f.newReviewsClient(cfg, creds)

	producer, closeProducer := f.newProducer(cfg)
	if closeProducer != nil {
		defer closeProducer()
	}

	p := poller.New(client, notifier).
		WithSettings(pollInterval).
		WithWindowMode(windowMode)
	if producer != nil {
		p.WithEvents(producer, topic, publishTimeout)
	}

	if httpOpts.httpAddr == "" {
		httpOpts.httpAddr = cfg.ReviewBox.WorkerHTTPAddr
	}
	httpOpts.poller = p
	httpOpts.cfg = cfg

	httpDone := make(chan struct{})
	if httpOpts.httpAddr == "off" {
		close(httpDone)
	} else {
		go func() {
			defer close(httpDone)
			// HTTP-ручки вспомогательные: их падение не останавливает опрос.
			if err := runWorkerHTTPServer(ctx, httpOpts); err != nil && ctx.Err() == nil {
				slog.Error("worker http server", "error", err.Error())
			}
		}()
	}

	err = p.Run(ctx)
	<-httpDone
	return err
}
