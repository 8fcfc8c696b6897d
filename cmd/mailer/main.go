package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mobilemart/storefront/internal/config"
	kafkax "github.com/mobilemart/storefront/internal/kafka"
	"github.com/mobilemart/storefront/internal/mailer"
	"github.com/mobilemart/storefront/internal/orders"
	"github.com/mobilemart/storefront/internal/postgres"
	"github.com/mobilemart/storefront/internal/redisx"
	"github.com/mobilemart/storefront/internal/users"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	sender, err := mailer.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	if err != nil {
		log.Fatalf("smtp: %v", err)
	}

	svc := &mailer.Service{
		Sender:      sender,
		Redis:       rdb,
		Users:       &users.Repo{DB: db},
		ServiceName: cfg.ServiceName + "-mailer",
	}

	group := getenv("MAILER_GROUP", "mailer-svc")
	workers := mustAtoi(os.Getenv("MAILER_WORKERS"), "4")

	topics := []string{users.TopicPasswordReset, orders.TopicOrderPlaced}
	for _, topic := range topics {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, topic, workers)
		go func(topic string) {
			log.Printf("mailer consumer started: group=%s topic=%s workers=%d", group, topic, workers)
			if err := cons.Start(ctx, svc.HandleEvent); err != nil {
				log.Printf("consumer %s exit: %v", topic, err)
				cancel()
			}
		}(topic)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		log.Println("shutting down mailer...")
	case <-ctx.Done():
	}
	cancel()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
