package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mobilemart/storefront/internal/auth"
	"github.com/mobilemart/storefront/internal/catalog"
	"github.com/mobilemart/storefront/internal/config"
	"github.com/mobilemart/storefront/internal/httpx"
	kafkax "github.com/mobilemart/storefront/internal/kafka"
	"github.com/mobilemart/storefront/internal/orders"
	"github.com/mobilemart/storefront/internal/postgres"
	"github.com/mobilemart/storefront/internal/redisx"
	"github.com/mobilemart/storefront/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	pPlaced := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024)
	pPlaced.Start(ctx)
	pStatus := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024)
	pStatus.Start(ctx)
	pReset := kafkax.NewProducer(cfg.KafkaBrokers, users.TopicPasswordReset, 1024)
	pReset.Start(ctx)

	// Repos & services
	userRepo := &users.Repo{DB: db}
	productRepo := &catalog.Repo{DB: db}
	productCache := &catalog.Cache{Redis: rdb, Store: productRepo}
	orderSvc := orders.NewService(&orders.Repo{DB: db})

	tokens := &auth.TokenManager{Secret: []byte(cfg.JWTSecret), TTL: cfg.JWTTTL}
	mw := &auth.Middleware{Tokens: tokens, Users: userRepo, CookieName: cfg.CookieName}

	router := httpx.NewRouter()
	(&httpx.AuthHandler{
		Users:      userRepo,
		Tokens:     tokens,
		Producer:   pReset,
		CookieName: cfg.CookieName,
		BaseURL:    cfg.PublicBaseURL,
		BcryptCost: cfg.BcryptCost,
		Name:       cfg.ServiceName,
	}).Register(router, mw)
	(&httpx.ProductsHandler{Repo: productRepo, Cache: productCache, Reviews: productRepo}).Register(router, mw)
	(&httpx.OrdersHandler{
		Service:  orderSvc,
		Producer: pPlaced,
		Redis:    rdb,
		Cache:    productCache,
		Name:     cfg.ServiceName,
	}).Register(router, mw)
	(&httpx.AdminHandler{
		Service:  orderSvc,
		Producer: pStatus,
		Redis:    rdb,
		Name:     cfg.ServiceName,
	}).Register(router, mw)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	// close before cancel so each flush loop drains its inbox
	for _, p := range []*kafkax.Producer{pPlaced, pStatus, pReset} {
		p.Close()
	}
	for _, p := range []*kafkax.Producer{pPlaced, pStatus, pReset} {
		p.WaitClosed()
	}
}
