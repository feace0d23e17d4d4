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

	"github.com/eshoplabs/eshop/internal/accounts"
	"github.com/eshoplabs/eshop/internal/cart"
	"github.com/eshoplabs/eshop/internal/catalog"
	"github.com/eshoplabs/eshop/internal/checkout"
	"github.com/eshoplabs/eshop/internal/config"
	"github.com/eshoplabs/eshop/internal/httpx"
	kafkax "github.com/eshoplabs/eshop/internal/kafka"
	"github.com/eshoplabs/eshop/internal/orders"
	"github.com/eshoplabs/eshop/internal/postgres"
	"github.com/eshoplabs/eshop/internal/redisx"
	"github.com/eshoplabs/eshop/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
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

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, checkout.TopicOrderCheckedOut, 1024)
	prod.Start(ctx)

	// Repos & services
	catalogRepo := &catalog.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}
	accountRepo := &accounts.Repo{DB: db}
	accountSvc := &accounts.Service{Store: accountRepo}
	sessions := &session.Store{Client: rdb}
	carts := &cart.RedisStore{Client: rdb}
	manager := &cart.Manager{Store: carts, Catalog: catalogRepo}
	orchestrator := &checkout.Orchestrator{
		Carts:    carts,
		Catalog:  catalogRepo,
		Orders:   orderRepo,
		Mailer:   &checkout.SMTPMailer{Addr: cfg.SMTPAddr, From: cfg.MailFrom},
		Producer: prod,
		Service:  cfg.ServiceName,
	}

	router := httpx.NewRouter()
	router.Use(httpx.WithSession)
	(&httpx.CatalogHandler{Repo: catalogRepo}).Register(router)
	(&httpx.AccountsHandler{Service: accountSvc, Sessions: sessions}).Register(router)
	(&httpx.CartHandler{Manager: manager, Sessions: sessions}).Register(router)
	(&httpx.CheckoutHandler{
		Orchestrator: orchestrator,
		Accounts:     accountSvc,
		Orders:       orderRepo,
		Sessions:     sessions,
	}).Register(router)
	(&httpx.AdminHandler{Orders: orderRepo}).Register(router)

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
	prod.Close()
	cancel()
	prod.WaitClosed()
}
