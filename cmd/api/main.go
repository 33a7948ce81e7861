package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"earthcare-backend/internal/config"
	"earthcare-backend/internal/db"
	"earthcare-backend/internal/gemini"
	"earthcare-backend/internal/httpserver"
	"earthcare-backend/internal/mail"
	"earthcare-backend/internal/payment"
	conversationrepo "earthcare-backend/internal/repository/conversation"
	customerrepo "earthcare-backend/internal/repository/customer"
	inquiryrepo "earthcare-backend/internal/repository/inquiry"
	newsletterrepo "earthcare-backend/internal/repository/newsletter"
	orderrepo "earthcare-backend/internal/repository/order"
	productrepo "earthcare-backend/internal/repository/product"
	chatsvc "earthcare-backend/internal/service/chat"
	checkoutsvc "earthcare-backend/internal/service/checkout"
	newslettersvc "earthcare-backend/internal/service/newsletter"
	reconcilesvc "earthcare-backend/internal/service/reconcile"
)

const (
	fallbackNoResponder = "I'm currently disconnected from the earth grid. Please try again later."
	fallbackBusy        = "The mycelium network is currently busy. Please try again later."
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	customerRepo := customerrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	newsletterRepo := newsletterrepo.NewPostgres(dbpool, logger)
	conversationRepo := conversationrepo.NewPostgres(dbpool, logger)
	inquiryRepo := inquiryrepo.NewPostgres(dbpool, logger)

	gateway := payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret, logger)

	var mailer mail.Sender
	if cfg.SendGridAPIKey != "" {
		mailer = mail.NewSendGridSender(cfg.SendGridAPIKey, cfg.FromEmail, cfg.FrontendURL, logger)
	} else {
		logger.Printf("SENDGRID_API_KEY not set, welcome emails disabled")
	}

	var responder chatsvc.Responder
	fallback := fallbackNoResponder
	if cfg.GeminiAPIKey != "" {
		r, err := gemini.NewResponder(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Printf("init gemini responder: %v", err)
		} else {
			responder = r
			fallback = fallbackBusy
		}
	} else {
		logger.Printf("GEMINI_API_KEY not set, chat runs on fallback replies")
	}

	checkoutService := checkoutsvc.New(productRepo, customerRepo, orderRepo, newsletterRepo, gateway, logger)
	reconcileService := reconcilesvc.New(orderRepo, logger)
	newsletterService := newslettersvc.New(newsletterRepo, mailer, logger)
	chatService := chatsvc.New(conversationRepo, customerRepo, responder, fallback, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Products:      productRepo,
		CheckoutSvc:   checkoutService,
		ReconcileSvc:  reconcileService,
		Verifier:      gateway,
		NewsletterSvc: newsletterService,
		ChatSvc:       chatService,
		Inquiries:     inquiryRepo,

		StripePublishableKey: cfg.StripePublishableKey,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
