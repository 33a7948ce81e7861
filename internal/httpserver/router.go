package httpserver

import (
	"context"
	"log"
	"net/http"

	"earthcare-backend/internal/domain"
	chatsvc "earthcare-backend/internal/service/chat"
	checkoutsvc "earthcare-backend/internal/service/checkout"
	newslettersvc "earthcare-backend/internal/service/newsletter"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CheckoutService interface {
	Checkout(ctx context.Context, in checkoutsvc.Input) (*checkoutsvc.Result, error)
}

type ReconcileService interface {
	Apply(ctx context.Context, ev domain.SettlementEvent) error
}

// EventVerifier authenticates and decodes webhook payloads.
type EventVerifier interface {
	VerifyEvent(payload []byte, signature string) (*domain.SettlementEvent, bool, error)
}

type NewsletterService interface {
	Subscribe(ctx context.Context, in newslettersvc.SubscribeInput) (*domain.Subscriber, bool, error)
	Unsubscribe(ctx context.Context, email string) error
}

type ChatService interface {
	Chat(ctx context.Context, in chatsvc.Input) (*chatsvc.Result, error)
	History(ctx context.Context, sessionID string) (*domain.ConversationThread, error)
}

type ProductReader interface {
	ListActive(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type InquiryCreator interface {
	Create(ctx context.Context, in domain.WholesaleInquiry) (*domain.WholesaleInquiry, error)
}

// Deps carries the handler dependencies wired in main.
type Deps struct {
	Products      ProductReader
	CheckoutSvc   CheckoutService
	ReconcileSvc  ReconcileService
	Verifier      EventVerifier
	NewsletterSvc NewsletterService
	ChatSvc       ChatService
	Inquiries     InquiryCreator

	StripePublishableKey string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = corsOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	{
		api.GET("/products", listProductsHandler(deps.Products, logger))
		api.GET("/products/:id", getProductHandler(deps.Products))

		api.POST("/checkout", checkoutHandler(deps.CheckoutSvc, logger))
		api.POST("/stripe/webhook", webhookHandler(deps.Verifier, deps.ReconcileSvc, logger))
		api.GET("/stripe/config", stripeConfigHandler(deps.StripePublishableKey))

		api.POST("/newsletter/subscribe", subscribeHandler(deps.NewsletterSvc))
		api.POST("/newsletter/unsubscribe", unsubscribeHandler(deps.NewsletterSvc))

		api.POST("/chat", chatHandler(deps.ChatSvc))
		api.GET("/conversation/:sessionID", conversationHandler(deps.ChatSvc))

		api.POST("/wholesale-inquiry", inquiryHandler(deps.Inquiries))
	}

	return router
}

func stripeConfigHandler(publishableKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"publishableKey": publishableKey})
	}
}
