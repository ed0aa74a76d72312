package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/couriersync/billing/internal/config"
	invoicedomain "github.com/couriersync/billing/internal/invoice/domain"
	pricingdomain "github.com/couriersync/billing/internal/pricing/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	engine *gin.Engine
	db     *gorm.DB
	log    *zap.Logger

	pricingSvc pricingdomain.Service
	invoiceSvc invoicedomain.Service
	authorizer Authorizer
}

type ServerParam struct {
	fx.In

	Engine     *gin.Engine
	DB         *gorm.DB
	Log        *zap.Logger
	PricingSvc pricingdomain.Service
	InvoiceSvc invoicedomain.Service
	Authorizer Authorizer
}

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.HTTP.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(log))
	engine.Use(RequestMetrics())
	return engine
}

func NewServer(p ServerParam) *Server {
	return &Server{
		engine: p.Engine,
		db:     p.DB,
		log:    p.Log.Named("server"),

		pricingSvc: p.PricingSvc,
		invoiceSvc: p.InvoiceSvc,
		authorizer: p.Authorizer,
	}
}

func (s *Server) RegisterRoutes() {
	s.engine.GET("/healthz", s.Healthz)
	s.engine.GET("/readyz", s.Readyz)
	s.engine.GET("/metrics", MetricsHandler())

	api := s.engine.Group("/api")

	pricing := api.Group("/pricing")
	pricing.POST("/calculate", s.Require(CapPricingRead), s.CalculatePrice)
	pricing.GET("/rules", s.Require(CapPricingRead), s.ListActiveRules)
	pricing.GET("/rules/type/:ruleType", s.Require(CapPricingRead), s.ListRulesByType)
	pricing.GET("/rules/customer/:customerId", s.Require(CapPricingRead), s.ListRulesByCustomer)
	pricing.POST("/rules", s.Require(CapPricingWrite), s.CreateRule)
	pricing.PUT("/rules/:id", s.Require(CapPricingWrite), s.UpdateRule)
	pricing.DELETE("/rules/:id", s.Require(CapPricingWrite), s.DeleteRule)

	invoices := api.Group("/invoices")
	invoices.POST("", s.Require(CapBillingWrite), s.CreateInvoice)
	invoices.POST("/from-calculation", s.Require(CapBillingWrite), s.CreateInvoiceFromCalculation)
	invoices.GET("/overdue", s.Require(CapBillingRead), s.ListOverdueInvoices)
	invoices.GET("/number/:invoiceNumber", s.Require(CapBillingRead), s.GetInvoiceByNumber)
	invoices.GET("/:id", s.Require(CapBillingRead), s.GetInvoice)
	invoices.PATCH("/:id/status", s.Require(CapBillingWrite), s.UpdateInvoiceStatus)
	invoices.POST("/:id/payments", s.Require(CapBillingWrite), s.RecordPayment)
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTP.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
