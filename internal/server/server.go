package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	auditdomain "github.com/smallbiznis/retailerp/internal/audit/domain"
	"github.com/smallbiznis/retailerp/internal/config"
	customerdomain "github.com/smallbiznis/retailerp/internal/customer/domain"
	"github.com/smallbiznis/retailerp/internal/invalidation"
	inventorydomain "github.com/smallbiznis/retailerp/internal/inventory/domain"
	loyaltydomain "github.com/smallbiznis/retailerp/internal/loyalty/domain"
	numberingdomain "github.com/smallbiznis/retailerp/internal/numbering/domain"
	"github.com/smallbiznis/retailerp/internal/observability"
	obsmiddleware "github.com/smallbiznis/retailerp/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/retailerp/internal/observability/metrics"
	obstracing "github.com/smallbiznis/retailerp/internal/observability/tracing"
	orderdomain "github.com/smallbiznis/retailerp/internal/order/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)

type EngineParams struct {
	fx.In

	Cfg         config.Config
	ObsCfg      observability.Config
	HTTPMetrics *obsmetrics.HTTPMetrics `optional:"true"`
}

func NewEngine(p EngineParams) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(p.Cfg)))
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           p.ObsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(p.HTTPMetrics.Middleware())
	r.Use(CashierContext())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func corsConfig(cfg config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", HeaderCashierID, "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range cfg.CORSAllowOrigins {
		if origin == "*" {
			corsCfg.AllowAllOrigins = true
			return corsCfg
		}
	}
	corsCfg.AllowOrigins = cfg.CORSAllowOrigins
	return corsCfg
}

// RunHTTP binds the engine to cfg.HTTPAddr for the lifetime of the app.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	log          *zap.Logger
	orderSvc     orderdomain.Service
	numberingSvc numberingdomain.Service
	inventorySvc inventorydomain.Service
	customerSvc  customerdomain.Service
	loyaltySvc   loyaltydomain.Service
	auditSvc     auditdomain.Service
	notifier     invalidation.Notifier
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	OrderSvc     orderdomain.Service
	NumberingSvc numberingdomain.Service
	InventorySvc inventorydomain.Service
	CustomerSvc  customerdomain.Service
	LoyaltySvc   loyaltydomain.Service
	AuditSvc     auditdomain.Service   `optional:"true"`
	Notifier     invalidation.Notifier `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	notifier := p.Notifier
	if notifier == nil {
		notifier = invalidation.NewNoop()
	}
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("http.server"),
		orderSvc:     p.OrderSvc,
		numberingSvc: p.NumberingSvc,
		inventorySvc: p.InventorySvc,
		customerSvc:  p.CustomerSvc,
		loyaltySvc:   p.LoyaltySvc,
		auditSvc:     p.AuditSvc,
		notifier:     notifier,
	}

	svc.RegisterRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterRoutes() {
	api := s.engine.Group("/api")

	// -------- Orders --------
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrderByID)
	api.GET("/payment-methods", s.ListPaymentMethods)

	// -------- Numbering --------
	api.GET("/numbering-rules", s.ListNumberingRules)
	api.POST("/numbering-rules", s.CreateNumberingRule)
	api.GET("/numbering-rules/:code/preview", s.PreviewNumber)

	// -------- Inventory --------
	api.GET("/inventory/:product_id", s.GetInventory)
	api.POST("/inventory/:product_id/receipts", s.ReceiveStock)
	api.POST("/inventory/:product_id/adjustments", s.AdjustStock)
	api.GET("/inventory/:product_id/movements", s.ListMovements)
	api.PUT("/inventory/:product_id/reorder-point", s.SetReorderPoint)
	api.GET("/purchasing/suggestions", s.ListPurchaseSuggestions)

	// -------- Customers --------
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers", s.ListCustomers)
	api.GET("/customers/:id", s.GetCustomerByID)
	api.GET("/customers/:id/points", s.ListCustomerPoints)

	api.GET("/views/versions", s.GetViewVersions)
	api.GET("/audit-logs", s.ListAuditLogs)
}
