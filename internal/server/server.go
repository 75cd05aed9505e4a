package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/seatsmith/seatsmith/internal/cart"
	cartdomain "github.com/seatsmith/seatsmith/internal/cart/domain"
	"github.com/seatsmith/seatsmith/internal/catalog"
	catalogdomain "github.com/seatsmith/seatsmith/internal/catalog/domain"
	"github.com/seatsmith/seatsmith/internal/condition"
	conditiondomain "github.com/seatsmith/seatsmith/internal/condition/domain"
	"github.com/seatsmith/seatsmith/internal/config"
	"github.com/seatsmith/seatsmith/internal/discount"
	discountdomain "github.com/seatsmith/seatsmith/internal/discount/domain"
	"github.com/seatsmith/seatsmith/internal/eligibility"
	obsmetrics "github.com/seatsmith/seatsmith/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	obsmetrics.Module,
	catalog.Module,
	condition.Module,
	eligibility.Module,
	discount.Module,
	cart.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, metrics *obsmetrics.Metrics) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))

	return r
}

func registerGin(cfg config.Config, metrics *obsmetrics.Metrics) *gin.Engine {
	return NewEngine(cfg, metrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
	cartSvc      cartdomain.Service
	catalogSvc   catalogdomain.Service
	conditionSvc conditiondomain.Service
	discountSvc  discountdomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	CartSvc      cartdomain.Service
	CatalogSvc   catalogdomain.Service
	ConditionSvc conditiondomain.Service
	DiscountSvc  discountdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		cartSvc:      p.CartSvc,
		catalogSvc:   p.CatalogSvc,
		conditionSvc: p.ConditionSvc,
		discountSvc:  p.DiscountSvc,
	}

	api := s.engine.Group("/api")

	api.POST("/categories", s.CreateCategory)
	api.GET("/categories", s.ListCategories)

	api.POST("/products", s.CreateProduct)
	api.GET("/products", s.ListProducts)
	api.GET("/products/:id", s.GetProductByID)
	api.PATCH("/products/:id", s.UpdateProduct)

	api.POST("/conditions", s.CreateCondition)
	api.GET("/conditions", s.ListConditions)
	api.GET("/conditions/:id", s.GetConditionByID)

	api.POST("/discounts", s.CreateDiscount)
	api.GET("/discounts", s.ListDiscounts)
	api.GET("/discounts/:id", s.GetDiscountByID)

	api.POST("/carts/items", s.AddToCart)
	api.GET("/carts/active", s.GetActiveCart)
	api.POST("/carts/:id/reconcile", s.ReconcileCart)
	api.POST("/carts/:id/status", s.SetCartStatus)

	return s
}
