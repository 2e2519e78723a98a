// Package server exposes the admin and widget HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/printlabs/pressconfig/internal/config"
	constraintdomain "github.com/printlabs/pressconfig/internal/constraint/domain"
	dependencydomain "github.com/printlabs/pressconfig/internal/dependency/domain"
	discountdomain "github.com/printlabs/pressconfig/internal/discount/domain"
	optiondomain "github.com/printlabs/pressconfig/internal/option/domain"
	pricingdomain "github.com/printlabs/pressconfig/internal/pricing/domain"
	productdomain "github.com/printlabs/pressconfig/internal/product/domain"
	publishdomain "github.com/printlabs/pressconfig/internal/publish/domain"
	quotedomain "github.com/printlabs/pressconfig/internal/quote/domain"
	recipedomain "github.com/printlabs/pressconfig/internal/recipe/domain"
	simulationdomain "github.com/printlabs/pressconfig/internal/simulation/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Config        config.Config
	Registry      *prometheus.Registry
	ProductRepo   productdomain.Repository
	OptionRepo    optiondomain.Repository
	QuoteRepo     quotedomain.Repository
	DiscountRepo  discountdomain.Repository
	RecipeSvc     recipedomain.Service
	ConstraintSvc constraintdomain.Service
	DependencySvc dependencydomain.Service
	PricingSvc    pricingdomain.Service
	SimulationSvc simulationdomain.Service
	PublishSvc    publishdomain.Service
}

type Server struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	cfg           config.Config
	metrics       *metrics
	productRepo   productdomain.Repository
	optionRepo    optiondomain.Repository
	quoteRepo     quotedomain.Repository
	discountRepo  discountdomain.Repository
	recipeSvc     recipedomain.Service
	constraintSvc constraintdomain.Service
	dependencySvc dependencydomain.Service
	pricingSvc    pricingdomain.Service
	simulationSvc simulationdomain.Service
	publishSvc    publishdomain.Service
}

func NewServer(p Params) *Server {
	return &Server{
		db:            p.DB,
		log:           p.Log.Named("server"),
		genID:         p.GenID,
		cfg:           p.Config,
		metrics:       newMetrics(p.Registry),
		productRepo:   p.ProductRepo,
		optionRepo:    p.OptionRepo,
		quoteRepo:     p.QuoteRepo,
		discountRepo:  p.DiscountRepo,
		recipeSvc:     p.RecipeSvc,
		constraintSvc: p.ConstraintSvc,
		dependencySvc: p.DependencySvc,
		pricingSvc:    p.PricingSvc,
		simulationSvc: p.SimulationSvc,
		publishSvc:    p.PublishSvc,
	}
}

func (s *Server) Router(registry *prometheus.Registry) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.accessLog())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	v1 := r.Group("/v1")
	{
		v1.POST("/products", s.CreateProduct)
		v1.GET("/products", s.ListProducts)
		v1.GET("/products/:productId", s.GetProduct)

		v1.POST("/option-types", s.CreateOptionType)
		v1.GET("/option-types", s.ListOptionTypes)
		v1.POST("/option-types/:typeKey/choices", s.CreateOptionChoice)
		v1.GET("/option-types/:typeKey/choices", s.ListOptionChoices)

		v1.POST("/products/:productId/recipes", s.CreateRecipe)
		v1.PUT("/products/:productId/recipes/:recipeId/bindings", s.ReplaceRecipeBindings)
		v1.POST("/products/:productId/recipes/:recipeId/default", s.SetDefaultRecipe)
		v1.GET("/products/:productId/recipes/default", s.GetDefaultRecipe)

		v1.POST("/products/:productId/constraints", s.CreateConstraint)
		v1.GET("/products/:productId/constraints", s.ListConstraints)
		v1.PUT("/products/:productId/constraints/:constraintId", s.UpdateConstraint)
		v1.DELETE("/products/:productId/constraints/:constraintId", s.DeleteConstraint)
		v1.POST("/products/:productId/constraints/:constraintId/toggle", s.ToggleConstraint)
		v1.POST("/products/:productId/constraints/preview-cycle", s.PreviewConstraintCycle)

		v1.POST("/products/:productId/dependencies", s.CreateDependency)
		v1.GET("/products/:productId/dependencies", s.ListDependencies)
		v1.DELETE("/products/:productId/dependencies/:dependencyId", s.DeleteDependency)

		v1.PUT("/products/:productId/pricing", s.SavePriceConfig)
		v1.GET("/products/:productId/pricing", s.GetPriceConfig)
		v1.POST("/products/:productId/pricing/print-rows", s.AddPrintCostRow)
		v1.POST("/products/:productId/pricing/process-rows", s.AddPostprocessCostRow)
		v1.POST("/products/:productId/pricing/discounts", s.AddDiscountTier)
		v1.GET("/products/:productId/pricing/discounts", s.ListDiscountTiers)
		v1.DELETE("/products/:productId/pricing/discounts/:tierId", s.DeleteDiscountTier)
		v1.POST("/pricing/process-rows", s.AddGlobalPostprocessCostRow)
		v1.POST("/pricing/discounts", s.AddGlobalDiscountTier)

		v1.POST("/products/:productId/quote", s.Quote)
		v1.POST("/products/:productId/widget/init", s.WidgetInit)

		v1.POST("/products/:productId/simulations", s.StartSimulation)
		v1.GET("/products/:productId/simulations", s.ListSimulations)
		v1.GET("/simulations/:runId", s.GetSimulation)
		v1.GET("/simulations/:runId/cases", s.ListSimulationCases)
		v1.GET("/simulations/:runId/export", s.ExportSimulation)

		v1.GET("/products/:productId/readiness", s.Readiness)
		v1.POST("/products/:productId/publish", s.Publish)
		v1.POST("/products/:productId/unpublish", s.Unpublish)
		v1.GET("/products/:productId/publish-history", s.PublishHistory)
	}

	return r
}

func RunHTTP(lc fx.Lifecycle, s *Server, registry *prometheus.Registry, log *zap.Logger) {
	srv := &http.Server{
		Addr:              s.cfg.HTTP.Addr,
		Handler:           s.Router(registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("http server starting", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")))
	}
}
