package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/upeonet/mtandao/internal/auth"
	authdomain "github.com/upeonet/mtandao/internal/auth/domain"
	"github.com/upeonet/mtandao/internal/auth/password"
	"github.com/upeonet/mtandao/internal/auth/session"
	"github.com/upeonet/mtandao/internal/config"
	"github.com/upeonet/mtandao/internal/customer"
	customerdomain "github.com/upeonet/mtandao/internal/customer/domain"
	"github.com/upeonet/mtandao/internal/dashboard"
	dashboarddomain "github.com/upeonet/mtandao/internal/dashboard/domain"
	"github.com/upeonet/mtandao/internal/device"
	devicedomain "github.com/upeonet/mtandao/internal/device/domain"
	"github.com/upeonet/mtandao/internal/migration"
	"github.com/upeonet/mtandao/internal/notification"
	obsmetrics "github.com/upeonet/mtandao/internal/observability/metrics"
	"github.com/upeonet/mtandao/internal/payment"
	paymentdomain "github.com/upeonet/mtandao/internal/payment/domain"
	"github.com/upeonet/mtandao/internal/plan"
	plandomain "github.com/upeonet/mtandao/internal/plan/domain"
	"github.com/upeonet/mtandao/internal/ratelimit"
	"github.com/upeonet/mtandao/internal/securityevent"
	securityeventdomain "github.com/upeonet/mtandao/internal/securityevent/domain"
	"github.com/upeonet/mtandao/internal/seed"
	"github.com/upeonet/mtandao/internal/ticket"
	ticketdomain "github.com/upeonet/mtandao/internal/ticket/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	obsmetrics.Module,
	fx.Provide(NewEngine),
	auth.Module,
	ratelimit.Module,
	securityevent.Module,
	customer.Module,
	plan.Module,
	notification.Module,
	payment.Module,
	ticket.Module,
	device.Module,
	dashboard.Module,
	migration.Module,
	seed.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, metrics *obsmetrics.Metrics, registry *prometheus.Registry) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log.Named("http")))
	r.Use(obsmetrics.GinMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return r
}

type Server struct {
	engine  *gin.Engine
	cfg     config.Config
	log     *zap.Logger
	genID   *snowflake.Node
	metrics *obsmetrics.Metrics

	sessions *session.Manager
	policy   *password.Policy

	authSvc          authdomain.Service
	customerSvc      customerdomain.Service
	planSvc          plandomain.Service
	paymentSvc       paymentdomain.Service
	ticketSvc        ticketdomain.Service
	deviceSvc        devicedomain.Service
	dashboardSvc     dashboarddomain.Service
	securityEventSvc securityeventdomain.Service
}

type ServerParams struct {
	fx.In

	Engine  *gin.Engine
	Cfg     config.Config
	Log     *zap.Logger
	GenID   *snowflake.Node
	Metrics *obsmetrics.Metrics `optional:"true"`

	Sessions *session.Manager
	Policy   *password.Policy

	AuthSvc          authdomain.Service
	CustomerSvc      customerdomain.Service
	PlanSvc          plandomain.Service
	PaymentSvc       paymentdomain.Service
	TicketSvc        ticketdomain.Service
	DeviceSvc        devicedomain.Service
	DashboardSvc     dashboarddomain.Service
	SecurityEventSvc securityeventdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:           p.Engine,
		cfg:              p.Cfg,
		log:              p.Log.Named("server"),
		genID:            p.GenID,
		metrics:          p.Metrics,
		sessions:         p.Sessions,
		policy:           p.Policy,
		authSvc:          p.AuthSvc,
		customerSvc:      p.CustomerSvc,
		planSvc:          p.PlanSvc,
		paymentSvc:       p.PaymentSvc,
		ticketSvc:        p.TicketSvc,
		deviceSvc:        p.DeviceSvc,
		dashboardSvc:     p.DashboardSvc,
		securityEventSvc: p.SecurityEventSvc,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	r := s.engine

	// The mobile money gateway calls this unauthenticated.
	r.POST("/webhooks/payments", s.PaymentWebhook)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", s.Signup)
	authGroup.POST("/login", s.Login)
	authGroup.POST("/logout", s.Logout)
	authGroup.GET("/me", s.RequireSession(), s.Me)
	authGroup.POST("/change-password", s.RequireSession(), s.ChangePassword)
	authGroup.POST("/password/strength", s.PasswordStrength)
	authGroup.POST("/password/generate", s.RequireSession(), s.RequireRole(authdomain.RoleAdmin), s.GeneratePassword)

	api.POST("/users", s.RequireSession(), s.RequireRole(authdomain.RoleAdmin), s.CreateUser)

	customers := api.Group("/customers", s.RequireSession(), s.RequireStaff())
	customers.POST("", s.CreateCustomer)
	customers.GET("", s.ListCustomers)
	customers.GET("/:id", s.GetCustomerByID)
	customers.PATCH("/:id", s.UpdateCustomer)

	plans := api.Group("/plans", s.RequireSession())
	plans.GET("", s.ListPlans)
	plans.GET("/:id", s.GetPlanByID)
	plans.POST("", s.RequireRole(authdomain.RoleAdmin), s.CreatePlan)
	plans.PATCH("/:id", s.RequireRole(authdomain.RoleAdmin), s.UpdatePlan)

	payments := api.Group("/payments", s.RequireSession(), s.RequireStaff())
	payments.GET("", s.ListPayments)
	payments.POST("", s.RequireRole(authdomain.RoleAdmin), s.RecordPayment)
	payments.GET("/queue", s.RequireRole(authdomain.RoleAdmin), s.ListPaymentQueue)

	tickets := api.Group("/tickets", s.RequireSession())
	tickets.POST("", s.CreateTicket)
	tickets.GET("", s.ListTickets)
	tickets.GET("/:id", s.GetTicketByID)
	tickets.POST("/:id/replies", s.ReplyTicket)
	tickets.POST("/:id/status", s.RequireStaff(), s.TransitionTicket)

	devices := api.Group("/devices", s.RequireSession(), s.RequireStaff())
	devices.GET("", s.ListDevices)
	devices.GET("/:id", s.GetDeviceByID)
	devices.POST("", s.RequireRole(authdomain.RoleAdmin), s.RegisterDevice)
	devices.POST("/:id/status", s.UpdateDeviceStatus)
	devices.POST("/:id/heartbeat", s.DeviceHeartbeat)

	api.GET("/dashboard", s.RequireSession(), s.Dashboard)
	api.GET("/security-events", s.RequireSession(), s.RequireRole(authdomain.RoleAdmin), s.ListSecurityEvents)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := ensureRequestID(c)
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
			log.Warn("request", fields...)
			return
		}
		log.Info("request", fields...)
	}
}

func ensureRequestID(c *gin.Context) string {
	requestID := strings.TrimSpace(c.GetHeader("X-Request-Id"))
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set("request_id", requestID)
	c.Header("X-Request-Id", requestID)
	return requestID
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server", zap.Error(err))
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
