// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"busly/internal/agencies"
	"busly/internal/auth"
	"busly/internal/bookings"
	"busly/internal/notifications"
	"busly/internal/payments"
	"busly/internal/shared/config"
	"busly/internal/shared/database"
	"busly/internal/travels"
	"busly/internal/users"
	"busly/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher *notifications.Publisher
	cache     cache.Service
}

// NewRouter creates a new router instance. publisher may be nil when the
// event stream is disabled.
func NewRouter(cfg *config.Config, db *database.DB, publisher *notifications.Publisher) *Router {
	r := &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
	}
	if db.Redis != nil {
		r.cache = cache.NewService(db.Redis)
	}
	return r
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupProfileRoutes(api)
		r.setupAgencyRoutes(api)
		r.setupTravelRoutes(api)
		r.setupBookingAndPaymentRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "busly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "busly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController, r.config)

	authRouter.SetupRoutes(rg)
}

func (r *Router) setupProfileRoutes(rg *gin.RouterGroup) {
	userRepo := users.NewRepository(r.db.GetPostgreSQL())
	userController := users.NewController(userRepo)

	users.SetupProfileRoutes(rg, userController)
}

func (r *Router) setupAgencyRoutes(rg *gin.RouterGroup) {
	agencyRepo := agencies.NewRepository(r.db.GetPostgreSQL())
	agencyService := agencies.NewService(agencyRepo, r.cache, r.config.Redis.AgencyListTTL)
	agencyController := agencies.NewController(agencyService)
	agencyRouter := agencies.NewRouter(agencyController, r.config)

	agencyRouter.SetupRoutes(rg)
}

func (r *Router) setupTravelRoutes(rg *gin.RouterGroup) {
	travelRepo := travels.NewRepository(r.db.GetPostgreSQL())
	travelService := travels.NewService(travelRepo, r.cache, r.config.Redis.TravelListTTL)
	travelController := travels.NewController(travelService)
	travelRouter := travels.NewRouter(travelController, r.config)

	travelRouter.SetupRoutes(rg)
}

// setupBookingAndPaymentRoutes wires the booking ledger and the payment
// workflow over the same repository, since payments mutate booking state.
func (r *Router) setupBookingAndPaymentRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	conflictDetector := bookings.NewConflictDetector(r.db.GetPostgreSQL())

	var bookingPublisher bookings.EventPublisher
	var paymentPublisher payments.EventPublisher
	if r.publisher != nil {
		bookingPublisher = r.publisher
		paymentPublisher = r.publisher
	}

	bookingService := bookings.NewService(bookingRepo, conflictDetector, bookingPublisher)
	bookingController := bookings.NewController(bookingService)
	bookingRouter := bookings.NewRouter(bookingController, r.config)
	bookingRouter.SetupRoutes(rg)

	gateway := payments.NewGateway(r.config.Payment)
	paymentService := payments.NewService(bookingRepo, gateway, paymentPublisher)
	paymentController := payments.NewController(paymentService)
	paymentRouter := payments.NewRouter(paymentController, r.config)
	paymentRouter.SetupRoutes(rg)
}
