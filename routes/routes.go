package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rk-consultants/rk-server/middleware"
	"github.com/rk-consultants/rk-server/utils"
)

// Options configures the router
type Options struct {
	JWTSecret      string
	SessionSecret  string
	SecureCookies  bool
	RateLimitRPS   float64
	RateLimitBurst int
}

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(opts Options) (*gin.Engine, error) {
	if err := utils.RegisterValidators(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())
	router.Use(utils.SessionMiddleware(opts.SessionSecret, opts.SecureCookies))

	// Login and the public forms share one per-IP budget
	limiter := utils.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst)
	g := groups{
		auth:    middleware.AuthMiddleware(opts.JWTSecret),
		admin:   middleware.AdminMiddleware(),
		limited: utils.RateLimitMiddleware(limiter),
	}

	api := router.Group("/api")
	{
		initUserRoutes(api.Group("/user"), g)
		initClientRoutes(api.Group("/client"), g)
		initListingRoutes(api.Group("/listing"), g)
		initProjectRoutes(api.Group("/project"), g)
		initServiceRoutes(api.Group("/service"), g)
		initTestimonialRoutes(api.Group("/testimonial"), g)
		initStatsRoutes(api.Group("/stats"), g)
		initVisitorRoutes(api.Group("/visitor"), g)
		initGeneralRoutes(api.Group("/general"), g)
		initContactRoutes(api.Group("/contact"), g)
		initMailRoutes(api.Group("/mail"), g)
		initPaymentRoutes(api.Group("/payment"), g)
	}

	return router, nil
}

// groups holds the middleware chains shared by the route files
type groups struct {
	auth    gin.HandlerFunc
	admin   gin.HandlerFunc
	limited gin.HandlerFunc
}

func (g groups) adminOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{g.auth, g.admin}
}
