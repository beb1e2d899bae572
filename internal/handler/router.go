package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"carhive/internal/domain/user"
	"carhive/internal/handler/api"
	"carhive/internal/handler/middleware"
	"carhive/internal/pkg/config"
	"carhive/internal/usecase"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth      *api.AuthHandler
	Car       *api.CarHandler
	Booking   *api.BookingHandler
	Payment   *api.PaymentHandler
	Review    *api.ReviewHandler
	AdminCar  *api.AdminCarHandler
	Driver    *api.AdminDriverHandler
	Insurance *api.AdminInsuranceHandler
	Discount  *api.AdminDiscountHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, tokenValidator usecase.TokenValidator) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, cfg, h, tokenValidator)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.RequestLogger())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, cfg config.Config, h Handlers, tokenValidator usecase.TokenValidator) {
	engine.GET("/health", healthCheck)
	engine.Static(cfg.Storage.BaseURL, cfg.Storage.UploadDir)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := middleware.RequireAuth(tokenValidator)
	optionalAuth := middleware.OptionalAuth(tokenValidator)
	requireAdmin := middleware.RequireRoleAtLeast(user.RoleAdmin)

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: h.Auth.Register},
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
			})

			authRequired := auth.Group("")
			authRequired.Use(requireAuth)
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		cars := apiGroup.Group("/cars")
		{
			addRoutes(cars, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Car.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Car.Get},
				{Method: http.MethodGet, Path: "/:id/reviews", Handler: h.Car.Reviews},
			})
		}

		bookings := apiGroup.Group("/bookings")
		{
			// Guests book without an account; the reference returned on
			// creation is their credential for later lookups.
			guestReachable := bookings.Group("")
			guestReachable.Use(optionalAuth)
			addRoutes(guestReachable, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Booking.Create},
				{Method: http.MethodGet, Path: "/:reference", Handler: h.Booking.GetByReference},
				{Method: http.MethodPost, Path: "/:reference/cancel", Handler: h.Booking.Cancel},
				{Method: http.MethodPost, Path: "/:reference/extend", Handler: h.Booking.Extend},
			})

			authRequired := bookings.Group("")
			authRequired.Use(requireAuth)
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Booking.ListMine},
			})
		}

		invoices := apiGroup.Group("/invoices")
		invoices.Use(optionalAuth)
		{
			addRoutes(invoices, []route{
				{Method: http.MethodPost, Path: "/:reference/pay", Handler: h.Payment.Pay},
			})
		}

		reviews := apiGroup.Group("/reviews")
		reviews.Use(requireAuth)
		{
			addRoutes(reviews, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Review.Create},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(requireAuth, requireAdmin)
		{
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/cars", Handler: h.AdminCar.Create},
				{Method: http.MethodPut, Path: "/cars/:id", Handler: h.AdminCar.Update},
				{Method: http.MethodDelete, Path: "/cars/:id", Handler: h.AdminCar.Delete},
				{Method: http.MethodPost, Path: "/cars/:id/image", Handler: h.AdminCar.UploadImage},

				{Method: http.MethodPost, Path: "/drivers", Handler: h.Driver.Create},
				{Method: http.MethodPut, Path: "/drivers/:id", Handler: h.Driver.Update},
				{Method: http.MethodDelete, Path: "/drivers/:id", Handler: h.Driver.Delete},
				{Method: http.MethodPatch, Path: "/drivers/:id/status", Handler: h.Driver.SetStatus},

				{Method: http.MethodPost, Path: "/insurances", Handler: h.Insurance.Create},
				{Method: http.MethodPut, Path: "/insurances/:id", Handler: h.Insurance.Update},
				{Method: http.MethodDelete, Path: "/insurances/:id", Handler: h.Insurance.Delete},

				{Method: http.MethodPost, Path: "/discount-codes", Handler: h.Discount.Create},
				{Method: http.MethodPost, Path: "/discount-codes/:code/deactivate", Handler: h.Discount.Deactivate},
				{Method: http.MethodDelete, Path: "/discount-codes/:id", Handler: h.Discount.Delete},

				{Method: http.MethodPost, Path: "/bookings/:id/complete", Handler: h.Booking.Complete},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
