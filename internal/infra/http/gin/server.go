package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"staybnb/internal/infra/config"
	"staybnb/internal/infra/obs"
)

type Handlers struct {
	Auth           AuthHTTP
	Booking        BookingHTTP
	Review         ReviewHTTP
	Favorite       FavoriteHTTP
	HostBooking    HostBookingHTTP
	HostListing    HostListingHTTP
	Admin          AdminHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	if h.Auth != nil {
		router.POST("/auth/register", h.Auth.Register)
		router.POST("/auth/login", h.Auth.Login)
		router.POST("/auth/logout", h.Auth.Logout)
		router.GET("/auth/me", h.Auth.Me)
	}
	if h.Booking != nil {
		router.POST("/bookings", h.Booking.Create)
		router.GET("/bookings", h.Booking.ListMine)
		router.GET("/bookings/:id", h.Booking.Get)
		router.DELETE("/bookings/:id", h.Booking.Cancel)
		router.GET("/users/:id/bookings", h.Booking.ListByUser)
		router.POST("/users/bookings/:listingId", h.Booking.BookListing)
		router.POST("/listings/:id/availability", h.Booking.Availability)
	}
	if h.Review != nil {
		router.POST("/reviews", h.Review.Create)
		router.GET("/reviews", h.Review.ListAll)
		router.GET("/reviews/user", h.Review.ListMine)
		router.GET("/reviews/listing/:id", h.Review.ListByListing)
		router.DELETE("/reviews/:id", h.Review.Delete)
	}
	if h.Favorite != nil {
		router.POST("/favorites", h.Favorite.Add)
		router.GET("/favorites", h.Favorite.ListMine)
		router.DELETE("/favorites/:id", h.Favorite.Remove)
		router.GET("/users/:id/favorites", h.Favorite.ListByUser)
	}
	if h.HostBooking != nil {
		hostGroup := router.Group("/host")
		hostGroup.GET("/bookings", h.HostBooking.List)
		hostGroup.PUT("/bookings/:id", h.HostBooking.UpdateStatus)
		hostGroup.PATCH("/bookings/:id/approve", h.HostBooking.Approve)
		hostGroup.PATCH("/bookings/:id/reject", h.HostBooking.Reject)
		hostGroup.GET("/total-earnings", h.HostBooking.Earnings)
	}
	if h.HostListing != nil {
		listingGroup := router.Group("/host/listings")
		listingGroup.GET("", h.HostListing.List)
		listingGroup.POST("", h.HostListing.Create)
		listingGroup.PUT("/:id", h.HostListing.Update)
		listingGroup.DELETE("/:id", h.HostListing.Delete)
		listingGroup.PATCH("/:id/status", h.HostListing.SetStatus)
		listingGroup.POST("/:id/photo", h.HostListing.UploadPhoto)
	}
	if h.Admin != nil {
		adminGroup := router.Group("/admin/listings")
		adminGroup.GET("", h.Admin.ListListings)
		adminGroup.PATCH("/:id/approve", h.Admin.ApproveListing)
		adminGroup.PATCH("/:id/reject", h.Admin.RejectListing)
		adminGroup.DELETE("/:id", h.Admin.DeleteListing)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
