package routes

import (
	"glowup-backend/firebase"
	"glowup-backend/handlers"
	"glowup-backend/middleware"
	"glowup-backend/models"
	"glowup-backend/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the shared services the routes are wired to. Storage and
// AuthLimiter are optional.
type Deps struct {
	DB          *gorm.DB
	Registry    *store.Registry
	Storage     firebase.StorageClient
	AuthLimiter *middleware.RateLimiter
}

func SetupRoutes(r *gin.Engine, deps Deps) {
	// Initialize handlers
	authHandler := &handlers.AuthHandler{Storage: deps.Storage}
	cartHandler := &handlers.CartHandler{}
	orderHandler := &handlers.OrderHandler{Storage: deps.Storage}
	bookingHandler := &handlers.BookingHandler{}
	appointmentHandler := &handlers.AppointmentHandler{}
	rewardsHandler := &handlers.RewardsHandler{Storage: deps.Storage}
	locationHandler := &handlers.LocationHandler{}
	eventHandler := &handlers.EventHandler{}
	healthHandler := &handlers.HealthHandler{DB: deps.DB, Registry: deps.Registry}

	// Every API call works on the state of the calling device
	api := r.Group("/api")
	api.Use(middleware.DeviceMiddleware(deps.Registry))

	// Public auth routes
	auth := api.Group("/auth")
	if deps.AuthLimiter != nil {
		auth.Use(deps.AuthLimiter.Middleware())
	}
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
	}

	// Location works before login, the welcome screen asks for it
	api.GET("/location", locationHandler.GetLocation)
	api.POST("/location", locationHandler.FetchLocation)
	api.POST("/location/error", locationHandler.ReportError)
	api.GET("/location/distance", locationHandler.GetDistance)

	// Session routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.GetProfile)
		protected.PUT("/auth/role", authHandler.SetRole)
		protected.PATCH("/profile", authHandler.UpdateProfile)
		protected.POST("/profile/complete", authHandler.CompleteProfile)
		protected.GET("/state", authHandler.GetState)
		protected.GET("/events", eventHandler.Stream)

		// Cart
		protected.GET("/cart", cartHandler.GetCart)
		protected.POST("/cart", cartHandler.AddToCart)
		protected.PUT("/cart/:productId", cartHandler.UpdateCartItem)
		protected.DELETE("/cart/:productId", cartHandler.RemoveFromCart)
		protected.DELETE("/cart", cartHandler.ClearCart)

		// Orders
		protected.POST("/checkout", orderHandler.Checkout)
		protected.GET("/orders", orderHandler.GetOrders)
		protected.GET("/orders/:id", orderHandler.GetOrder)

		// Bookings and doctor appointments
		protected.POST("/bookings", bookingHandler.CreateBooking)
		protected.GET("/bookings", bookingHandler.GetBookings)
		protected.POST("/appointments", appointmentHandler.BookAppointment)
		protected.GET("/appointments", appointmentHandler.GetAppointments)

		// Wallet and rewards
		protected.GET("/wallet", rewardsHandler.GetWallet)
		protected.POST("/rewards/daily-login", rewardsHandler.DailyLogin)
		protected.GET("/rewards/diet", rewardsHandler.GetDiet)
		protected.PUT("/rewards/diet/preference", rewardsHandler.SetDietPreference)
		protected.POST("/rewards/diet/complete", rewardsHandler.CompleteDiet)
		protected.GET("/rewards/collect-box", rewardsHandler.GetCollectBox)
		protected.POST("/rewards/collect-box", rewardsHandler.ClaimCollectBox)
		protected.GET("/rewards/face-score", rewardsHandler.GetFaceScores)
		protected.POST("/rewards/face-score", rewardsHandler.CaptureFaceScore)
		protected.POST("/rewards/try-on", rewardsHandler.CompleteTryOn)
	}

	// Salon owner and artist dashboard
	provider := protected.Group("/provider")
	provider.Use(middleware.RoleMiddleware(models.RoleSalonOwner, models.RoleArtist))
	{
		provider.GET("/bookings", bookingHandler.GetProviderBookings)
		provider.PUT("/bookings/:id/accept", bookingHandler.AcceptBooking)
		provider.PUT("/bookings/:id/reject", bookingHandler.RejectBooking)
		provider.PUT("/bookings/:id/complete", bookingHandler.CompleteBooking)
		provider.PUT("/bookings/:id/status", bookingHandler.UpdateBookingStatus)

		provider.GET("/orders", orderHandler.GetSalonOrders)
		provider.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)
		provider.PUT("/orders/:id/tracking", orderHandler.AddTrackingLink)
	}

	// Doctor dashboard
	doctor := protected.Group("/doctor")
	doctor.Use(middleware.RoleMiddleware(models.RoleDoctor))
	{
		doctor.GET("/appointments", appointmentHandler.GetDoctorAppointments)
		doctor.PUT("/appointments/:id/accept", appointmentHandler.AcceptAppointment)
		doctor.PUT("/appointments/:id/reject", appointmentHandler.RejectAppointment)
		doctor.PUT("/appointments/:id/status", appointmentHandler.UpdateAppointmentStatus)
		doctor.POST("/appointments/:id/prescription", appointmentHandler.AddPrescription)
	}

	// Health check
	r.GET("/health", healthHandler.Health)
}
