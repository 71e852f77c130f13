package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkhaus/studio-app/config"
	"github.com/inkhaus/studio-app/controllers"
	"github.com/inkhaus/studio-app/middlewares"
	"github.com/inkhaus/studio-app/realtime"
	"github.com/inkhaus/studio-app/storage"
	"github.com/inkhaus/studio-app/store"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, hub *realtime.Hub) *gin.Engine {
	r := gin.Default()

	// Attached before any route registration so every route, static files
	// included, sits behind the per-IP limiter.
	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	objects := storage.NewDiskStore(config.UploadRoot(), config.SiteBaseURL())
	st := store.New(db, hub)

	// Uploaded objects are public but only image files may be served out of
	// the bucket directories.
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			lower := strings.ToLower(c.Request.URL.Path)
			if !strings.HasSuffix(lower, ".jpg") &&
				!strings.HasSuffix(lower, ".jpeg") &&
				!strings.HasSuffix(lower, ".png") &&
				!strings.HasSuffix(lower, ".gif") &&
				!strings.HasSuffix(lower, ".webp") {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
		}
		c.Next()
	})
	r.Static("/uploads", config.UploadRoot())
	r.Static("/static", "public/static")

	r.LoadHTMLGlob("templates/*.html")

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SessionMiddleware(db))

	userCtrl := controllers.NewUserController(db)
	galleryCtrl := controllers.NewGalleryController(st, objects)
	bookingCtrl := controllers.NewBookingController(st, objects)
	messageCtrl := controllers.NewMessageController(st)
	settingCtrl := controllers.NewSettingController(st)
	chatCtrl := controllers.NewChatController(st, hub)
	pageCtrl := controllers.NewPageController(st)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC PAGES
	// ----------------------------------------------------------------
	r.GET("/", pageCtrl.Home)
	r.GET("/gallery", pageCtrl.Gallery)
	r.GET("/booking", pageCtrl.BookingPage)
	r.GET("/booking/status", pageCtrl.BookingStatusPage)

	// ----------------------------------------------------------------
	//                      PUBLIC API
	// ----------------------------------------------------------------
	r.GET("/api/images", galleryCtrl.GetAllImages)
	r.GET("/api/images/featured", galleryCtrl.GetFeaturedImages)

	r.POST("/api/bookings", bookingCtrl.SubmitBooking)
	r.GET("/api/bookings/lookup", bookingCtrl.LookupByToken)

	// Message threads check their own access (admin session or client token).
	r.GET("/api/bookings/:booking_id/messages", messageCtrl.ListMessages)
	r.POST("/api/bookings/:booking_id/messages", messageCtrl.SendMessage)

	r.GET("/ws/bookings/:booking_id", chatCtrl.Feed)

	// ----------------------------------------------------------------
	//                      ADMIN (gated by SessionMiddleware)
	// ----------------------------------------------------------------
	r.GET("/admin/login", pageCtrl.AdminLoginPage)
	login := r.Group("/admin")
	login.Use(middlewares.NewStrictRateLimiter())
	{
		login.POST("/login", userCtrl.Login)
	}
	r.POST("/admin/logout", userCtrl.Logout)

	r.GET("/admin", pageCtrl.AdminDashboard)
	r.GET("/admin/bookings/:booking_id", pageCtrl.AdminBookingDetail)

	api := r.Group("/admin/api")
	{
		api.GET("/profile", userCtrl.GetProfile)

		api.GET("/bookings", bookingCtrl.GetAllBookings)
		api.GET("/bookings/:booking_id", bookingCtrl.GetBookingByID)
		api.PATCH("/bookings/:booking_id/status", bookingCtrl.UpdateBookingStatus)
		api.PATCH("/bookings/:booking_id", bookingCtrl.UpdateBooking)

		api.POST("/images", galleryCtrl.CreateImage)
		api.PATCH("/images/:image_id", galleryCtrl.UpdateImage)
		api.DELETE("/images/:image_id", galleryCtrl.DeleteImage)

		api.GET("/settings/:key", settingCtrl.GetSetting)
		api.PUT("/settings/:key", settingCtrl.SetSetting)
	}

	return r
}
