package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/inkhaus/studio-app/middlewares"
	"github.com/inkhaus/studio-app/models"
	"github.com/inkhaus/studio-app/store"
	"github.com/inkhaus/studio-app/utils"
	"github.com/inkhaus/studio-app/wizard"
)

// PageController renders the server-side HTML pages. Every page catches its
// own store errors and renders them instead of failing the request.
type PageController struct {
	Store *store.Store
}

func NewPageController(st *store.Store) *PageController {
	return &PageController{Store: st}
}

// settingValue flattens the present/absent setting result for templates.
func (pc *PageController) settingValue(key string) string {
	setting, err := pc.Store.GetSetting(key)
	if err != nil || setting == nil {
		return ""
	}
	return setting.Value
}

func (pc *PageController) Home(c *gin.Context) {
	featured, err := pc.Store.ListFeaturedImages()
	if err != nil {
		utils.ErrorLogger.Printf("home: loading featured images: %v", err)
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"Featured":     featured,
		"ContactInfo":  pc.settingValue("contact_info"),
		"StudioHours":  pc.settingValue("studio_hours"),
		"Announcement": pc.settingValue("announcement"),
	})
}

func (pc *PageController) Gallery(c *gin.Context) {
	portfolio, err := pc.Store.ListContentImages(models.ImageCategoryPortfolio)
	if err != nil {
		utils.ErrorLogger.Printf("gallery: loading portfolio: %v", err)
	}
	flash, err := pc.Store.ListContentImages(models.ImageCategoryFlash)
	if err != nil {
		utils.ErrorLogger.Printf("gallery: loading flash: %v", err)
	}

	c.HTML(http.StatusOK, "gallery.html", gin.H{
		"Portfolio": portfolio,
		"Flash":     flash,
	})
}

func (pc *PageController) BookingPage(c *gin.Context) {
	// A fresh wizard decides which panel the page opens on; the in-page
	// sequencer picks up from there.
	w := wizard.New()
	c.HTML(http.StatusOK, "booking.html", gin.H{
		"Steps":       wizard.Steps(),
		"FirstStep":   wizard.MinStep,
		"FinalStep":   wizard.MaxStep,
		"CurrentStep": w.Step(),
		"PolicyText":  pc.settingValue("booking_policy"),
	})
}

// BookingStatusPage lets a client check their booking with their access
// token. An unknown token renders the not-found state, not an error page.
func (pc *PageController) BookingStatusPage(c *gin.Context) {
	token := c.Query("token")

	var booking *models.Booking
	if token != "" {
		var err error
		booking, err = pc.Store.GetBookingByToken(token)
		if err != nil {
			utils.ErrorLogger.Printf("booking status: token lookup: %v", err)
		}
	}

	c.HTML(http.StatusOK, "booking_status.html", gin.H{
		"Token":   token,
		"Booking": booking,
	})
}

func (pc *PageController) AdminLoginPage(c *gin.Context) {
	// Already signed in, go straight to the dashboard.
	if middlewares.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/admin")
		return
	}
	c.HTML(http.StatusOK, "admin_login.html", gin.H{})
}

func (pc *PageController) AdminDashboard(c *gin.Context) {
	status := c.Query("status")
	bookings, err := pc.Store.ListBookings(status)
	if err != nil {
		utils.ErrorLogger.Printf("dashboard: loading bookings: %v", err)
	}

	c.HTML(http.StatusOK, "admin_dashboard.html", gin.H{
		"User":     middlewares.CurrentUser(c),
		"Bookings": bookings,
		"Status":   status,
	})
}

func (pc *PageController) AdminBookingDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("booking_id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/admin")
		return
	}

	booking, err := pc.Store.GetBooking(uint(id))
	if err != nil {
		c.HTML(http.StatusNotFound, "admin_dashboard.html", gin.H{
			"User":  middlewares.CurrentUser(c),
			"Error": "booking not found",
		})
		return
	}

	messages, err := pc.Store.ListMessages(booking.ID)
	if err != nil {
		utils.ErrorLogger.Printf("booking detail: loading messages: %v", err)
	}

	c.HTML(http.StatusOK, "admin_booking.html", gin.H{
		"User":     middlewares.CurrentUser(c),
		"Booking":  booking,
		"Photos":   booking.GetReferencePhotos(),
		"Messages": messages,
	})
}
