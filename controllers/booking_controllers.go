package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkhaus/studio-app/models"
	"github.com/inkhaus/studio-app/storage"
	"github.com/inkhaus/studio-app/store"
	"github.com/inkhaus/studio-app/utils"
)

type BookingController struct {
	Store   *store.Store
	Storage *storage.DiskStore
}

func NewBookingController(st *store.Store, objects *storage.DiskStore) *BookingController {
	return &BookingController{Store: st, Storage: objects}
}

// SubmitBooking is the wizard's final submission: all reference photos are
// uploaded concurrently, joined, and only then is the booking row inserted
// with the photo URLs in the order the files were selected. If any upload
// fails the row is never inserted; objects that did upload are left in place
// (the client re-submits with the same files).
func (bc *BookingController) SubmitBooking(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(20 << 20); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("error processing form"))
		return
	}

	name := c.PostForm("name")
	email := c.PostForm("email")
	idea := c.PostForm("idea")
	if name == "" || email == "" || idea == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("name, email and idea are required"))
		return
	}

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files = form.File["reference_photos"]
	}

	urls, err := bc.uploadReferencePhotos(files)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	token := bc.Store.NewClientToken()
	booking := models.Booking{
		Name:        name,
		Email:       email,
		Phone:       c.PostForm("phone"),
		Idea:        idea,
		Placement:   c.PostForm("placement"),
		Size:        c.PostForm("size"),
		IsCustom:    c.PostForm("is_custom") == "true" || c.PostForm("is_custom") == "on",
		Status:      models.BookingStatusPending,
		ClientToken: &token,
	}
	if err := booking.SetReferencePhotos(urls); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := bc.Store.CreateBooking(&booking); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("new booking %d from %s (%d photos)", booking.ID, booking.Email, len(urls))

	utils.RespondJSON(c, http.StatusCreated, "Booking submitted", booking)
}

// uploadReferencePhotos runs all uploads concurrently and joins them. The
// result slice is indexed by selection order so the stored URL list is
// deterministic regardless of upload completion order.
func (bc *BookingController) uploadReferencePhotos(files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i, fileHeader := range files {
		wg.Add(1)
		go func(i int, fileHeader *multipart.FileHeader) {
			defer wg.Done()

			f, err := fileHeader.Open()
			if err != nil {
				errs[i] = err
				return
			}
			defer f.Close()

			result, err := bc.Storage.Upload(storage.BucketReferencePhotos, fileHeader.Filename, f)
			if err != nil {
				errs[i] = err
				return
			}
			urls[i] = result.PublicURL
		}(i, fileHeader)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("uploading %s: %w", files[i].Filename, err)
		}
	}
	return urls, nil
}

// LookupByToken resolves a client-access token to its booking. An unknown
// token is a normal miss, reported as a null result, not an error.
func (bc *BookingController) LookupByToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("query parameter 'token' is required"))
		return
	}

	booking, err := bc.Store.GetBookingByToken(token)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if booking == nil {
		utils.RespondJSON(c, http.StatusOK, "No booking for token", nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking found", booking)
}

// GetAllBookings lists bookings for the admin dashboard, optionally filtered
// by ?status=.
func (bc *BookingController) GetAllBookings(c *gin.Context) {
	bookings, err := bc.Store.ListBookings(c.Query("status"))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of bookings", bookings)
}

// GetBookingByID is the admin hard lookup; an unknown id is a 404.
func (bc *BookingController) GetBookingByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("booking_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid booking id"))
		return
	}

	booking, err := bc.Store.GetBooking(uint(id))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking detail", booking)
}

// UpdateBookingStatus sets the status tag and optionally replaces the admin
// notes. Omitting notes leaves them untouched.
func (bc *BookingController) UpdateBookingStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("booking_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid booking id"))
		return
	}

	var input struct {
		Status string  `json:"status" binding:"required"`
		Notes  *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	switch input.Status {
	case models.BookingStatusPending, models.BookingStatusAccepted, models.BookingStatusDenied:
	default:
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid status"))
		return
	}

	booking, err := bc.Store.UpdateBookingStatus(uint(id), input.Status, input.Notes)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking status updated", booking)
}

// UpdateBooking applies an arbitrary partial field set (price, schedule,
// contact corrections). Reachable only behind the admin gate.
func (bc *BookingController) UpdateBooking(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("booking_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid booking id"))
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	delete(fields, "id")
	delete(fields, "created_at")

	if raw, ok := fields["scheduled_date"].(string); ok {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("scheduled_date must be RFC 3339"))
			return
		}
		fields["scheduled_date"] = parsed
	}

	booking, err := bc.Store.UpdateBooking(uint(id), fields)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking updated", booking)
}
