package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/inkhaus/studio-app/models"
	"github.com/inkhaus/studio-app/realtime"
	"github.com/inkhaus/studio-app/router"
	"github.com/inkhaus/studio-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupIntegrationDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Booking{},
		&models.ContentImage{},
		&models.SiteSetting{},
		&models.Message{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// TestEndToEndIntegration walks the main flows against the real router:
// 0. seed admin, login -> session cookies
// 1. unauthenticated admin page redirects, authenticated one renders
// 2. client submits the booking wizard with two photos
// 3. admin sees and accepts the booking
// 4. client and admin exchange messages on the thread
func TestEndToEndIntegration(t *testing.T) {
	t.Setenv("STUDIO_UPLOAD_ROOT", t.TempDir())

	db := setupIntegrationDB(t)
	hub := realtime.NewHub()
	r := router.SetupRouter(db, hub)

	// 0. Seed admin and log in.
	hashed, err := bcrypt.GenerateFromPassword([]byte("inkhaus-admin"), bcrypt.MinCost)
	assert.NoError(t, err)
	assert.NoError(t, db.Create(&models.User{
		Name: "Studio Admin", Email: "admin@inkhaus.example", Password: string(hashed),
	}).Error)

	loginBody, _ := json.Marshal(map[string]string{
		"email":    "admin@inkhaus.example",
		"password": "inkhaus-admin",
	})
	req := httptest.NewRequest("POST", "/admin/login", bytes.NewReader(loginBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	adminCookies := w.Result().Cookies()
	assert.NotEmpty(t, adminCookies)

	withAdmin := func(req *http.Request) *http.Request {
		for _, c := range adminCookies {
			req.AddCookie(c)
		}
		return req
	}

	// 1. The gate: anonymous admin page redirects to login, session passes.
	req = httptest.NewRequest("GET", "/admin", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	req = withAdmin(httptest.NewRequest("GET", "/admin", nil))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// 2. Submit the booking wizard.
	form := &bytes.Buffer{}
	writer := multipart.NewWriter(form)
	for k, v := range map[string]string{
		"name": "Jordan", "email": "jordan@example.com", "phone": "555-0101",
		"idea": "sleeve concept", "placement": "forearm", "size": "3-5 inches",
		"is_custom": "true",
	} {
		assert.NoError(t, writer.WriteField(k, v))
	}
	for _, name := range []string{"ref one.png", "ref two.png"} {
		part, err := writer.CreateFormFile("reference_photos", name)
		assert.NoError(t, err)
		_, err = part.Write([]byte("image bytes " + name))
		assert.NoError(t, err)
	}
	assert.NoError(t, writer.Close())

	req = httptest.NewRequest("POST", "/api/bookings", form)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var submitResp struct {
		Data struct {
			models.Booking
			ReferencePhotos []string `json:"reference_photos"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &submitResp))
	booking := submitResp.Data
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.True(t, booking.IsCustom)
	assert.Len(t, booking.ReferencePhotos, 2)
	assert.NotNil(t, booking.ClientToken)
	clientToken := *booking.ClientToken

	// 3. Admin lists pending bookings and accepts this one.
	req = withAdmin(httptest.NewRequest("GET", "/admin/api/bookings?status=pending", nil))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var listResp struct {
		Data []models.Booking `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Len(t, listResp.Data, 1)

	statusBody, _ := json.Marshal(map[string]string{"status": "accepted", "notes": "let's do it"})
	req = withAdmin(httptest.NewRequest("PATCH",
		fmt.Sprintf("/admin/api/bookings/%d/status", booking.ID), bytes.NewReader(statusBody)))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The client sees the new status through their token.
	req = httptest.NewRequest("GET", "/api/bookings/lookup?token="+clientToken, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var lookupResp struct {
		Data models.Booking `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &lookupResp))
	assert.Equal(t, models.BookingStatusAccepted, lookupResp.Data.Status)

	// 4. Messages both ways.
	msgURL := fmt.Sprintf("/api/bookings/%d/messages", booking.ID)

	clientMsg, _ := json.Marshal(map[string]string{"content": "when can we schedule?"})
	req = httptest.NewRequest("POST", msgURL+"?token="+clientToken, bytes.NewReader(clientMsg))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	adminMsg, _ := json.Marshal(map[string]string{"content": "next friday works"})
	req = withAdmin(httptest.NewRequest("POST", msgURL, bytes.NewReader(adminMsg)))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest("GET", msgURL+"?token="+clientToken, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var msgResp struct {
		Data []models.Message `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &msgResp))
	assert.Len(t, msgResp.Data, 2)
	assert.Equal(t, models.SenderClient, msgResp.Data[0].Sender)
	assert.Equal(t, models.SenderAdmin, msgResp.Data[1].Sender)
}

// TestGlobalRequestLimit verifies the per-IP limiter actually wraps the
// registered routes: a burst past the window limit from one address gets 429.
func TestGlobalRequestLimit(t *testing.T) {
	t.Setenv("STUDIO_UPLOAD_ROOT", t.TempDir())

	db := setupIntegrationDB(t)
	r := router.SetupRouter(db, realtime.NewHub())

	limited := false
	for i := 0; i < 60; i++ {
		req := httptest.NewRequest("GET", "/ping", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.True(t, limited, "expected a burst from one IP to be rate limited")
}

// TestBookingPageOpensOnFirstStep checks the server-rendered wizard state:
// the first panel is visible and the rest start hidden.
func TestBookingPageOpensOnFirstStep(t *testing.T) {
	t.Setenv("STUDIO_UPLOAD_ROOT", t.TempDir())

	db := setupIntegrationDB(t)
	r := router.SetupRouter(db, realtime.NewHub())

	req := httptest.NewRequest("GET", "/booking", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `data-current-step="1"`)
	assert.NotContains(t, body, `data-step="1" hidden>`)
	for _, n := range []string{"2", "3", "4"} {
		assert.Contains(t, body, `data-step="`+n+`" hidden>`)
	}
}
