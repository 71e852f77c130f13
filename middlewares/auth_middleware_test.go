package middlewares

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/inkhaus/studio-app/models"
	"github.com/inkhaus/studio-app/utils"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupGateTest(t *testing.T) (*gin.Engine, *gorm.DB, *bool) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	r := gin.New()
	r.Use(SessionMiddleware(db))

	dashboardRan := false
	r.GET("/admin/dashboard", func(c *gin.Context) {
		dashboardRan = true
		user := CurrentUser(c)
		if user == nil {
			c.String(http.StatusInternalServerError, "no user in context")
			return
		}
		c.String(http.StatusOK, "hello %s", user.Email)
	})
	r.GET("/admin/login", func(c *gin.Context) {
		c.String(http.StatusOK, "login page")
	})
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "public")
	})
	r.GET("/admin/api/bookings", func(c *gin.Context) {
		c.String(http.StatusOK, "bookings")
	})

	return r, db, &dashboardRan
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	assert.NoError(t, err)
	user := models.User{Name: "Admin", Email: "admin@inkhaus.example", Password: string(hashed)}
	assert.NoError(t, db.Create(&user).Error)
	return user
}

func TestUnauthenticatedAdminPageRedirects(t *testing.T) {
	r, _, dashboardRan := setupGateTest(t)

	req := httptest.NewRequest("GET", "/admin/dashboard", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))
	assert.False(t, *dashboardRan, "gated handler must never run")
}

func TestLoginPathIsExemptWhileUnauthenticated(t *testing.T) {
	r, _, _ := setupGateTest(t)

	req := httptest.NewRequest("GET", "/admin/login", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "login page", w.Body.String())
}

func TestPublicPathsAreNeverGated(t *testing.T) {
	r, _, _ := setupGateTest(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidAccessCookiePopulatesContext(t *testing.T) {
	r, db, dashboardRan := setupGateTest(t)
	user := seedUser(t, db)

	access, err := utils.GenerateAccessToken(user.ID, user.Email)
	assert.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: access})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello admin@inkhaus.example", w.Body.String())
	assert.True(t, *dashboardRan)
}

func TestRefreshCookieRotatesAccessToken(t *testing.T) {
	r, db, _ := setupGateTest(t)
	user := seedUser(t, db)

	refresh, err := utils.GenerateRefreshToken(user.ID, user.Email)
	assert.NoError(t, err)

	// Only the refresh cookie present: the session still hydrates and a fresh
	// access cookie is set on the response.
	req := httptest.NewRequest("GET", "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: refresh})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	rotated := false
	for _, c := range w.Result().Cookies() {
		if c.Name == AccessTokenCookie && c.Value != "" {
			rotated = true
		}
	}
	assert.True(t, rotated, "expected a fresh access cookie")
}

func TestBlacklistedRefreshTokenIsRejected(t *testing.T) {
	r, db, _ := setupGateTest(t)
	user := seedUser(t, db)

	refresh, err := utils.GenerateRefreshToken(user.ID, user.Email)
	assert.NoError(t, err)
	utils.BlacklistToken(refresh)

	req := httptest.NewRequest("GET", "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: refresh})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
}

func TestAdminAPIGets401NotRedirect(t *testing.T) {
	r, _, _ := setupGateTest(t)

	req := httptest.NewRequest("GET", "/admin/api/bookings", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGarbageCookiesAreIgnored(t *testing.T) {
	r, _, dashboardRan := setupGateTest(t)

	req := httptest.NewRequest("GET", "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "not-a-jwt"})
	req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "also-not-a-jwt"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.False(t, *dashboardRan)
}
