package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkhaus/studio-app/models"
	"github.com/inkhaus/studio-app/utils"
	"gorm.io/gorm"
)

const (
	AccessTokenCookie  = "studio_access_token"
	RefreshTokenCookie = "studio_refresh_token"

	// CookieMaxAge covers the refresh token lifetime; the access token inside
	// its cookie expires on its own schedule.
	CookieMaxAge = 30 * 24 * 60 * 60

	adminPrefix = "/admin"
	loginPath   = "/admin/login"
	apiPrefix   = "/admin/api"
)

// SessionMiddleware runs on every request. It first hydrates the session from
// the token cookies, regardless of path, so any downstream handler can rely on
// an authenticated identity being present when one exists. It then gates
// everything under /admin except the login path itself: page requests without
// a session are redirected to the login page, API requests get 401, and the
// gated handler never runs.
func SessionMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := hydrateSession(c, db)
		if user != nil {
			c.Set("user", user)
			c.Set("userID", user.ID)
		}

		path := c.Request.URL.Path
		if strings.HasPrefix(path, adminPrefix) && strings.TrimSuffix(path, "/") != loginPath {
			if user == nil {
				if strings.HasPrefix(path, apiPrefix) {
					utils.RespondError(c, http.StatusUnauthorized, errors.New("authentication required"))
				} else {
					c.Redirect(http.StatusFound, loginPath)
				}
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// hydrateSession resolves the current user from the access cookie, falling
// back to the refresh cookie. A successful refresh rotates a fresh access
// cookie onto the response.
func hydrateSession(c *gin.Context, db *gorm.DB) *models.User {
	if access, err := c.Cookie(AccessTokenCookie); err == nil && access != "" {
		if claims, err := utils.ParseToken(access); err == nil && claims.TokenType == utils.TokenTypeAccess {
			if user := loadUser(db, claims.UserID); user != nil {
				return user
			}
		}
	}

	refresh, err := c.Cookie(RefreshTokenCookie)
	if err != nil || refresh == "" {
		return nil
	}
	if utils.IsTokenBlacklisted(refresh) {
		return nil
	}
	claims, err := utils.ParseToken(refresh)
	if err != nil || claims.TokenType != utils.TokenTypeRefresh {
		return nil
	}
	user := loadUser(db, claims.UserID)
	if user == nil {
		return nil
	}

	access, err := utils.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		utils.ErrorLogger.Printf("failed to rotate access token for user %d: %v", user.ID, err)
		return nil
	}
	c.SetCookie(AccessTokenCookie, access, CookieMaxAge, "/", "", false, true)
	return user
}

func loadUser(db *gorm.DB, id uint) *models.User {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return nil
	}
	return &user
}

// CurrentUser reads the authenticated user the gate attached to the request
// context, if any.
func CurrentUser(c *gin.Context) *models.User {
	v, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
