package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkhaus/studio-app/middlewares"
	"github.com/inkhaus/studio-app/models"
	"github.com/inkhaus/studio-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Login checks admin credentials and, on success, sets the access and refresh
// token cookies the session gate reads on every request.
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" form:"email" binding:"required"`
		Password string `json:"password" form:"password" binding:"required"`
	}

	if err := c.ShouldBind(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	access, err := utils.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	refresh, err := utils.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.SetCookie(middlewares.AccessTokenCookie, access, middlewares.CookieMaxAge, "/", "", false, true)
	c.SetCookie(middlewares.RefreshTokenCookie, refresh, middlewares.CookieMaxAge, "/", "", false, true)

	utils.InfoLogger.Printf("admin login: %s", user.Email)

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"redirect": "/admin",
	})
}

// Logout revokes the refresh token and clears both cookies.
func (uc *UserController) Logout(c *gin.Context) {
	if refresh, err := c.Cookie(middlewares.RefreshTokenCookie); err == nil && refresh != "" {
		utils.BlacklistToken(refresh)
	}

	c.SetCookie(middlewares.AccessTokenCookie, "", -1, "/", "", false, true)
	c.SetCookie(middlewares.RefreshTokenCookie, "", -1, "/", "", false, true)

	c.Redirect(http.StatusFound, "/admin/login")
}

// GetProfile returns the authenticated admin attached by the session gate.
func (uc *UserController) GetProfile(c *gin.Context) {
	user := middlewares.CurrentUser(c)
	if user == nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("not authenticated"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}
