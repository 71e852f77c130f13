package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/inkhaus/studio-app/config"
	"github.com/inkhaus/studio-app/models"
	"github.com/inkhaus/studio-app/realtime"
	"github.com/inkhaus/studio-app/router"
	"github.com/inkhaus/studio-app/utils"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to open database handle: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)
	seedAdmin(db)

	hub := realtime.NewHub()

	r := router.SetupRouter(db, hub)

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Booking{},
		&models.ContentImage{},
		&models.SiteSetting{},
		&models.Message{},
	)
	if err != nil {
		// With no database configured the handle points nowhere; keep serving
		// so static pages still render, every data call will report the
		// connectivity error.
		utils.ErrorLogger.Printf("AutoMigrate failed: %v", err)
		return
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}

// seedAdmin creates the admin account on first boot. There is no public
// registration endpoint.
func seedAdmin(db *gorm.DB) {
	email := os.Getenv("STUDIO_ADMIN_EMAIL")
	password := os.Getenv("STUDIO_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil || count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.ErrorLogger.Printf("Failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		Name:     "Studio Admin",
		Email:    email,
		Password: string(hashed),
	}
	if err := db.Create(&admin).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to seed admin user: %v", err)
		return
	}
	utils.InfoLogger.Printf("Seeded admin account %s", email)
}
