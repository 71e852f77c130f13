package config

import (
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// placeholderDSN is used when no database credential is configured at all.
// The handle still constructs (the driver connects lazily), so a build or
// boot without secrets does not crash; every query against it fails with a
// connectivity error instead.
const placeholderDSN = "studio:studio@tcp(127.0.0.1:0)/studio?parseTime=true"

// InitDB opens the shared database handle. STUDIO_DB_DSN is the elevated
// server-side credential and wins when present; STUDIO_DB_DSN_PUBLIC is the
// restricted fallback.
func InitDB() (*gorm.DB, error) {
	dsn := os.Getenv("STUDIO_DB_DSN")
	if dsn == "" {
		dsn = os.Getenv("STUDIO_DB_DSN_PUBLIC")
	}

	if dsn == "" {
		return gorm.Open(mysql.New(mysql.Config{
			DSN:                       placeholderDSN,
			SkipInitializeWithVersion: true,
		}), &gorm.Config{
			DisableAutomaticPing: true,
		})
	}

	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// SiteBaseURL is the externally visible origin, used to build public upload
// URLs.
func SiteBaseURL() string {
	if url := os.Getenv("STUDIO_BASE_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

// UploadRoot is the directory backing the object storage buckets.
func UploadRoot() string {
	if root := os.Getenv("STUDIO_UPLOAD_ROOT"); root != "" {
		return root
	}
	return "public/uploads"
}
