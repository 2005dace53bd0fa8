package main

import (
	"log"

	"divelink/internal/config"
	"divelink/internal/db"
	"divelink/internal/discussion"
	"divelink/internal/middleware"
	"divelink/internal/router"
	"divelink/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Database
	db.Init(conf.DatabaseURL)

	store := discussion.NewStore(db.DB)
	mailService := services.NewMailService(conf.SMTP)

	storageService, err := services.NewStorageService(conf.MinIO)
	if err != nil {
		// Gallery uploads stay disabled; the boards still work.
		log.Printf("Object storage unavailable: %v", err)
		storageService = nil
	}

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	sessionStore := cookie.NewStore([]byte(conf.SessionSecret))
	r.Use(sessions.Sessions("divelink_session", sessionStore))

	// Middleware
	r.Use(middleware.LoadUser())

	router.RegisterRoutes(r, store, storageService, mailService, conf.SiteURL)

	log.Printf("DiveLink server starting on :%s", conf.Port)
	if err := r.Run(":" + conf.Port); err != nil {
		log.Fatal(err)
	}
}
