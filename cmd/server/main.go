package main

import (
	"log"
	"time"

	"invoice-dashboard-backend/internal/cache"
	"invoice-dashboard-backend/internal/config"
	"invoice-dashboard-backend/internal/models"
	"invoice-dashboard-backend/internal/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	config.InitLogger()
	cfg := config.Load()

	db := config.InitDB(cfg)

	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Invoice{},
	); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}

	var routeCache cache.RouteCache
	if cfg.RedisAddr != "" {
		routeCache = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, "invoice-dashboard")
		log.Println("Route cache: redis at", cfg.RedisAddr)
	} else {
		routeCache = cache.NewMemoryCache()
		log.Println("Route cache: in-process")
	}

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, routeCache)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}
