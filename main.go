package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Psychotichub/report/config"
	"github.com/Psychotichub/report/models"
	"github.com/Psychotichub/report/routes"
	"github.com/Psychotichub/report/sitedb"
	"github.com/Psychotichub/report/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	config.ConnectDB()

	// Only the global account table lives in the main database; tenant
	// schemas migrate lazily on first access.
	if err := config.DB.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("migrate users: %v", err)
	}

	config.SeedManager()

	if s := os.Getenv("JWT_SECRET"); s != "" {
		utils.Secret = []byte(s)
	}

	switch config.Dialect {
	case "postgres":
		sitedb.Init(sitedb.PostgresOpener(config.DB))
	default:
		dir := os.Getenv("SITE_DB_DIR")
		if dir == "" {
			dir = "site_data"
		}
		sitedb.Init(sitedb.SQLiteOpener(dir))
	}

	r := gin.Default()
	routes.SetupRoutes(r)

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Site report API is running"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := sitedb.Shutdown(); err != nil {
		log.Printf("site databases: %v", err)
	}
}
