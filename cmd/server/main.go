package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/brfkastanjen/member-portal/internal/config"
	"github.com/brfkastanjen/member-portal/internal/database"
	"github.com/brfkastanjen/member-portal/internal/handler"
	"github.com/brfkastanjen/member-portal/internal/maintenance"
	"github.com/brfkastanjen/member-portal/internal/middleware"
	"github.com/brfkastanjen/member-portal/internal/queue"
	"github.com/brfkastanjen/member-portal/internal/repository"
	"github.com/brfkastanjen/member-portal/internal/router"
	"github.com/brfkastanjen/member-portal/internal/storage"
)

func main() {
	// .env is optional; in production the variables come from the
	// environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	store, err := storage.NewStore(cfg.StorageRoot, cfg.StorageSecret)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	// Redis is optional; nil disables the limiter and cache.
	rdb := config.NewRedisClient()
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	sections := repository.NewSectionRepo(db)
	bookings := repository.NewBookingRepo(db)
	meetings := repository.NewMeetingRepo(db)

	guard := &storage.DownloadGuard{}

	authH := handler.NewAuthHandler(cfg, users, tokens)
	adminUserH := handler.NewAdminUserHandler(cfg, users)
	sectionH := handler.NewSectionHandler(sections)
	bookingH := handler.NewBookingHandler(bookings)
	meetingH := handler.NewMeetingHandler(cfg, meetings, store, guard)

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, limiter)
	router.RegisterMember(e, sectionH, bookingH, meetingH, cfg.JWTSecret, cache)
	router.RegisterAdmin(e, adminUserH, sectionH, bookingH, meetingH, cfg.JWTSecret)

	// Background consumer for booking status notifications.
	go func() {
		if err := queue.StartStatusConsumer(); err != nil {
			log.Printf("status consumer stopped: %v", err)
		}
	}()

	cronJobs, err := maintenance.Start("", tokens, store)
	if err != nil {
		log.Fatalf("maintenance: %v", err)
	}
	defer cronJobs.Stop()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
