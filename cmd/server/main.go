package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/class-session-booking/internal/booking"
	"github.com/iliyamo/class-session-booking/internal/config"
	"github.com/iliyamo/class-session-booking/internal/database"
	"github.com/iliyamo/class-session-booking/internal/handler"
	"github.com/iliyamo/class-session-booking/internal/middleware"
	"github.com/iliyamo/class-session-booking/internal/queue"
	"github.com/iliyamo/class-session-booking/internal/repository"
	"github.com/iliyamo/class-session-booking/internal/router"
	queuepublisher "github.com/iliyamo/class-session-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(db, "migrations"); err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis is optional: when unreachable, rate limiting and response
	// caching are disabled and the API still serves.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, rate limiting and caching disabled")
	}

	sessions := repository.NewSessionRepo(db)
	venues := repository.NewVenueRepo(db)
	bookings := repository.NewBookingRepo(db)
	parents := repository.NewParentAccountRepo(db)
	staff := repository.NewStaffRepo(db)
	tokens := repository.NewTokenRepo(db)

	svc := booking.NewService(db, sessions, bookings, parents, staff,
		cfg.BcryptCost, queuepublisher.PublishBookingCreated)

	authH := handler.NewAuthHandler(cfg, staff, parents, tokens)
	bookingH := handler.NewBookingHandler(svc)
	scheduleH := handler.NewScheduleHandler(venues, sessions)
	publicH := &handler.PublicHandler{Venues: venues, Sessions: sessions}

	var rateLimit, cache echo.MiddlewareFunc
	if rdb != nil {
		rateLimit = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
		cache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, bookingH, rateLimit, cache)
	router.RegisterParent(e, bookingH, cfg.JWTSecret)
	router.RegisterStaff(e, bookingH, scheduleH, cfg.JWTSecret)

	// Background consumer appends booking confirmations to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking-consumer: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
