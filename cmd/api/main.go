package main

import (
	"log"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	avail "studyhall/internal/availability"
	"studyhall/internal/config"
	"studyhall/internal/database"
	"studyhall/internal/middleware"
	"studyhall/internal/modules/admin"
	"studyhall/internal/modules/auth"
	availmod "studyhall/internal/modules/availability"
	"studyhall/internal/modules/booking"
	"studyhall/internal/modules/hall"
	"studyhall/internal/modules/payment"
	jwtsvc "studyhall/internal/pkg/jwt"
	"studyhall/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	userRepo := repository.NewUserRepository(db)
	hallRepo := repository.NewHallRepository(db)
	cabinRepo := repository.NewCabinRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	availStore := repository.NewAvailabilityStore(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	feed := avail.NewFeed(rdb, log.Printf)
	hub := avail.NewHub()
	manager := avail.NewManager(availStore, feed, hub, cfg.Debounce, log.Printf)
	defer manager.Stop()

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	hallService := hall.NewService(hallRepo, cabinRepo, log.Printf)
	hallHandler := hall.NewHandler(hallService)

	bookingService := booking.NewService(bookingRepo, cabinRepo, hallRepo, feed, log.Printf)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(paymentRepo, bookingRepo, bookingService, cfg.Gateway, log.Printf)
	paymentHandler := payment.NewHandler(paymentService)

	adminService := admin.NewService(hallRepo, userRepo, bookingRepo)
	adminHandler := admin.NewHandler(adminService)

	availHandler := availmod.NewHandler(manager)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		hallHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)
		paymentHandler.RegisterRoutes(v1)
		availHandler.RegisterRoutes(v1)

		// authenticated
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterProtectedRoutes(protected)
			paymentHandler.RegisterProtectedRoutes(protected)

			merchant := protected.Group("/")
			merchant.Use(middleware.MerchantOnly())
			{
				hallHandler.RegisterMerchantRoutes(merchant)
				bookingHandler.RegisterMerchantRoutes(merchant)
			}

			adminGroup := protected.Group("/")
			adminGroup.Use(middleware.AdminOnly())
			{
				adminHandler.RegisterAdminRoutes(adminGroup)
			}

			settlement := protected.Group("/")
			settlement.Use(middleware.SettlementOnly())
			{
				adminHandler.RegisterSettlementRoutes(settlement)
			}
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
