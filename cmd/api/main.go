package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"excursia/internal/appconfig"
	"excursia/internal/config"
	"excursia/internal/database"
	"excursia/internal/middleware"
	"excursia/internal/modules/auth"
	"excursia/internal/modules/booking"
	"excursia/internal/modules/catalog"
	"excursia/internal/modules/complaint"
	"excursia/internal/modules/order"
	"excursia/internal/modules/payment"
	jwtsvc "excursia/internal/pkg/jwt"
	"excursia/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	excursionRepo := repository.NewExcursionRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	refundRepo := repository.NewRefundRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)
	qrRepo := repository.NewQrCodeRepository(db)
	appcfgRepo := repository.NewAppConfigRepository(db)

	appcfg := appconfig.NewStore(appcfgRepo)
	if err := appcfg.Load(context.Background()); err != nil {
		log.Printf("level=warn msg=app config load failed, using defaults err=%v", err)
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	runTx := repository.NewTxRunner(db)
	gateway := payment.NewSandboxGateway(log.Printf)

	paymentService := payment.NewService(orderRepo, txRepo, refundRepo, gateway, appcfg, runTx, log.Printf)
	bookingService := booking.NewService(orderRepo, excursionRepo, qrRepo, paymentService, appcfg, runTx, log.Printf)
	orderService := order.NewService(orderRepo, qrRepo, excursionRepo, paymentService, appcfg, log.Printf)
	complaintService := complaint.NewService(orderRepo, complaintRepo, runTx, log.Printf)
	authService := auth.NewService(userRepo, j)
	catalogService := catalog.NewService(excursionRepo)

	authHandler := auth.NewHandler(authService)
	catalogHandler := catalog.NewHandler(catalogService)
	bookingHandler := booking.NewHandler(bookingService)
	paymentHandler := payment.NewHandler(paymentService)
	orderHandler := order.NewHandler(orderService)
	complaintHandler := complaint.NewHandler(complaintService)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.CORS(), middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", authHandler.Login)
		v1.POST("/auth/register", authHandler.Register)
		v1.GET("/excursions", catalogHandler.ListExcursions)
		v1.GET("/excursions/:id", catalogHandler.GetExcursion)
		v1.GET("/excursions/:id/can-book", bookingHandler.CanBook)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			protected.POST("/orders",
				middleware.RateLimit(rate.Limit(cfg.RateRPS), cfg.RateBurst),
				bookingHandler.CreateOrder)
			protected.GET("/orders", orderHandler.ListOrders)
			protected.POST("/orders/confirm", orderHandler.ConfirmTicket)
			protected.GET("/orders/:id", orderHandler.GetOrder)
			protected.GET("/orders/:id/ticket", orderHandler.Ticket)
			protected.GET("/orders/:id/can-refund", paymentHandler.CanRefund)
			protected.POST("/orders/:id/refund", paymentHandler.Refund)
			protected.GET("/orders/:id/can-complain", complaintHandler.CanComplain)
			protected.POST("/orders/:id/complaint", complaintHandler.File)
			protected.GET("/sales", middleware.RequireRole("partner", "admin"), orderHandler.ListSales)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
