package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/sohail-1209/learnx/internal/config"
	"github.com/sohail-1209/learnx/internal/handlers"
	"github.com/sohail-1209/learnx/internal/middleware"
	"github.com/sohail-1209/learnx/internal/services"
	notifyws "github.com/sohail-1209/learnx/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool, log *logrus.Logger) {
	hub := notifyws.NewHub(log)
	go hub.Run()

	ledgerService := services.NewLedgerService(db)
	notificationService := services.NewNotificationService(db, hub, log)
	bookingService := services.NewBookingService(db, ledgerService, notificationService, log)
	sessionService := services.NewSessionService(db)
	courseService := services.NewCourseService(db)
	reviewService := services.NewReviewService(db, notificationService)

	authHandler := handlers.NewAuthHandler(db, cfg.JWTSecret)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	walletHandler := handlers.NewWalletHandler(ledgerService)
	courseHandler := handlers.NewCourseHandler(courseService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, hub, cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	protected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	sessions := protected.Group("/sessions")
	sessions.Get("", sessionHandler.ListSessions)
	sessions.Get("/available", sessionHandler.ListSessions)
	sessions.Post("", middleware.TeacherRequired(), sessionHandler.CreateSession)
	sessions.Get("/:id", sessionHandler.GetSession)
	sessions.Post("/:id/book", bookingHandler.BookSession)
	sessions.Put("/:id/cancel", middleware.TeacherRequired(), bookingHandler.CancelSession)

	bookings := protected.Group("/bookings")
	bookings.Get("", bookingHandler.ListBookings)
	bookings.Put("/:id/cancel", bookingHandler.CancelBooking)

	courses := protected.Group("/courses")
	courses.Get("", courseHandler.ListCourses)
	courses.Post("", middleware.TeacherRequired(), courseHandler.CreateCourse)
	courses.Get("/:id", courseHandler.GetCourse)
	courses.Post("/:id/enroll", bookingHandler.EnrollInCourse)

	wallet := protected.Group("/wallet")
	wallet.Get("", walletHandler.GetWallet)
	wallet.Post("/deposit", walletHandler.Deposit)
	wallet.Post("/withdraw", walletHandler.Withdraw)
	wallet.Get("/transactions", walletHandler.ListTransactions)

	reviews := protected.Group("/reviews")
	reviews.Post("", reviewHandler.SubmitReview)
	reviews.Delete("/:id", reviewHandler.DeleteReview)
	reviews.Get("/:itemType/:itemId", reviewHandler.ListReviews)

	notifications := protected.Group("/notifications")
	notifications.Get("", notificationHandler.ListNotifications)
	notifications.Put("/:id/read", notificationHandler.MarkRead)

	api.Use("/v1/ws", notificationHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(notificationHandler.HandleWebSocket))
}
