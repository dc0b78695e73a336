package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"barbook/config"
	"barbook/cron"
	"barbook/database"
	appointmentRepoPkg "barbook/database/repository/appointment"
	catalogRepoPkg "barbook/database/repository/catalog"
	scheduleRepoPkg "barbook/database/repository/schedule"
	"barbook/handlers"
	"barbook/middleware"
	"barbook/routes"
	"barbook/services/appointment"
	"barbook/services/availability"
	"barbook/services/booking"
	"barbook/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	scheduleRepo := scheduleRepoPkg.NewMongoScheduleRepo()
	appointmentRepo := appointmentRepoPkg.NewMongoAppointmentRepo()
	catalogRepo := catalogRepoPkg.NewMongoCatalogRepo()

	// Deferred status sweep: queue client for enqueueing, worker for settling.
	taskClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})
	defer taskClient.Close()
	cron.InitStatusSweepWorker(appointmentRepo)

	// services.
	appointmentService := &appointment.DefaultAppointmentService{
		Appointments: appointmentRepo,
		Catalog:      catalogRepo,
		Schedules:    scheduleRepo,
		Tasks:        taskClient,
	}

	availabilitySource := availability.NewLocalSource(scheduleRepo, appointmentRepo)
	availabilityQuery := availability.NewQuery(
		availabilitySource,
		utils.GetCacheClient(),
		time.Duration(config.AppConfig.AvailabilityTTLMinutes)*time.Minute,
	)

	bookingService := &booking.DefaultBookingSessionService{
		Store:        booking.NewRedisSessionStore(utils.GetSessionCacheClient()),
		Catalog:      catalogRepo,
		Availability: availabilityQuery,
		Appointments: appointmentService,
		SessionTTL:   time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute,
		WindowDays:   config.AppConfig.BookingWindowDays,
	}

	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	availabilityHandler := handlers.NewAvailabilityHandler(
		availabilityQuery, scheduleRepo, config.AppConfig.BookingWindowDays, logger)
	catalogHandler := handlers.NewCatalogHandler(catalogRepo, logger)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		// Booking workflow endpoints.
		InitiateSession:    bookingHandler.InitiateSession,
		InitiateReschedule: bookingHandler.InitiateReschedule,
		SelectServices:     bookingHandler.SelectServices,
		SelectBarber:       bookingHandler.SelectBarber,
		SelectDate:         bookingHandler.SelectDate,
		SelectSlot:         bookingHandler.SelectSlot,
		BackSession:        bookingHandler.BackSession,
		ConfirmSession:     bookingHandler.ConfirmSession,
		CancelSession:      bookingHandler.CancelSession,

		// Availability and schedule endpoints.
		GetDayAvailability: availabilityHandler.GetDayAvailability,
		GetBookableDates:   availabilityHandler.GetBookableDates,
		UpsertSchedule:     availabilityHandler.UpsertSchedule,

		// Catalog endpoints.
		GetShopHandler:      catalogHandler.GetShop,
		ListServicesHandler: catalogHandler.ListServices,
		ListBarbersHandler:  catalogHandler.ListBarbers,

		// Appointment endpoints.
		GetAppointmentHandler:    appointmentHandler.GetAppointment,
		ListUpcomingHandler:      appointmentHandler.ListUpcoming,
		ListPastHandler:          appointmentHandler.ListPast,
		CancelAppointmentHandler: appointmentHandler.CancelAppointment,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	database.CloseDB()

	logger.Sugar().Info("main: server stopped gracefully")
}
