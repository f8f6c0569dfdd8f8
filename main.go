package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"admitboard/config"
	"admitboard/cron"
	"admitboard/database"
	bookingRepo "admitboard/database/repository/booking"
	interviewRepo "admitboard/database/repository/interview"
	slotRepo "admitboard/database/repository/slot"
	"admitboard/handlers"
	"admitboard/middleware"
	"admitboard/routes"
	"admitboard/services/meeting"
	"admitboard/services/scheduling"
	"admitboard/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitLockClient()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.Default())

	// repositories.
	slots := slotRepo.NewMongoSlotRepo(config.AppConfig.DatabaseName)
	interviews := interviewRepo.NewMongoInterviewRepo(config.AppConfig.DatabaseName)
	bookings := bookingRepo.NewMongoBookingRepo(config.AppConfig.DatabaseName)

	if err := slots.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure slot indexes: %v", err)
	}
	if err := interviews.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure interview indexes: %v", err)
	}

	// services.
	provisioner := meeting.NewHTTPProvisioner(
		config.AppConfig.MeetingAPIURL,
		config.AppConfig.MeetingAPIKey,
		time.Duration(config.AppConfig.MeetingTimeoutSeconds)*time.Second,
	)
	locker := scheduling.NewRedisSlotLocker(
		utils.GetLockClient(),
		time.Duration(config.AppConfig.BookingLockTTLSeconds)*time.Second,
		logger,
	)
	reminders := cron.NewReminderScheduler()
	defer reminders.Close()

	lifecycleService := &scheduling.DefaultSlotLifecycleService{
		Slots:  slots,
		Logger: logger,
	}
	coordinator := &scheduling.BookingCoordinator{
		Locks:       locker,
		Slots:       slots,
		Interviews:  interviews,
		Bookings:    bookings,
		Provisioner: provisioner,
		Reminders:   reminders,
		Logger:      logger,
	}

	// Background worker: expiry sweep + reminders.
	cron.InitWorker(slots)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetLockClient()},
		database.MongoClient,
	)

	// handlers and routes.
	slotHandler := handlers.NewSlotHandler(lifecycleService)
	interviewHandler := handlers.NewInterviewHandler(coordinator)

	routes.RegisterHealthRoute(router)
	routes.RegisterSlotRoutes(router, slotHandler, interviewHandler)
	routes.RegisterInterviewRoutes(router, interviewHandler)

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

	logger.Sugar().Info("main: server stopped gracefully")
}
