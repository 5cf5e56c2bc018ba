package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"meetbook/internal/api"
	"meetbook/internal/auth"
	"meetbook/internal/cache"
	"meetbook/internal/calendar"
	"meetbook/internal/logger"
	"meetbook/internal/repository"
	"meetbook/internal/service"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	godotenv.Load()
	logger.Init()
	zlog := logger.Get()
	defer zlog.Sync()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	loc := loadOperatorLocation(zlog)
	availabilityCache := connectCache(zlog)
	adapter := buildCalendarAdapter(zlog)

	meetingRepo := repository.NewMeetingRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	contactRepo := repository.NewContactRepository(db)
	jobRepo := repository.NewJobRepository(db)

	sender := service.NewSenderService(loc)
	availabilitySvc := service.NewAvailabilityService(scheduleRepo, meetingRepo, adapter, availabilityCache, loc)
	bookingSvc := service.NewBookingService(meetingRepo, scheduleRepo, contactRepo, adapter, sender, availabilityCache, loc)
	scheduleSvc := service.NewScheduleService(scheduleRepo, availabilityCache)
	jobSvc := service.NewJobService(jobRepo, sender, loc)

	c := cron.New()
	c.AddFunc("@every 5m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := jobSvc.SendMeetingReminders(ctx); err != nil {
			zlog.Error("reminder sweep failed", zap.Error(err))
		}
	})
	c.Start()
	defer c.Stop()

	bookingHandler := api.NewBookingHandler(availabilitySvc, bookingSvc)
	adminHandler := api.NewAdminHandler(scheduleSvc, bookingSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/availability", bookingHandler.CheckAvailability).Methods("POST")
	r.HandleFunc("/api/meetings", bookingHandler.BookMeeting).Methods("POST")
	r.HandleFunc("/api/meetings/{id}", bookingHandler.GetMeeting).Methods("GET")
	r.HandleFunc("/api/meetings/{id}", bookingHandler.RescheduleMeeting).Methods("PUT")
	r.HandleFunc("/api/meetings/{id}", bookingHandler.CancelMeeting).Methods("DELETE")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware)
	admin.HandleFunc("/working-hours", adminHandler.GetWorkingHours).Methods("GET")
	admin.HandleFunc("/working-hours", adminHandler.UpdateWorkingHours).Methods("PUT")
	admin.HandleFunc("/blocks", adminHandler.ListBlocks).Methods("GET")
	admin.HandleFunc("/blocks", adminHandler.CreateBlock).Methods("POST")
	admin.HandleFunc("/blocks/{id}", adminHandler.DeleteBlock).Methods("DELETE")
	admin.HandleFunc("/meetings/{id}/status", adminHandler.UpdateMeetingStatus).Methods("PATCH")

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	zlog.Info("server running", zap.String("port", port))
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, cors(r))))
}

func loadOperatorLocation(zlog *zap.Logger) *time.Location {
	tz := os.Getenv("OPERATOR_TIMEZONE")
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		zlog.Warn("invalid OPERATOR_TIMEZONE, falling back to UTC", zap.String("tz", tz), zap.Error(err))
		return time.UTC
	}
	return loc
}

func connectCache(zlog *zap.Logger) *cache.AvailabilityCache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zlog.Warn("redis unreachable, availability cache disabled", zap.Error(err))
		return nil
	}
	zlog.Info("availability cache enabled", zap.String("addr", addr))
	return cache.NewAvailabilityCache(client)
}

func buildCalendarAdapter(zlog *zap.Logger) calendar.SyncAdapter {
	adapter, err := calendar.NewGoogleAdapter(context.Background())
	if err != nil {
		if err != calendar.ErrNotConfigured {
			zlog.Warn("google calendar setup failed, running without sync", zap.Error(err))
		} else {
			zlog.Info("google calendar not configured, running without sync")
		}
		return calendar.NewNoopAdapter()
	}
	zlog.Info("google calendar sync enabled")
	return adapter
}
