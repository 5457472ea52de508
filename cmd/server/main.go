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

	"github.com/gin-gonic/gin"

	"vacationManagement/internal/auth"
	"vacationManagement/internal/config"
	"vacationManagement/internal/db"
	grpcserver "vacationManagement/internal/grpc"
	"vacationManagement/internal/handlers"
	"vacationManagement/internal/metrics"
	"vacationManagement/internal/routes"
	"vacationManagement/internal/users"
	"vacationManagement/internal/vacation"
	"vacationManagement/pkg/redis"
	"vacationManagement/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.Printf("Configuration loaded: %v", cfg)

	// Open DB
	d, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Printf("close db: %v", err)
		}
	}()

	// Session store
	rdb, err := redis.NewClient(context.Background(), cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("close redis: %v", err)
		}
	}()

	userRepo := repository.NewUserRepository(d)
	vacationRepo := repository.NewVacationRepository(d)
	m := metrics.New()

	sessions := auth.NewSessions(rdb, userRepo, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	userSvc := users.NewService(userRepo)
	vacationSvc := vacation.NewService(vacationRepo, vacation.Options{
		StrictTransitions: cfg.Vacations.StrictTransitions,
		Recorder:          m,
	})

	// Start gRPC
	var shutdownGRPC func(context.Context) error
	if cfg.GRPC.Address != "" {
		shutdownGRPC, err = grpcserver.StartGRPC(cfg, sessions, &grpcserver.VacationServer{
			Vacations: vacationSvc,
			Users:     userSvc,
			Sessions:  sessions,
		})
		if err != nil {
			log.Fatalf("start grpc: %v", err)
		}
		log.Printf("gRPC server listening on %s", cfg.GRPC.Address)
	}

	// Start HTTP
	gin.SetMode(cfg.HTTP.Mode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	routes.Setup(router, routes.Handlers{
		Auth:     handlers.NewAuthHandler(userSvc, sessions, handlers.NewCookieHelper(cfg.Auth.Cookie)),
		Vacation: handlers.NewVacationHandler(vacationSvc),
		User:     handlers.NewUserHandler(userSvc),
		Health: handlers.NewHealthHandler(map[string]handlers.Check{
			"database": d.PingContext,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
	}, sessions, cfg, m)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()
	log.Printf("HTTP server listening on %s", cfg.HTTP.Address)

	// Wait for signal
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if shutdownGRPC != nil {
		if err := shutdownGRPC(ctx); err != nil {
			log.Printf("grpc shutdown error: %v", err)
		}
	}
}
