// @title Habitry API
// @description API for habit-tracker app "Habitry": habits, sub-habits, progress logs and streak stats
// @BasePath /api/v1
// @schemes http
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/okudrin/habitry/internal/api"
	"github.com/okudrin/habitry/internal/repository"
	"github.com/okudrin/habitry/internal/scheduler"
	"github.com/okudrin/habitry/internal/service"
	"github.com/okudrin/habitry/pkg/cleanup"
	"github.com/okudrin/habitry/pkg/config"
	jwtservice "github.com/okudrin/habitry/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	habitsRepo := repository.NewHabitsRepo(&dbCfg)
	userService := service.NewUserService(repository.NewUsersRepo(&dbCfg))
	habitsService := service.NewHabitsService(habitsRepo)
	trackingService := service.NewTrackingService(habitsRepo, repository.NewLogsRepo(&dbCfg))

	// Evening reminder about streaks with no log yet
	checker, err := scheduler.NewStreakChecker(habitsRepo, cfg.GetStringOr("STREAK_CHECK_SCHEDULE", "0 20 * * *"))
	if err != nil {
		log.Fatal("creating streak checker error: " + err.Error())
	}
	if err = checker.Start(); err != nil {
		log.Fatal("starting streak checker error: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "stopping streak checker",
		F:    checker.Stop,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cleanup.CleanUp()
		os.Exit(0)
	}()

	serv := api.New(&api.ServicesList{
		UserService:     userService,
		HabitsService:   habitsService,
		TrackingService: trackingService,
		JwtService:      jwtservice.New(cfg.GetString("JWT_SECRET")),
	})
	err = serv.Run(cfg.GetStringOr("API_ADDRESS", ":8080"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
