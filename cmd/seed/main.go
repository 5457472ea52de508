package main

import (
	"context"
	"log"

	"vacationManagement/internal/config"
	"vacationManagement/internal/db"
	"vacationManagement/internal/seed"
	"vacationManagement/repository"
)

func main() {
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	d, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer d.Close()

	log.Println("Seeding database...")
	s := &seed.Seeder{
		Users:     repository.NewUserRepository(d),
		Vacations: repository.NewVacationRepository(d),
	}
	if err := s.Run(context.Background()); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Println("Seeding done.")
}
