package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"vacationManagement/internal/config"
	"vacationManagement/internal/db"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [up|down|status]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	cmd := "up"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	d, err := db.Connect(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer d.Close()

	switch cmd {
	case "up":
		if err := db.ApplyMigrations(d, cfg.Database.Driver); err != nil {
			log.Fatalf("migrate up: %v", err)
		}
		log.Println("Migrations done.")
	case "down":
		v, err := db.RollbackLast(d, cfg.Database.Driver)
		if err != nil {
			log.Fatalf("migrate down: %v", err)
		}
		if v == 0 {
			log.Println("Nothing to roll back.")
			return
		}
		log.Printf("Rolled back migration %04d.", v)
	case "status":
		applied, err := db.AppliedVersions(d, cfg.Database.Driver)
		if err != nil {
			log.Fatalf("migrate status: %v", err)
		}
		versions := make([]int, 0, len(applied))
		for v := range applied {
			versions = append(versions, v)
		}
		sort.Ints(versions)
		for _, v := range versions {
			fmt.Printf("%04d applied\n", v)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}
