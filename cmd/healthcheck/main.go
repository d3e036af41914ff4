package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/NurettinDemirhan/ecopacknav/internal/config"
	"github.com/NurettinDemirhan/ecopacknav/internal/database"
	"github.com/NurettinDemirhan/ecopacknav/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	result := services.HealthCheck(cfg, db, "http://localhost:"+cfg.Port)

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}

	fmt.Println(string(output))

	if result.Status != "healthy" {
		os.Exit(1)
	}
	os.Exit(0)
}
