package services

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/config"
	"github.com/NurettinDemirhan/ecopacknav/internal/utils"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Server       string            `json:"server,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck performs a health check of the service. serviceURL, when not
// empty, is probed for a reachable HTTP listener.
func HealthCheck(cfg *config.Config, db *gorm.DB, serviceURL string) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		log.Printf("Health check failed - database connection: %v", err)
		return result
	}

	if err := sqlDB.Ping(); err != nil {
		result.Status = "unhealthy"
		result.Database = "unreachable"
		result.Details["database_ping_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
		log.Printf("Health check failed - database ping: %v", err)
		return result
	}

	result.Database = "ok"
	result.Details["database_type"] = cfg.DBType
	result.Details["database_name"] = cfg.DBDatabase

	if serviceURL != "" {
		if err := utils.PingService(serviceURL, 3*time.Second); err != nil {
			result.Status = "unhealthy"
			result.Server = "unreachable"
			result.Details["server_ping_error"] = err.Error()
			result.ErrorMessage = fmt.Sprintf("Server ping failed: %v", err)
			log.Printf("Health check failed - server ping: %v", err)
			return result
		}
		result.Server = "ok"
	}

	return result
}
