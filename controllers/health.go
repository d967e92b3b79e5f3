package controllers

import (
	"net/http"
	"time"

	"github.com/HarshJain-sudo/oldmachine-backend/utils"
)

// Health is the liveness probe.
func Health(w http.ResponseWriter, r *http.Request) {
	utils.Success(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "oldmachine-backend",
	})
}
