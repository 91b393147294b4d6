package handlers

import (
	"encoding/json"
	"net/http"

	"medchat-backend/internal/models"
)

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(detail string) models.ErrorResponse {
	return models.ErrorResponse{Detail: detail}
}
