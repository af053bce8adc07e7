package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/izuleon01/fastserve/internal/service"
)

type MessageResponse struct {
	Message any `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondMessage(w http.ResponseWriter, status int, message any) {
	respondJSON(w, status, MessageResponse{Message: message})
}

// respondError writes err's message with the status it carries.
func respondError(w http.ResponseWriter, err error) {
	status := service.StatusOf(err)
	message := err.Error()
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		log.Printf("unexpected handler error: %v", err)
		message = http.StatusText(status)
	}
	respondMessage(w, status, message)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondMessage(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		respondMessage(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
