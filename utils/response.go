package utils

import (
	"encoding/json"
	"net/http"
)

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

// RespondSuccess sends the {success:true, ...} envelope domain responses use.
func RespondSuccess(w http.ResponseWriter, statusCode int, payload M) {
	if payload == nil {
		payload = M{}
	}
	payload["success"] = true
	RespondWithJSON(w, statusCode, payload)
}

// RespondFailure reports a domain failure: the HTTP status stays 200 so the
// client reads the success flag and message, per the API contract.
func RespondFailure(w http.ResponseWriter, message string) {
	RespondWithJSON(w, http.StatusOK, M{"success": false, "message": message})
}

type M map[string]interface{}
