package response

import (
	"encoding/json"
	"net/http"

	"transfer-service/internal/domain"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Status: "success",
		Data:   data,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func Error(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Status:  "error",
		Message: msg,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// Rejection writes a business-rule refusal with its stable code and the
// usage numbers the client needs for messaging.
func Rejection(w http.ResponseWriter, status int, rej *domain.Rejection) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Status:  "error",
		Code:    rej.Code,
		Message: rej.Message,
		Data:    rej,
	}
	_ = json.NewEncoder(w).Encode(resp)
}
