// handler/health_handler.go
package handler

import (
	"net/http"

	"transfer-service/internal/response"
)

func Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"service": "transfer-service", "health": "ok"})
}
