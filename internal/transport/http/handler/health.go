package handler

import "net/http"

// HealthHandler handles liveness and API-info endpoints.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

// InfoEnvelope describes the API for unauthenticated discovery.
type InfoEnvelope struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

func (h *HealthHandler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, InfoEnvelope{
		Message: "SMS API is running",
		Version: "1.0.0",
		Endpoints: map[string]string{
			"register":     "POST /users",
			"login":        "POST /auths",
			"logout":       "DELETE /auths",
			"send_sms":     "POST /messages",
			"get_messages": "GET /users/{id}/messages",
		},
	})
}

func (h *HealthHandler) Up(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, SimpleEnvelope{Message: "ok"})
}
