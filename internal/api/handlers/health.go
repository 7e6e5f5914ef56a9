package handlers

import "net/http"

type healthStatus struct {
	Status    string            `json:"status"`
	Providers map[string]string `json:"providers"`
	Storage   bool              `json:"storage"`
}

// Health handles GET /healthz. It reports which provider serves each role.
func Health(roles map[string]string, storageEnabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, healthStatus{Status: "ok", Providers: roles, Storage: storageEnabled})
	}
}
