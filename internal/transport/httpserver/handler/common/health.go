package common

import "net/http"

type healthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.storage != nil {
		if err := h.storage.Ping(r.Context()); err != nil {
			h.log.InternalError("health: storage ping failed", err)
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", Storage: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Storage: "ok"})
}
