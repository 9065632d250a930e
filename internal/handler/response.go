package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/suar-net/usage-pricing-be/internal/observability"
)

// respondWithError sends {"error": message} with the given status.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJson(w, code, map[string]string{"error": message})
}

// respondUnauthorized is the single 401 path; it always carries the bearer
// challenge.
func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	respondWithError(w, http.StatusUnauthorized, message)
}

// respondServerError logs and reports an unexpected failure, then hides its
// details from the client.
func respondServerError(w http.ResponseWriter, r *http.Request, logger logrus.FieldLogger, message string, err error) {
	logger.WithError(err).WithField("path", r.URL.Path).Error(message)
	observability.CaptureError(r, err)
	respondWithError(w, http.StatusInternalServerError, message)
}

func respondWithJson(w http.ResponseWriter, code int, payload interface{}) {
	dat, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(dat)
}
