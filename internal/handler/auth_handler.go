package handler

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/suar-net/usage-pricing-be/internal/metrics"
	"github.com/suar-net/usage-pricing-be/internal/model"
	"github.com/suar-net/usage-pricing-be/internal/service"
)

const invalidCredentialsMessage = "Incorrect username or password"

type AuthHandler struct {
	authService service.IAuthService
	metrics     *metrics.Metrics
	logger      logrus.FieldLogger
}

func NewAuthHandler(s service.IAuthService, m *metrics.Metrics, l logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		authService: s,
		metrics:     m,
		logger:      l,
	}
}

// Login expects an application/x-www-form-urlencoded body with username and
// password, in the shape of an OAuth2 password grant.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid form payload")
		return
	}

	req := model.DTOLoginRequest{
		Username:  r.PostForm.Get("username"),
		Password:  r.PostForm.Get("password"),
		GrantType: r.PostForm.Get("grant_type"),
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, ValidationError(err))
		return
	}

	resp, err := h.authService.IssueToken(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.metrics.RecordLogin(metrics.LoginFailure)
			respondUnauthorized(w, invalidCredentialsMessage)
		} else {
			h.metrics.RecordLogin(metrics.LoginError)
			respondServerError(w, r, h.logger, "Failed to login user", err)
		}
		return
	}

	h.metrics.RecordLogin(metrics.LoginSuccess)
	respondWithJson(w, http.StatusOK, resp)
}
