package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-erp/meridian-auth/internal/audit"
	"github.com/meridian-erp/meridian-auth/internal/observability"
	"github.com/meridian-erp/meridian-auth/internal/platform/httpx"
	"github.com/meridian-erp/meridian-auth/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	codec     *TokenCodec
	recorder  audit.Recorder
	metrics   *observability.Metrics
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, codec *TokenCodec, recorder audit.Recorder, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		codec:     codec,
		recorder:  recorder,
		metrics:   metrics,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router. The authenticated
// middleware guards /me; the handler itself assumes a principal is present.
func (h *Handler) MountRoutes(r chi.Router, authenticated func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		// Brute-force damping on the credential path, keyed per source IP.
		r.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		r.Post("/login", h.handleLogin)
	})
	r.With(authenticated).Get("/me", h.handleMe)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	// Captcha fields are accepted for client compatibility but not evaluated.
	CaptchaID   string `json:"captchaId,omitempty"`
	CaptchaCode string `json:"captchaCode,omitempty"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "bad request", "malformed json body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "bad request", "username and password are required")
		return
	}

	principal, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		kind := failureKind(err)
		if shared.IsAuthFailure(err) {
			// The specific kind stays in logs and the audit trail only; the
			// client sees one generic message for all three.
			h.logger.Warn("login rejected",
				slog.String("username", req.Username),
				slog.String("kind", kind))
			h.record(r, kind, req.Username)
			h.metrics.LoginOutcome(kind)
			httpx.RespondError(w, err)
			return
		}
		h.logger.Error("login failed", slog.Any("error", err))
		h.metrics.LoginOutcome(kind)
		httpx.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}

	token, err := h.codec.Issue(principal)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "internal error", "")
		return
	}

	h.record(r, audit.KindLoginOK, principal.Username)
	h.metrics.LoginOutcome(audit.KindLoginOK)
	httpx.JSON(w, http.StatusOK, loginResponse{Token: token})
}

type meResponse struct {
	UserID      int64    `json:"userId"`
	Username    string   `json:"username"`
	Authorities []string `json:"authorities"`
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	httpx.JSON(w, http.StatusOK, meResponse{
		UserID:      principal.UserID,
		Username:    principal.Username,
		Authorities: principal.Authorities,
	})
}

// record enqueues an audit event; failures are logged and dropped so the
// login path never blocks on the audit queue.
func (h *Handler) record(r *http.Request, kind, username string) {
	if h.recorder == nil {
		return
	}
	event := audit.Event{
		Username:  username,
		Kind:      kind,
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
		At:        time.Now().UTC(),
	}
	if err := h.recorder.Record(r.Context(), event); err != nil {
		h.logger.Warn("record auth event", slog.Any("error", err))
	}
}

func failureKind(err error) string {
	switch {
	case err == nil:
		return audit.KindLoginOK
	case errors.Is(err, shared.ErrUnknownPrincipal):
		return audit.KindUnknownUser
	case errors.Is(err, shared.ErrInvalidCredentials):
		return audit.KindBadPassword
	case errors.Is(err, shared.ErrAccountLocked):
		return audit.KindAccountLocked
	default:
		return "error"
	}
}
