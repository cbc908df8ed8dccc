package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	jwttoken "regnet/internal/jwt_token"
	dErrors "regnet/pkg/domain-errors"
	"regnet/pkg/platform/httputil"
	authmw "regnet/pkg/platform/middleware/auth"
	request "regnet/pkg/platform/middleware/request"
	"regnet/pkg/requestcontext"
)

// TokenService issues and parses caller identity tokens.
type TokenService interface {
	GenerateAccessToken(subject, role string, expiresIn time.Duration) (string, *jwttoken.Claims, error)
	ValidateToken(tokenString string) (*jwttoken.Claims, error)
}

// TokenRevoker records revoked token IDs until the token would have expired.
type TokenRevoker interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
}

type issueTokenRequest struct {
	Subject string `json:"subject"`
	Role    string `json:"role"`
}

type issueTokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	JTI         string    `json:"jti"`
}

type revokeTokenRequest struct {
	Token string `json:"token"`
}

// TokenHandler is the operator surface for caller identities. It stands in
// for the network's identity issuer in single-host deployments.
type TokenHandler struct {
	logger  *slog.Logger
	tokens  TokenService
	revoker TokenRevoker
	ttl     time.Duration
}

func NewTokenHandler(tokens TokenService, revoker TokenRevoker, ttl time.Duration, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{logger: logger, tokens: tokens, revoker: revoker, ttl: ttl}
}

func (h *TokenHandler) Register(r chi.Router) {
	r.Post("/tokens", h.handleIssue)
	r.Post("/tokens/revoke", h.handleRevoke)
}

func (h *TokenHandler) handleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req issueTokenRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Role != authmw.RoleUser && req.Role != authmw.RoleRegistrar {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "role must be user or registrar"))
		return
	}

	token, claims, err := h.tokens.GenerateAccessToken(req.Subject, req.Role, h.ttl)
	if err != nil {
		h.fail(ctx, w, "issue token", err)
		return
	}

	h.logger.InfoContext(ctx, "token_issued",
		"log_type", "audit",
		"subject", req.Subject,
		"role", req.Role,
		"jti", claims.ID,
		"request_id", request.GetRequestID(ctx),
	)
	httputil.WriteJSON(w, http.StatusCreated, issueTokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   claims.ExpiresAt.Time,
		JTI:         claims.ID,
	})
}

func (h *TokenHandler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req revokeTokenRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	claims, err := h.tokens.ValidateToken(req.Token)
	if err != nil {
		// Expired or forged tokens are already unusable.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ttl := claims.ExpiresAt.Sub(requestcontext.Now(ctx))
	if ttl > 0 {
		if err := h.revoker.RevokeToken(ctx, claims.ID, ttl); err != nil {
			h.fail(ctx, w, "revoke token", err)
			return
		}
	}

	h.logger.InfoContext(ctx, "token_revoked",
		"log_type", "audit",
		"subject", claims.Subject,
		"jti", claims.ID,
		"request_id", request.GetRequestID(ctx),
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *TokenHandler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	logFailure(ctx, h.logger, op, err)
	httputil.WriteError(w, err)
}
