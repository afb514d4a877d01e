package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/damoah/buildflow/internal/auth"
	"github.com/damoah/buildflow/internal/config"
	"github.com/damoah/buildflow/internal/model"
	"github.com/damoah/buildflow/internal/repository"
	"github.com/damoah/buildflow/internal/utils"
)

// Authenticator resolves an identifier/password pair to a credential.
// Satisfied by *auth.Resolver.
type Authenticator interface {
	Authenticate(ctx context.Context, identifier, password string) (*model.LoginCredential, error)
}

// CredentialReader loads credentials by id (refresh and /me flows).
type CredentialReader interface {
	GetByID(ctx context.Context, id uint64) (*model.LoginCredential, error)
}

// TokenStore persists and validates refresh token hashes.
type TokenStore interface {
	StoreRefresh(ctx context.Context, credentialID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForCredential(ctx context.Context, credentialID uint64) error
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg         config.Config
	Auth        Authenticator
	Credentials CredentialReader
	Tokens      TokenStore
}

func NewAuthHandler(cfg config.Config, a Authenticator, cr CredentialReader, t TokenStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Auth: a, Credentials: cr, Tokens: t}
}

// ----- DTOs -----

type loginReq struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type userPart struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email,omitempty"`
	Username  string `json:"username,omitempty"`
	Role      string `json:"role"`
	ProfileID uint64 `json:"profile_id"`
	Name      string `json:"name"`
}

func toUserPart(c *model.LoginCredential) userPart {
	return userPart{
		ID:        c.ID,
		Email:     c.Email.String,
		Username:  c.Username.String,
		Role:      c.Role,
		ProfileID: c.ProfileID,
		Name:      c.Name,
	}
}

// Login resolves the credentials (migrating legacy accounts on the way)
// and returns the user plus a fresh session token pair. The effective
// identifier is the first non-empty of identifier, username, email.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email or username and password are required"})
	}
	ident := ""
	for _, v := range []string{req.Identifier, req.Username, req.Email} {
		if s := strings.TrimSpace(v); s != "" {
			ident = s
			break
		}
	}
	if ident == "" || req.Password == "" {
		// Validation failures never reach the database.
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email or username and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cred, err := h.Auth.Authenticate(ctx, ident, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingCredentials):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email or username and password are required"})
		case errors.Is(err, auth.ErrInvalidCredentials):
			// One message for "no such identity" and "wrong password".
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid email/username or password"})
		default:
			log.Printf("login: authenticate failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
		}
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, cred.ID, cred.Role, cred.Name, h.Cfg.AccessTTLMin)
	if err != nil {
		log.Printf("login: issue access failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		log.Printf("login: issue refresh failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}
	if err := h.Tokens.StoreRefresh(ctx, cred.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		log.Printf("login: save refresh failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"user":          toUserPart(cred),
		"token":         access.Token,
		"refresh_token": refresh.Raw,
	})
}

// Refresh validates a refresh token by hash, revokes it and issues a new
// pair (rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	credID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		log.Printf("refresh: revoke failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	cred, err := h.Credentials.GetByID(ctx, credID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
		}
		log.Printf("refresh: load credential failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, cred.ID, cred.Role, cred.Name, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}
	newRef, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}
	if err := h.Tokens.StoreRefresh(ctx, cred.ID, utils.HashRefreshRaw(newRef.Raw), newRef.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"user":          toUserPart(cred),
		"token":         access.Token,
		"refresh_token": newRef.Raw,
	})
}

// Logout revokes the refresh token given in the body; with a valid bearer
// token and no body token, all of the caller's sessions are revoked.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if refreshToken != "" {
		hash := utils.HashRefreshRaw(refreshToken)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
		}
		return c.NoContent(http.StatusNoContent)
	}

	// No body token: fall back to the authenticated identity and revoke
	// every active session it owns.
	uid, err := getUserID(c)
	if err != nil || uid == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide refresh_token or Authorization header"})
	}
	if err := h.Tokens.RevokeAllForCredential(ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated credential without its password.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cred, err := h.Credentials.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserPart(cred)})
}
