package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"studio/internal/domain"
	"studio/internal/middleware"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string         `json:"token"`
	User  userProfileDTO `json:"user"`
}

type userProfileDTO struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Plan             string `json:"plan"`
	CreditsRemaining int    `json:"creditsRemaining"`
	IsAdmin          bool   `json:"isAdmin"`
	CreatedAt        string `json:"createdAt"`
}

func (a *App) profileDTO(user *domain.User) userProfileDTO {
	return userProfileDTO{
		ID:               user.ID,
		Email:            user.Email,
		Plan:             string(user.Plan),
		CreditsRemaining: user.CreditsRemaining,
		IsAdmin:          a.Config.IsAdminEmail(user.Email),
		CreatedAt:        user.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (a *App) issueToken(user *domain.User) (string, error) {
	return middleware.SignJWT(a.Config.JWTSecret, middleware.TokenClaims{
		Sub:      user.ID,
		Email:    user.Email,
		Exp:      time.Now().Add(middleware.SessionTTL).Unix(),
		Issuer:   "studio-api",
		Audience: "studio-clients",
	})
}

// Signup registers an account and grants the starting credit balance.
func (a *App) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		a.error(w, http.StatusBadRequest, "bad_request", "valid email required")
		return
	}
	if len(req.Password) < 8 {
		a.error(w, http.StatusBadRequest, "bad_request", "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.Logger.Error().Err(err).Msg("signup: hash password")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create account")
		return
	}

	user, err := a.Users.Create(r.Context(), &domain.User{
		Email:            email,
		CredentialHash:   string(hash),
		CreditsRemaining: a.Config.SignupCredits,
		Plan:             domain.PlanFree,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			a.error(w, http.StatusBadRequest, "duplicate_email", "email already registered")
			return
		}
		a.Logger.Error().Err(err).Msg("signup: create user")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create account")
		return
	}

	token, err := a.issueToken(user)
	if err != nil {
		a.Logger.Error().Err(err).Msg("signup: sign token")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.json(w, http.StatusCreated, authResponse{Token: token, User: a.profileDTO(user)})
}

// Login exchanges email and password for a session token.
func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "email and password required")
		return
	}

	user, err := a.Users.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
			return
		}
		a.Logger.Error().Err(err).Msg("login: lookup user")
		a.error(w, http.StatusInternalServerError, "internal", "login failed")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.CredentialHash), []byte(req.Password)) != nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		return
	}

	token, err := a.issueToken(user)
	if err != nil {
		a.Logger.Error().Err(err).Msg("login: sign token")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.json(w, http.StatusOK, authResponse{Token: token, User: a.profileDTO(user)})
}

// Me returns the authenticated account, including the live credit balance.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	user, err := a.Users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		a.Logger.Error().Err(err).Msg("me: lookup user")
		a.error(w, http.StatusInternalServerError, "internal", "lookup failed")
		return
	}
	a.json(w, http.StatusOK, a.profileDTO(user))
}
