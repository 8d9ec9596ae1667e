// Vitrina - Product Catalog Recommendations and Accounts Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/vitrina/internal/auth"
	"github.com/tomtom215/vitrina/internal/database"
	"github.com/tomtom215/vitrina/internal/logging"
	"github.com/tomtom215/vitrina/internal/metrics"
	"github.com/tomtom215/vitrina/internal/validation"
)

// wrongCredentialsMessage is returned for both unknown usernames and bad
// passwords so login failures do not reveal which accounts exist.
const wrongCredentialsMessage = "Wrong Credentials"

// RegisterRequest is the POST /api/register payload.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest is the POST /api/login payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSONBody(r, &req); err != nil {
		metrics.AccountRegistrations.WithLabelValues("invalid").Inc()
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		metrics.AccountRegistrations.WithLabelValues("invalid").Inc()
		respondError(w, http.StatusBadRequest, verr.Error(), nil)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		metrics.AccountRegistrations.WithLabelValues("invalid").Inc()
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Username, req.Email, hash)
	if err != nil {
		if errors.Is(err, database.ErrUserExists) {
			metrics.AccountRegistrations.WithLabelValues("duplicate").Inc()
			respondError(w, http.StatusConflict, "username already taken", nil)
			return
		}
		metrics.AccountRegistrations.WithLabelValues("invalid").Inc()
		respondError(w, http.StatusInternalServerError, "failed to create user", err)
		return
	}
	metrics.AccountRegistrations.WithLabelValues("success").Inc()

	logging.Info().
		Str("username", sanitizeLogValue(user.Username)).
		Msg("user registered")

	respondJSON(w, http.StatusCreated, map[string]string{
		"username": user.Username,
		"email":    user.Email,
	})
}

// Login handles POST /api/login. On success the response carries a signed
// JWT for the account.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSONBody(r, &req); err != nil {
		metrics.AccountLogins.WithLabelValues("failure").Inc()
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		metrics.AccountLogins.WithLabelValues("failure").Inc()
		respondError(w, http.StatusBadRequest, verr.Error(), nil)
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			metrics.AccountLogins.WithLabelValues("failure").Inc()
			respondError(w, http.StatusBadRequest, wrongCredentialsMessage, nil)
			return
		}
		metrics.AccountLogins.WithLabelValues("failure").Inc()
		respondError(w, http.StatusInternalServerError, "login failed", err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		metrics.AccountLogins.WithLabelValues("failure").Inc()
		logging.Warn().
			Str("username", sanitizeLogValue(req.Username)).
			Msg("login failed: wrong password")
		respondError(w, http.StatusBadRequest, wrongCredentialsMessage, nil)
		return
	}

	token, err := h.tokens.GenerateToken(user.Username)
	if err != nil {
		metrics.AccountLogins.WithLabelValues("failure").Inc()
		respondError(w, http.StatusInternalServerError, "failed to issue token", err)
		return
	}
	metrics.AccountLogins.WithLabelValues("success").Inc()

	respondJSON(w, http.StatusOK, map[string]string{
		"token": token,
	})
}
