// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package api

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/mverdier/leafbase/internal/auth"
	"github.com/mverdier/leafbase/internal/models"
	"github.com/mverdier/leafbase/internal/validation"
)

// remoteIP returns the peer address without the port, for audit logs.
// Proxy headers are resolved by the auth middleware where they matter
// for rate limiting; here the socket peer is good enough.
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Login handles POST /api/v1/auth/login. The endpoint accepts either a
// JSON body {email, password} or an OAuth2-style form where the
// username field carries the email, because the mobile clients ship
// both shapes.
//
// @Summary Log in and obtain an access token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} models.Token
// @Failure 400 {object} models.ErrorDetail
// @Failure 401 {object} models.ErrorDetail
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.loginRequest(w, r)
	if !ok {
		return
	}

	token, _, err := h.auth.Login(r.Context(), req.Email, req.Password, remoteIP(r), r.UserAgent())
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	case errors.Is(err, auth.ErrInactiveAccount):
		respondDetail(w, http.StatusBadRequest, "Inactive user")
		return
	case err != nil:
		storeError(w, r, err, "User")
		return
	}

	respondJSON(w, http.StatusOK, models.Token{AccessToken: token, TokenType: "bearer"})
}

// loginRequest decodes the login body from either wire shape.
func (h *Handler) loginRequest(w http.ResponseWriter, r *http.Request) (models.LoginRequest, bool) {
	var req models.LoginRequest

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			if err := r.ParseForm(); err != nil {
				respondDetail(w, http.StatusBadRequest, "Invalid form body")
				return req, false
			}
		}
		req.Email = r.PostFormValue("username")
		if req.Email == "" {
			req.Email = r.PostFormValue("email")
		}
		req.Password = r.PostFormValue("password")
		if verr := validation.ValidateStruct(&req); verr != nil {
			respondDetail(w, http.StatusUnprocessableEntity, verr.Detail())
			return req, false
		}
		return req, true
	}

	if !decodeBody(w, r, &req) {
		return req, false
	}
	return req, true
}

// Logout handles GET /api/v1/auth/logout. Access tokens are stateless,
// so logout is an audit event plus a client-side token drop.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if p, ok := auth.PrincipalFrom(r.Context()); ok && p.User != nil {
		h.seclog.LogLogout(p.User.ID, remoteIP(r))
	}
	respondJSON(w, http.StatusOK, map[string]string{"detail": "Successfully logged out"})
}

// ForgotPassword handles POST /api/v1/auth/forgot-password. The
// response is 200 whether or not the address is known, so the endpoint
// cannot be used to enumerate accounts.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.auth.ForgotPassword(r.Context(), req.Email, remoteIP(r)); err != nil {
		storeError(w, r, err, "User")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"detail": "If the email address is registered, a reset link has been sent",
	})
}

// ResetPassword handles POST /api/v1/auth/reset-password with the
// token from the reset mail.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.auth.ResetPassword(r.Context(), req.Token, req.NewPassword, remoteIP(r))
	switch {
	case errors.Is(err, auth.ErrInvalidResetToken):
		respondDetail(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	case err != nil:
		storeError(w, r, err, "User")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"detail": "Password has been reset"})
}
