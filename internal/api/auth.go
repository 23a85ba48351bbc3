// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"bytes"
	"encoding/base64"
	"net/http"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// totpIssuer names the service inside authenticator apps.
const totpIssuer = "Inkwell"

// authResponse is the payload of successful register/login/verify calls.
type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// twoFAChallengeResponse tells the client to complete the TOTP step with
// the short-lived token before any API access is granted.
type twoFAChallengeResponse struct {
	Requires2FA bool   `json:"requires_2fa"`
	Token       string `json:"token"`
}

// register creates a viewer account. Role elevation is a separate,
// admin-only operation.
func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	existing, err := a.users.FindByEmailOrName(req.Email, req.Name, uuid.Nil)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if existing != nil {
		writeErr(w, r, ErrConflict("Email or username already registered"))
		return
	}

	user, err := a.users.Create(req.Name, req.Email, req.Password, models.RoleViewer)
	if err != nil {
		if store.IsUniqueViolation(err) {
			writeErr(w, r, ErrConflict("Email or username already registered"))
			return
		}
		writeErr(w, r, err)
		return
	}

	token, err := a.tokens.Issue(user)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, "Registered", authResponse{User: user, Token: token}, nil)
}

// login verifies credentials. Accounts with 2FA enabled get a short-lived
// challenge token instead of a full one.
func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	user, err := a.users.FindByEmail(req.Email)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	// Constant failure message: never reveal which of email, password, or
	// account state was wrong.
	if user == nil || !user.IsActive || user.IsDeleted || !a.users.CheckPassword(user, req.Password) {
		writeErr(w, r, ErrUnauthorized("Invalid credentials"))
		return
	}

	if user.TOTPEnabled {
		token, err := a.tokens.IssueTwoFA(user)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeData(w, http.StatusOK, "Two-factor code required",
			twoFAChallengeResponse{Requires2FA: true, Token: token}, nil)
		return
	}

	token, err := a.tokens.Issue(user)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Logged in", authResponse{User: user, Token: token}, nil)
}

// profile returns the authenticated user's own account with content counts.
func (a *API) profile(w http.ResponseWriter, r *http.Request) {
	user, apiErr := a.currentUser(r)
	if apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}
	writeData(w, http.StatusOK, "", user, nil)
}

// changePassword rotates the caller's password after verifying the current one.
func (a *API) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	user, apiErr := a.currentUser(r)
	if apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}
	if !a.users.CheckPassword(user, req.CurrentPassword) {
		writeErr(w, r, ErrUnauthorized("Current password is incorrect"))
		return
	}

	if err := a.users.ChangePassword(user.ID, req.NewPassword); err != nil {
		writeErr(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Password changed", nil, nil)
}

// twoFASetup generates a TOTP secret for the caller and returns it with a
// QR code. 2FA only becomes active once a code is verified.
func (a *API) twoFASetup(w http.ResponseWriter, r *http.Request) {
	user, apiErr := a.currentUser(r)
	if apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}

	if err := a.users.SetTOTPSecret(user.ID, key.Secret()); err != nil {
		writeErr(w, r, err)
		return
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	var qr bytes.Buffer
	qr.WriteString("data:image/png;base64,")
	qr.WriteString(base64.StdEncoding.EncodeToString(png))

	writeData(w, http.StatusOK, "Scan the QR code and verify a code to enable 2FA", map[string]string{
		"secret":      key.Secret(),
		"otpauth_url": key.URL(),
		"qr_code":     qr.String(),
	}, nil)
}

// twoFAVerify checks a TOTP code. During setup it activates 2FA; during
// login it upgrades the challenge token to a full one.
func (a *API) twoFAVerify(w http.ResponseWriter, r *http.Request) {
	var req twoFAVerifyRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}

	user, apiErr := a.currentUser(r)
	if apiErr != nil {
		writeErr(w, r, apiErr)
		return
	}
	if user.TOTPSecret == nil {
		writeErr(w, r, ErrBadRequest("Two-factor setup has not been started"))
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		writeErr(w, r, ErrUnauthorized("Invalid two-factor code"))
		return
	}

	if !user.TOTPEnabled {
		if err := a.users.EnableTOTP(user.ID); err != nil {
			writeErr(w, r, err)
			return
		}
		user.TOTPEnabled = true
	}

	token, err := a.tokens.Issue(user)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Two-factor verified", authResponse{User: user, Token: token}, nil)
}

// currentUser loads the account behind the request's token claims.
func (a *API) currentUser(r *http.Request) (*models.User, *Error) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		return nil, ErrUnauthorized("Authentication required")
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, ErrUnauthorized("Invalid token subject")
	}

	user, err := a.users.FindByID(id)
	if err != nil {
		return nil, ErrInternal()
	}
	if user == nil {
		return nil, ErrUnauthorized("Account no longer active")
	}
	return user, nil
}
