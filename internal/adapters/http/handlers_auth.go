package web

import (
	"errors"
	"net/http"

	"github.com/gorilla/csrf"

	"storefront/internal/adapters/http/middleware"
	"storefront/internal/application/orchestrators"
	"storefront/internal/domain/account"
)

// accountValidationErrors are reported back to the user verbatim.
var accountValidationErrors = []error{
	account.ErrEmptyUsername,
	account.ErrEmptyEmail,
	account.ErrInvalidEmail,
	account.ErrEmptyPassword,
	account.ErrPasswordTooShort,
	account.ErrUsernameTooLong,
	account.ErrEmailTooLong,
}

func isAccountValidationError(err error) bool {
	for _, known := range accountValidationErrors {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}

// handleRegister handles POST /register
func handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	fields, err := readFields(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err = orchestrators.ExecuteRegister(r.Context(), orchestrators.RegisterInput{
		Username: fields["username"],
		Email:    fields["email"],
		Password: fields["password"],
	}, orchestrators.RegisterDeps{
		AccountStore: stores.AccountStore,
		EmailSender:  emailSender,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	switch {
	case errors.Is(err, orchestrators.ErrEmailAlreadyExists):
		writeError(w, http.StatusConflict, "That email is already registered.")
		return
	case isAccountValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"status":  "success",
		"message": "Registration successful. Please log in.",
	})
}

// handleLogin handles POST /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	fields, err := readFields(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    fields["email"],
		Password: fields["password"],
	}, orchestrators.LoginDeps{
		AccountStore: stores.AccountStore,
		Now:          timeNow,
	})
	switch {
	case errors.Is(err, orchestrators.ErrAccountLocked):
		writeError(w, http.StatusLocked, err.Error())
		return
	case errors.Is(err, orchestrators.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Incorrect credentials.")
		return
	case err != nil:
		internalError(w, err)
		return
	}

	token, err := sessions.Create(middleware.Session{
		AccountID: result.AccountID,
		Username:  result.Username,
		Email:     result.Email,
		Role:      result.Role,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "success",
		"username": result.Username,
		"role":     result.Role,
	})
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// handleForgotPassword handles POST /forgot-password
func handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	fields, err := readFields(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = orchestrators.ExecuteForgotPassword(r.Context(), fields["email"], passwordResetDeps())
	if errors.Is(err, account.ErrEmptyEmail) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "If an account exists for that email, we have sent a recovery link to it.",
	})
}

// handleResetPassword handles POST /reset-password (token in the body or the query string)
func handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	fields, err := readFields(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	token := fields["token"]
	if token == "" {
		token = r.URL.Query().Get("token")
	}

	err = orchestrators.ExecuteResetPassword(r.Context(), orchestrators.ResetPasswordInput{
		Token:       token,
		NewPassword: fields["password"],
	}, passwordResetDeps())
	switch {
	case errors.Is(err, orchestrators.ErrResetLinkInvalid), isAccountValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Your password has been updated.",
	})
}

// handleCSRFToken handles GET /api/csrf-token for clients that submit forms.
func handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, map[string]string{
		"csrf_token": csrf.Token(r),
		"header":     middleware.CSRFHeader,
	})
}

func passwordResetDeps() orchestrators.PasswordResetDeps {
	return orchestrators.PasswordResetDeps{
		AccountStore: stores.AccountStore,
		Tokens:       config.ResetTokens,
		EmailSender:  emailSender,
		BaseURL:      config.BaseURL,
	}
}

// handleChangePassword handles POST /api/profile/password
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())
	fields, err := readFields(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:       sess.AccountID,
		CurrentPassword: fields["current_password"],
		NewPassword:     fields["new_password"],
	}, orchestrators.ChangePasswordDeps{
		AccountStore: stores.AccountStore,
		EmailSender:  emailSender,
	})
	switch {
	case errors.Is(err, orchestrators.ErrPasswordFieldsRequired),
		errors.Is(err, orchestrators.ErrCurrentPasswordWrong),
		errors.Is(err, orchestrators.ErrNewPasswordSame),
		isAccountValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Your password has been updated.",
	})
}
