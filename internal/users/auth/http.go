// Copyright (c) 2026 Vidora. All rights reserved.

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vidora/vidora/internal/media"
	"github.com/vidora/vidora/internal/platform/constants"
	requestutil "github.com/vidora/vidora/internal/platform/request"
	"github.com/vidora/vidora/internal/platform/respond"
	"github.com/vidora/vidora/internal/platform/validate"
)

// Handler exposes the session lifecycle over HTTP.
type Handler struct {
	sessions      *Service
	spoolDir      string
	secureCookies bool
}

// NewHandler creates the session HTTP handler.
//
// # Parameters
//   - sessions: Session service.
//   - spoolDir: Directory for spooling multipart uploads.
//   - secureCookies: Whether session cookies require HTTPS (production).
func NewHandler(sessions *Service, spoolDir string, secureCookies bool) *Handler {
	return &Handler{
		sessions:      sessions,
		spoolDir:      spoolDir,
		secureCookies: secureCookies,
	}
}

// Mount registers the session routes on the users router. Logout and
// password change sit behind the access guard; the rest is public.
func (handler *Handler) Mount(router chi.Router) {
	router.Post("/register", handler.Register)
	router.Post("/login", handler.Login)
	router.Post("/refresh-token", handler.RefreshToken)

	router.Group(func(protected chi.Router) {
		protected.Use(RequireAuth)
		protected.Post("/logout", handler.Logout)
		protected.Post("/change-password", handler.ChangePassword)
	})
}

/*
Register handles POST /register.

Description: Accepts multipart/form-data with the text fields username,
email, fullName and password plus a mandatory "avatar" file and an optional
"coverImage" file. Uploads are spooled to local disk and removed on every
exit path.
*/
func (handler *Handler) Register(writer http.ResponseWriter, request *http.Request) {
	if err := requestutil.ParseMultipart(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	username := requestutil.FormValue(request, "username")
	email := requestutil.FormValue(request, "email")
	fullName := requestutil.FormValue(request, "fullName")
	password := requestutil.FormValue(request, "password")

	validator := &validate.Validator{}
	validator.
		Required("username", username).
		Required("email", email).
		Required("fullName", fullName).
		Required("password", password)
	if username != "" {
		validator.Username("username", username).MaxLen("username", username, 32)
	}
	if email != "" {
		validator.Email("email", email)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	avatarHeader, err := requestutil.FormFile(request, "avatar")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if avatarHeader == nil {
		respond.Error(writer, request, validate.RequiredError("avatar", "Avatar file is required"))
		return
	}

	avatarFile, err := media.SaveUpload(avatarHeader, handler.spoolDir)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer avatarFile.Cleanup()

	input := RegisterInput{
		Username:   username,
		Email:      email,
		FullName:   fullName,
		Password:   password,
		AvatarPath: avatarFile.Path,
	}

	coverHeader, err := requestutil.FormFile(request, "coverImage")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if coverHeader != nil {
		coverFile, err := media.SaveUpload(coverHeader, handler.spoolDir)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		defer coverFile.Cleanup()
		input.CoverImagePath = coverFile.Path
	}

	user, err := handler.sessions.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

// loginRequest is the JSON body of POST /login.
type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /login. On success the token pair is returned in the
// body and mirrored as httpOnly cookies.
func (handler *Handler) Login(writer http.ResponseWriter, request *http.Request) {
	var body loginRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.Required("password", body.Password).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.sessions.Login(request.Context(), body.Username, body.Email, body.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, session)
	respond.OK(writer, session)
}

// Logout handles POST /logout. Requires authentication.
func (handler *Handler) Logout(writer http.ResponseWriter, request *http.Request) {
	user := UserFromContext(request.Context())

	if err := handler.sessions.Logout(request.Context(), user.ID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearSessionCookies(writer)
	respond.OK(writer, map[string]string{constants.FieldMessage: "User logged out"})
}

// refreshRequest is the JSON body of POST /refresh-token, used when the
// client does not carry the refresh cookie.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken handles POST /refresh-token. The presented token is read
// from the "refreshToken" cookie first, then from the JSON body.
func (handler *Handler) RefreshToken(writer http.ResponseWriter, request *http.Request) {
	presentedToken := requestutil.CookieValue(request, constants.RefreshTokenCookieName)
	if presentedToken == "" {
		var body refreshRequest
		// Body is optional; a decode failure just means no token there either.
		_ = requestutil.DecodeJSON(request, &body)
		presentedToken = body.RefreshToken
	}

	session, err := handler.sessions.Refresh(request.Context(), presentedToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, session)
	respond.OK(writer, map[string]string{
		"accessToken":  session.AccessToken,
		"refreshToken": session.RefreshToken,
	})
}

// changePasswordRequest is the JSON body of POST /change-password.
type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ChangePassword handles POST /change-password. Requires authentication.
func (handler *Handler) ChangePassword(writer http.ResponseWriter, request *http.Request) {
	var body changePasswordRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.
		Required("oldPassword", body.OldPassword).
		Required("newPassword", body.NewPassword).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user := UserFromContext(request.Context())
	if err := handler.sessions.ChangePassword(request.Context(), user.ID, body.OldPassword, body.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{constants.FieldMessage: "Password changed successfully"})
}

// # Cookie Plumbing

// setSessionCookies mirrors the token pair as httpOnly cookies.
func (handler *Handler) setSessionCookies(writer http.ResponseWriter, session *Session) {
	handler.setCookie(writer, constants.AccessTokenCookieName, session.AccessToken, handler.sessions.AccessTTL())
	handler.setCookie(writer, constants.RefreshTokenCookieName, session.RefreshToken, handler.sessions.RefreshTTL())
}

// clearSessionCookies expires both session cookies.
func (handler *Handler) clearSessionCookies(writer http.ResponseWriter) {
	handler.setCookie(writer, constants.AccessTokenCookieName, "", -time.Hour)
	handler.setCookie(writer, constants.RefreshTokenCookieName, "", -time.Hour)
}

func (handler *Handler) setCookie(writer http.ResponseWriter, name, value string, lifetime time.Duration) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     constants.SessionCookiePath,
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
