// Copyright (c) 2026 Vidora. All rights reserved.

package profile

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidora/vidora/internal/media"
	requestutil "github.com/vidora/vidora/internal/platform/request"
	"github.com/vidora/vidora/internal/platform/respond"
	"github.com/vidora/vidora/internal/platform/validate"
	"github.com/vidora/vidora/internal/users/auth"
)

// Handler exposes the profile routes. Every route requires authentication.
type Handler struct {
	profiles *Service
	spoolDir string
}

// NewHandler creates the profile HTTP handler.
func NewHandler(profiles *Service, spoolDir string) *Handler {
	return &Handler{
		profiles: profiles,
		spoolDir: spoolDir,
	}
}

// Mount registers the profile routes behind the access guard.
func (handler *Handler) Mount(router chi.Router) {
	router.Group(func(protected chi.Router) {
		protected.Use(auth.RequireAuth)
		protected.Get("/current-user", handler.CurrentUser)
		protected.Patch("/update-account", handler.UpdateAccount)
		protected.Patch("/update-avatar", handler.UpdateAvatar)
		protected.Patch("/update-cover", handler.UpdateCover)
	})
}

// CurrentUser handles GET /current-user. The guard already resolved the
// caller's fresh record, so this is a pure read of the request context.
func (handler *Handler) CurrentUser(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, auth.UserFromContext(request.Context()))
}

// updateAccountRequest is the JSON body of PATCH /update-account.
type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// UpdateAccount handles PATCH /update-account. Both fields are mandatory;
// this is a full patch of the mutable text details, not a partial one.
func (handler *Handler) UpdateAccount(writer http.ResponseWriter, request *http.Request) {
	var body updateAccountRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.
		Required("fullName", body.FullName).
		Required("email", body.Email)
	if body.Email != "" {
		validator.Email("email", body.Email)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user := auth.UserFromContext(request.Context())
	updated, err := handler.profiles.UpdateAccountDetails(request.Context(), user.ID, body.FullName, body.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

// UpdateAvatar handles PATCH /update-avatar (multipart, field "avatar").
func (handler *Handler) UpdateAvatar(writer http.ResponseWriter, request *http.Request) {
	handler.updateMedia(writer, request, "avatar", handler.profiles.UpdateAvatar)
}

// UpdateCover handles PATCH /update-cover (multipart, field "coverImage").
func (handler *Handler) UpdateCover(writer http.ResponseWriter, request *http.Request) {
	handler.updateMedia(writer, request, "coverImage", handler.profiles.UpdateCoverImage)
}

// updateMedia is the shared multipart flow of the two media patches: parse,
// spool, hand the local path to the service, clean up the spool file.
func (handler *Handler) updateMedia(
	writer http.ResponseWriter,
	request *http.Request,
	field string,
	update func(ctx context.Context, userID, localPath string) (*auth.User, error),
) {
	if err := requestutil.ParseMultipart(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	header, err := requestutil.FormFile(request, field)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if header == nil {
		respond.Error(writer, request, validate.RequiredError(field, "File is required"))
		return
	}

	spooled, err := media.SaveUpload(header, handler.spoolDir)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer spooled.Cleanup()

	user := auth.UserFromContext(request.Context())
	updated, err := update(request.Context(), user.ID, spooled.Path)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}
