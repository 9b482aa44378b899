// Copyright (c) 2026 Vidora. All rights reserved.

package channel

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/vidora/vidora/internal/platform/request"
	"github.com/vidora/vidora/internal/platform/respond"
	"github.com/vidora/vidora/internal/users/auth"
)

// Handler exposes the channel page route.
type Handler struct {
	channels *Service
}

// NewHandler creates the channel HTTP handler.
func NewHandler(channels *Service) *Handler {
	return &Handler{channels: channels}
}

// Mount registers the channel route behind the access guard. The viewer
// must be signed in so IsSubscribed is always answerable.
func (handler *Handler) Mount(router chi.Router) {
	router.Group(func(protected chi.Router) {
		protected.Use(auth.RequireAuth)
		protected.Get("/c/{username}", handler.GetChannel)
	})
}

// GetChannel handles GET /c/{username}.
func (handler *Handler) GetChannel(writer http.ResponseWriter, request *http.Request) {
	viewer := auth.UserFromContext(request.Context())

	profile, err := handler.channels.GetProfile(
		request.Context(),
		requestutil.Param(request, "username"),
		viewer.ID,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}
