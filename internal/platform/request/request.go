// Copyright (c) 2026 Vidora. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
FormValue returns a trimmed multipart/urlencoded form field.

The multipart form must already be parsed (see [ParseMultipart]).
*/
func FormValue(request *http.Request, name string) string {
	return strings.TrimSpace(request.FormValue(name))
}

/*
ParseMultipart parses a multipart/form-data body with the platform's
standard in-memory cap.

Returns:
  - error: validate.ErrInvalidJSON equivalent for malformed multipart bodies
*/
func ParseMultipart(request *http.Request) error {
	if err := request.ParseMultipartForm(constants.MaxUploadMemory); err != nil {
		return validate.RequiredError("body", "Must be valid multipart/form-data")
	}
	return nil
}

/*
FormFile returns the first uploaded file for the given multipart field.

Returns:
  - *multipart.FileHeader: The uploaded file, or nil if the field is absent
  - error: Validation error when the file exceeds the platform upload cap
*/
func FormFile(request *http.Request, name string) (*multipart.FileHeader, error) {
	_, header, err := request.FormFile(name)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, validate.RequiredError(name, "Must be a valid file upload")
	}

	if header.Size > constants.MaxUploadSize {
		return nil, validate.RequiredError(name, "File exceeds the maximum upload size")
	}

	return header, nil
}

/*
BearerToken extracts the token from an 'Authorization: Bearer <token>' header.

Returns an empty string when the header is absent or malformed.
*/
func BearerToken(request *http.Request) string {
	header := request.Header.Get(constants.HeaderAuthorization)
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

/*
CookieValue returns the value of a named cookie, or "" when absent.
*/
func CookieValue(request *http.Request, name string) string {
	cookie, err := request.Cookie(name)
	if err != nil || cookie == nil {
		return ""
	}
	return cookie.Value
}
