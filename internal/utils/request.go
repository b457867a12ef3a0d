package utils

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"fyyur/internal/apperrors"
)

const maxFormMemory = 1 << 20

// ParseID reads a positive integer URL parameter. Anything else is
// reported as ErrNotFound, matching an unknown record.
func ParseID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ErrNotFound
	}
	return id, nil
}

// FormValues decodes a urlencoded or multipart body.
func FormValues(r *http.Request) (url.Values, error) {
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxFormMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, apperrors.NewValidationError(map[string]string{"form": "malformed form body"})
	}
	return r.Form, nil
}
