package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"shoplist/internal/core"
	"shoplist/internal/log"
	"shoplist/internal/services"
)

// writeError maps err onto a status code and writes the JSON error body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *core.ValidationError
	var nferr *core.NotFoundError
	switch {
	case errors.As(err, &verr):
		UnprocessableEntityError(verr.Error(), verr.Field).Write(w)
	case errors.As(err, &nferr):
		NotFoundError(nferr.Error()).Write(w)
	case errors.Is(err, core.ErrNotFound):
		NotFoundError(err.Error()).Write(w)
	case errors.Is(err, errMalformedBody):
		BadRequestError(err.Error()).Write(w)
	case errors.Is(err, services.ErrShareNotConfigured):
		ErrorResponse(http.StatusNotImplemented, err.Error(), "").Write(w)
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", log.NewFields().
			WithComponent(log.ComponentHTTP).
			WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "", "").
			WithError(err).ToSlice()...)
		InternalServerError("internal error").Write(w)
	}
}

// queryBool reads a boolean query parameter, falling back to def when absent.
func queryBool(r *http.Request, key string, def bool) (bool, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, &core.ValidationError{Field: key, Err: errors.New("must be true or false")}
	}
	return b, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
