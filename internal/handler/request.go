package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"pantry-chef-api/internal/middleware"
	"pantry-chef-api/internal/model"
	"pantry-chef-api/internal/service"
	"pantry-chef-api/pkg/apierror"
)

// maxBodyBytes caps request bodies; inventory snapshots are the largest payloads.
const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apierror.BadRequest("Request body too large")
		}
		return apierror.BadRequest("failed to read request body")
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return apierror.BadRequest("Request body is required")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apierror.BadRequest("invalid JSON")
	}
	return nil
}

// currentUser resolves the caller to a stored user, or returns a 401.
func currentUser(r *http.Request, identity *service.IdentityService) (*model.User, error) {
	return identity.GetOrCreateUser(r.Context(), middleware.GetPrincipal(r.Context()))
}

// quantityField accepts a JSON number or a numeric string.
type quantityField struct {
	value float64
	valid bool
	blank bool
}

func (q *quantityField) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		q.value, q.valid = n, true
		return nil
	}

	// Anything that is neither a number nor a string stays invalid.
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		q.blank = true
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		q.value, q.valid = n, true
	}
	return nil
}

// missing reports whether no usable quantity was sent.
func (q *quantityField) missing() bool {
	return q == nil || q.blank
}

const maxQuantity = 1e12

// positive returns the quantity or the validation error for it. NaN, infinities
// and non-numeric strings are rejected along with zero and negative values.
func (q *quantityField) positive() (float64, error) {
	if !q.valid || !(q.value > 0) || q.value > maxQuantity {
		return 0, apierror.ValidationError(service.MsgInvalidQuantity,
			apierror.FieldError{Field: "quantity", Message: "must be a positive number"})
	}
	return q.value, nil
}
