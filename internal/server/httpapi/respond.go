package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rcornejom06/authcore/internal/common"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string      `json:"error"`
	Code  common.Kind `json:"code"`
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind common.Kind) int {
	switch kind {
	case common.KindNone:
		return http.StatusOK
	case common.KindMissingFields, common.KindValidation:
		return http.StatusBadRequest
	case common.KindInvalidCredentials, common.KindMalformedAuthHeader,
		common.KindTokenInvalid, common.KindTokenExpired:
		return http.StatusUnauthorized
	case common.KindEmailNotVerified:
		return http.StatusForbidden
	case common.KindNotFound:
		return http.StatusNotFound
	case common.KindConflict:
		return http.StatusConflict
	case common.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// messageFor is the client-facing text for err. Only validation errors carry
// their own detail; everything else gets a fixed message so bodies never
// echo internals.
func messageFor(kind common.Kind, err error) string {
	switch kind {
	case common.KindMissingFields:
		return "required fields are missing"
	case common.KindValidation:
		return err.Error()
	case common.KindInvalidCredentials:
		return "invalid email or password"
	case common.KindMalformedAuthHeader:
		return "authorization header must be: Bearer <token>"
	case common.KindTokenInvalid:
		return "invalid token"
	case common.KindTokenExpired:
		return "token expired"
	case common.KindEmailNotVerified:
		return "email address is not verified"
	case common.KindNotFound:
		return "not found"
	case common.KindConflict:
		return "an account with these details already exists"
	case common.KindStoreUnavailable:
		return "service temporarily unavailable"
	default:
		return "internal server error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	kind := common.Classify(err)
	status := statusFor(kind)
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", common.BearerScheme)
	}
	writeJSON(w, status, errorBody{Error: messageFor(kind, err), Code: kind})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return common.ErrMissingFields
		}
		return fmt.Errorf("%w: malformed JSON body", common.ErrValidation)
	}
	return nil
}
