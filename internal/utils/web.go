package utils

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/LadislavMokry/A11-Moodboard-sub000/internal/errors"
)

// WriteError serializes an error as the JSON error body clients expect:
// {"error": "<code>", "message": "...", <detail fields>}. Unknown errors
// become a 500 with an opaque body so internals never leak.
func WriteError(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		slog.Error("unhandled error", "err", err)
		appErr = apperrors.New(apperrors.CodeInternal, "Internal server error", http.StatusInternalServerError)
	}

	body := map[string]any{
		"error":   appErr.Code,
		"message": appErr.Message,
	}
	for k, v := range appErr.Details {
		body[k] = v
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	if encErr := json.NewEncoder(w).Encode(body); encErr != nil {
		slog.Error("encoding error response", "err", encErr)
	}
}

// DecodeValidate strictly deserializes a JSON body into a struct and runs
// validator tags before any field is used.
func DecodeValidate(r io.Reader, body any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(body); err != nil {
		return apperrors.New(apperrors.CodeInvalidRequestBody, "Body is invalid json", http.StatusBadRequest).WithCause(err)
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(body); err != nil {
		return apperrors.New(apperrors.CodeInvalidRequestBody, "Required fields missing", http.StatusBadRequest).WithCause(err)
	}
	return nil
}
