package conversion

import (
	"errors"
	"net/http"

	conversiondomain "convert-files-go/internal/domain/conversion"
	commonhandler "convert-files-go/internal/transport/httpserver/handler/common"
	"github.com/go-chi/chi/v5"
)

type fieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return commonhandler.DecodeJSON(r, dst)
}

func parseIntParam(value string, fallback int) (int, error) {
	return commonhandler.ParseIntParam(value, fallback)
}

func parseBoolParam(value string, fallback bool) (bool, error) {
	return commonhandler.ParseBoolParam(value, fallback)
}

func convertFileIDParam(r *http.Request) (int64, error) {
	return commonhandler.ParseID(chi.URLParam(r, "convert_file_id"))
}

func propertyIDParam(r *http.Request) (int64, error) {
	return commonhandler.ParseID(chi.URLParam(r, "property_id"))
}

// writeDomainError maps service errors to responses. It reports whether err
// was a known business error; the caller logs anything else as internal.
func writeDomainError(w http.ResponseWriter, err error) bool {
	var verr *conversiondomain.ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]fieldErrorResponse, 0, len(verr.Fields))
		for _, field := range verr.Fields {
			details = append(details, fieldErrorResponse{Field: field.Field, Message: field.Message})
		}
		commonhandler.WriteErrorDetails(w, http.StatusUnprocessableEntity, "validation_failed", "validation failed", details)
	case errors.Is(err, conversiondomain.ErrConvertFileNotFound):
		writeError(w, http.StatusNotFound, "convert_file_not_found", "convert file not found")
	case errors.Is(err, conversiondomain.ErrPropertyNotFound):
		writeError(w, http.StatusNotFound, "property_not_found", "property not found")
	case errors.Is(err, conversiondomain.ErrNoFieldsToUpdate):
		writeError(w, http.StatusBadRequest, "invalid_request", "no fields to update")
	default:
		return false
	}
	return true
}
