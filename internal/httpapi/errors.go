package httpapi

import (
	"net/http"

	"github.com/seqctl/seqctl/internal/errors"
)

// writeError maps err's taxonomy class to an HTTP status and writes the
// same JSON error shape the CLI writes to stderr.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, httpStatus(err), struct {
		Error   string   `json:"error"`
		Class   string   `json:"class,omitempty"`
		Suggest []string `json:"suggest,omitempty"`
	}{
		Error:   errors.UserMessage(err),
		Class:   errors.ClassName(err),
		Suggest: errors.Suggest(err),
	})
}

func httpStatus(err error) int {
	switch errors.Classify(err) {
	case errors.ClassNotFound:
		return http.StatusNotFound
	case errors.ClassAlreadyExists:
		return http.StatusConflict
	case errors.ClassStateConflict:
		return http.StatusConflict
	case errors.ClassValidation:
		return http.StatusBadRequest
	case errors.ClassPrecondition:
		return http.StatusPreconditionFailed
	case errors.ClassTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
