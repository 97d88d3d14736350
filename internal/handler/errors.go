package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/DPR2204/atiexg-sub001/internal/domain"
)

// User-facing messages naming the attempted action. The underlying error
// goes to the log only.
const (
	msgLoadLogistics     = "Error al cargar logística"
	msgLoadBoard         = "Error al cargar tablero"
	msgLoadDashboard     = "Error al cargar dashboard"
	msgCreateReservation = "Error al crear reserva"
	msgLoadReservation   = "Error al cargar reserva"
	msgUpdateReservation = "Error al actualizar reserva"
	msgLoadAudit         = "Error al cargar historial"
	msgSaveBoat          = "Error al guardar lancha"
	msgLoadBoats         = "Error al cargar lanchas"
	msgSaveStaff         = "Error al guardar personal"
	msgLoadStaff         = "Error al cargar personal"
	msgSaveSupplier      = "Error al guardar proveedor"
	msgLoadSuppliers     = "Error al cargar proveedores"
	msgLoadNote          = "Error al cargar nota del día"
	msgSaveNote          = "Error al guardar nota del día"
)

// ErrorDetail is the body of every error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail as {"error": {...}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// fail maps err onto a status code. subject names what was looked up
// ("reservation", "boat") for 404s; action is shown for anything unexpected.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, action, subject string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not_found", subject+" not found"))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("validation_error", unwrapMessage(err, domain.ErrValidation)))
	case errors.Is(err, domain.ErrDragBlocked):
		writeJSON(w, http.StatusConflict, errorBody("drag_blocked", unwrapMessage(err, domain.ErrDragBlocked)))
	case errors.Is(err, domain.ErrConfirmationRequired):
		writeJSON(w, http.StatusConflict, errorBody("confirmation_required", unwrapMessage(err, domain.ErrConfirmationRequired)))
	default:
		s.log.ErrorContext(r.Context(), action, "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", action))
	}
}

// badRequest rejects input before it reaches a service.
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody("bad_request", message))
}

// unwrapMessage extracts the human-readable part following a wrapped sentinel.
// e.g. "service.BoatService.Create: validation error: name is required" → "name is required"
func unwrapMessage(err, sentinel error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return sentinel.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads the request body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("too_large", "request body too large"))
			return false
		}
		badRequest(w, "invalid request body: "+err.Error())
		return false
	}
	return true
}
