package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/questboard/internal/parentmode"
	"github.com/dukerupert/questboard/internal/quest"
	"github.com/dukerupert/questboard/internal/store"
	"github.com/dukerupert/questboard/internal/websocket"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

// newValidator reports fields by their JSON names so error messages match
// the request body the client sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decode reads a JSON body into v and validates its struct tags. On failure
// it writes a 400 and returns false.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "gt", "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, minFor(fe)))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		case "numeric":
			msgs = append(msgs, field+" must contain only digits")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

func minFor(fe validator.FieldError) string {
	if fe.Tag() == "gt" {
		return "greater than " + fe.Param()
	}
	return fe.Param()
}

// writeStoreError maps domain errors to client statuses. Anything else is
// logged and reported as a 500 without detail.
func writeStoreError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, store.ErrHeroNotFound),
		errors.Is(err, store.ErrQuestNotFound),
		errors.Is(err, store.ErrRewardNotFound),
		errors.Is(err, store.ErrRedemptionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrInsufficientBalance),
		errors.Is(err, store.ErrRewardInactive),
		errors.Is(err, store.ErrQuestInactive),
		errors.Is(err, store.ErrQuestAlreadyCompleted):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalidAmount),
		errors.Is(err, store.ErrInvalidPoints),
		errors.Is(err, store.ErrInvalidCost),
		errors.Is(err, store.ErrNameRequired),
		errors.Is(err, store.ErrTitleRequired),
		errors.Is(err, quest.ErrInvalidRecurrence),
		errors.Is(err, parentmode.ErrInvalidPIN):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error(op, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to "+op)
	}
}

// broadcaster is embedded by handlers that notify connected apps.
type broadcaster struct {
	hub *websocket.Hub
}

func (b broadcaster) broadcast(entity, action, id string, extra map[string]any) {
	if b.hub != nil {
		b.hub.Broadcast(websocket.NewMessage(entity, action, id, extra))
	}
}
