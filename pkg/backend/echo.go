package backend

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// EchoMode selects how the EchoHandler answers.
type EchoMode string

const (
	// EchoModeEcho answers {"response": "..."} without a status field.
	EchoModeEcho EchoMode = "echo"
	// EchoModeStrict answers {"status": "success", "response": "..."}.
	EchoModeStrict EchoMode = "strict"
	// EchoModeError answers 500 with a detail message.
	EchoModeError EchoMode = "error"
	// EchoModeEmpty answers 200 with an empty object.
	EchoModeEmpty EchoMode = "empty"
)

func ParseEchoMode(s string) (EchoMode, error) {
	switch m := EchoMode(strings.ToLower(strings.TrimSpace(s))); m {
	case EchoModeEcho, EchoModeStrict, EchoModeError, EchoModeEmpty:
		return m, nil
	case "":
		return EchoModeStrict, nil
	default:
		return "", errors.Errorf("unknown echo mode %q (want echo, strict, error or empty)", s)
	}
}

// EchoHandler is a development stand-in for the assistant endpoint. It speaks the
// same wire contract as the real backend and repeats the prompt back.
type EchoHandler struct {
	Mode  EchoMode
	Delay time.Duration
}

func NewEchoHandler(mode EchoMode, delay time.Duration) *EchoHandler {
	return &EchoHandler{Mode: mode, Delay: delay}
}

func (h *EchoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, Response{Detail: "method not allowed"})
		return
	}

	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxResponseBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, Response{Detail: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeJSON(w, http.StatusBadRequest, Response{Detail: "prompt is required"})
		return
	}

	if h.Delay > 0 {
		select {
		case <-time.After(h.Delay):
		case <-r.Context().Done():
			return
		}
	}

	log.Debug().Str("mode", string(h.Mode)).Int("prompt_len", len(req.Prompt)).Msg("echo backend answering")

	reply := "You said: " + req.Prompt
	switch h.Mode {
	case EchoModeError:
		writeJSON(w, http.StatusInternalServerError, Response{Detail: "echo backend configured to fail"})
	case EchoModeEmpty:
		writeJSON(w, http.StatusOK, struct{}{})
	case EchoModeEcho:
		writeJSON(w, http.StatusOK, Response{Response: &reply})
	default:
		writeJSON(w, http.StatusOK, Response{Status: "success", Response: &reply})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to encode echo response")
	}
}
