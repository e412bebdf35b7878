package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matzehuels/pyfmt/pkg/buildinfo"
	pferrors "github.com/matzehuels/pyfmt/pkg/errors"
	"github.com/matzehuels/pyfmt/pkg/format"
	"github.com/matzehuels/pyfmt/pkg/lint"
)

// FormatRequest is the body of POST /v1/format. Options not present in the
// request keep the server defaults.
type FormatRequest struct {
	Source  string         `json:"source"`
	Options format.Options `json:"options"`
}

// FormatResponse is the reply of POST /v1/format.
type FormatResponse struct {
	Formatted string `json:"formatted"`
	Changed   bool   `json:"changed"`
	Cached    bool   `json:"cached"`
}

// CheckRequest is the body of POST /v1/check. An empty rule list runs every
// rule.
type CheckRequest struct {
	Source string   `json:"source"`
	Rules  []string `json:"rules,omitempty"`
}

// CheckResponse is the reply of POST /v1/check.
type CheckResponse struct {
	Diagnostics []lint.Diagnostic `json:"diagnostics"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	RequestID string `json:"request_id"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	req := FormatRequest{Options: s.cfg.Defaults}
	if !s.decode(w, r, &req) {
		return
	}
	if err := req.Options.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	out, hit, err := s.runner.FormatSource(r.Context(), req.Source, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FormatResponse{
		Formatted: out,
		Changed:   out != req.Source,
		Cached:    hit,
	})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if !s.decode(w, r, &req) {
		return
	}
	rules, err := lint.Select(req.Rules)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	diags, _, err := s.runner.Lint(r.Context(), req.Source, rules)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if diags == nil {
		diags = []lint.Diagnostic{}
	}
	writeJSON(w, http.StatusOK, CheckResponse{Diagnostics: diags})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeStatus(w, r, http.StatusRequestEntityTooLarge, pferrors.ErrCodeInvalidInput, "request body too large")
			return false
		}
		s.writeError(w, r, pferrors.Wrap(pferrors.ErrCodeInvalidInput, err, "decode request"))
		return false
	}
	return true
}

// statusFor maps an error code onto an HTTP status.
func statusFor(code pferrors.Code) int {
	switch code {
	case pferrors.ErrCodeParse, pferrors.ErrCodeSyntaxShape:
		return http.StatusUnprocessableEntity
	case pferrors.ErrCodeInvalidInput, pferrors.ErrCodeInvalidOption:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := pferrors.GetCode(err)
	if code == "" {
		code = pferrors.ErrCodeInternal
	}
	status := statusFor(code)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "err", err)
	}
	s.writeStatus(w, r, status, code, pferrors.UserMessage(err))
}

func (s *Server) writeStatus(w http.ResponseWriter, r *http.Request, status int, code pferrors.Code, msg string) {
	var body ErrorResponse
	body.Error.Code = string(code)
	body.Error.Message = msg
	body.RequestID = RequestID(r.Context())
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
