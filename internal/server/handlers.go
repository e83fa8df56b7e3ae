package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/gnparser/pkg/batch"
	"github.com/matzehuels/gnparser/pkg/buildinfo"
	"github.com/matzehuels/gnparser/pkg/errors"
	"github.com/matzehuels/gnparser/pkg/pipeline"
)

// Request is the body of POST /api/v1. Nil fields take server defaults.
type Request struct {
	Names     []*string `json:"names"`
	Format    *string   `json:"format,omitempty"`
	Code      *string   `json:"code,omitempty"`
	Details   *bool     `json:"details,omitempty"`
	Diaereses *bool     `json:"diaereses,omitempty"`
}

// Response is the body of a successful parse request.
type Response struct {
	Results []*string `json:"results"`
	Faults  []Fault   `json:"faults,omitempty"`
}

// Fault reports a name whose parse failed internally.
type Fault struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a request error.
type ErrorBody struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("pong"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// handleGet parses names from the path. Query parameters format, code,
// details and diaereses override the defaults.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "names")
	if v, err := url.PathUnescape(raw); err == nil {
		raw = v
	}

	parts := strings.Split(raw, "|")
	entries := make([]batch.Entry, len(parts))
	for i, p := range parts {
		if strings.TrimSpace(p) == "" {
			entries[i] = batch.Entry{Missing: true}
			continue
		}
		entries[i] = batch.Entry{Value: p}
	}

	q := r.URL.Query()
	req := Request{}
	if q.Has("format") {
		v := q.Get("format")
		req.Format = &v
	}
	if q.Has("code") {
		v := q.Get("code")
		req.Code = &v
	}
	for key, dst := range map[string]**bool{"details": &req.Details, "diaereses": &req.Diaereses} {
		if !q.Has(key) {
			continue
		}
		b, err := strconv.ParseBool(q.Get(key))
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid %s value %q", key, q.Get(key)))
			return
		}
		*dst = &b
	}
	s.parse(w, r, entries, req)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if req.Names == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "names is required"))
		return
	}
	s.parse(w, r, batch.FromValues(req.Names), req)
}

func (s *Server) parse(w http.ResponseWriter, r *http.Request, entries []batch.Entry, req Request) {
	opts := s.options(req)
	if err := errors.ValidateBatchSize(len(entries), opts.MaxBatch); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.ParseBatch(r.Context(), entries, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := Response{Results: batch.Values(res.Outputs)}
	if resp.Results == nil {
		resp.Results = []*string{}
	}
	for i, o := range res.Outputs {
		if o.Fault != nil {
			resp.Faults = append(resp.Faults, Fault{Index: i, Error: o.Fault.Error()})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) options(req Request) pipeline.Options {
	d := s.cfg.Defaults
	opts := pipeline.Options{
		Format:    d.Format,
		Code:      d.Code,
		Details:   d.Details,
		Diaereses: d.Diaereses,
		Jobs:      d.Jobs,
		CacheTTL:  d.CacheTTL,
		MaxBatch:  s.cfg.MaxBatch,
		Logger:    s.logger,
	}
	if req.Format != nil {
		opts.Format = *req.Format
	}
	if req.Code != nil {
		opts.Code = *req.Code
	}
	if req.Details != nil {
		opts.Details = *req.Details
	}
	if req.Diaereses != nil {
		opts.Diaereses = *req.Diaereses
	}
	return opts
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := http.StatusBadRequest
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidCode:
	case errors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	default:
		if r.Context().Err() != nil {
			status = http.StatusServiceUnavailable
			code = errors.ErrCodeTimeout
		} else {
			status = http.StatusInternalServerError
			code = errors.ErrCodeInternal
		}
	}
	if status >= 500 {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "err", err)
	}
	writeJSON(w, status, ErrorResponse{Error: ErrorBody{
		Code:      code,
		Message:   errors.UserMessage(err),
		RequestID: RequestID(r.Context()),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
