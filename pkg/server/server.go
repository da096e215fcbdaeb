// Package server exposes a form over HTTP. GET renders the form through its
// kit, POST applies the posted values through the form's modifiers and
// submits them.
package server

import (
	"encoding/json"
	"errors"
	"math"
	"mime"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goliatone/go-frontier/pkg/form"
	"github.com/goliatone/go-frontier/pkg/model"
	"github.com/goliatone/go-frontier/pkg/render"
	"github.com/goliatone/go-frontier/pkg/transport/graphqlhttp"
	"github.com/goliatone/go-frontier/pkg/validation"
)

const maxBodyBytes = 1 << 20

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics mounts /metrics serving the given gatherer.
func WithMetrics(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

// Server serves a single form. Concurrent posts share the form, so a post
// arriving while another submits is answered with 409.
type Server struct {
	form     *form.Form
	logger   *zap.Logger
	gatherer prometheus.Gatherer
}

// Response is the JSON body returned by the state and submit endpoints.
type Response struct {
	Status     string            `json:"status,omitempty"`
	Values     map[string]any    `json:"values"`
	Errors     map[string]string `json:"errors,omitempty"`
	FormErrors []string          `json:"formErrors,omitempty"`
	Result     any               `json:"result,omitempty"`
	Error      string            `json:"error,omitempty"`
	Submitting bool              `json:"submitting"`
}

// NewHandler returns the router for f.
func NewHandler(f *form.Form, opts ...Option) (http.Handler, error) {
	if f == nil {
		return nil, errors.New("server: form is required")
	}
	s := &Server{form: f, logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleView)
	r.Post("/", s.handleSubmit)
	r.Get("/state", s.handleState)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r, nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
		)
	})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, stateResponse(s.form.State()))
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		s.handleState(w, r)
		return
	}
	s.writeView(w, r, http.StatusOK)
}

func (s *Server) writeView(w http.ResponseWriter, r *http.Request, status int) {
	rendered, err := s.form.Render(r.Context())
	if errors.Is(err, form.ErrNoKit) {
		writeJSON(w, status, stateResponse(s.form.State()))
		return
	}
	if err != nil {
		s.logger.Error("render form", zap.Error(err))
		http.Error(w, "failed to render form", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", rendered.ContentType)
	w.WriteHeader(status)
	_, _ = w.Write(rendered.Form)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	jsonBody := isJSONContent(r)

	var err error
	if jsonBody {
		err = s.applyJSON(r)
	} else {
		err = s.applyForm(r)
	}
	if err != nil {
		s.logger.Debug("rejecting submit body", zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.form.Submit(r.Context())
	respondJSON := jsonBody || wantsJSON(r)

	status := http.StatusOK
	var formErrors []string
	switch {
	case errors.Is(err, form.ErrBusy):
		status = http.StatusConflict
	case err != nil:
		status = http.StatusBadGateway
		var applied bool
		if applied, formErrors = s.applyServerErrors(err); applied {
			status = http.StatusUnprocessableEntity
		}
	case result.Status == form.StatusInvalid:
		status = http.StatusUnprocessableEntity
	}

	if !respondJSON {
		s.writeView(w, r, status)
		return
	}
	body := stateResponse(s.form.State())
	body.Status = string(result.Status)
	body.Result = result.Payload
	body.FormErrors = formErrors
	if err != nil {
		body.Error = err.Error()
	}
	writeJSON(w, status, body)
}

// applyServerErrors maps GraphQL errors naming a field onto the form. It
// reports whether any field error was applied and returns the messages
// that could not be tied to a field.
func (s *Server) applyServerErrors(err error) (bool, []string) {
	var responseErr *graphqlhttp.ResponseError
	if !errors.As(err, &responseErr) {
		return false, nil
	}

	payload := make(map[string][]string)
	var formLevel []string
	for _, item := range responseErr.Errors {
		if field := item.Field(); field != "" {
			payload[field] = append(payload[field], item.Message)
			continue
		}
		formLevel = append(formLevel, item.Message)
	}

	mapping := render.MapErrorPayload(s.form.Model(), payload)
	fieldErrors := make(map[string]string, len(mapping.Fields))
	for path, messages := range mapping.Fields {
		if len(messages) > 0 {
			fieldErrors[path] = messages[0]
		}
	}
	rejected := s.form.SetErrors(fieldErrors)
	for _, path := range sortedKeys(rejected) {
		formLevel = append(formLevel, rejected[path])
	}
	formLevel = render.MergeFormErrors(formLevel, mapping.Form...)
	return len(fieldErrors) > len(rejected), formLevel
}

// applyForm writes url-encoded values. Every leaf field is replaced: an
// absent key clears the value, and an absent boolean is an unchecked box.
func (s *Server) applyForm(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	for _, field := range leaves(s.form.Fields()) {
		raw, present := r.PostForm[field.Path]
		var value any
		switch {
		case field.Type == model.FieldTypeBoolean:
			value = present && len(raw) > 0 && raw[len(raw)-1] != "false"
		case !present:
			value = nil
		default:
			value = coerce(field, strings.Join(raw, ","))
		}
		if err := s.form.Change(field.Path, value); err != nil {
			return err
		}
	}
	return nil
}

// applyJSON writes a JSON object shaped like the form values.
func (s *Server) applyJSON(r *http.Request) error {
	var values map[string]any
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		return err
	}
	if inner, ok := values["values"].(map[string]any); ok && len(values) == 1 {
		values = inner
	}
	for _, field := range leaves(s.form.Fields()) {
		value, _ := lookup(values, field.Path)
		if err := s.form.Change(field.Path, normalizeJSON(field, value)); err != nil {
			return err
		}
	}
	return nil
}

// coerce converts a posted string. Input that does not parse is kept as
// typed so validation reports it against the field.
func coerce(field model.Field, raw string) any {
	value, err := validation.Coerce(field, raw)
	if err != nil {
		return raw
	}
	return value
}

func normalizeJSON(field model.Field, value any) any {
	n, ok := value.(float64)
	if !ok || field.Type != model.FieldTypeInteger {
		return value
	}
	if n == math.Trunc(n) && !math.IsInf(n, 0) {
		return int64(n)
	}
	return value
}

func leaves(fields []model.Field) []model.Field {
	var out []model.Field
	model.Walk(fields, func(field model.Field) bool {
		if field.Type == model.FieldTypeObject && len(field.Nested) > 0 {
			return true
		}
		out = append(out, field)
		return true
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func lookup(values map[string]any, path string) (any, bool) {
	current := any(values)
	for _, segment := range strings.Split(path, ".") {
		container, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = container[segment]; !ok {
			return nil, false
		}
	}
	return current, true
}

func stateResponse(state form.State) Response {
	resp := Response{
		Values:     state.Values,
		Errors:     state.FieldErrors,
		Result:     state.Result,
		Submitting: state.Submitting,
	}
	if state.SubmitError != nil {
		resp.Error = state.SubmitError.Error()
	}
	if len(resp.Errors) == 0 {
		resp.Errors = nil
	}
	return resp
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func isJSONContent(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
