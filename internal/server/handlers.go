package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"ai-fitness-planner/internal/catalog"
	"ai-fitness-planner/internal/metrics"
	"ai-fitness-planner/internal/planner"
	"ai-fitness-planner/internal/validation"
)

const msgInvalidJSON = "Request body must be a JSON object"

type recommendationResponse struct {
	Recommendation any `json:"recommendation"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status  string            `json:"status"`
	Catalog catalog.Stats     `json:"catalog"`
	System  metrics.SysHealth `json:"system"`
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "API is running...")
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(requestLogger(r, s.log), w, http.StatusOK, healthResponse{
		Status:  "ok",
		Catalog: s.app.Catalog().Stats(),
		System:  metrics.GetSysHealth(s.dataFiles...),
	})
}

func (s *Server) dietHandler(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, s.log)

	var req validation.DietRequest
	if err := decodeBody(r, &req, "calories", validation.MsgCalories); err != nil {
		renderHTTPError(log, w, err, http.StatusBadRequest)
		return
	}

	plan, err := s.app.RecommendDiet(r.Context(), req)
	if err != nil {
		renderHTTPError(log, w, err, statusFor(err))
		return
	}
	writeJSON(log, w, http.StatusOK, recommendationResponse{Recommendation: plan})
}

func (s *Server) workoutHandler(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, s.log)

	var req validation.WorkoutRequest
	if err := decodeBody(r, &req, "goal", validation.MsgGoal); err != nil {
		renderHTTPError(log, w, err, http.StatusBadRequest)
		return
	}

	plan, err := s.app.RecommendWorkout(r.Context(), req)
	if err != nil {
		renderHTTPError(log, w, err, statusFor(err))
		return
	}
	writeJSON(log, w, http.StatusOK, recommendationResponse{Recommendation: plan})
}

// decodeBody reads a JSON object into v. An empty body decodes to the zero
// value so that missing fields are reported by validation. A value of the
// wrong type in field is reported with the field's message.
func decodeBody(r *http.Request, v any, field, fieldMsg string) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == field {
		return &validation.ValidationError{Field: field, Message: fieldMsg}
	}
	if strings.Contains(err.Error(), "invalid number literal") {
		return &validation.ValidationError{Field: field, Message: fieldMsg}
	}
	return &requestError{msg: msgInvalidJSON, err: err}
}

type requestError struct {
	msg string
	err error
}

func (e *requestError) Error() string { return e.msg + ": " + e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func statusFor(err error) int {
	var vErr *validation.ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, planner.ErrInsufficientExercises):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the text returned to the caller for err.
func publicMessage(err error, code int) string {
	var vErr *validation.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	var rErr *requestError
	if errors.As(err, &rErr) {
		return rErr.msg
	}
	if errors.Is(err, planner.ErrInsufficientExercises) {
		return planner.ErrInsufficientExercises.Error()
	}
	return http.StatusText(code)
}

func renderHTTPError(log logrus.FieldLogger, w http.ResponseWriter, err error, code int) {
	entry := log.WithError(err).WithField("status_code", code)
	if code >= http.StatusInternalServerError {
		entry.Error("request error")
	} else {
		entry.Info("request rejected")
	}
	writeJSON(log, w, code, errorResponse{Error: publicMessage(err, code)})
}

func writeJSON(log logrus.FieldLogger, w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("failed to write response")
	}
}
