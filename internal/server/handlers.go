package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/olliegilbey/resumate-sub000/internal/jobdesc"
	"github.com/olliegilbey/resumate-sub000/internal/parse"
	"github.com/olliegilbey/resumate-sub000/internal/pipeline"
	"github.com/olliegilbey/resumate-sub000/internal/types"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// SelectRequest is the body of POST /api/v1/select. AI mode needs a job
// description (inline or by URL); heuristic mode needs a role profile ID.
type SelectRequest struct {
	Mode           string                 `json:"mode,omitempty" validate:"omitempty,oneof=ai heuristic"`
	JobDescription string                 `json:"jobDescription,omitempty"`
	JobURL         string                 `json:"jobUrl,omitempty" validate:"omitempty,url"`
	RoleID         string                 `json:"roleId,omitempty"`
	Provider       string                 `json:"provider,omitempty" validate:"omitempty,oneof=gemini openai anthropic"`
	Config         *types.SelectionConfig `json:"config,omitempty"`
}

// SelectErrorResponse is returned when a selection run fails terminally.
type SelectErrorResponse struct {
	Error    string             `json:"error"`
	Code     parse.ErrorCode    `json:"code,omitempty"`
	Attempts int                `json:"attempts"`
	History  []*parse.ParseError `json:"history,omitempty"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Mode == "" {
		req.Mode = "ai"
	}

	comp, err := s.store.Load(r.Context())
	if err != nil {
		s.logger.Error("failed to load compendium", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to load compendium")
		return
	}

	cfg := types.DefaultSelectionConfig()
	if req.Config != nil {
		cfg = *req.Config
		if err := validate.Struct(&cfg); err != nil {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	switch req.Mode {
	case "heuristic":
		if req.RoleID == "" {
			s.errorResponse(w, http.StatusBadRequest, "heuristic mode requires roleId")
			return
		}
		profile := comp.Profile(req.RoleID)
		if profile == nil {
			s.errorResponse(w, http.StatusBadRequest, "unknown role profile: "+req.RoleID)
			return
		}
		result, err := s.orchestrator.SelectHeuristic(r.Context(), comp, profile, cfg)
		if err != nil {
			s.logger.Error("heuristic selection failed", zap.Error(err))
			s.errorResponse(w, http.StatusInternalServerError, "selection failed")
			return
		}
		s.jsonResponse(w, http.StatusOK, result)

	case "ai":
		description := req.JobDescription
		if description == "" {
			if req.JobURL == "" {
				s.errorResponse(w, http.StatusBadRequest, "ai mode requires jobDescription or jobUrl")
				return
			}
			description, err = jobdesc.Fetch(r.Context(), req.JobURL)
			if err != nil {
				s.errorResponse(w, http.StatusBadGateway, err.Error())
				return
			}
		}

		orchestrator := s.orchestrator
		if req.Provider != "" {
			orchestrator = orchestrator.Prefer(req.Provider)
		}
		result, err := orchestrator.Select(r.Context(), description, comp, cfg)
		if err != nil {
			var selErr *pipeline.SelectionError
			if errors.As(err, &selErr) {
				s.logger.Warn("selection exhausted all providers", zap.String("detail", selErr.Verbose()))
				resp := SelectErrorResponse{
					Error:    selErr.Error(),
					Attempts: selErr.Attempts,
					History:  selErr.Errors,
				}
				if len(selErr.Errors) > 0 {
					resp.Code = selErr.Errors[len(selErr.Errors)-1].Code
				}
				s.jsonResponse(w, http.StatusUnprocessableEntity, resp)
				return
			}
			s.logger.Error("selection failed", zap.Error(err))
			s.errorResponse(w, http.StatusInternalServerError, "selection failed")
			return
		}
		s.jsonResponse(w, http.StatusOK, result)
	}
}
