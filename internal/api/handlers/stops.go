package handlers

import (
	"context"
	"net/http"

	"field-route-service/internal/api/dto"
	"field-route-service/internal/domain"
	"field-route-service/internal/services"
)

// StopHandler exposes stop visit-lifecycle and response endpoints.
type StopHandler struct {
	Service *services.RouteService
}

func (h *StopHandler) Arrive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.ArriveAtStop)
}

func (h *StopHandler) Depart(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.DepartStop)
}

func (h *StopHandler) Skip(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.SkipStop)
}

func (h *StopHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, stopID string) (*domain.Stop, error),
) {
	stop, err := op(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toStopResponse(stop))
}

// SaveResponse records one answer to one question at this stop,
// replacing any earlier answer for the same question.
func (h *StopHandler) SaveResponse(w http.ResponseWriter, r *http.Request) {
	stopID := r.PathValue("id")
	questionID := r.PathValue("questionID")

	var req dto.SaveResponseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.Service.SaveResponse(r.Context(), stopID, questionID, services.ResponseValue{
		Bool:   req.BoolValue,
		Number: req.NumberValue,
		Text:   req.TextValue,
		Image:  req.ImageData,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toResponseResponse(resp))
}

func toResponseResponse(resp *domain.QuestionResponse) dto.QuestionResponseResponse {
	return dto.QuestionResponseResponse{
		ID:           resp.ID,
		StopID:       resp.StopID,
		RouteID:      resp.RouteID,
		QuestionID:   resp.QuestionID,
		QuestionText: resp.QuestionText,
		QuestionType: string(resp.QuestionType),
		BoolValue:    resp.BoolValue,
		NumberValue:  resp.NumberValue,
		TextValue:    resp.TextValue,
		ImageData:    resp.ImageData,
		UpdatedAt:    resp.UpdatedAt,
	}
}
