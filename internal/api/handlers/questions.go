package handlers

import (
	"net/http"

	"field-route-service/internal/api/dto"
	"field-route-service/internal/ports"
)

// QuestionHandler exposes read-only question template retrieval.
type QuestionHandler struct {
	Repo ports.QuestionRepository
}

func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	questions, err := h.Repo.ListActive(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.ListQuestionsResponse{
		Questions: make([]dto.QuestionTemplateResponse, 0, len(questions)),
	}
	for _, q := range questions {
		res.Questions = append(res.Questions, dto.QuestionTemplateResponse{
			ID:        q.ID,
			Text:      q.Text,
			Type:      string(q.Type),
			SortOrder: q.SortOrder,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
