package dto

import "time"

// SaveResponseRequest carries one answer; the populated value field
// should match the question's type.
type SaveResponseRequest struct {
	BoolValue   *bool    `json:"bool_value"`
	NumberValue *float64 `json:"number_value"`
	TextValue   *string  `json:"text_value"`
	ImageData   *string  `json:"image_data"`
}

type QuestionResponseResponse struct {
	ID           string    `json:"id"`
	StopID       string    `json:"stop_id"`
	RouteID      string    `json:"route_id"`
	QuestionID   string    `json:"question_id"`
	QuestionText string    `json:"question_text"`
	QuestionType string    `json:"question_type"`
	BoolValue    *bool     `json:"bool_value,omitempty"`
	NumberValue  *float64  `json:"number_value,omitempty"`
	TextValue    *string   `json:"text_value,omitempty"`
	ImageData    *string   `json:"image_data,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type QuestionTemplateResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`
	SortOrder int    `json:"sort_order"`
}

type ListQuestionsResponse struct {
	Questions []QuestionTemplateResponse `json:"questions"`
}
