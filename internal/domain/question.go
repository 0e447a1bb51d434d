package domain

import "time"

// Kind of answer a question collects.
type QuestionType string

const (
	QuestionYesNo     QuestionType = "yes_no"
	QuestionRating    QuestionType = "rating"
	QuestionText      QuestionType = "text"
	QuestionChoice    QuestionType = "choice"
	QuestionPhoto     QuestionType = "photo"
	QuestionSignature QuestionType = "signature"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionYesNo, QuestionRating, QuestionText, QuestionChoice, QuestionPhoto, QuestionSignature:
		return true
	}
	return false
}

// A configurable question asked at every stop.
type QuestionTemplate struct {
	ID        string
	Text      string
	Type      QuestionType
	SortOrder int
	Active    bool
}

// One answer to one question at one stop.
//
// QuestionText and QuestionType are snapshotted from the template at
// save time so later template edits do not retroactively alter
// historical reports. At most one response exists per
// (StopID, QuestionID); re-saving updates in place.
//
// Exactly one value field matches the question type: BoolValue for
// yes_no, NumberValue for rating, TextValue for text/choice, ImageData
// for photo/signature. All nil means unanswered.
type QuestionResponse struct {
	ID           string
	StopID       string
	RouteID      string
	QuestionID   string
	QuestionText string
	QuestionType QuestionType
	BoolValue    *bool
	NumberValue  *float64
	TextValue    *string
	ImageData    *string
	UpdatedAt    time.Time
}

// Answered reports whether any value was recorded.
func (r *QuestionResponse) Answered() bool {
	return r.BoolValue != nil || r.NumberValue != nil || r.TextValue != nil || r.ImageData != nil
}
