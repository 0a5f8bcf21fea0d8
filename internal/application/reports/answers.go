package reports

import (
	"encoding/json"
	"time"

	"github.com/pavani-labs/pulse-survey-api/internal/domain/entities"
)

// Answer is the closed set of answer kinds a participant can submit.
// Only ScaleAnswer values feed dimension statistics; every kind counts
// toward required-question coverage.
type Answer interface {
	isAnswer()
}

// ScaleAnswer is a numeric answer on the questionnaire's scale.
type ScaleAnswer float64

// ChoiceAnswer is the key of a selected multiple-choice option.
type ChoiceAnswer string

// TextAnswer is a free-text answer.
type TextAnswer string

func (ScaleAnswer) isAnswer()  {}
func (ChoiceAnswer) isAnswer() {}
func (TextAnswer) isAnswer()   {}

// ParsedResponse is one participant's decoded answer set.
type ParsedResponse struct {
	ParticipantID string
	SubmittedAt   time.Time
	Answers       map[string]Answer
}

// ParseResponse decodes a stored response payload. The payload is a JSON
// object mapping question id to a number (scale), a string (choice) or an
// object {"text": "..."} (free text). Null and unrecognized values are
// dropped, never coerced to zero.
func ParseResponse(r entities.Response) (ParsedResponse, error) {
	parsed := ParsedResponse{
		ParticipantID: r.ParticipantID,
		SubmittedAt:   r.SubmittedAt,
		Answers:       make(map[string]Answer),
	}
	if len(r.Answers) == 0 {
		return parsed, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(r.Answers, &raw); err != nil {
		return ParsedResponse{}, err
	}
	for questionID, value := range raw {
		if ans, ok := decodeAnswer(value); ok {
			parsed.Answers[questionID] = ans
		}
	}
	return parsed, nil
}

// ParseResponses decodes every response, skipping rows whose payload is not
// a JSON object. The skipped count is reported so callers can log it.
func ParseResponses(responses []entities.Response) (parsed []ParsedResponse, skipped int) {
	parsed = make([]ParsedResponse, 0, len(responses))
	for _, r := range responses {
		p, err := ParseResponse(r)
		if err != nil {
			skipped++
			continue
		}
		parsed = append(parsed, p)
	}
	return parsed, skipped
}

func decodeAnswer(value json.RawMessage) (Answer, bool) {
	var num float64
	if err := json.Unmarshal(value, &num); err == nil {
		return ScaleAnswer(num), true
	}
	var str string
	if err := json.Unmarshal(value, &str); err == nil {
		return ChoiceAnswer(str), true
	}
	var text struct {
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(value, &text); err == nil && text.Text != nil {
		return TextAnswer(*text.Text), true
	}
	return nil, false
}
