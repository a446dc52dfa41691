package domain

// Option is one labelled answer choice.
type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Question is a multiple-choice mock test question. Correct is never serialized.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
	Correct string   `json:"-"`
}

// IsCorrect reports whether key matches the answer key.
func (q Question) IsCorrect(key string) bool {
	return key != "" && key == q.Correct
}
