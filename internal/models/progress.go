package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Answers holds one slot per question; 0 marks a question not answered yet.
type Answers []int

func NewAnswers(n int) Answers {
	return make(Answers, n)
}

func (a Answers) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]int(a))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (a *Answers) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*a = Answers{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported answers type %T", src)
	}
	if len(data) == 0 {
		*a = Answers{}
		return nil
	}
	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*a = values
	return nil
}

// Resize pads or truncates the slots to exactly n entries.
func (a Answers) Resize(n int) Answers {
	out := make(Answers, n)
	copy(out, a)
	return out
}

type UserProgress struct {
	ChatID              int64   `db:"chat_id"`
	Step                int     `db:"step"`
	Answers             Answers `db:"answers"`
	LastPromptMessageID int     `db:"last_prompt_message_id"`
	Finished            bool    `db:"finished"`
}

func NewUserProgress(chatID int64, questions int) *UserProgress {
	return &UserProgress{
		ChatID:  chatID,
		Step:    1,
		Answers: NewAnswers(questions),
	}
}

// AcceptsPrompt reports whether an answer click on promptMessageID may mutate the record.
func (p *UserProgress) AcceptsPrompt(promptMessageID int) bool {
	return !p.Finished && p.LastPromptMessageID != 0 && p.LastPromptMessageID == promptMessageID
}
