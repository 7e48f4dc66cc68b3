package models

import "sort"

type Welcome struct {
	PhotoID    string `db:"photo_id" yaml:"photo_id"`
	Text1      string `db:"text_1" yaml:"text_1"`
	Text2      string `db:"text_2" yaml:"text_2"`
	ButtonText string `db:"button_text" yaml:"button_text"`
}

type Question struct {
	Number  int              `db:"question_number" yaml:"number"`
	PhotoID string           `db:"photo_id" yaml:"photo_id"`
	Prompt  string           `db:"prompt" yaml:"prompt"`
	Options []QuestionOption `db:"-" yaml:"options"`
}

type QuestionOption struct {
	QuestionNumber int    `db:"question_number" yaml:"-"`
	Number         int    `db:"option_number" yaml:"number"`
	Text           string `db:"text" yaml:"text"`
}

// OptionText returns the label of option n, or "" when the option is not configured.
func (q *Question) OptionText(n int) string {
	for _, opt := range q.Options {
		if opt.Number == n {
			return opt.Text
		}
	}
	return ""
}

func (q *Question) SortOptions() {
	sort.Slice(q.Options, func(i, j int) bool {
		return q.Options[i].Number < q.Options[j].Number
	})
}

type Result struct {
	Number     int    `db:"result_number" yaml:"number"`
	PhotoID    string `db:"photo_id" yaml:"photo_id"`
	Text       string `db:"text" yaml:"text"`
	DocumentID string `db:"document_id" yaml:"document_id"`
}

type FollowupMessage struct {
	SortOrder int    `db:"sort_order" yaml:"order"`
	Content   string `db:"content" yaml:"content"`
}

const (
	FunnelAfterPayment         = "after_payment"
	FunnelAfterPaymentFollowup = "after_payment_followup"
)

type FunnelBlock struct {
	Funnel     string    `db:"funnel" yaml:"funnel"`
	SortOrder  int       `db:"sort_order" yaml:"order"`
	Type       BlockType `db:"type" yaml:"type"`
	Content    string    `db:"content" yaml:"content"`
	ButtonText string    `db:"button_text" yaml:"button_text"`
}

// Content is a full snapshot of the operator-managed tables.
type Content struct {
	Welcome   *Welcome          `yaml:"welcome"`
	Questions []Question        `yaml:"questions"`
	Results   []Result          `yaml:"results"`
	Followup  []FollowupMessage `yaml:"followup"`
	Funnels   []FunnelBlock     `yaml:"funnels"`
}
