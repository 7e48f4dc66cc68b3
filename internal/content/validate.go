package content

import (
	"strings"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/models"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/services"
	"github.com/pkg/errors"
)

// Validate checks c against a quiz of the given shape and returns every
// problem found, joined.
func Validate(c *models.Content, questions, options int) error {
	var problems []string
	add := func(format string, args ...interface{}) {
		problems = append(problems, errors.Errorf(format, args...).Error())
	}

	if c.Welcome == nil {
		add("welcome is missing")
	}

	seenQuestions := map[int]bool{}
	for _, q := range c.Questions {
		if q.Number < 1 || q.Number > questions {
			add("question %d is outside 1..%d", q.Number, questions)
		}
		if seenQuestions[q.Number] {
			add("question %d is defined twice", q.Number)
		}
		seenQuestions[q.Number] = true
		for _, opt := range q.Options {
			if opt.Number < 1 || opt.Number > options {
				add("question %d option %d is outside 1..%d", q.Number, opt.Number, options)
			}
		}
	}
	for n := 1; n <= questions; n++ {
		if !seenQuestions[n] {
			add("question %d is missing", n)
		}
	}

	seenResults := map[int]bool{}
	for _, r := range c.Results {
		if r.Number < 1 || r.Number > options {
			add("result %d is outside 1..%d", r.Number, options)
		}
		seenResults[r.Number] = true
	}
	for n := 1; n <= options; n++ {
		if !seenResults[n] {
			add("result %d is missing", n)
		}
	}

	for _, b := range c.Funnels {
		switch b.Funnel {
		case models.FunnelAfterPayment, models.FunnelAfterPaymentFollowup:
		default:
			add("block %d belongs to unknown funnel %q", b.SortOrder, b.Funnel)
		}
		switch b.Type {
		case models.BlockTypeText, models.BlockTypePhoto, models.BlockTypeButton:
		case models.BlockTypeVideo:
			if !services.IsVideoNoteID(b.Content) {
				add("%s block %d: %q is not a video note file id", b.Funnel, b.SortOrder, b.Content)
			}
		default:
			add("%s block %d has unknown type %q", b.Funnel, b.SortOrder, b.Type)
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
