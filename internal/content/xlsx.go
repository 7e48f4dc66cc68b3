package content

import (
	"strconv"
	"strings"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/models"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Sheet names of a content workbook. Every sheet has one header row.
const (
	SheetWelcome  = "welcome"
	SheetQuestion = "questions"
	SheetResults  = "results"
	SheetFollowup = "followup"
)

// LoadXLSX reads a workbook laid out as:
//
//	welcome:                photo_id | text_1 | text_2 | button_text
//	questions:              number | photo_id | prompt | option 1 | option 2 | ...
//	results:                number | photo_id | text | document_id
//	followup:               order | content
//	after_payment,
//	after_payment_followup: order | type | content | button_text
//
// Missing sheets are treated as empty.
func LoadXLSX(path string) (*models.Content, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	defer f.Close()

	sheets := map[string]bool{}
	for _, name := range f.GetSheetList() {
		sheets[name] = true
	}
	rows := func(sheet string) ([][]string, error) {
		if !sheets[sheet] {
			return nil, nil
		}
		all, err := f.GetRows(sheet)
		if err != nil {
			return nil, errors.Wrapf(err, "read sheet %s", sheet)
		}
		if len(all) <= 1 {
			return nil, nil
		}
		return all[1:], nil
	}

	c := &models.Content{}

	welcome, err := rows(SheetWelcome)
	if err != nil {
		return nil, err
	}
	if len(welcome) > 0 {
		r := welcome[0]
		c.Welcome = &models.Welcome{
			PhotoID:    cell(r, 0),
			Text1:      cell(r, 1),
			Text2:      cell(r, 2),
			ButtonText: cell(r, 3),
		}
	}

	questions, err := rows(SheetQuestion)
	if err != nil {
		return nil, err
	}
	for i, r := range questions {
		if blank(r) {
			continue
		}
		n, err := number(r, 0)
		if err != nil {
			return nil, errors.Wrapf(err, "%s row %d", SheetQuestion, i+2)
		}
		q := models.Question{Number: n, PhotoID: cell(r, 1), Prompt: cell(r, 2)}
		for col := 3; col < len(r); col++ {
			if text := cell(r, col); text != "" {
				q.Options = append(q.Options, models.QuestionOption{Number: col - 2, Text: text})
			}
		}
		c.Questions = append(c.Questions, q)
	}

	results, err := rows(SheetResults)
	if err != nil {
		return nil, err
	}
	for i, r := range results {
		if blank(r) {
			continue
		}
		n, err := number(r, 0)
		if err != nil {
			return nil, errors.Wrapf(err, "%s row %d", SheetResults, i+2)
		}
		c.Results = append(c.Results, models.Result{
			Number:     n,
			PhotoID:    cell(r, 1),
			Text:       cell(r, 2),
			DocumentID: cell(r, 3),
		})
	}

	followup, err := rows(SheetFollowup)
	if err != nil {
		return nil, err
	}
	for i, r := range followup {
		if blank(r) {
			continue
		}
		n, err := number(r, 0)
		if err != nil {
			return nil, errors.Wrapf(err, "%s row %d", SheetFollowup, i+2)
		}
		c.Followup = append(c.Followup, models.FollowupMessage{SortOrder: n, Content: cell(r, 1)})
	}

	for _, funnel := range []string{models.FunnelAfterPayment, models.FunnelAfterPaymentFollowup} {
		blocks, err := rows(funnel)
		if err != nil {
			return nil, err
		}
		for i, r := range blocks {
			if blank(r) {
				continue
			}
			n, err := number(r, 0)
			if err != nil {
				return nil, errors.Wrapf(err, "%s row %d", funnel, i+2)
			}
			c.Funnels = append(c.Funnels, models.FunnelBlock{
				Funnel:     funnel,
				SortOrder:  n,
				Type:       models.BlockType(strings.ToLower(cell(r, 1))),
				Content:    cell(r, 2),
				ButtonText: cell(r, 3),
			})
		}
	}

	normalize(c)
	return c, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func number(row []string, i int) (int, error) {
	n, err := strconv.Atoi(cell(row, i))
	if err != nil {
		return 0, errors.Errorf("column %d: %q is not a number", i+1, cell(row, i))
	}
	return n, nil
}
