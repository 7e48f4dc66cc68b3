package services

import (
	"fmt"

	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/fsm"
	"github.com/Sergey-Kudashev/test-domogospodarka-telegram-bot/internal/models"
	tgmodels "github.com/go-telegram/bot/models"
)

func singleButton(text, data string) *tgmodels.InlineKeyboardMarkup {
	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{{Text: text, CallbackData: data}},
		},
	}
}

func AnswerCallbackData(option, question int) string {
	return fmt.Sprintf("%s_%d_%d", fsm.PrefixAnswer, option, question)
}

func DecisionCallbackData(action models.DecisionAction, chatID int64) string {
	return fmt.Sprintf("%s_%d", action, chatID)
}

// answerKeyboard lays out options 1..maxOption with a label in rows of columns buttons.
func answerKeyboard(q *models.Question, maxOption, columns int) *tgmodels.InlineKeyboardMarkup {
	if columns < 1 {
		columns = 1
	}
	var (
		rows [][]tgmodels.InlineKeyboardButton
		row  []tgmodels.InlineKeyboardButton
	)
	for i := 1; i <= maxOption; i++ {
		text := q.OptionText(i)
		if text == "" {
			continue
		}
		row = append(row, tgmodels.InlineKeyboardButton{
			Text:         text,
			CallbackData: AnswerCallbackData(i, q.Number),
		})
		if len(row) == columns {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return &tgmodels.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func decisionKeyboard(chatID int64) *tgmodels.InlineKeyboardMarkup {
	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{
				{Text: AdminApproveButton, CallbackData: DecisionCallbackData(models.ActionApprove, chatID)},
				{Text: AdminRejectButton, CallbackData: DecisionCallbackData(models.ActionReject, chatID)},
			},
		},
	}
}
