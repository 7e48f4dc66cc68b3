// Package telegramtest provides an in-memory Messenger for tests.
package telegramtest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

var ErrInjected = errors.New("injected failure")

// Call is one recorded Bot API request.
type Call struct {
	Method    string
	ChatID    int64
	MessageID int
	Text      string
	FileID    string
	Keyboard  *tgmodels.InlineKeyboardMarkup
}

// CallbackData lists every button payload of the call's keyboard, row by row.
func (c Call) CallbackData() []string {
	if c.Keyboard == nil {
		return nil
	}
	var out []string
	for _, row := range c.Keyboard.InlineKeyboard {
		for _, btn := range row {
			out = append(out, btn.CallbackData)
		}
	}
	return out
}

type Messenger struct {
	mu     sync.Mutex
	calls  []Call
	nextID int
	fail   map[string]int
	chats  map[int64]tgmodels.ChatFullInfo
}

func NewMessenger() *Messenger {
	return &Messenger{
		nextID: 1000,
		fail:   make(map[string]int),
		chats:  make(map[int64]tgmodels.ChatFullInfo),
	}
}

// FailNext makes the next n calls of method return ErrInjected.
func (m *Messenger) FailNext(method string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[method] = n
}

func (m *Messenger) SetChat(chatID int64, firstName, username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chats[chatID] = tgmodels.ChatFullInfo{ID: chatID, FirstName: firstName, Username: username}
}

func (m *Messenger) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *Messenger) CallsTo(chatID int64) []Call {
	var out []Call
	for _, c := range m.Calls() {
		if c.ChatID == chatID {
			out = append(out, c)
		}
	}
	return out
}

func (m *Messenger) CallsOf(method string) []Call {
	var out []Call
	for _, c := range m.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (m *Messenger) Texts(chatID int64) []string {
	var out []string
	for _, c := range m.CallsTo(chatID) {
		if c.Method == "sendMessage" || c.Method == "editMessageText" {
			out = append(out, c.Text)
		}
	}
	return out
}

func (m *Messenger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

func (m *Messenger) record(c Call) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n := m.fail[c.Method]; n > 0 {
		m.fail[c.Method] = n - 1
		return 0, ErrInjected
	}
	if c.MessageID == 0 && strings.HasPrefix(c.Method, "send") {
		m.nextID++
		c.MessageID = m.nextID
	}
	m.calls = append(m.calls, c)
	return c.MessageID, nil
}

func chatID(v any) int64 {
	switch id := v.(type) {
	case int64:
		return id
	case int:
		return int64(id)
	}
	return 0
}

func keyboard(markup tgmodels.ReplyMarkup) *tgmodels.InlineKeyboardMarkup {
	kb, _ := markup.(*tgmodels.InlineKeyboardMarkup)
	return kb
}

func fileID(f tgmodels.InputFile) string {
	if s, ok := f.(*tgmodels.InputFileString); ok {
		return s.Data
	}
	return ""
}

func (m *Messenger) message(c Call) (*tgmodels.Message, error) {
	id, err := m.record(c)
	if err != nil {
		return nil, err
	}
	return &tgmodels.Message{ID: id, Chat: tgmodels.Chat{ID: c.ChatID}}, nil
}

func (m *Messenger) SendMessage(_ context.Context, p *bot.SendMessageParams) (*tgmodels.Message, error) {
	return m.message(Call{Method: "sendMessage", ChatID: chatID(p.ChatID), Text: p.Text, Keyboard: keyboard(p.ReplyMarkup)})
}

func (m *Messenger) SendPhoto(_ context.Context, p *bot.SendPhotoParams) (*tgmodels.Message, error) {
	return m.message(Call{Method: "sendPhoto", ChatID: chatID(p.ChatID), Text: p.Caption, FileID: fileID(p.Photo), Keyboard: keyboard(p.ReplyMarkup)})
}

func (m *Messenger) SendDocument(_ context.Context, p *bot.SendDocumentParams) (*tgmodels.Message, error) {
	return m.message(Call{Method: "sendDocument", ChatID: chatID(p.ChatID), FileID: fileID(p.Document)})
}

func (m *Messenger) SendVideoNote(_ context.Context, p *bot.SendVideoNoteParams) (*tgmodels.Message, error) {
	return m.message(Call{Method: "sendVideoNote", ChatID: chatID(p.ChatID), FileID: fileID(p.VideoNote)})
}

func (m *Messenger) EditMessageText(_ context.Context, p *bot.EditMessageTextParams) (*tgmodels.Message, error) {
	return m.message(Call{Method: "editMessageText", ChatID: chatID(p.ChatID), MessageID: p.MessageID, Text: p.Text, Keyboard: keyboard(p.ReplyMarkup)})
}

func (m *Messenger) DeleteMessage(_ context.Context, p *bot.DeleteMessageParams) (bool, error) {
	_, err := m.record(Call{Method: "deleteMessage", ChatID: chatID(p.ChatID), MessageID: p.MessageID})
	return err == nil, err
}

func (m *Messenger) GetChat(_ context.Context, p *bot.GetChatParams) (*tgmodels.ChatFullInfo, error) {
	id := chatID(p.ChatID)
	if _, err := m.record(Call{Method: "getChat", ChatID: id}); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	chat, ok := m.chats[id]
	if !ok {
		return nil, errors.New("Bad Request: chat not found")
	}
	return &chat, nil
}

func (m *Messenger) AnswerCallbackQuery(_ context.Context, p *bot.AnswerCallbackQueryParams) (bool, error) {
	_, err := m.record(Call{Method: "answerCallbackQuery", Text: p.CallbackQueryID})
	return err == nil, err
}
