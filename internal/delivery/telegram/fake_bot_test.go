package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
	"github.com/yourusername/aroma-purchase-bot/internal/infrastructure/storage"
	"github.com/yourusername/aroma-purchase-bot/internal/usecase"
)

// fakeBot records everything the handler sends to Telegram
type fakeBot struct {
	mu         sync.Mutex
	sent       []tgbotapi.Chattable
	requests   []tgbotapi.Chattable
	nextID     int
	requestErr error
	updates    chan tgbotapi.Update
	notify     chan struct{}
}

func newFakeBot() *fakeBot {
	return &fakeBot{
		updates: make(chan tgbotapi.Update, 10),
		notify:  make(chan struct{}, 100),
	}
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.sent = append(f.sent, c)
	f.mu.Unlock()

	select {
	case f.notify <- struct{}{}:
	default:
	}
	return tgbotapi.Message{MessageID: id}, nil
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	if _, isEdit := c.(tgbotapi.EditMessageTextConfig); isEdit && f.requestErr != nil {
		return nil, f.requestErr
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeBot) StopReceivingUpdates() {}

// texts returns the text of every sent plain message
func (f *fakeBot) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeBot) lastText() string {
	texts := f.texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

func (f *fakeBot) lastSent() tgbotapi.Chattable {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return nil
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeBot) edits() []tgbotapi.EditMessageTextConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.EditMessageTextConfig
	for _, c := range f.requests {
		if e, ok := c.(tgbotapi.EditMessageTextConfig); ok {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeBot) callbackAnswers() []tgbotapi.CallbackConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.CallbackConfig
	for _, c := range f.requests {
		if cb, ok := c.(tgbotapi.CallbackConfig); ok {
			out = append(out, cb)
		}
	}
	return out
}

type tableSource struct {
	mu    sync.Mutex
	table entity.RawTable
	err   error

	// hold blocks the next Fetch until it is closed; entered reports the block
	hold    chan struct{}
	entered chan struct{}
}

func (s *tableSource) Fetch(ctx context.Context) (entity.RawTable, error) {
	s.mu.Lock()
	hold, entered := s.hold, s.entered
	s.hold = nil
	s.mu.Unlock()

	if hold != nil {
		close(entered)
		select {
		case <-hold:
		case <-ctx.Done():
			return entity.RawTable{}, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return entity.RawTable{}, s.err
	}
	return s.table, nil
}

// holdNextFetch arms the gate and returns the release func and the entered signal
func (s *tableSource) holdNextFetch() (release func(), entered <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hold := make(chan struct{})
	s.hold = hold
	s.entered = make(chan struct{})
	return func() { close(hold) }, s.entered
}

func (s *tableSource) Name() string { return "test" }

func aromaTable() entity.RawTable {
	return entity.RawTable{
		Headers: []string{"Название аромата", "пол", "10 гр", "Набрано", "Anna"},
		Rows: [][]string{
			{"Amber", "жен", "70", "120", "10"},
			{"Birch", "муж", "50 ₽", "60", ""},
			{"Cedar", "уни", "90", "", ""},
		},
	}
}

var errSheetDown = errors.New("sheet is down")

func newTestHandler(t *testing.T, src *tableSource) (*BotHandler, *fakeBot) {
	t.Helper()
	bot := newFakeBot()
	uc := usecase.NewPurchaseUseCase(src, storage.NewMemorySessionRepository(), storage.NewMemoryOrderJournal(), nil, nil, usecase.Options{PageSize: 2})
	return newBotHandler(bot, uc, nil, Options{Workers: 2}), bot
}

func privateMessage(userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 1000,
		From:      &tgbotapi.User{ID: userID, FirstName: "Test"},
		Chat:      &tgbotapi.Chat{ID: userID, Type: "private"},
		Text:      text,
	}
}

func callback(userID int64, messageID int, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: userID},
		Message: &tgbotapi.Message{MessageID: messageID, Chat: &tgbotapi.Chat{ID: userID, Type: "private"}},
		Data:    data,
	}
}
