package mock

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSender captures outbound bot messages instead of calling the
// Telegram API, so scenarios can assert on the replies the bot would send.
type TelegramSender struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

// NewTelegramSender creates an empty capturing sender.
func NewTelegramSender() *TelegramSender {
	return &TelegramSender{}
}

// Send records the message and reports success.
func (s *TelegramSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.sent = append(s.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

// Sent returns a copy of the captured messages in send order.
func (s *TelegramSender) Sent() []tgbotapi.MessageConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]tgbotapi.MessageConfig, len(s.sent))
	copy(out, s.sent)
	return out
}

// LastText returns the text of the most recent message, or "" when none
// was sent.
func (s *TelegramSender) LastText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return ""
	}
	return s.sent[len(s.sent)-1].Text
}

// Reset discards all captured messages.
func (s *TelegramSender) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
}
