package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/controle-financeiro/backend/internal/application/adapter"
	"github.com/controle-financeiro/backend/internal/application/usecase/linking"
	"github.com/controle-financeiro/backend/internal/application/usecase/transaction"
	domainerror "github.com/controle-financeiro/backend/internal/domain/error"
)

// reVincular matches the linking command: /vincular followed by a 6-digit code.
var reVincular = regexp.MustCompile(`^/vincular\s+(\d{6})\b`)

// User-facing replies. Wording mirrors the app's language; the information
// content (direction, amount, memo or the error explanation) is the contract.
const (
	replyLinked      = "Conta vinculada com sucesso! Agora você pode enviar entradas e saídas aqui."
	replyInvalidCode = "Código inválido ou expirado. Gere um novo no app."
	replyLinkError   = "Erro ao vincular. Tente novamente."
	replyRateLimited = "Muitas tentativas de vinculação. Aguarde um minuto e tente novamente."
	replyNotLinked   = "Envie /vincular CODIGO para vincular sua conta. Gere o código no app em Integrações."
	replyNotParsed   = "Formato não reconhecido. Use por exemplo:\n• entrada 100\n• saída 50 mercado\n• +200\n• -30 lanche"
	replyRecordError = "Erro ao registrar. Tente novamente."
	replyStart       = "Olá! Envie /vincular CODIGO para vincular sua conta e depois registre transações como:\n• entrada 100 salário\n• saída 50 mercado\n• +200\n• -30 lanche"
)

// Sender sends messages back to the channel. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Handler dispatches one inbound Telegram message: linking commands go to
// the consume use case, free text goes through the intent parser and, when
// it parses, is recorded for the linked account. Every outcome becomes a
// reply; errors never cross a message boundary.
type Handler struct {
	sender  Sender
	consume *linking.ConsumeLinkingCodeUseCase
	record  *transaction.RecordChannelTransactionUseCase
	limiter adapter.LinkAttemptLimiter
}

// NewHandler creates a new message handler.
func NewHandler(
	sender Sender,
	consume *linking.ConsumeLinkingCodeUseCase,
	record *transaction.RecordChannelTransactionUseCase,
	limiter adapter.LinkAttemptLimiter,
) *Handler {
	return &Handler{
		sender:  sender,
		consume: consume,
		record:  record,
		limiter: limiter,
	}
}

// HandleUpdate processes a single update to completion. Each message is
// independent: a malformed or malicious input affects only its own reply.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	chatID := update.Message.Chat.ID
	channelID := strconv.FormatInt(chatID, 10)
	text := strings.TrimSpace(update.Message.Text)

	if m := reVincular.FindStringSubmatch(text); m != nil {
		h.handleLink(ctx, chatID, channelID, m[1])
		return
	}

	if strings.HasPrefix(text, "/start") {
		h.reply(chatID, replyStart)
		return
	}

	// Other commands are reserved for controls and are never transactions.
	if strings.HasPrefix(text, "/") {
		return
	}

	parsed := ParseMessage(text)
	if parsed == nil {
		h.reply(chatID, replyNotParsed)
		return
	}

	out, err := h.record.Execute(ctx, transaction.RecordChannelTransactionInput{
		ChannelID: channelID,
		Intent:    *parsed,
	})
	if err != nil {
		if errors.Is(err, domainerror.ErrChannelNotLinked) {
			h.reply(chatID, replyNotLinked)
			return
		}
		slog.Error("Failed to record channel transaction",
			"channelID", channelID,
			"error", err,
		)
		h.reply(chatID, replyRecordError)
		return
	}

	memo := ""
	if out.Transaction.Description != "" {
		memo = " (" + out.Transaction.Description + ")"
	}
	h.reply(chatID, fmt.Sprintf("%s de R$ %s%s registrada.",
		parsed.Direction.Label(),
		out.Transaction.Amount.StringFixed(2),
		memo,
	))
}

// handleLink consumes a linking code for the chat, throttled per channel so
// the 6-digit code space cannot be brute-forced from a single chat.
func (h *Handler) handleLink(ctx context.Context, chatID int64, channelID, code string) {
	if h.limiter != nil && !h.limiter.Allow(ctx, channelID) {
		h.reply(chatID, replyRateLimited)
		return
	}

	_, err := h.consume.Execute(ctx, linking.ConsumeLinkingCodeInput{
		Code:      code,
		ChannelID: channelID,
	})
	if err != nil {
		if errors.Is(err, domainerror.ErrLinkingCodeNotFound) {
			h.reply(chatID, replyInvalidCode)
			return
		}
		slog.Error("Failed to consume linking code",
			"channelID", channelID,
			"error", err,
		)
		h.reply(chatID, replyLinkError)
		return
	}

	h.reply(chatID, replyLinked)
}

// reply sends a plain text message to the chat, logging send failures.
func (h *Handler) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.sender.Send(msg); err != nil {
		slog.Error("Failed to send Telegram reply", "chatID", chatID, "error", err)
	}
}

// Gateway runs the long-poll loop, feeding updates to the handler. It is a
// scoped resource: construct it, call Run with the process lifetime context,
// and it stops receiving when that context is cancelled.
type Gateway struct {
	api         *tgbotapi.BotAPI
	handler     *Handler
	pollTimeout int
}

// NewGateway creates a new gateway over a connected bot API.
func NewGateway(api *tgbotapi.BotAPI, handler *Handler, pollTimeout int) *Gateway {
	return &Gateway{
		api:         api,
		handler:     handler,
		pollTimeout: pollTimeout,
	}
}

// Run blocks consuming updates until the context is cancelled.
func (g *Gateway) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = g.pollTimeout

	updates := g.api.GetUpdatesChan(u)

	slog.Info("Telegram gateway started", "bot", g.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			g.api.StopReceivingUpdates()
			slog.Info("Telegram gateway shutting down")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			g.handler.HandleUpdate(ctx, update)
		}
	}
}
