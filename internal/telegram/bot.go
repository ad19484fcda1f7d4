// Package telegram is the chat channel: it routes inbound updates to the
// dialog engine or directly to the journal service, and renders replies with
// inline keyboards. Global commands are accepted in any dialog state and
// unconditionally close the open dialog before running.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/dastin52/bet-diary-app-sub000/internal/config"
	"github.com/dastin52/bet-diary-app-sub000/internal/dialog"
	"github.com/dastin52/bet-diary-app-sub000/internal/models"
	"github.com/dastin52/bet-diary-app-sub000/internal/services"
	"github.com/dastin52/bet-diary-app-sub000/internal/store"
)

// apiClient is the slice of the bot API the routing layer needs.
type apiClient interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Bot struct {
	api     *tgbotapi.BotAPI
	client  apiClient
	store   *store.AggregateStore
	engine  *dialog.Engine
	journal *services.JournalService
	sync    *services.SyncService
}

func New(cfg *config.Config, st *store.AggregateStore, engine *dialog.Engine, journal *services.JournalService, sync *services.SyncService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot api: %w", err)
	}
	log.WithField("username", api.Self.UserName).Info("telegram bot authorized")
	return &Bot{api: api, client: api, store: st, engine: engine, journal: journal, sync: sync}, nil
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 50
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case upd := <-updates:
			b.handleUpdate(ctx, upd)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.Message != nil:
		b.handleMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	}
}

func sessionKeyFor(chatID int64) string {
	return store.SessionKey("tg", strconv.FormatInt(chatID, 10))
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}
	key := sessionKeyFor(chatID)

	agg, err := b.store.Load(ctx, key)
	if err != nil {
		log.WithError(err).WithField("chat", chatID).Error("failed to load journal")
		b.send(chatID, "Storage is unavailable right now, please retry.", nil)
		return
	}

	// Global commands interrupt any open dialog. The cleared dialog is
	// persisted here, before dispatch, so the interruption holds even when
	// the command itself fails or only replies with a usage hint.
	if cmd, args, ok := globalCommand(text); ok {
		if agg.Dialog != nil {
			agg.Dialog = nil
			if err := b.store.Save(ctx, key, agg); err != nil {
				b.reportError(chatID, err)
				return
			}
		}
		b.runCommand(ctx, key, chatID, agg, cmd, args)
		return
	}

	if agg.Dialog != nil {
		in := dialog.Input{Text: text, ChatID: chatID, Handle: msg.From.UserName}
		reply, out, err := b.engine.Handle(ctx, key, agg, in)
		if err != nil {
			b.reportError(chatID, err)
			return
		}
		if err := b.store.Save(ctx, key, out); err != nil {
			b.reportError(chatID, err)
			return
		}
		b.send(chatID, reply.Text, reply.Buttons)
		return
	}

	b.send(chatID, helpText(), nil)
}

// globalCommand recognizes the top-level commands that preempt any dialog.
// Flow-local tokens (/done, /end) are deliberately not in this set.
func globalCommand(text string) (cmd, args string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	fields := strings.Fields(text)
	cmd = strings.ToLower(fields[0])
	args = strings.TrimSpace(strings.TrimPrefix(text, fields[0]))
	switch cmd {
	case "/start", "/help", "/cancel", "/register", "/login", "/add",
		"/bets", "/stats", "/goals", "/setbalance", "/link", "/chat":
		return cmd, args, true
	}
	return "", "", false
}

func (b *Bot) runCommand(ctx context.Context, key string, chatID int64, agg *models.Aggregate, cmd, args string) {
	switch cmd {
	case "/start", "/help":
		b.send(chatID, helpText(), nil)
	case "/cancel":
		b.send(chatID, "Cancelled.", nil)
	case "/register":
		b.startFlow(ctx, key, chatID, agg, models.FlowRegister)
	case "/login":
		b.startFlow(ctx, key, chatID, agg, models.FlowLogin)
	case "/add":
		b.startFlow(ctx, key, chatID, agg, models.FlowAddWager)
	case "/chat":
		b.startFlow(ctx, key, chatID, agg, models.FlowChat)
	case "/bets":
		b.listBets(chatID, agg)
	case "/stats":
		b.sendStats(chatID, agg)
	case "/goals":
		b.sendGoals(ctx, key, chatID)
	case "/setbalance":
		b.setBalance(ctx, key, chatID, args)
	case "/link":
		b.redeemLink(ctx, key, chatID, agg, args)
	}
}

func (b *Bot) startFlow(ctx context.Context, key string, chatID int64, agg *models.Aggregate, flow models.DialogFlow) {
	reply := b.engine.Start(agg, flow)
	if err := b.store.Save(ctx, key, agg); err != nil {
		b.reportError(chatID, err)
		return
	}
	b.send(chatID, reply.Text, reply.Buttons)
}

func (b *Bot) setBalance(ctx context.Context, key string, chatID int64, args string) {
	amount, err := strconv.ParseFloat(strings.ReplaceAll(args, ",", "."), 64)
	if err != nil {
		b.send(chatID, "Usage: /setbalance <amount>", nil)
		return
	}
	entry, err := b.journal.SetBalance(ctx, key, amount)
	if err != nil {
		b.reportError(chatID, err)
		return
	}
	if entry == nil {
		b.send(chatID, fmt.Sprintf("Balance already %.2f.", amount), nil)
		return
	}
	b.send(chatID, fmt.Sprintf("Balance set to %.2f (%s %+.2f).", amount, entry.Kind, entry.Delta), nil)
}

func (b *Bot) redeemLink(ctx context.Context, key string, chatID int64, agg *models.Aggregate, args string) {
	code := strings.TrimSpace(args)
	if code == "" {
		b.send(chatID, "Usage: /link <code> — get a code from the web app profile.", nil)
		return
	}
	if agg.Account == nil {
		agg.Account = &models.Account{}
	}
	agg.Account.TelegramChatID = chatID
	merged, err := b.sync.RedeemLinkCode(ctx, key, code, agg)
	if err != nil {
		if models.IsNotFound(err) {
			b.send(chatID, "That code is unknown or already used.", nil)
			return
		}
		b.reportError(chatID, err)
		return
	}
	b.send(chatID, fmt.Sprintf("Linked! This chat now follows %s's journal.", merged.Account.Nickname), nil)
}

func (b *Bot) reportError(chatID int64, err error) {
	if models.IsValidation(err) || models.IsNotFound(err) || models.IsConflict(err) {
		b.send(chatID, err.Error(), nil)
		return
	}
	log.WithError(err).WithField("chat", chatID).Error("request failed")
	b.send(chatID, "Something went wrong, please retry.", nil)
}

func (b *Bot) send(chatID int64, text string, buttons [][]dialog.Button) {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(buttons) > 0 {
		msg.ReplyMarkup = keyboard(buttons)
	}
	if _, err := b.client.Send(msg); err != nil {
		log.WithError(err).WithField("chat", chatID).Warn("failed to send message")
	}
}

// Dialog buttons route back into the open flow as if the user typed the token.
func keyboard(buttons [][]dialog.Button) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var btns []tgbotapi.InlineKeyboardButton
		for _, btn := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(btn.Label, "dlg:"+btn.Token))
		}
		rows = append(rows, btns)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func helpText() string {
	return "Betting journal bot.\n\n" +
		"/add — record a new bet\n" +
		"/bets — your bets with settle buttons\n" +
		"/stats — balance, ROI, win rate\n" +
		"/goals — goal progress\n" +
		"/setbalance <amount> — set bankroll\n" +
		"/register — create an account\n" +
		"/login — sign in\n" +
		"/link <code> — attach this chat to a web account\n" +
		"/chat — talk to the assistant\n" +
		"/cancel — abort the current dialog"
}
