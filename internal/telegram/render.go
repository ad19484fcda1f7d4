package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/dastin52/bet-diary-app-sub000/internal/dialog"
	"github.com/dastin52/bet-diary-app-sub000/internal/models"
	"github.com/dastin52/bet-diary-app-sub000/internal/services"
)

func (b *Bot) listBets(chatID int64, agg *models.Aggregate) {
	if len(agg.Wagers) == 0 {
		b.send(chatID, "No bets yet. /add to record one.", nil)
		return
	}
	b.send(chatID, fmt.Sprintf("Balance: %.2f. Your bets:", agg.Balance), nil)
	for _, w := range agg.Wagers {
		b.sendWagerCard(chatID, w)
	}
}

func (b *Bot) sendWagerCard(chatID int64, w *models.Wager) {
	msg := tgbotapi.NewMessage(chatID, wagerCard(w))
	if !w.Settled() {
		msg.ReplyMarkup = settleKeyboard(w.ID)
	}
	if _, err := b.client.Send(msg); err != nil {
		log.WithError(err).WithField("chat", chatID).Warn("failed to send message")
	}
}

func wagerCard(w *models.Wager) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%s · %s · stake %.2f @ %.2f", w.DisplayLabel(), w.Sport, w.Kind, w.Stake, w.Odds)
	if w.Profit != nil {
		fmt.Fprintf(&sb, "\n%s, profit %+.2f", w.Status, w.Profit.Amount)
	} else {
		fmt.Fprintf(&sb, "\n%s", w.Status)
	}
	return sb.String()
}

func settleKeyboard(wagerID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Won", "st:"+wagerID+":won"),
			tgbotapi.NewInlineKeyboardButtonData("Lost", "st:"+wagerID+":lost"),
			tgbotapi.NewInlineKeyboardButtonData("Void", "st:"+wagerID+":void"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Cash out", "co:"+wagerID),
			tgbotapi.NewInlineKeyboardButtonData("Delete", "del:"+wagerID),
		),
	)
}

func (b *Bot) sendStats(chatID int64, agg *models.Aggregate) {
	s := services.Summarize(agg)
	text := fmt.Sprintf(
		"Balance: %.2f\nBets: %d (%d pending)\nStaked: %.2f\nNet profit: %+.2f\nROI: %.1f%%\nWin rate: %.1f%%",
		agg.Balance, s.TotalWagers, s.Pending, s.TotalStaked, s.NetProfit, s.ROI, s.WinRate,
	)
	if len(s.ProfitBySport) > 0 {
		text += "\n\nBy sport:"
		for sport, profit := range s.ProfitBySport {
			text += fmt.Sprintf("\n  %s: %+.2f", sport, profit)
		}
	}
	b.send(chatID, text, nil)
}

// sendGoals reads through the projection so derived goal state is fresh. A
// deadline can pass with no wager mutation in between, so rendering straight
// from the stored aggregate would show a stale in_progress.
func (b *Bot) sendGoals(ctx context.Context, key string, chatID int64) {
	agg, err := b.journal.Projection(ctx, key)
	if err != nil {
		b.reportError(chatID, err)
		return
	}
	if len(agg.Goals) == 0 {
		b.send(chatID, "No goals set. Create one in the web app.", nil)
		return
	}
	var sb strings.Builder
	sb.WriteString("Your goals:\n")
	for _, g := range agg.Goals {
		fmt.Fprintf(&sb, "\n%s — %s %.2f / %.2f (%s)", g.Title, g.Metric, g.CurrentValue, g.TargetValue, g.Status)
	}
	b.send(chatID, sb.String(), nil)
}

// handleCallback serves the button families: "dlg:<token>" feeds the open
// dialog, "st:<id>:<status>", "co:<id>" and "del:<id>" act on a wager
// directly. A stale wager button clears any dialog still pointing at that
// wager.
func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	key := sessionKeyFor(chatID)
	data := cb.Data

	ack := func(text string) {
		if _, err := b.client.Request(tgbotapi.NewCallback(cb.ID, text)); err != nil {
			log.WithError(err).Warn("failed to answer callback")
		}
	}

	switch {
	case strings.HasPrefix(data, "dlg:"):
		agg, err := b.store.Load(ctx, key)
		if err != nil {
			ack("storage unavailable")
			return
		}
		in := dialog.Input{Text: strings.TrimPrefix(data, "dlg:"), ChatID: chatID, Handle: cb.From.UserName}
		reply, out, err := b.engine.Handle(ctx, key, agg, in)
		if err != nil {
			ack("")
			b.reportError(chatID, err)
			return
		}
		if err := b.store.Save(ctx, key, out); err != nil {
			ack("")
			b.reportError(chatID, err)
			return
		}
		ack("")
		b.send(chatID, reply.Text, reply.Buttons)

	case strings.HasPrefix(data, "st:"):
		parts := strings.SplitN(strings.TrimPrefix(data, "st:"), ":", 2)
		if len(parts) != 2 {
			ack("")
			return
		}
		wagerID, status := parts[0], models.WagerStatus(parts[1])
		w, err := b.journal.SetWagerStatus(ctx, key, wagerID, status, nil)
		if err != nil {
			b.failedWagerAction(ctx, key, chatID, wagerID, err, ack)
			return
		}
		ack(fmt.Sprintf("Marked %s", status))
		b.editCard(chatID, cb.Message.MessageID, w)

	case strings.HasPrefix(data, "co:"):
		b.openCashout(ctx, key, chatID, strings.TrimPrefix(data, "co:"), ack)

	case strings.HasPrefix(data, "del:"):
		wagerID := strings.TrimPrefix(data, "del:")
		if err := b.journal.DeleteWager(ctx, key, wagerID); err != nil {
			b.failedWagerAction(ctx, key, chatID, wagerID, err, ack)
			return
		}
		ack("Deleted")
		edit := tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID, "Bet deleted.")
		if _, err := b.client.Send(edit); err != nil {
			log.WithError(err).Warn("failed to edit message")
		}

	default:
		ack("")
	}
}

// openCashout opens the amount prompt for a pending wager's card. The dialog
// is correlated with the wager so later card actions can detect it.
func (b *Bot) openCashout(ctx context.Context, key string, chatID int64, wagerID string, ack func(string)) {
	agg, err := b.store.Load(ctx, key)
	if err != nil {
		ack("storage unavailable")
		return
	}
	w := agg.FindWager(wagerID)
	if w == nil {
		ack("Bet no longer exists")
		return
	}
	if w.Settled() {
		ack("Already settled")
		return
	}
	agg.Dialog = models.NewCashoutDialog(wagerID)
	if err := b.store.Save(ctx, key, agg); err != nil {
		ack("")
		b.reportError(chatID, err)
		return
	}
	ack("")
	b.send(chatID, fmt.Sprintf("Cashing out %s. How much did you take?", w.DisplayLabel()), nil)
}

func (b *Bot) editCard(chatID int64, messageID int, w *models.Wager) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, wagerCard(w))
	if !w.Settled() {
		kb := settleKeyboard(w.ID)
		edit.ReplyMarkup = &kb
	}
	if _, err := b.client.Send(edit); err != nil {
		log.WithError(err).Warn("failed to edit message")
	}
}

// failedWagerAction reports a wager button failure and, when the wager is
// gone, closes any dialog still correlated with it so the chat does not wedge.
func (b *Bot) failedWagerAction(ctx context.Context, key string, chatID int64, wagerID string, err error, ack func(string)) {
	if !models.IsNotFound(err) {
		ack("")
		b.reportError(chatID, err)
		return
	}
	ack("Bet no longer exists")
	agg, loadErr := b.store.Load(ctx, key)
	if loadErr != nil {
		return
	}
	if agg.Dialog != nil && agg.Dialog.CorrelationID == wagerID {
		agg.Dialog = nil
		if saveErr := b.store.Save(ctx, key, agg); saveErr != nil {
			log.WithError(saveErr).Warn("failed to clear stale dialog")
		}
	}
}
