package dialog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dastin52/bet-diary-app-sub000/internal/goals"
	"github.com/dastin52/bet-diary-app-sub000/internal/ledger"
	"github.com/dastin52/bet-diary-app-sub000/internal/models"
	"github.com/dastin52/bet-diary-app-sub000/internal/services"
)

func (e *Engine) handleRegister(ctx context.Context, sessionKey string, agg *models.Aggregate, in Input) (*Reply, *models.Aggregate, error) {
	d := agg.Dialog.Register
	text := strings.TrimSpace(in.Text)

	switch d.Step {
	case models.RegisterStepEmail:
		if !models.ValidEmail(text) {
			return errorReply("That doesn't look like an email. Try again."), agg, nil
		}
		taken, err := e.auth.EmailTaken(ctx, text)
		if err != nil {
			return nil, agg, err
		}
		if taken {
			return errorReply("An account with that email already exists. Use /login instead."), agg, nil
		}
		d.Email = strings.ToLower(text)
		d.Step = models.RegisterStepNickname
		return &Reply{Text: "Got it. Pick a nickname (at least 3 characters)."}, agg, nil

	case models.RegisterStepNickname:
		if len(text) < 3 {
			return errorReply("Nickname must be at least 3 characters."), agg, nil
		}
		taken, err := e.auth.NicknameTaken(ctx, text)
		if err != nil {
			return nil, agg, err
		}
		if taken {
			return errorReply("That nickname is taken, try another."), agg, nil
		}
		d.Nickname = text
		d.Step = models.RegisterStepPassword
		return &Reply{Text: "And a password (at least 6 characters)."}, agg, nil

	case models.RegisterStepPassword:
		if len(text) < 6 {
			return errorReply("Password must be at least 6 characters."), agg, nil
		}
		registered, err := e.auth.Register(ctx, services.RegisterInput{
			Email:    d.Email,
			Nickname: d.Nickname,
			Password: text,
			Origin:   models.ChannelTelegram,
			ChatID:   in.ChatID,
			Handle:   in.Handle,
		}, agg)
		if err != nil {
			if models.IsConflict(err) {
				// raced with a registration on another channel: restart cleanly
				agg.Dialog = nil
				return errorReply("That account was just taken: %v", err), agg, nil
			}
			return nil, agg, err
		}
		merged, err := e.sync.LinkSession(ctx, sessionKey, registered.Account.Email, registered)
		if err != nil {
			return nil, agg, err
		}
		return &Reply{Text: fmt.Sprintf("Welcome, %s! Your journal is now synced across web and Telegram.\nReferral code: %s", registered.Account.Nickname, registered.Account.ReferralCode)}, merged, nil
	}

	agg.Dialog = nil
	return errorReply("Registration reset, use /register to start over."), agg, nil
}

func (e *Engine) handleLogin(ctx context.Context, sessionKey string, agg *models.Aggregate, in Input) (*Reply, *models.Aggregate, error) {
	d := agg.Dialog.Login
	text := strings.TrimSpace(in.Text)

	switch d.Step {
	case models.LoginStepEmail:
		if !models.ValidEmail(text) {
			return errorReply("That doesn't look like an email. Try again."), agg, nil
		}
		d.Email = strings.ToLower(text)
		d.Step = models.LoginStepPassword
		return &Reply{Text: "Password?"}, agg, nil

	case models.LoginStepPassword:
		account, err := e.auth.Login(ctx, d.Email, text)
		if models.IsValidation(err) {
			return errorReply("Wrong password, try again."), agg, nil
		}
		if models.IsNotFound(err) {
			agg.Dialog = nil
			return errorReply("No account for %s. Use /register to create one.", d.Email), agg, nil
		}
		if err != nil {
			return nil, agg, err
		}
		// contribute this chat's link fields before the merge
		if agg.Account == nil {
			agg.Account = &models.Account{Email: account.Account.Email}
		}
		agg.Account.TelegramChatID = in.ChatID
		agg.Account.TelegramHandle = in.Handle
		merged, err := e.sync.LinkSession(ctx, sessionKey, d.Email, agg)
		if err != nil {
			return nil, agg, err
		}
		return &Reply{Text: fmt.Sprintf("Hello again, %s. Balance: %.2f, bets: %d.", merged.Account.Nickname, merged.Balance, len(merged.Wagers))}, merged, nil
	}

	agg.Dialog = nil
	return errorReply("Login reset, use /login to start over."), agg, nil
}

func (e *Engine) handleAddWager(agg *models.Aggregate, in Input) (*Reply, *models.Aggregate, error) {
	d := agg.Dialog.AddWager
	text := strings.TrimSpace(in.Text)

	switch d.Step {
	case models.AddWagerStepSport:
		if text == "" {
			return errorReply("Which sport?"), agg, nil
		}
		d.Draft.Sport = text
		d.Step = models.AddWagerStepLegs
		return &Reply{Text: "Add a leg as \"Home - Away | market\". Send /done when finished."}, agg, nil

	case models.AddWagerStepLegs:
		if text == "/done" || strings.EqualFold(text, "done") {
			if len(d.Draft.Legs) == 0 {
				return errorReply("At least one leg is required. \"Home - Away | market\""), agg, nil
			}
			d.Step = models.AddWagerStepStake
			return &Reply{Text: "Stake?"}, agg, nil
		}
		leg, err := parseLeg(text)
		if err != nil {
			return errorReply("%v", err), agg, nil
		}
		d.Draft.Legs = append(d.Draft.Legs, leg)
		return &Reply{Text: fmt.Sprintf("Leg %d added: %s — %s. Another leg, or /done.", len(d.Draft.Legs), leg.Home, leg.Away)}, agg, nil

	case models.AddWagerStepStake:
		stake, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
		if err != nil || stake <= 0 {
			return errorReply("Stake must be a positive number."), agg, nil
		}
		d.Draft.Stake = stake
		d.Step = models.AddWagerStepOdds
		return &Reply{Text: "Odds?"}, agg, nil

	case models.AddWagerStepOdds:
		odds, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
		if err != nil || odds <= 1 {
			return errorReply("Odds must be greater than 1."), agg, nil
		}
		d.Draft.Odds = odds
		d.Step = models.AddWagerStepStatus
		return &Reply{
			Text: "Result?",
			Buttons: [][]Button{{
				{Label: "Pending", Token: "pending"},
				{Label: "Won", Token: "won"},
				{Label: "Lost", Token: "lost"},
			}, {
				{Label: "Void", Token: "void"},
				{Label: "Cashed out", Token: "cashout"},
			}},
		}, agg, nil

	case models.AddWagerStepStatus:
		status, manual, err := parseStatus(text)
		if err != nil {
			return errorReply("%v", err), agg, nil
		}
		reply, err := e.commitWager(agg, status, manual)
		if err != nil {
			return errorReply("%v", err), agg, nil
		}
		return reply, agg, nil
	}

	agg.Dialog = nil
	return errorReply("Bet entry reset, use /add to start over."), agg, nil
}

func (e *Engine) commitWager(agg *models.Aggregate, status models.WagerStatus, manual *float64) (*Reply, error) {
	d := agg.Dialog.AddWager

	kind := models.WagerKindSingle
	if len(d.Draft.Legs) > 1 {
		kind = models.WagerKindParlay
	}
	w := &models.Wager{
		ID:        models.GenerateWagerID(),
		CreatedAt: time.Now().UTC(),
		Sport:     d.Draft.Sport,
		Kind:      kind,
		Legs:      d.Draft.Legs,
		Stake:     d.Draft.Stake,
		Odds:      d.Draft.Odds,
		Status:    models.WagerStatusPending,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	agg.Wagers = append(agg.Wagers, w)
	if status != models.WagerStatusPending {
		if _, err := ledger.ApplyStatusChange(agg, w.ID, status, manual); err != nil {
			agg.RemoveWager(w.ID)
			return nil, err
		}
	}
	goals.Recompute(agg, time.Now())
	agg.Dialog = nil

	return &Reply{Text: fmt.Sprintf("Saved: %s, stake %.2f at %.2f (%s). Balance: %.2f",
		w.DisplayLabel(), w.Stake, w.Odds, w.Status, agg.Balance)}, nil
}

// handleCashout settles the referenced wager with the user-supplied amount.
// If the wager was deleted from another channel while the prompt was open,
// the dialog is closed cleanly and the ledger stays untouched.
func (e *Engine) handleCashout(agg *models.Aggregate, in Input) (*Reply, *models.Aggregate, error) {
	d := agg.Dialog.Cashout
	text := strings.TrimSpace(in.Text)

	amount, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
	if err != nil {
		return errorReply("Send the amount you took, e.g. 42.50"), agg, nil
	}
	if _, err := ledger.ApplyStatusChange(agg, d.WagerID, models.WagerStatusCashedOut, &amount); err != nil {
		if models.IsNotFound(err) {
			agg.Dialog = nil
			return errorReply("That bet no longer exists."), agg, nil
		}
		return errorReply("%v", err), agg, nil
	}
	goals.Recompute(agg, time.Now())
	w := agg.FindWager(d.WagerID)
	agg.Dialog = nil
	return &Reply{Text: fmt.Sprintf("Cashed out %s for %+.2f. Balance: %.2f",
		w.DisplayLabel(), amount, agg.Balance)}, agg, nil
}

func (e *Engine) handleChat(agg *models.Aggregate, in Input) (*Reply, *models.Aggregate, error) {
	d := agg.Dialog.Chat
	text := strings.TrimSpace(in.Text)

	if text == "/end" || strings.EqualFold(text, "stop") {
		agg.Dialog = nil
		return &Reply{Text: "Left chat mode."}, agg, nil
	}

	now := time.Now().UTC()
	d.Transcript = append(d.Transcript, models.ChatTurn{Role: "user", Text: text, At: now})
	// The assistant reply comes from an external collaborator; the ledger is
	// untouched either way.
	answer := "Noted. The assistant will weigh in on your journal here."
	d.Transcript = append(d.Transcript, models.ChatTurn{Role: "assistant", Text: answer, At: now})
	return &Reply{Text: answer}, agg, nil
}

func parseLeg(text string) (models.Leg, error) {
	body := text
	market := ""
	if i := strings.Index(text, "|"); i >= 0 {
		body = strings.TrimSpace(text[:i])
		market = strings.TrimSpace(text[i+1:])
	}
	parts := strings.SplitN(body, " - ", 2)
	if len(parts) != 2 {
		return models.Leg{}, fmt.Errorf("use \"Home - Away | market\"")
	}
	home := strings.TrimSpace(parts[0])
	away := strings.TrimSpace(parts[1])
	if home == "" || away == "" {
		return models.Leg{}, fmt.Errorf("both teams are required")
	}
	if home == away {
		return models.Leg{}, fmt.Errorf("home and away must differ")
	}
	return models.Leg{Home: home, Away: away, Market: market}, nil
}

func parseStatus(text string) (models.WagerStatus, *float64, error) {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("pick a result: pending, won, lost, void, or \"cashout <amount>\"")
	}
	switch fields[0] {
	case "pending":
		return models.WagerStatusPending, nil, nil
	case "won":
		return models.WagerStatusWon, nil, nil
	case "lost":
		return models.WagerStatusLost, nil, nil
	case "void":
		return models.WagerStatusVoid, nil, nil
	case "cashout", "cashed_out":
		if len(fields) < 2 {
			return "", nil, fmt.Errorf("cashout needs the amount you took, e.g. \"cashout 42.50\"")
		}
		amount, err := strconv.ParseFloat(strings.ReplaceAll(fields[1], ",", "."), 64)
		if err != nil {
			return "", nil, fmt.Errorf("couldn't read the cashout amount")
		}
		return models.WagerStatusCashedOut, &amount, nil
	}
	return "", nil, fmt.Errorf("pick a result: pending, won, lost, void, or \"cashout <amount>\"")
}
