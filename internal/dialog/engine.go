// Package dialog turns a sequence of inbound chat messages into validated
// aggregate mutations. One aggregate carries at most one open DialogState;
// a step only advances when its input validates, otherwise the same prompt is
// re-rendered with an error. Global commands are handled by the channel router
// before the engine sees the message.
package dialog

import (
	"context"
	"fmt"

	"github.com/dastin52/bet-diary-app-sub000/internal/models"
	"github.com/dastin52/bet-diary-app-sub000/internal/services"
)

// Input is one inbound chat message plus the channel identity it came from.
type Input struct {
	Text   string
	ChatID int64
	Handle string
}

type Button struct {
	Label string
	Token string
}

// Reply is a channel-agnostic prompt: text plus optional button rows.
type Reply struct {
	Text    string
	Buttons [][]Button
}

type Engine struct {
	auth *services.AuthService
	sync *services.SyncService
}

func NewEngine(auth *services.AuthService, sync *services.SyncService) *Engine {
	return &Engine{auth: auth, sync: sync}
}

// Start opens a flow on the aggregate and returns its first prompt. Any
// previously open dialog is discarded.
func (e *Engine) Start(agg *models.Aggregate, flow models.DialogFlow) *Reply {
	switch flow {
	case models.FlowRegister:
		agg.Dialog = models.NewRegisterDialog()
		return &Reply{Text: "Let's create your account. What's your email?"}
	case models.FlowLogin:
		agg.Dialog = models.NewLoginDialog()
		return &Reply{Text: "Welcome back. What's your email?"}
	case models.FlowAddWager:
		agg.Dialog = models.NewAddWagerDialog()
		return &Reply{Text: "New bet. Which sport?"}
	case models.FlowChat:
		agg.Dialog = models.NewChatDialog()
		return &Reply{Text: "Chat mode. Ask me anything about your journal; /end to leave."}
	}
	return &Reply{Text: "Unknown flow."}
}

// Handle processes one message for the open dialog. The returned aggregate is
// the one the caller must persist under sessionKey: after a login or
// registration it is the merged copy of the canonical record, not the
// aggregate passed in.
func (e *Engine) Handle(ctx context.Context, sessionKey string, agg *models.Aggregate, in Input) (*Reply, *models.Aggregate, error) {
	if agg.Dialog == nil {
		return &Reply{Text: "Nothing in progress. Try /add, /register or /login."}, agg, nil
	}

	switch agg.Dialog.Flow {
	case models.FlowRegister:
		return e.handleRegister(ctx, sessionKey, agg, in)
	case models.FlowLogin:
		return e.handleLogin(ctx, sessionKey, agg, in)
	case models.FlowAddWager:
		return e.handleAddWager(agg, in)
	case models.FlowCashout:
		return e.handleCashout(agg, in)
	case models.FlowChat:
		return e.handleChat(agg, in)
	}

	// dialog decoded from an unknown flow tag: drop it rather than wedge the chat
	agg.Dialog = nil
	return &Reply{Text: "Something went stale, dialog reset."}, agg, nil
}

func errorReply(format string, args ...any) *Reply {
	return &Reply{Text: fmt.Sprintf(format, args...)}
}
