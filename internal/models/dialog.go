package models

import "time"

// DialogFlow tags the open multi-step interaction, if any. Exactly one of the
// per-flow payloads on DialogState is non-nil and it must match the tag, so an
// add_wager step can never appear inside a register dialog.
type DialogFlow string

const (
	FlowRegister DialogFlow = "register"
	FlowLogin    DialogFlow = "login"
	FlowAddWager DialogFlow = "add_wager"
	FlowCashout  DialogFlow = "cashout"
	FlowChat     DialogFlow = "chat"
)

type RegisterStep string

const (
	RegisterStepEmail    RegisterStep = "email"
	RegisterStepNickname RegisterStep = "nickname"
	RegisterStepPassword RegisterStep = "password"
)

type RegisterDialog struct {
	Step     RegisterStep `json:"step"`
	Email    string       `json:"email,omitempty"`
	Nickname string       `json:"nickname,omitempty"`
}

type LoginStep string

const (
	LoginStepEmail    LoginStep = "email"
	LoginStepPassword LoginStep = "password"
)

type LoginDialog struct {
	Step  LoginStep `json:"step"`
	Email string    `json:"email,omitempty"`
}

type AddWagerStep string

const (
	AddWagerStepSport  AddWagerStep = "sport"
	AddWagerStepLegs   AddWagerStep = "legs"
	AddWagerStepStake  AddWagerStep = "stake"
	AddWagerStepOdds   AddWagerStep = "odds"
	AddWagerStepStatus AddWagerStep = "status"
)

// WagerDraft is the partially-typed wager collected across add_wager steps.
type WagerDraft struct {
	Sport string  `json:"sport,omitempty"`
	Legs  []Leg   `json:"legs,omitempty"`
	Stake float64 `json:"stake,omitempty"`
	Odds  float64 `json:"odds,omitempty"`
}

type AddWagerDialog struct {
	Step  AddWagerStep `json:"step"`
	Draft WagerDraft   `json:"draft"`
}

// CashoutDialog collects the amount taken for a wager being cashed out from
// its card. It holds only the wager reference; the wager itself may be
// deleted from another channel while the prompt is open.
type CashoutDialog struct {
	WagerID string `json:"wager_id"`
}

type ChatTurn struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// ChatDialog loops until cancelled; each turn is delegated to the external
// assistant and has no effect on the ledger.
type ChatDialog struct {
	Transcript []ChatTurn `json:"transcript,omitempty"`
}

// DialogState exists only while a multi-step interaction is open; it is
// cleared to nil on completion, cancellation, or a superseding global command.
// CorrelationID ties the dialog to the chat message/card being edited in place.
type DialogState struct {
	Flow          DialogFlow      `json:"flow"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Register      *RegisterDialog `json:"register,omitempty"`
	Login         *LoginDialog    `json:"login,omitempty"`
	AddWager      *AddWagerDialog `json:"add_wager,omitempty"`
	Cashout       *CashoutDialog  `json:"cashout,omitempty"`
	Chat          *ChatDialog     `json:"chat,omitempty"`
}

func NewRegisterDialog() *DialogState {
	return &DialogState{Flow: FlowRegister, Register: &RegisterDialog{Step: RegisterStepEmail}}
}

func NewLoginDialog() *DialogState {
	return &DialogState{Flow: FlowLogin, Login: &LoginDialog{Step: LoginStepEmail}}
}

func NewAddWagerDialog() *DialogState {
	return &DialogState{Flow: FlowAddWager, AddWager: &AddWagerDialog{Step: AddWagerStepSport}}
}

// NewCashoutDialog opens the amount prompt for one wager. CorrelationID
// carries the wager id so card actions can spot and close a dialog whose
// wager has since disappeared.
func NewCashoutDialog(wagerID string) *DialogState {
	return &DialogState{
		Flow:          FlowCashout,
		CorrelationID: wagerID,
		Cashout:       &CashoutDialog{WagerID: wagerID},
	}
}

func NewChatDialog() *DialogState {
	return &DialogState{Flow: FlowChat, Chat: &ChatDialog{}}
}
