package models

import "time"

type AccountStatus string

const (
	AccountStatusActive  AccountStatus = "active"
	AccountStatusBlocked AccountStatus = "blocked"
)

type Channel string

const (
	ChannelWeb      Channel = "web"
	ChannelTelegram Channel = "telegram"
)

// Account is the registered owner of a journal. Email is the account id and
// is globally unique; accounts are never hard-deleted, only blocked.
type Account struct {
	Email        string        `json:"email"`
	Nickname     string        `json:"nickname"`
	PasswordHash string        `json:"password_hash"`
	RegisteredAt time.Time     `json:"registered_at"`
	ReferralCode string        `json:"referral_code"`
	RewardPoints int64         `json:"reward_points"`
	Status       AccountStatus `json:"status"`

	TelegramChatID int64   `json:"telegram_chat_id,omitempty"`
	TelegramHandle string  `json:"telegram_handle,omitempty"`
	OriginChannel  Channel `json:"origin_channel"`
}
