package store

import (
	"fmt"
	"strings"
	"time"
)

const (
	KeySessionAggregate = "journal:session:%s:%s" // channel, channel-local id
	KeyAccountAggregate = "journal:account:%s"    // account email
	KeyNickname         = "journal:nick:%s"       // nickname -> email pointer
	KeyLinkCode         = "journal:linkcode:%s"   // one-time code -> email
	KeyReferral         = "journal:ref:%s"        // referral code -> email

	TTLSessionAggregate = 180 * 24 * time.Hour // unauthenticated journals eventually expire
	TTLLinkCode         = 10 * time.Minute
)

// SessionKey is the per-channel/device key, e.g. SessionKey("tg", "123456").
func SessionKey(channel, id string) string {
	return fmt.Sprintf(KeySessionAggregate, channel, id)
}

// AccountKey is the canonical per-account key, authoritative across channels.
func AccountKey(email string) string {
	return fmt.Sprintf(KeyAccountAggregate, strings.ToLower(email))
}

func NicknameKey(nickname string) string {
	return fmt.Sprintf(KeyNickname, strings.ToLower(nickname))
}

func LinkCodeKey(code string) string {
	return fmt.Sprintf(KeyLinkCode, strings.ToUpper(code))
}

func ReferralKey(code string) string {
	return fmt.Sprintf(KeyReferral, strings.ToUpper(code))
}
