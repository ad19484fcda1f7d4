package models

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func GenerateWagerID() string {
	return fmt.Sprintf("wager_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

func GenerateEntryID() string {
	return fmt.Sprintf("entry_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

func GenerateGoalID() string {
	return fmt.Sprintf("goal_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

// GenerateLinkCode returns a short one-time code for channel linking.
// 6 characters from an unambiguous alphabet (no 0/O, 1/I).
func GenerateLinkCode() (string, error) {
	const alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate link code: %v", err)
	}
	var b strings.Builder
	for _, c := range buf {
		b.WriteByte(alphabet[int(c)%len(alphabet)])
	}
	return b.String(), nil
}

func GenerateReferralCode() string {
	return strings.ToUpper(uuid.New().String()[:8])
}
