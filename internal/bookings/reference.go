package bookings

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const referenceSuffixChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateBookingReference builds a human-readable reference like
// "MET-m3k9x2-a7fq": agency initials, base36 timestamp, random suffix.
// The timestamp+random scheme has a nonzero collision probability, so
// callers must retry on a duplicate-reference write failure rather than
// assume uniqueness by construction.
func GenerateBookingReference(agencyName string) string {
	initials := "BUS"
	// Slice runes, not bytes: agency names may carry accented characters.
	runes := []rune(strings.TrimSpace(agencyName))
	if len(runes) >= 3 {
		initials = strings.ToUpper(string(runes[:3]))
	} else if len(runes) > 0 {
		initials = strings.ToUpper(string(runes))
	}

	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return initials + "-" + timestamp + "-" + randomSuffix(4)
}

func randomSuffix(length int) string {
	max := big.NewInt(int64(len(referenceSuffixChars)))
	var sb strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failure is effectively unreachable; fall back
			// to a time-derived character rather than panic.
			sb.WriteByte(referenceSuffixChars[time.Now().Nanosecond()%len(referenceSuffixChars)])
			continue
		}
		sb.WriteByte(referenceSuffixChars[n.Int64()])
	}
	return sb.String()
}
