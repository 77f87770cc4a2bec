package provider

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/fairwaygolf/tour-messaging-backend/internal/models"
)

// shortFormLimit is the aggregator billing boundary: bodies at or under
// 90 encoded bytes go out as SMS, anything longer as LMS.
const shortFormLimit = 90

// Message is a single outbound message handed to an aggregator adapter.
// To holds the raw phone number; adapters normalize it before building
// the request.
type Message struct {
	Kind              string
	To                string
	Title             string
	Body              string
	KakaoTemplateCode string
	Buttons           json.RawMessage
}

// Result is the aggregator's acknowledgement of one accepted message
type Result struct {
	MessageID string
}

// Provider sends one message through an aggregator. Implementations
// perform exactly one HTTP POST per call; retries are the caller's
// concern.
type Provider interface {
	Name() string
	Send(ctx context.Context, msg *Message) (*Result, error)
	Cost(kind string) int
}

// NormalizePhone strips separators and fixes up the leading digit. A
// 10-digit number missing its leading zero gets one prepended; anything
// longer than 11 digits is truncated to 11. These rules match the
// aggregators' acceptance checks and must not drift.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, c := range phone {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	digits := b.String()

	if len(digits) == 10 && !strings.HasPrefix(digits, "0") {
		digits = "0" + digits
	}
	if len(digits) > 11 {
		digits = digits[:11]
	}
	return digits
}

// EncodedLength returns the double-byte-aware byte length of body: runes
// outside ASCII count as two bytes, matching the EUC-KR accounting the
// aggregators bill by.
func EncodedLength(body string) int {
	n := 0
	for _, r := range body {
		if r > 0x7F {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// ResolveKind picks the billable message kind. SMS requests (or requests
// with no kind) are upgraded to LMS when the body exceeds the short-form
// limit; explicit LMS/MMS/alimtalk requests pass through.
func ResolveKind(kind, body string) string {
	if kind == "" || kind == models.KindSMS {
		if EncodedLength(body) > shortFormLimit {
			return models.KindLMS
		}
		return models.KindSMS
	}
	return kind
}
