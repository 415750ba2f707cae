// Package bot contains the orchestration core: event classification,
// deduplication, the pause registry, the admin command flows and the
// customer conversation router.
package bot

import (
	"regexp"
	"strings"

	"github.com/rogelio-fraga-dev/barberbot/pkg/models"
)

var digitsOnly = regexp.MustCompile(`[^0-9]`)

// Classification is the verdict on who sent an inbound event.
type Classification int

const (
	SenderIgnored Classification = iota
	SenderAdmin
	SenderCustomer
)

// Classify decides whether the event is noise, from the administrator or from
// a customer, and returns the extracted phone identifier.
func Classify(event *models.WebhookEvent, adminPhone string) (Classification, string) {
	if event.Data == nil || event.Data.Key == nil || event.Data.Key.ID == "" {
		return SenderIgnored, ""
	}
	if event.Data.Key.FromMe {
		return SenderIgnored, ""
	}
	if event.IsGroupChat() {
		return SenderIgnored, ""
	}
	phone := event.PhoneNumber()
	if phone == "" {
		return SenderIgnored, ""
	}
	if IsAdminPhone(adminPhone, phone) {
		return SenderAdmin, phone
	}
	return SenderCustomer, phone
}

// IsAdminPhone compares a sender address against the configured admin phone.
// The gateway may or may not prefix the country code depending on device
// state, so the comparison is tolerant: exact match after stripping a leading
// "55", or matching last 8 digits with the same 2-digit area code.
//
// Known ambiguity: two distinct numbers sharing area code and suffix would
// both classify as admin. The heuristic is kept as-is.
func IsAdminPhone(adminPhone, phone string) bool {
	admin := digitsOnly.ReplaceAllString(adminPhone, "")
	in := digitsOnly.ReplaceAllString(phone, "")

	if admin == "" {
		return false
	}

	adminBase := strings.TrimPrefix(admin, "55")
	phoneBase := strings.TrimPrefix(in, "55")

	if adminBase == phoneBase {
		return true
	}

	if len(adminBase) >= 8 && len(phoneBase) >= 8 {
		last8Admin := adminBase[len(adminBase)-8:]
		last8Phone := phoneBase[len(phoneBase)-8:]
		if last8Admin == last8Phone && adminBase[:2] == phoneBase[:2] {
			return true
		}
	}
	return false
}
