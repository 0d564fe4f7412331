package orders

import (
	"strings"

	"github.com/sellerdesk/sellerdesk/internal/pricing"
)

// Status is the canonical order status bucket.
type Status string

const (
	StatusNew       Status = "NEW"
	StatusPreparing Status = "PREPARING"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
	StatusUnknown   Status = "UNKNOWN"
)

type statusTokens struct {
	status Status
	tokens []string
}

// Buckets are checked in order. Cancelled goes first so that "UnDelivered"
// and "teslim edilemedi" never land in the delivered bucket. Handover to the
// carrier ("kargoya teslim") and collection points are still in transit, so
// they are checked before the generic delivered tokens.
var statusMatchers = foldTokens([]statusTokens{
	{StatusCancelled, []string{"cancel", "undeliver", "unsupplied", "return", "iptal", "iade", "teslim edilemedi", "reddedil"}},
	{StatusShipped, []string{"kargoya teslim", "collection"}},
	{StatusDelivered, []string{"deliver", "complet", "teslim", "tamamlan"}},
	{StatusShipped, []string{"ship", "transit", "kargo", "gonderil", "gönderil", "yolda", "dagitim", "dağıtım"}},
	{StatusPreparing, []string{"picking", "invoic", "prepar", "process", "repack", "unpack", "hazirlan", "paketlen", "faturalan", "isleniyor", "işleniyor"}},
	{StatusNew, []string{"created", "new", "awaiting", "pending", "yeni", "olusturul", "oluşturul", "bekl", "onay"}},
})

func foldTokens(in []statusTokens) []statusTokens {
	out := make([]statusTokens, len(in))
	for i, m := range in {
		folded := make([]string, len(m.tokens))
		for j, tok := range m.tokens {
			folded[j] = pricing.Fold(tok)
		}
		out[i] = statusTokens{status: m.status, tokens: folded}
	}
	return out
}

// NormalizeStatus maps a free-text marketplace status to a bucket. Matching
// is case-insensitive; anything unmatched is StatusUnknown.
func NormalizeStatus(raw string) Status {
	folded := strings.TrimSpace(pricing.Fold(raw))
	if folded == "" {
		return StatusUnknown
	}
	for _, m := range statusMatchers {
		for _, tok := range m.tokens {
			if strings.Contains(folded, tok) {
				return m.status
			}
		}
	}
	return StatusUnknown
}

// ParseStatus validates a bucket name supplied by a client.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusNew, StatusPreparing, StatusShipped, StatusDelivered, StatusCancelled, StatusUnknown:
		return st, true
	}
	return "", false
}
