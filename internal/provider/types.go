package provider

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type transactionPage struct {
	Data []rawTransaction `json:"data"`
	Page struct {
		Next string `json:"next"`
	} `json:"page"`
}

type rawTransaction struct {
	ID           string           `json:"id"`
	MerchantName string           `json:"merchant_name"`
	Amount       *decimal.Decimal `json:"amount"`
	CardHolder   struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"card_holder"`
	State               string `json:"state"`
	CategoryName        string `json:"sk_category_name"`
	Memo                string `json:"memo"`
	CardID              string `json:"card_id"`
	SettledAt           string `json:"settled_at"`
	UserTransactionTime string `json:"user_transaction_time"`
}

// normalize settles on the settlement time when present, falls back to the
// authorization time, and drops the provider's debit sign.
func (r rawTransaction) normalize() (Transaction, error) {
	if r.ID == "" {
		return Transaction{}, fmt.Errorf("%w: transaction without id", ErrMalformedPayload)
	}
	if strings.TrimSpace(r.MerchantName) == "" {
		return Transaction{}, fmt.Errorf("%w: transaction %s has no merchant", ErrMalformedPayload, r.ID)
	}
	if r.Amount == nil {
		return Transaction{}, fmt.Errorf("%w: transaction %s has no amount", ErrMalformedPayload, r.ID)
	}

	ts := r.SettledAt
	if ts == "" {
		ts = r.UserTransactionTime
	}
	if ts == "" {
		return Transaction{}, fmt.Errorf("%w: transaction %s has no settlement or authorization time", ErrMalformedPayload, r.ID)
	}
	occurredAt, err := parseTime(ts)
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: transaction %s: %v", ErrMalformedPayload, r.ID, err)
	}

	return Transaction{
		ExternalID:   r.ID,
		MerchantName: strings.TrimSpace(r.MerchantName),
		Amount:       r.Amount.Abs(),
		OccurredAt:   occurredAt,
		Memo:         r.Memo,
		Category:     r.CategoryName,
		CardSuffix:   lastN(r.CardID, 4),
		EmployeeName: strings.TrimSpace(r.CardHolder.FirstName + " " + r.CardHolder.LastName),
	}, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", dateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
