package spend

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"tooling-spend-tracker/internal/models"
	"tooling-spend-tracker/internal/services/matching"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrMalformedTransaction = errors.New("malformed transaction")

var hundred = decimal.NewFromInt(100)

type VendorSpendSummary struct {
	Vendor             models.Vendor   `json:"vendor"`
	PriorMonthActual   decimal.Decimal `json:"prior_month_actual"`
	CurrentMonthBudget decimal.Decimal `json:"current_month_budget"`
	CurrentMonthActual decimal.Decimal `json:"current_month_actual"`
	Variance           decimal.Decimal `json:"variance"`
	VariancePercent    float64         `json:"variance_percent"`
	YTDActual          decimal.Decimal `json:"ytd_actual"`
	YTDBudget          decimal.Decimal `json:"ytd_budget"`
	YTDVariance        decimal.Decimal `json:"ytd_variance"`
	Status             Status          `json:"status"`
	TransactionCount   int             `json:"transaction_count"`
}

// NonBudgetedVendor is one cluster of unmatched spend. MerchantName is the raw
// name of the first transaction in the cluster.
type NonBudgetedVendor struct {
	MerchantName       string               `json:"merchant_name"`
	CurrentMonthActual decimal.Decimal      `json:"current_month_actual"`
	TransactionCount   int                  `json:"transaction_count"`
	Transactions       []models.Transaction `json:"transactions"`
	SuggestedVendor    *models.Vendor       `json:"suggested_vendor,omitempty"`
	MatchConfidence    float64              `json:"match_confidence,omitempty"`
}

type DashboardData struct {
	Month               string               `json:"month"`
	KnownTooling        []VendorSpendSummary `json:"known_tooling"`
	NonBudgetedTooling  []NonBudgetedVendor  `json:"non_budgeted_tooling"`
	UnusedSubscriptions []models.Vendor      `json:"unused_subscriptions"`
	TotalBudget         decimal.Decimal      `json:"total_budget"`
	TotalActual         decimal.Decimal      `json:"total_actual"`
	TotalVariance       decimal.Decimal      `json:"total_variance"`
}

func Sum(txns []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Amount)
	}
	return total
}

// Validate rejects records the ingestion boundary should never have let
// through, instead of letting them count as zero.
func Validate(txns []models.Transaction) error {
	for _, t := range txns {
		ref := t.ExternalID
		if ref == "" {
			ref = t.ID.String()
		}
		switch {
		case t.Date.IsZero():
			return fmt.Errorf("%w: transaction %s has no date", ErrMalformedTransaction, ref)
		case t.Month == "":
			return fmt.Errorf("%w: transaction %s has no month bucket", ErrMalformedTransaction, ref)
		case t.Amount.IsNegative():
			return fmt.Errorf("%w: transaction %s has negative amount %s", ErrMalformedTransaction, ref, t.Amount)
		}
	}
	return nil
}

// Summarize reduces one vendor's already-filtered transactions. The YTD
// budget is the monthly budget times the month's ordinal (January = 1).
func (p Policy) Summarize(v models.Vendor, current, prior, ytd []models.Transaction, asOf time.Time) VendorSpendSummary {
	actual := Sum(current)
	budget := v.MonthlyBudget
	variance := actual.Sub(budget)

	variancePercent := 0.0
	if budget.IsPositive() {
		variancePercent = variance.Div(budget).Mul(hundred).InexactFloat64()
	}

	ytdActual := Sum(ytd)
	ytdBudget := budget.Mul(decimal.NewFromInt(int64(asOf.Month())))

	return VendorSpendSummary{
		Vendor:             v,
		PriorMonthActual:   Sum(prior),
		CurrentMonthBudget: budget,
		CurrentMonthActual: actual,
		Variance:           variance,
		VariancePercent:    variancePercent,
		YTDActual:          ytdActual,
		YTDBudget:          ytdBudget,
		YTDVariance:        ytdActual.Sub(ytdBudget),
		Status:             p.Status(actual, budget),
		TransactionCount:   len(current),
	}
}

// NonBudgeted clusters unmatched transactions by merchant and returns one
// row per cluster, largest spend first.
func NonBudgeted(unmatched []models.Transaction) []NonBudgetedVendor {
	groups := matching.GroupByMerchant(unmatched)
	out := make([]NonBudgetedVendor, 0, len(groups))
	for _, g := range groups {
		out = append(out, NonBudgetedVendor{
			MerchantName:       g.Transactions[0].MerchantName,
			CurrentMonthActual: Sum(g.Transactions),
			TransactionCount:   len(g.Transactions),
			Transactions:       g.Transactions,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CurrentMonthActual.GreaterThan(out[j].CurrentMonthActual)
	})
	return out
}

// UnusedSubscriptions returns active vendors that no current-month matched
// transaction points at.
func UnusedSubscriptions(vendors []models.Vendor, currentMatched []models.Transaction) []models.Vendor {
	withSpend := make(map[uuid.UUID]bool, len(currentMatched))
	for _, t := range currentMatched {
		if t.VendorID != nil {
			withSpend[*t.VendorID] = true
		}
	}

	out := make([]models.Vendor, 0)
	for _, v := range vendors {
		if v.Active && !withSpend[v.ID] {
			out = append(out, v)
		}
	}
	return out
}

// BuildDashboard assembles the monthly report. current and prior hold every
// transaction of their month; ytd holds January through the report month.
func (p Policy) BuildDashboard(vendors []models.Vendor, current, prior, ytd []models.Transaction, month time.Time) (*DashboardData, error) {
	for _, set := range [][]models.Transaction{current, prior, ytd} {
		if err := Validate(set); err != nil {
			return nil, err
		}
	}

	currentMatched, unmatched := partition(current)
	priorMatched, _ := partition(prior)
	ytdMatched, _ := partition(ytd)

	currentByVendor := byVendor(currentMatched)
	priorByVendor := byVendor(priorMatched)
	ytdByVendor := byVendor(ytdMatched)

	data := &DashboardData{
		Month:         MonthKey(month),
		KnownTooling:  make([]VendorSpendSummary, 0, len(vendors)),
		TotalBudget:   decimal.Zero,
		TotalActual:   Sum(currentMatched).Add(Sum(unmatched)),
		TotalVariance: decimal.Zero,
	}

	for _, v := range vendors {
		if !v.Active {
			continue
		}
		data.KnownTooling = append(data.KnownTooling,
			p.Summarize(v, currentByVendor[v.ID], priorByVendor[v.ID], ytdByVendor[v.ID], month))
		data.TotalBudget = data.TotalBudget.Add(v.MonthlyBudget)
	}

	data.NonBudgetedTooling = NonBudgeted(unmatched)
	data.UnusedSubscriptions = UnusedSubscriptions(vendors, currentMatched)
	data.TotalVariance = data.TotalActual.Sub(data.TotalBudget)

	return data, nil
}

func partition(txns []models.Transaction) (matched, unmatched []models.Transaction) {
	for _, t := range txns {
		if t.Matched() {
			matched = append(matched, t)
		} else {
			unmatched = append(unmatched, t)
		}
	}
	return matched, unmatched
}

func byVendor(txns []models.Transaction) map[uuid.UUID][]models.Transaction {
	out := make(map[uuid.UUID][]models.Transaction)
	for _, t := range txns {
		out[*t.VendorID] = append(out[*t.VendorID], t)
	}
	return out
}
