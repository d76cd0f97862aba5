package reconciliation

import (
	"context"
	"errors"
	"testing"
	"time"

	"tooling-spend-tracker/internal/models"
	"tooling-spend-tracker/internal/repository"
	"tooling-spend-tracker/internal/services/spend"

	"github.com/google/uuid"
)

func storedTx(merchant, amount string, date time.Time, v *models.Vendor) models.Transaction {
	t := models.Transaction{
		ID:           uuid.New(),
		ExternalID:   uuid.NewString(),
		MerchantName: merchant,
		Amount:       d(amount),
		Date:         date,
		Month:        spend.MonthKey(date),
	}
	if v != nil {
		id := v.ID
		t.VendorID = &id
	}
	return t
}

func TestDashboard(t *testing.T) {
	github := vendor("GitHub", "100")
	slack := vendor("Slack", "50")
	figma := vendor("Figma", "30")
	f := newFixture(github, slack, figma)

	feb := time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC)
	f.txns.rows = []models.Transaction{
		storedTx("GITHUB", "60.00", march, &github),
		storedTx("GITHUB", "50.00", march, &github),
		storedTx("GITHUB", "100.00", feb, &github),
		storedTx("SLACK", "50.00", march, &slack),
		storedTx("Slak", "12.00", march, nil),
		storedTx("Zoom Video", "20.00", march, nil),
	}

	data, err := f.svc.Dashboard(context.Background(), march)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if data.Month != "2024-03" {
		t.Errorf("month = %q", data.Month)
	}

	summaries := map[string]spend.VendorSpendSummary{}
	for _, s := range data.KnownTooling {
		summaries[s.Vendor.Name] = s
	}
	gh := summaries["GitHub"]
	if !gh.CurrentMonthActual.Equal(d("110")) || gh.Status != spend.StatusOverBudget {
		t.Errorf("GitHub = %s %s, want 110 over-budget", gh.CurrentMonthActual, gh.Status)
	}
	if !gh.PriorMonthActual.Equal(d("100")) {
		t.Errorf("GitHub prior = %s, want 100", gh.PriorMonthActual)
	}
	if !gh.YTDActual.Equal(d("210")) {
		t.Errorf("GitHub ytd = %s, want 210", gh.YTDActual)
	}
	if got := summaries["Slack"].Status; got != spend.StatusOnTarget {
		t.Errorf("Slack status = %s, want on-target", got)
	}

	if len(data.UnusedSubscriptions) != 1 || data.UnusedSubscriptions[0].ID != figma.ID {
		t.Errorf("unused = %v, want Figma", data.UnusedSubscriptions)
	}

	if len(data.NonBudgetedTooling) != 2 {
		t.Fatalf("non-budgeted clusters = %d, want 2", len(data.NonBudgetedTooling))
	}
	for _, nb := range data.NonBudgetedTooling {
		switch nb.MerchantName {
		case "Slak":
			if nb.SuggestedVendor == nil || nb.SuggestedVendor.ID != slack.ID {
				t.Errorf("Slak suggestion = %v, want Slack", nb.SuggestedVendor)
			}
			if nb.MatchConfidence <= 0 {
				t.Errorf("Slak confidence = %v", nb.MatchConfidence)
			}
		case "Zoom Video":
			if nb.SuggestedVendor != nil {
				t.Errorf("Zoom Video suggestion = %s, want none", nb.SuggestedVendor.Name)
			}
		default:
			t.Errorf("unexpected cluster %q", nb.MerchantName)
		}
	}

	if !data.TotalActual.Equal(d("192")) {
		t.Errorf("total actual = %s, want 192", data.TotalActual)
	}
}

func TestSuggest(t *testing.T) {
	github := vendor("GitHub", "100")
	gitlab := vendor("GitLab", "100")
	f := newFixture(github, gitlab, vendor("Slack", "50"))

	got, err := f.svc.Suggest(context.Background(), "GITHUB SPONSORS", 2)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) == 0 || got[0].Vendor.ID != github.ID {
		t.Fatalf("Suggest top = %v, want GitHub first", got)
	}
	if len(got) > 2 {
		t.Errorf("got %d suggestions, limit 2", len(got))
	}
}

func TestListTransactions(t *testing.T) {
	github := vendor("GitHub", "100")
	f := newFixture(github)
	f.txns.rows = []models.Transaction{
		storedTx("GITHUB", "60.00", march, &github),
		storedTx("Zoom", "20.00", march, nil),
	}
	ctx := context.Background()

	all, err := f.svc.ListTransactions(ctx, TransactionFilter{Month: "2024-03"})
	if err != nil || len(all) != 2 {
		t.Errorf("all = %d, %v; want 2", len(all), err)
	}
	unmatched, err := f.svc.ListTransactions(ctx, TransactionFilter{Month: "2024-03", UnmatchedOnly: true})
	if err != nil || len(unmatched) != 1 {
		t.Errorf("unmatched = %d, %v; want 1", len(unmatched), err)
	}
	byVendor, err := f.svc.ListTransactions(ctx, TransactionFilter{Month: "2024-03", VendorID: &github.ID})
	if err != nil || len(byVendor) != 1 {
		t.Errorf("by vendor = %d, %v; want 1", len(byVendor), err)
	}
	padded, err := f.svc.ListTransactions(ctx, TransactionFilter{Month: " 2024-03 ", UnmatchedOnly: true})
	if err != nil || len(padded) != 1 {
		t.Errorf("padded month = %d, %v; want 1", len(padded), err)
	}
	if _, err := f.svc.ListTransactions(ctx, TransactionFilter{Month: "March"}); !errors.Is(err, spend.ErrInvalidMonth) {
		t.Errorf("bad month err = %v, want ErrInvalidMonth", err)
	}
}

func TestRemapTransaction(t *testing.T) {
	github := vendor("GitHub", "100")
	f := newFixture(github)
	tx := storedTx("GH SPONSOR", "10.00", march, nil)
	f.txns.rows = []models.Transaction{tx}
	ctx := context.Background()

	got, err := f.svc.RemapTransaction(ctx, tx.ID, &github.ID, "ops@example.com", "sponsorship")
	if err != nil {
		t.Fatalf("RemapTransaction: %v", err)
	}
	if got.VendorID == nil || *got.VendorID != github.ID {
		t.Errorf("vendor = %v, want GitHub", got.VendorID)
	}
	if len(f.txns.remaps) != 1 || f.txns.remaps[0].PerformedBy != "ops@example.com" {
		t.Errorf("remap log = %+v", f.txns.remaps)
	}

	if _, err := f.svc.RemapTransaction(ctx, tx.ID, nil, "ops@example.com", "undo"); err != nil {
		t.Fatalf("clear vendor: %v", err)
	}
	if f.txns.rows[0].VendorID != nil {
		t.Errorf("vendor not cleared")
	}

	unknown := uuid.New()
	if _, err := f.svc.RemapTransaction(ctx, tx.ID, &unknown, "ops", ""); !errors.Is(err, repository.ErrVendorNotFound) {
		t.Errorf("unknown vendor err = %v, want ErrVendorNotFound", err)
	}
	if _, err := f.svc.RemapTransaction(ctx, uuid.New(), nil, "ops", ""); !errors.Is(err, repository.ErrTransactionNotFound) {
		t.Errorf("unknown transaction err = %v, want ErrTransactionNotFound", err)
	}
}
