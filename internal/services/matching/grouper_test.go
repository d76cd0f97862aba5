package matching

import (
	"testing"

	"tooling-spend-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func tx(merchant string, amount int64) models.Transaction {
	return models.Transaction{
		ID:           uuid.New(),
		MerchantName: merchant,
		Amount:       decimal.NewFromInt(amount),
	}
}

func TestGroupByMerchant_CorporateSuffix(t *testing.T) {
	groups := GroupByMerchant([]models.Transaction{
		tx("Notion Labs", 10),
		tx("Notion Labs Inc", 15),
	})
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].Key != "notion labs" {
		t.Errorf("Key = %q, want %q", groups[0].Key, "notion labs")
	}
	if len(groups[0].Transactions) != 2 {
		t.Errorf("expected 2 members, got %d", len(groups[0].Transactions))
	}
	if groups[0].Transactions[0].MerchantName != "Notion Labs" {
		t.Errorf("first member should keep input order")
	}
}

func TestGroupByMerchant_FirstFit(t *testing.T) {
	groups := GroupByMerchant([]models.Transaction{
		tx("Zoom", 1),
		tx("Figma", 2),
		tx("Zoom Figma Bundle", 3),
	})
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Key != "zoom" || len(groups[0].Transactions) != 2 {
		t.Errorf("bundle should join the first similar group (zoom), got %+v", groups[0])
	}
	if len(groups[1].Transactions) != 1 {
		t.Errorf("figma group should be untouched")
	}
}

func TestGroupByMerchant_Partition(t *testing.T) {
	input := []models.Transaction{
		tx("GitHub", 1), tx("Slack", 2), tx("github inc", 3), tx("Miro", 4),
		tx("SLACK TECHNOLOGIES", 5), tx("", 6), tx("***", 7), tx("Loom", 8),
	}
	groups := GroupByMerchant(input)

	if len(groups) > len(input) {
		t.Fatalf("more groups (%d) than inputs (%d)", len(groups), len(input))
	}
	seen := map[uuid.UUID]int{}
	for _, g := range groups {
		if len(g.Transactions) == 0 {
			t.Errorf("empty group %q", g.Key)
		}
		for _, member := range g.Transactions {
			seen[member.ID]++
		}
	}
	for _, in := range input {
		if seen[in.ID] != 1 {
			t.Errorf("transaction %q appears %d times", in.MerchantName, seen[in.ID])
		}
	}
}

func TestGroupByMerchant_Empty(t *testing.T) {
	if groups := GroupByMerchant(nil); len(groups) != 0 {
		t.Errorf("expected no groups, got %d", len(groups))
	}
}
