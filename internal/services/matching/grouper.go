package matching

import "tooling-spend-tracker/internal/models"

// MerchantGroup is a cluster of transactions whose merchant names are Similar
// to the group's key. Key is the normalized name of the first member.
type MerchantGroup struct {
	Key          string
	Transactions []models.Transaction
}

// GroupByMerchant clusters transactions greedily in input order. Each
// transaction joins the first existing group whose key is Similar to its
// normalized merchant name, otherwise it starts a new group.
func GroupByMerchant(txns []models.Transaction) []MerchantGroup {
	var groups []MerchantGroup
	for _, tx := range txns {
		name := Normalize(tx.MerchantName)

		joined := false
		for i := range groups {
			if Similar(name, groups[i].Key) {
				groups[i].Transactions = append(groups[i].Transactions, tx)
				joined = true
				break
			}
		}
		if !joined {
			groups = append(groups, MerchantGroup{Key: name, Transactions: []models.Transaction{tx}})
		}
	}
	return groups
}
