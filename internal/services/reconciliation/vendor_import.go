package reconciliation

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"tooling-spend-tracker/internal/logger"
	"tooling-spend-tracker/internal/models"

	"github.com/shopspring/decimal"
)

var ErrInvalidCSV = errors.New("invalid vendor csv")

// RowError describes a CSV row that was skipped. Row counts data rows from 1.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Created int        `json:"created"`
	Skipped []RowError `json:"skipped"`
}

// header aliases accepted per column
var vendorColumns = map[string][]string{
	"name":              {"name", "vendor", "vendor_name"},
	"monthly_budget":    {"monthly_budget", "budget", "monthlybudget"},
	"category":          {"category"},
	"alternative_names": {"alternative_names", "aliases", "alternativenames"},
	"notes":             {"notes"},
}

// ImportVendors creates one vendor per valid CSV row. Invalid rows are
// reported and skipped; valid rows are written in a single batch.
// Alternative names within a cell are separated by ';'.
func (s *ReconciliationService) ImportVendors(ctx context.Context, r io.Reader) (*ImportResult, error) {
	log := logger.FromContext(ctx)

	inputs, skipped, err := parseVendorCSV(r)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	vendors := make([]models.Vendor, 0, len(inputs))
	for _, in := range inputs {
		vendors = append(vendors, in.toVendor(now))
	}

	if len(vendors) > 0 {
		if err := s.vendors.CreateMany(ctx, vendors); err != nil {
			return nil, fmt.Errorf("ImportVendors: %w", err)
		}
	}

	for _, sk := range skipped {
		log.Warn().Int("row", sk.Row).Str("reason", sk.Reason).Msg("Skipping vendor row")
	}
	log.Info().Int("created", len(vendors)).Int("skipped", len(skipped)).Msg("Vendor import finished")

	return &ImportResult{Created: len(vendors), Skipped: skipped}, nil
}

func parseVendorCSV(r io.Reader) ([]VendorInput, []RowError, error) {
	br := bufio.NewReader(r)
	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	if sample, _ := br.Peek(1024); !strings.Contains(string(sample), ",") && strings.Contains(string(sample), "\t") {
		reader.Comma = '\t'
	}

	headerRow, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: cannot read header: %v", ErrInvalidCSV, err)
	}
	cols := indexColumns(headerRow)
	for _, required := range []string{"name", "monthly_budget", "category"} {
		if _, ok := cols[required]; !ok {
			return nil, nil, fmt.Errorf("%w: missing column %q", ErrInvalidCSV, required)
		}
	}

	inputs := make([]VendorInput, 0)
	skipped := make([]RowError, 0)
	rowNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			skipped = append(skipped, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		if strings.TrimSpace(strings.Join(record, "")) == "" {
			continue
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		in := VendorInput{
			Name:     field("name"),
			Category: field("category"),
			Notes:    field("notes"),
		}
		if raw := field("monthly_budget"); raw != "" {
			budget, err := decimal.NewFromString(strings.TrimPrefix(raw, "$"))
			if err != nil {
				skipped = append(skipped, RowError{Row: rowNum, Reason: fmt.Sprintf("invalid monthly_budget %q", raw)})
				continue
			}
			in.MonthlyBudget = &budget
		}
		for _, alias := range strings.Split(field("alternative_names"), ";") {
			if alias = strings.TrimSpace(alias); alias != "" {
				in.AlternativeNames = append(in.AlternativeNames, alias)
			}
		}

		if err := in.validate(); err != nil {
			skipped = append(skipped, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		inputs = append(inputs, in)
	}

	return inputs, skipped, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int)
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		h = strings.ReplaceAll(h, " ", "_")
		for canonical, aliases := range vendorColumns {
			for _, a := range aliases {
				if h == a {
					if _, taken := cols[canonical]; !taken {
						cols[canonical] = i
					}
				}
			}
		}
	}
	return cols
}
