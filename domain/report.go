package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"cash-tally/shared"
)

type ReportLine struct {
	shared.Line
	SubtotalText string `json:"subtotalText"`
}

// Report is a point-in-time view of a tally, ready for rendering or JSON output.
type Report struct {
	TallyID         string          `json:"tallyId"`
	Version         int             `json:"version"`
	Lines           []ReportLine    `json:"lines"`
	GrandTotal      decimal.Decimal `json:"grandTotal"`
	FloatAmount     decimal.Decimal `json:"floatAmount"`
	BankAmount      decimal.Decimal `json:"bankAmount"`
	GrandTotalText  string          `json:"grandTotalText"`
	FloatAmountText string          `json:"floatAmountText"`
	BankAmountText  string          `json:"bankAmountText"`
}

func CreateReport(t *Tally, f *CurrencyFormatter) *Report {
	if f == nil {
		f = defaultFormatter
	}

	lines := t.Lines()
	reportLines := make([]ReportLine, 0, len(lines))
	for _, l := range lines {
		reportLines = append(reportLines, ReportLine{Line: l, SubtotalText: f.Format(l.Subtotal)})
	}

	grand := t.GrandTotal()
	bank := t.BankAmount()
	return &Report{
		TallyID:         t.ID,
		Version:         t.Version,
		Lines:           reportLines,
		GrandTotal:      grand,
		FloatAmount:     t.FloatAmount,
		BankAmount:      bank,
		GrandTotalText:  f.Format(grand),
		FloatAmountText: f.Format(t.FloatAmount),
		BankAmountText:  f.Format(bank),
	}
}

func (r *Report) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report for tally %s (v%d): %w", r.TallyID, r.Version, err)
	}
	return data, nil
}
