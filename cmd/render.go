package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"cash-tally/app"
	"cash-tally/domain"
	"cash-tally/shared"
)

func newTableWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
}

// renderReport prints bills then coins, each line as label, quantity and
// subtotal, followed by the float and totals. Zero quantities are left blank.
func renderReport(w io.Writer, r *domain.Report) {
	tw := newTableWriter(w)

	sections := []struct {
		title string
		kind  shared.Kind
	}{
		{"Bills", shared.Bill},
		{"Coins", shared.Coin},
	}
	for _, section := range sections {
		printed := false
		for _, line := range r.Lines {
			if line.Kind != section.kind {
				continue
			}
			if !printed {
				fmt.Fprintf(tw, "%s\t\t\t\n", section.title)
				printed = true
			}
			qty := ""
			if line.Quantity != 0 {
				qty = fmt.Sprintf("%d", line.Quantity)
			}
			fmt.Fprintf(tw, "\t%s\t%s\t%s\t\n", line.Label, qty, line.SubtotalText)
		}
	}

	fmt.Fprintf(tw, "\t\t\t\t\n")
	fmt.Fprintf(tw, "Float\t\t\t%s\t\n", r.FloatAmountText)
	fmt.Fprintf(tw, "Grand Total\t\t\t%s\t\n", r.GrandTotalText)
	fmt.Fprintf(tw, "Goes to Bank\t\t\t%s\t\n", r.BankAmountText)
	tw.Flush()
}

func renderTotals(w io.Writer, r *domain.Report) {
	fmt.Fprintf(w, "Grand Total: %s  Float: %s  Goes to Bank: %s\n",
		r.GrandTotalText, r.FloatAmountText, r.BankAmountText)
}

func renderDenominations(w io.Writer, service *app.TallyService) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tKIND\tVALUE")
	for _, d := range service.Denominations() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, d.Label, d.Kind, service.FormatCurrency(d.Value))
	}
	tw.Flush()
}
