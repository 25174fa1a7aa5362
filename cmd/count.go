package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cash-tally/app"
)

func newCountCmd(c *cli) *cobra.Command {
	var asJSON bool

	countCmd := &cobra.Command{
		Use:   "count [ID=QTY ...]",
		Short: "Tally a drawer in one go",
		Long: `Counts a drawer from ID=QTY pairs and prints the result.
ID is a denomination id or label, e.g. 0.25=3 or '$20=2'.
Quantities keep only their digits, so 3a2 counts as 32 and -5 as 5.`,
		Example: `  cash-tally count 100=1 20=2 5=1 0.25=3
  cash-tally count --float 100 --json '$20=4'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := c.newTallyService()
			if err != nil {
				return err
			}

			for _, arg := range args {
				key, qty, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("invalid count %q: use ID=QTY (e.g. 0.25=3)", arg)
				}
				d, found := service.Lookup(key)
				if !found {
					return fmt.Errorf("unknown denomination %q", key)
				}
				if err := service.SetQuantity(app.SetQuantityCommand{DenominationID: d.ID, Input: qty}); err != nil {
					return err
				}
			}

			report := service.Report()
			if asJSON {
				data, err := report.JSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			renderReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	countCmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return countCmd
}

func newDenominationsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "denominations",
		Aliases: []string{"denoms"},
		Short:   "List the denominations that can be counted",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := c.newTallyService()
			if err != nil {
				return err
			}
			renderDenominations(cmd.OutOrStdout(), service)
			return nil
		},
	}
}
