package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yourusername/aroma-purchase-bot/internal/catalog"
	"github.com/yourusername/aroma-purchase-bot/internal/domain/constants"
	"github.com/yourusername/aroma-purchase-bot/internal/domain/entity"
)

func newRowsCmd(flags *sourceFlags) *cobra.Command {
	var (
		query  string
		anchor string
		fromAn bool
	)
	cmd := &cobra.Command{
		Use:   "rows",
		Short: "Print catalog rows as the bot builds them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, _, err := flags.load(cmd.Context())
			if err != nil {
				return err
			}
			rows = catalog.ApplyView(rows, entity.ViewFilter{
				Query:      strings.ToLower(strings.TrimSpace(query)),
				AnchorOnly: fromAn,
			}, anchor, nil)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ROW\tNAME\tCATEGORY\tPRICE/10ML\tORDERED\tCOLLECTED")
			for _, r := range rows {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					r.RowID, r.AromaName, r.Category,
					num(r.UnitPrice), num(r.OrderedQuantity), num(r.TotalCollected))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive name search")
	cmd.Flags().BoolVar(&fromAn, "from-anchor", false, "start from the first row containing the anchor keyword")
	cmd.Flags().StringVar(&anchor, "anchor", constants.DefaultAnchorKeyword, "anchor keyword")
	return cmd
}

func newTotalsCmd(flags *sourceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "totals",
		Short: "Print the member's ordered total over the whole sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(flags.user) == "" {
				return fmt.Errorf("--user is required")
			}
			rows, binding, err := flags.load(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if binding.OrderedSynthesized {
				fmt.Fprintf(out, "warning: no column for %q, ordered quantities are 0\n", flags.user)
			}
			t := catalog.ComputeSums(rows, nil)
			fmt.Fprintf(out, "rows: %d\nordered: %s\n", len(rows), num(t.Ordered))
			return nil
		},
	}
}

func newOrderCmd(flags *sourceFlags) *cobra.Command {
	var (
		plan       []string
		orderTag   string
		reorderTag string
	)
	cmd := &cobra.Command{
		Use:     "order",
		Short:   "Compose the shareable order message for a plan",
		Example: `  aromactl order -u Anna --plan 3=20 --plan 7=10`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := parsePlan(plan)
			if err != nil {
				return err
			}
			rows, _, err := flags.load(cmd.Context())
			if err != nil {
				return err
			}
			msg, err := catalog.Compose(rows, ledger, strings.TrimSpace(flags.user), orderTag, reorderTag)
			if err != nil {
				return err
			}
			t := catalog.ComputeSums(rows, ledger)
			fmt.Fprintln(cmd.OutOrStdout(), msg.Text())
			fmt.Fprintf(cmd.ErrOrStderr(), "planned: %s, ordered: %s\n", num(t.Planned), num(t.Ordered))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&plan, "plan", nil, "planned quantity as <row>=<ml>, repeatable")
	cmd.Flags().StringVar(&orderTag, "order-tag", constants.DefaultOrderTag, "tag of a first order")
	cmd.Flags().StringVar(&reorderTag, "reorder-tag", constants.DefaultReorderTag, "tag of a reorder")
	return cmd
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
