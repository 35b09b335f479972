package notifier

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"StakeBanner/internal/model"
)

// RenderTable writes the weekly stats as a plain-text table.
func RenderTable(w io.Writer, r *model.Report, d Display) {
	fmt.Fprintf(w, "Weekly Stats for contract %d (week 1 starts %s)\n",
		r.ContractID, r.WindowStart.UTC().Format("2006-01-02"))
	if r.Empty() {
		fmt.Fprintln(w, "No staking accounts found.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(StatHeader)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, s := range r.Stats {
		table.Append(StatRow(s, d))
	}
	table.SetFooter([]string{"All", FormatInt(int64(r.AccountCount)), FormatStake(r.TotalStake, d), "", "", "", ""})
	table.Render()

	if r.Unclassified > 0 {
		fmt.Fprintf(w, "%d accounts fell outside every week\n", r.Unclassified)
	}
}

// TableString is RenderTable into a string.
func TableString(r *model.Report, d Display) string {
	var b strings.Builder
	RenderTable(&b, r, d)
	return b.String()
}
