package notifier

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"StakeBanner/internal/calculator"
	"StakeBanner/internal/model"
)

// Placeholder is shown in place of zero or missing values.
const Placeholder = "-"

// Display controls how on-chain amounts are shown.
type Display struct {
	UnitSymbol   string
	UnitDecimals int32
}

// FormatStake converts an amount in the smallest unit to whole tokens with thousands separators.
func FormatStake(amount decimal.Decimal, d Display) string {
	if amount.IsZero() {
		return Placeholder
	}
	units := calculator.ToDisplayUnits(amount, d.UnitDecimals).Round(0)
	s := humanize.Comma(units.IntPart())
	if d.UnitSymbol != "" {
		s += " " + d.UnitSymbol
	}
	return s
}

// FormatRate renders a fractional rate as a percentage with two decimals.
func FormatRate(rate float64) string {
	if rate == 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return Placeholder
	}
	return humanize.FormatFloat("#,###.##", rate*100) + "%"
}

// FormatInt renders n, or the placeholder when n is zero.
func FormatInt(n int64) string {
	if n == 0 {
		return Placeholder
	}
	return humanize.Comma(n)
}

// StatRow returns the display cells of one weekly stat in table order.
func StatRow(s model.WeeklyStat, d Display) []string {
	return []string{
		s.Label,
		FormatInt(int64(s.Accounts)),
		FormatStake(s.TotalStake, d),
		FormatStake(s.AvgStake, d),
		FormatInt(s.AvgPeriod),
		FormatRate(s.EstBonusRate),
		FormatStake(s.EstTotal, d),
	}
}

// StatHeader names the columns produced by StatRow.
var StatHeader = []string{"Week", "Accounts", "Total Stake", "Avg Stake", "Avg Lockup", "Est Bonus", "Est Total"}

// FormatReport formats the weekly stats into a Telegram HTML message.
func FormatReport(r *model.Report, d Display) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Weekly Stats</b> | contract %d\n", r.ContractID))
	b.WriteString(fmt.Sprintf("Week 1 starts: %s\n", r.WindowStart.UTC().Format("2006-01-02 15:04 MST")))
	if r.Empty() {
		b.WriteString("\nNo staking accounts found.\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Accounts: %s | Total stake: %s\n",
		humanize.Comma(int64(r.AccountCount)), FormatStake(r.TotalStake, d)))
	if r.Unclassified > 0 {
		b.WriteString(fmt.Sprintf("Outside every week: %d\n", r.Unclassified))
	}

	for _, s := range r.Stats {
		row := StatRow(s, d)
		b.WriteString(fmt.Sprintf("\n<b>%s</b>\n", row[0]))
		for i := 1; i < len(row); i++ {
			b.WriteString(fmt.Sprintf("%s: %s\n", StatHeader[i], row[i]))
		}
	}

	b.WriteString(fmt.Sprintf("\nUpdated %s", r.FetchedAt.UTC().Format("2006-01-02 15:04 MST")))
	return b.String()
}

// FormatWeek formats a single week for command replies.
func FormatWeek(s model.WeeklyStat, d Display) string {
	var b strings.Builder
	row := StatRow(s, d)
	b.WriteString(fmt.Sprintf("<b>%s</b>\n", row[0]))
	for i := 1; i < len(row); i++ {
		b.WriteString(fmt.Sprintf("%s: %s\n", StatHeader[i], row[i]))
	}
	return b.String()
}
