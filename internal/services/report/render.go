package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vadiminshakov/makersim/internal/domain"
)

var (
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	warning   = lipgloss.AdaptiveColor{Light: "#BF4343", Dark: "#F57373"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(0, 2).
			Bold(true).
			MarginBottom(1)

	nameStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true)

	abortedStyle = lipgloss.NewStyle().
			Foreground(warning).
			Bold(true)

	labelStyle = lipgloss.NewStyle().Width(20)
)

// Render formats the run summaries for the terminal.
func Render(summaries []domain.Summary) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("market making results"))
	b.WriteString("\n")

	for _, s := range summaries {
		status := s.Status.String()
		if s.Status == domain.StatusAborted {
			status = abortedStyle.Render(status)
		}

		b.WriteString(fmt.Sprintf("%s  (%s)\n", nameStyle.Render(s.Strategy), status))
		row(&b, "days completed", fmt.Sprintf("%d", s.DaysCompleted))
		row(&b, "total pnl", s.TotalPnL.StringFixed(2))
		row(&b, "realized pnl", s.RealizedPnL.StringFixed(2))
		row(&b, "unrealized pnl", s.UnrealizedPnL.StringFixed(2))
		row(&b, "max drawdown", s.MaxDrawdown.StringFixed(2))
		row(&b, "max abs inventory", s.MaxAbsInventory.StringFixed(2))
		row(&b, "trades", fmt.Sprintf("%d", s.TradeCount))
		row(&b, "fault days", fmt.Sprintf("%d", s.FaultDays))
		row(&b, "score", s.Score.StringFixed(2))
		row(&b, "sharpe", fmt.Sprintf("%.2f", s.Sharpe))
		row(&b, "realized vol", fmt.Sprintf("%.2f%%", s.RealizedVol*100))
		row(&b, "avg spread", fmt.Sprintf("%.2f%%", s.AvgSpreadPct*100))

		events := make([]domain.EventKind, 0, len(s.PnLByEvent))
		for kind := range s.PnLByEvent {
			events = append(events, kind)
		}
		sort.Slice(events, func(i, j int) bool { return events[i] < events[j] })
		for _, kind := range events {
			row(&b, "pnl on "+kind.String(), s.PnLByEvent[kind].StringFixed(2))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func row(b *strings.Builder, label, value string) {
	b.WriteString("  ")
	b.WriteString(labelStyle.Render(label))
	b.WriteString(value)
	b.WriteString("\n")
}
