package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"sol-paper-ledger/internal/journal"
	"sol-paper-ledger/internal/metrics"
	"sol-paper-ledger/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

func fmtSOL(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

func fmtMark(v float64) string {
	if v <= 0 {
		return "-"
	}
	return humanize.Commaf(v)
}

func fmtPercent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// renderPositions renders open positions (and, optionally, closed ones)
// in ledger order, i.e. most recent first.
func renderPositions(w io.Writer, state *models.LedgerState, includeClosed bool) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Name", "Status", "Avg Entry", "Last Mark", "Invested", "Realized", "P/L %"})
	for _, p := range state.Positions {
		if p.IsClosed() && !includeClosed {
			continue
		}
		switch {
		case p.IsClosed():
			t.AppendRow(table.Row{
				p.ID, p.Name, string(p.Status),
				fmtMark(p.AverageEntryMark), fmtMark(p.FinalMark),
				fmtSOL(0), fmtSOL(p.FinalPnl), fmtPercent(p.FinalPnlPercent),
			})
		default:
			pct := 0.0
			if p.LastObservedMark > 0 {
				pct = (p.LastObservedMark/p.AverageEntryMark - 1) * 100
			}
			t.AppendRow(table.Row{
				p.ID, p.Name, string(p.Status),
				fmtMark(p.AverageEntryMark), fmtMark(p.LastObservedMark),
				fmtSOL(p.InvestedAmount), fmtSOL(p.RealizedGain), fmtPercent(pct),
			})
		}
	}
	t.Render()
}

// renderSummary renders the aggregate metrics next to the session
// balances.
func renderSummary(w io.Writer, state *models.LedgerState, sum metrics.Summary) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Metric", "Value"})
	if state.StartingBalance != nil {
		t.AppendRow(table.Row{"Starting balance", fmtSOL(*state.StartingBalance) + " SOL"})
	}
	t.AppendRow(table.Row{"Balance", fmtSOL(sum.Balance) + " SOL"})
	t.AppendRow(table.Row{"Open value", fmtSOL(sum.OpenInvestedValue) + " SOL"})
	t.AppendRow(table.Row{"Unrealized P/L", fmtSOL(sum.UnrealizedTotal) + " SOL"})
	t.AppendRow(table.Row{"Equity", fmtSOL(sum.Equity) + " SOL"})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Realized P/L (closed)", fmtSOL(sum.RealizedTotal) + " SOL"})
	t.AppendRow(table.Row{"Closed positions", sum.ClosedCount})
	t.AppendRow(table.Row{"Win rate", fmtPercent(sum.WinRate)})
	t.AppendRow(table.Row{"Avg return", fmtPercent(sum.AverageReturnPercent)})
	t.AppendRow(table.Row{"Avg return (abs)", fmtSOL(sum.AverageReturnAbsolute) + " SOL"})
	t.Render()
}

// renderHistory renders the snapshot series, oldest first.
func renderHistory(w io.Writer, history []models.Snapshot) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Time", "Balance", "Open Value", "Total"})
	for _, snap := range history {
		t.AppendRow(table.Row{
			snap.Timestamp.Format(timeLayout),
			fmtSOL(snap.Balance),
			fmtSOL(snap.OpenValue),
			fmtSOL(snap.Balance + snap.OpenValue),
		})
	}
	t.Render()
}

// renderJournal renders audit entries, most recent first.
func renderJournal(w io.Writer, entries []journal.Entry) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Time", "Op", "Position", "Mark", "Amount", "Balance After"})
	for _, e := range entries {
		mark := "-"
		if e.Mark > 0 {
			mark = fmtMark(e.Mark)
		}
		t.AppendRow(table.Row{
			e.Timestamp.Local().Format(timeLayout),
			e.Op, e.PositionID, mark,
			fmtSOL(e.Amount), fmtSOL(e.BalanceAfter),
		})
	}
	t.Render()
}

// closedAtString formats a closure timestamp for display.
func closedAtString(ts *time.Time) string {
	if ts == nil {
		return "-"
	}
	return ts.Format(timeLayout)
}
