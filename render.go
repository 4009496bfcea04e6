package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/jask/nestegg/internal/ledger"
)

func (m model) View() string {
	if !m.ready {
		return statusBarStyle.Render(m.status)
	}

	header := m.renderHeader()
	var body string
	switch m.activeTab {
	case tabHistory:
		body = m.renderHistory()
	case tabProjection:
		body = m.renderProjection()
	default:
		body = m.renderBalance()
	}

	if m.importing {
		body += "\n\n" + m.renderImportPrompt()
	}
	if m.picker != nil {
		body += "\n\n" + renderPicker(m.picker, m.modalWidth())
	}

	statusLine := m.renderBar(statusBarStyle, m.status)
	footer := m.renderBar(footerStyle, m.footerText())
	return header + "\n" + m.placeBody(body) + "\n" + statusLine + "\n" + footer
}

func (m model) renderHeader() string {
	tabs := make([]string, 0, int(tabCount))
	for t := tabBalance; t < tabCount; t++ {
		style := tabStyle
		if t == m.activeTab {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(t.String()))
	}

	name := "(no accounts)"
	if acct, ok := m.currentAccount(); ok {
		name = acct.Name
	}
	left := titleStyle.Render("nestegg") + "  " + strings.Join(tabs, " ")
	right := labelStyle.Render(name + "  " + m.formatDate(m.asOf))
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m model) renderBalance() string {
	acct, ok := m.currentAccount()
	if !ok {
		return mutedStyle.Render("No accounts in the data file. Press i to import a CSV.")
	}
	res := m.cache.Get(acct, m.asOf)

	row := func(label string, v decimal.Decimal, style lipgloss.Style) string {
		return labelStyle.Render(fmt.Sprintf("%-24s", label)) + style.Render(fmt.Sprintf("%14s", m.formatMoney(v)))
	}

	lines := []string{
		row("Deposits less withdrawals", res.Base, valueStyle),
		row("Interest credited", res.TotalInterest, accrualStyle),
		row("Start of month", res.StartOfMonth, valueStyle),
		row("Accrued this month", res.AccruedCurrentMonth, accrualStyle),
		row("Current balance", res.Current, currentStyle),
		"",
		row("Next month estimate", res.NextMonthEstimate, mutedStyle),
		labelStyle.Render(fmt.Sprintf("%-24s", "Rate today")) +
			valueStyle.Render(fmt.Sprintf("%13.2f%%", acct.Schedule.RateOn(m.asOf)*100)),
	}
	return strings.Join(lines, "\n")
}

func (m model) renderHistory() string {
	acct, ok := m.currentAccount()
	if !ok {
		return mutedStyle.Render("No accounts in the data file.")
	}
	res := m.cache.Get(acct, m.asOf)
	rows := mergeHistory(acct.Transactions, res.Posted)

	dateWidth, kindWidth, amountWidth := 12, 10, 14
	noteWidth := m.contentWidth() - dateWidth - kindWidth - amountWidth - 8
	if noteWidth < 6 {
		noteWidth = 6
	}

	header := labelStyle.Render(fmt.Sprintf("  %-*s  %-*s  %*s  %-*s",
		dateWidth, "Date", kindWidth, "Kind", amountWidth, "Amount", noteWidth, "Note"))
	lines := []string{header}

	end := m.topIndex + m.visibleRows()
	if end > len(rows) {
		end = len(rows)
	}
	for i := m.topIndex; i < end; i++ {
		t := rows[i]
		style := creditStyle
		switch t.Kind {
		case ledger.Withdrawal:
			style = debitStyle
		case ledger.Interest:
			style = accrualStyle
		}
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		line := prefix +
			valueStyle.Render(padRight(m.formatDate(t.Date), dateWidth)) + "  " +
			style.Render(padRight(t.Kind.String(), kindWidth)) + "  " +
			style.Render(fmt.Sprintf("%*s", amountWidth, m.formatMoney(t.Signed()))) + "  " +
			mutedStyle.Render(truncate(t.Note, noteWidth))
		lines = append(lines, line)
	}
	if len(rows) == 0 {
		lines = append(lines, mutedStyle.Render("  no transactions"))
	}
	return strings.Join(lines, "\n")
}

func (m model) renderProjection() string {
	acct, ok := m.currentAccount()
	if !ok {
		return mutedStyle.Render("No accounts in the data file.")
	}
	res := m.cache.Get(acct, m.asOf)
	apy := acct.Schedule.RateOn(m.asOf)
	pts := ledger.Project(res.Current, apy, m.cfg.Projection.Months)

	barWidth := m.contentWidth() - 28
	if barWidth < 10 {
		barWidth = 10
	}

	title := labelStyle.Render(fmt.Sprintf("Projection at %.2f%% APY, frozen as of %s", apy*100, m.formatDate(m.asOf)))
	lines := []string{title, ""}
	for _, pt := range pts {
		label := "now"
		if pt.Month > 0 {
			label = fmt.Sprintf("+%dmo", pt.Month)
		}
		bar := barStyle.Render(strings.Repeat("█", barLength(pt.Balance, pts, barWidth)))
		lines = append(lines, fmt.Sprintf("%s %s %s",
			labelStyle.Render(fmt.Sprintf("%6s", label)),
			valueStyle.Render(fmt.Sprintf("%14s", m.formatMoney(pt.Balance))),
			bar))
	}
	return strings.Join(lines, "\n")
}

// barLength scales a balance against the series maximum. Non-positive
// balances draw no bar.
func barLength(balance decimal.Decimal, pts []ledger.ProjectionPoint, width int) int {
	max := decimal.Zero
	for _, pt := range pts {
		if pt.Balance.GreaterThan(max) {
			max = pt.Balance
		}
	}
	if max.Sign() <= 0 || balance.Sign() <= 0 {
		return 0
	}
	n := int(balance.Mul(decimal.NewFromInt(int64(width))).Div(max).IntPart())
	if n > width {
		n = width
	}
	if n < 1 {
		n = 1
	}
	return n
}

// mergeHistory interleaves computed interest postings into the recorded
// history by date. Recorded rows sort before a posting on the same day, so
// month-end interest lands after that day's transactions.
func mergeHistory(recorded, posted []ledger.Transaction) []ledger.Transaction {
	out := make([]ledger.Transaction, 0, len(recorded)+len(posted))
	out = append(out, recorded...)
	out = append(out, posted...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func (m model) renderImportPrompt() string {
	acctName := ""
	if acct, ok := m.currentAccount(); ok {
		acctName = acct.Name
	}
	lines := []string{
		titleStyle.Render("Import transactions CSV into " + acctName),
		valueStyle.Render(m.importPath + "▏"),
		mutedStyle.Render("columns: date,kind,amount[,note]   enter import  esc cancel"),
	}
	return modalStyle.Render(strings.Join(lines, "\n"))
}

func (m model) footerText() string {
	if m.picker != nil || m.importing {
		return renderHelp(m.modalKeys.ShortHelp())
	}
	return renderHelp(m.keys.ShortHelp())
}

func (m model) renderBar(style lipgloss.Style, text string) string {
	flat := strings.ReplaceAll(text, "\n", " ")
	if m.width == 0 {
		return style.Render(flat)
	}
	return style.Render(padRight(flat, m.width-style.GetHorizontalFrameSize()))
}

func (m model) placeBody(body string) string {
	if m.height == 0 {
		return body
	}
	contentHeight := m.height - 3
	if contentHeight < 1 {
		contentHeight = 1
	}
	if lipgloss.Height(body) >= contentHeight {
		return body
	}
	return lipgloss.Place(m.width, contentHeight, lipgloss.Left, lipgloss.Top, body)
}

func (m model) contentWidth() int {
	if m.width == 0 {
		return 80
	}
	return m.width
}

func (m model) modalWidth() int {
	w := m.contentWidth() - 10
	if w > 60 {
		w = 60
	}
	if w < 30 {
		w = 30
	}
	return w
}

// formatMoney renders a display amount rounded to two decimals. The ledger
// keeps exact values; rounding happens only here.
func (m model) formatMoney(v decimal.Decimal) string {
	symbol := m.cfg.UI.CurrencySymbol
	if symbol == "" {
		symbol = "$"
	}
	if v.Sign() < 0 {
		return "-" + symbol + v.Neg().StringFixed(2)
	}
	return symbol + v.StringFixed(2)
}

func (m model) formatDate(d civil.Date) string {
	layout := m.cfg.UI.DateFormat
	if layout == "" {
		layout = "2006-01-02"
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(layout)
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, boldKey(help.Key)+" "+help.Desc)
	}
	return strings.Join(parts, "  ")
}

func boldKey(text string) string {
	if text == "" {
		return ""
	}
	return "\x1b[1m" + text + "\x1b[22m"
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
