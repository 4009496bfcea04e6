package main

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/lipgloss"
)

type pickerItem struct {
	ID    string
	Label string
	Meta  string
}

// pickerState is the account picker modal: a typed query filters the item
// list, cursor selects. Single-select only.
type pickerState struct {
	items    []pickerItem
	filtered []pickerItem
	query    string
	cursor   int
	title    string
}

type pickerAction int

const (
	pickerActionNone pickerAction = iota
	pickerActionMoved
	pickerActionSelected
	pickerActionCancelled
)

type pickerResult struct {
	Action    pickerAction
	ItemID    string
	ItemLabel string
}

type scoredPickerItem struct {
	item  pickerItem
	score int
}

func newPicker(title string, items []pickerItem) *pickerState {
	p := &pickerState{title: title}
	p.SetItems(items)
	return p
}

func (p *pickerState) SetItems(items []pickerItem) {
	if p == nil {
		return
	}
	p.items = append([]pickerItem(nil), items...)
	p.rebuildFiltered()
}

func (p *pickerState) SetQuery(q string) {
	if p == nil {
		return
	}
	p.query = q
	p.rebuildFiltered()
}

func (p *pickerState) CursorUp() {
	if p == nil {
		return
	}
	if p.cursor > 0 {
		p.cursor--
	}
}

func (p *pickerState) CursorDown() {
	if p == nil {
		return
	}
	if p.cursor < len(p.filtered)-1 {
		p.cursor++
	}
}

func (p *pickerState) Current() (pickerItem, bool) {
	if p == nil || len(p.filtered) == 0 {
		return pickerItem{}, false
	}
	idx := p.cursor
	if idx < 0 {
		idx = 0
	}
	if idx >= len(p.filtered) {
		idx = len(p.filtered) - 1
	}
	return p.filtered[idx], true
}

func (p *pickerState) HandleKey(keyName string) pickerResult {
	if p == nil {
		return pickerResult{Action: pickerActionNone}
	}

	switch keyName {
	case "k", "up":
		before := p.cursor
		p.CursorUp()
		if p.cursor != before {
			return pickerResult{Action: pickerActionMoved}
		}
		return pickerResult{Action: pickerActionNone}
	case "j", "down":
		before := p.cursor
		p.CursorDown()
		if p.cursor != before {
			return pickerResult{Action: pickerActionMoved}
		}
		return pickerResult{Action: pickerActionNone}
	case "enter":
		item, ok := p.Current()
		if !ok {
			return pickerResult{Action: pickerActionNone}
		}
		return pickerResult{Action: pickerActionSelected, ItemID: item.ID, ItemLabel: item.Label}
	case "esc":
		return pickerResult{Action: pickerActionCancelled}
	case "backspace":
		if len(p.query) > 0 {
			p.SetQuery(p.query[:len(p.query)-1])
		}
		return pickerResult{Action: pickerActionNone}
	default:
		if isPrintableASCIIKey(keyName) {
			p.SetQuery(p.query + keyName)
		}
		return pickerResult{Action: pickerActionNone}
	}
}

func (p *pickerState) rebuildFiltered() {
	if p == nil {
		return
	}
	q := strings.TrimSpace(p.query)
	if q == "" {
		// No query: keep the caller's ordering.
		p.filtered = append(p.filtered[:0], p.items...)
		if p.cursor >= len(p.filtered) {
			p.cursor = len(p.filtered) - 1
		}
		if p.cursor < 0 {
			p.cursor = 0
		}
		return
	}
	scored := make([]scoredPickerItem, 0, len(p.items))
	for _, it := range p.items {
		matched, score := fuzzyMatchScore(it.Label, q)
		if !matched {
			continue
		}
		scored = append(scored, scoredPickerItem{item: it, score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return strings.ToLower(scored[i].item.Label) < strings.ToLower(scored[j].item.Label)
	})

	p.filtered = p.filtered[:0]
	for i := range scored {
		p.filtered = append(p.filtered, scored[i].item)
	}
	if p.cursor >= len(p.filtered) {
		p.cursor = len(p.filtered) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// fuzzyMatchScore requires the query to appear as a subsequence of the
// label, then ranks: prefix and contiguity bonuses first, edit distance as
// the final discriminator so "Holi" prefers "Holiday Fund" over a label
// that merely scatters the same letters.
func fuzzyMatchScore(label, query string) (bool, int) {
	if query == "" {
		return true, 0
	}
	labelLower := strings.ToLower(label)
	queryLower := strings.ToLower(query)

	matchIdx := make([]int, 0, len(queryLower))
	searchFrom := 0
	for i := 0; i < len(queryLower); i++ {
		ch := queryLower[i]
		found := false
		for j := searchFrom; j < len(labelLower); j++ {
			if labelLower[j] == ch {
				matchIdx = append(matchIdx, j)
				searchFrom = j + 1
				found = true
				break
			}
		}
		if !found {
			return false, 0
		}
	}

	score := len(queryLower) * 4
	if matchIdx[0] == 0 {
		score += 40
	}
	for i := 1; i < len(matchIdx); i++ {
		if matchIdx[i] == matchIdx[i-1]+1 {
			score += 12
		}
	}
	score -= levenshtein.ComputeDistance(queryLower, labelLower)
	return true, score
}

func renderPicker(p *pickerState, width int) string {
	if p == nil {
		return ""
	}
	var lines []string
	lines = append(lines, titleStyle.Render(p.title))

	queryValue := mutedStyle.Render("(type to filter)")
	if strings.TrimSpace(p.query) != "" {
		queryValue = valueStyle.Render(p.query)
	}
	lines = append(lines, labelStyle.Render("Filter: ")+queryValue)

	if len(p.filtered) == 0 {
		lines = append(lines, mutedStyle.Render("  no matching accounts"))
	}
	for i, it := range p.filtered {
		prefix := "  "
		label := valueStyle.Render(it.Label)
		if i == p.cursor {
			prefix = cursorStyle.Render("> ")
			label = cursorStyle.Render(it.Label)
		}
		meta := ""
		if strings.TrimSpace(it.Meta) != "" {
			meta = mutedStyle.Render("  " + it.Meta)
		}
		lines = append(lines, padStyledLine(prefix+label+meta, width))
	}
	lines = append(lines, mutedStyle.Render("enter select  esc cancel"))
	return modalStyle.Render(strings.Join(lines, "\n"))
}

func padStyledLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func isPrintableASCIIKey(keyName string) bool {
	return len(keyName) == 1 && keyName[0] >= 32 && keyName[0] < 127
}
