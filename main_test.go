package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/nestegg/internal/ledger"
	"github.com/jask/nestegg/internal/service"
)

func testModel(txCount int) model {
	txs := make([]ledger.Transaction, 0, txCount)
	d := day("2025-01-01")
	for i := 0; i < txCount; i++ {
		txs = append(txs, ledger.Transaction{Date: d, Kind: ledger.Deposit, Amount: money("10")})
		d = d.AddDays(1)
	}
	return model{
		cache: service.NewAccrualCache(),
		accounts: []ledger.Account{
			{ID: "a1", Name: "Holiday Fund", Transactions: txs},
		},
		asOf:  day("2025-06-15"),
		keys:  newKeyMap(),
		ready: true,
	}
}

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runeMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTabCycling(t *testing.T) {
	m := testModel(0)
	next, _ := m.Update(keyMsg(tea.KeyTab))
	m = next.(model)
	if m.activeTab != tabHistory {
		t.Fatalf("after tab, activeTab = %v, want History", m.activeTab)
	}
	next, _ = m.Update(keyMsg(tea.KeyTab))
	m = next.(model)
	next, _ = m.Update(keyMsg(tea.KeyTab))
	m = next.(model)
	if m.activeTab != tabBalance {
		t.Fatalf("tab should wrap back to Balance, got %v", m.activeTab)
	}
	next, _ = m.Update(keyMsg(tea.KeyShiftTab))
	m = next.(model)
	if m.activeTab != tabProjection {
		t.Fatalf("shift+tab should wrap to Projection, got %v", m.activeTab)
	}
}

func TestNumberKeysJumpToTab(t *testing.T) {
	m := testModel(0)
	next, _ := m.Update(runeMsg("3"))
	m = next.(model)
	if m.activeTab != tabProjection {
		t.Fatalf("3 should select Projection, got %v", m.activeTab)
	}
	next, _ = m.Update(runeMsg("1"))
	m = next.(model)
	if m.activeTab != tabBalance {
		t.Fatalf("1 should select Balance, got %v", m.activeTab)
	}
}

func TestHistoryScrollKeepsCursorInWindow(t *testing.T) {
	m := testModel(50)
	m.activeTab = tabHistory
	m.height = 17 // visibleRows = 10

	for i := 0; i < 15; i++ {
		next, _ := m.Update(keyMsg(tea.KeyDown))
		m = next.(model)
	}
	if m.cursor != 15 {
		t.Fatalf("cursor = %d, want 15", m.cursor)
	}
	if m.cursor < m.topIndex || m.cursor >= m.topIndex+m.visibleRows() {
		t.Fatalf("cursor %d outside window [%d, %d)", m.cursor, m.topIndex, m.topIndex+m.visibleRows())
	}

	for i := 0; i < 100; i++ {
		next, _ := m.Update(keyMsg(tea.KeyDown))
		m = next.(model)
	}
	if m.cursor != m.historyLen()-1 {
		t.Fatalf("cursor = %d, want clamp at %d", m.cursor, m.historyLen()-1)
	}
}

func TestAccountPickerSelectionResetsScroll(t *testing.T) {
	m := testModel(5)
	m.accounts = append(m.accounts, ledger.Account{ID: "a2", Name: "Emergency Fund"})
	m.cursor, m.topIndex = 3, 2

	next, _ := m.Update(runeMsg("a"))
	m = next.(model)
	if m.picker == nil {
		t.Fatal("a should open the account picker")
	}

	next, _ = m.Update(keyMsg(tea.KeyDown))
	m = next.(model)
	next, _ = m.Update(keyMsg(tea.KeyEnter))
	m = next.(model)
	if m.picker != nil {
		t.Fatal("picker should close after selection")
	}
	if m.accounts[m.selected].Name != "Emergency Fund" {
		t.Fatalf("selected %q, want Emergency Fund", m.accounts[m.selected].Name)
	}
	if m.cursor != 0 || m.topIndex != 0 {
		t.Fatalf("scroll not reset: cursor=%d top=%d", m.cursor, m.topIndex)
	}
}

func TestImportPromptCollectsPath(t *testing.T) {
	m := testModel(1)
	next, _ := m.Update(runeMsg("i"))
	m = next.(model)
	if !m.importing {
		t.Fatal("i should enter import mode")
	}
	for _, r := range "tx.csv" {
		next, _ = m.Update(runeMsg(string(r)))
		m = next.(model)
	}
	if m.importPath != "tx.csv" {
		t.Fatalf("importPath = %q, want tx.csv", m.importPath)
	}
	next, _ = m.Update(keyMsg(tea.KeyEsc))
	m = next.(model)
	if m.importing {
		t.Fatal("esc should leave import mode")
	}
}
