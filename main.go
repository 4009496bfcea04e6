package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jask/nestegg/internal/config"
	"github.com/jask/nestegg/internal/database"
	"github.com/jask/nestegg/internal/database/repository"
	"github.com/jask/nestegg/internal/ledger"
	"github.com/jask/nestegg/internal/logger"
	"github.com/jask/nestegg/internal/service"
	"github.com/jask/nestegg/internal/testdata"
)

type tab int

const (
	tabBalance tab = iota
	tabHistory
	tabProjection
	tabCount
)

func (t tab) String() string {
	switch t {
	case tabBalance:
		return "Balance"
	case tabHistory:
		return "History"
	case tabProjection:
		return "Projection"
	}
	return "?"
}

type model struct {
	ctx    context.Context
	cfg    config.Config
	log    zerolog.Logger
	loader *service.Loader
	ingest *service.IngestService
	cache  *service.AccrualCache

	accounts []ledger.Account
	selected int
	asOf     civil.Date

	activeTab  tab
	cursor     int
	topIndex   int
	picker     *pickerState
	importing  bool
	importPath string

	status string
	ready  bool
	width  int
	height int

	keys      keyMap
	modalKeys modalKeyMap
}

type dataLoadedMsg struct {
	accounts []ledger.Account
	err      error
}

type importDoneMsg struct {
	result service.IngestResult
	file   string
	err    error
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, logClose, err := logger.New(cfg.Log.Path)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	if logClose != nil {
		defer logClose.Close()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}
	if err := database.RunMigrations(cfg.Database.Path, "internal/database/migrations"); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	acctRepo := repository.NewAccountRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	rateRepo := repository.NewRateRepo(db)

	existing, err := acctRepo.List(ctx)
	if err != nil {
		log.Fatalf("list accounts: %v", err)
	}
	if len(existing) == 0 {
		if err := testdata.Seed(ctx, testdata.Repos{Accounts: acctRepo, Transactions: txRepo, Rates: rateRepo}); err != nil {
			log.Fatalf("seed: %v", err)
		}
		zl.Info().Msg("seeded demo data into empty data file")
	}

	m := newModel(ctx, cfg, zl,
		&service.Loader{Accounts: acctRepo, Transactions: txRepo, Rates: rateRepo, Log: zl},
		&service.IngestService{Accounts: acctRepo, Transactions: txRepo, Rates: rateRepo, Log: zl},
	)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func newModel(ctx context.Context, cfg config.Config, zl zerolog.Logger, loader *service.Loader, ingest *service.IngestService) model {
	return model{
		ctx:       ctx,
		cfg:       cfg,
		log:       zl,
		loader:    loader,
		ingest:    ingest,
		cache:     service.NewAccrualCache(),
		asOf:      civil.DateOf(time.Now()),
		keys:      newKeyMap(),
		modalKeys: modalKeyMap{keyMap: newKeyMap()},
	}
}

func (m model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		accounts, err := m.loader.Load(m.ctx)
		return dataLoadedMsg{accounts: accounts, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dataLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("load failed: %v", msg.err)
			return m, nil
		}
		m.accounts = msg.accounts
		if m.selected >= len(m.accounts) {
			m.selected = 0
		}
		m.cursor, m.topIndex = 0, 0
		m.ready = true
		if m.status == "" {
			m.status = fmt.Sprintf("%d accounts loaded as of %s", len(m.accounts), m.asOf)
		}
		return m, nil
	case importDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("import failed: %v", msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("imported %d, skipped %d, errors %d from %s",
			msg.result.Imported, msg.result.Skipped, len(msg.result.Errors), msg.file)
		m.cache.Reset()
		return m, m.loadCmd()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInWindow()
		return m, nil
	case tea.KeyMsg:
		if m.picker != nil {
			return m.updatePicker(msg)
		}
		if m.importing {
			return m.updateImport(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

func (m model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.activeTab = (m.activeTab + 1) % tabCount
		return m, nil
	case "shift+tab":
		m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		return m, nil
	case "1":
		m.activeTab = tabBalance
		return m, nil
	case "2":
		m.activeTab = tabHistory
		return m, nil
	case "3":
		m.activeTab = tabProjection
		return m, nil
	case "a":
		items := make([]pickerItem, 0, len(m.accounts))
		for _, a := range m.accounts {
			res := m.cache.Get(a, m.asOf)
			items = append(items, pickerItem{
				ID:    a.ID,
				Label: a.Name,
				Meta:  m.formatMoney(res.Current),
			})
		}
		m.picker = newPicker("Accounts", items)
		return m, nil
	case "i":
		m.importing = true
		m.importPath = ""
		m.status = ""
		return m, nil
	case "up", "k", "ctrl+p":
		if m.activeTab == tabHistory && m.cursor > 0 {
			m.cursor--
			m.ensureCursorInWindow()
		}
		return m, nil
	case "down", "j", "ctrl+n":
		if m.activeTab == tabHistory && m.cursor < m.historyLen()-1 {
			m.cursor++
			m.ensureCursorInWindow()
		}
		return m, nil
	}
	return m, nil
}

func (m model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	res := m.picker.HandleKey(msg.String())
	switch res.Action {
	case pickerActionSelected:
		for i, a := range m.accounts {
			if a.ID == res.ItemID {
				m.selected = i
				break
			}
		}
		m.cursor, m.topIndex = 0, 0
		m.picker = nil
		m.status = "viewing " + res.ItemLabel
	case pickerActionCancelled:
		m.picker = nil
	}
	return m, nil
}

func (m model) updateImport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	}
	switch msg.Type {
	case tea.KeyEsc:
		m.importing = false
		return m, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.importPath)
		if path == "" {
			m.status = "enter a CSV path"
			return m, nil
		}
		acct, ok := m.currentAccount()
		if !ok {
			m.status = "no account selected"
			return m, nil
		}
		m.importing = false
		m.status = "importing..."
		return m, m.ingestCmd(path, acct.Name)
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(m.importPath) > 0 {
			m.importPath = m.importPath[:len(m.importPath)-1]
		}
	case tea.KeySpace:
		m.importPath += " "
	case tea.KeyRunes:
		m.importPath += string(msg.Runes)
	}
	return m, nil
}

func (m model) ingestCmd(path, accountName string) tea.Cmd {
	return func() tea.Msg {
		abs := path
		if !filepath.IsAbs(abs) {
			if p, err := filepath.Abs(abs); err == nil {
				abs = p
			}
		}
		f, err := os.Open(abs)
		if err != nil {
			return importDoneMsg{err: fmt.Errorf("open %s: %w", abs, err)}
		}
		defer f.Close()

		res, err := m.ingest.ImportTransactionsCSV(m.ctx, f, accountName)
		if err != nil {
			return importDoneMsg{err: err}
		}
		return importDoneMsg{result: res, file: filepath.Base(abs)}
	}
}

func (m model) currentAccount() (ledger.Account, bool) {
	if len(m.accounts) == 0 {
		return ledger.Account{}, false
	}
	idx := m.selected
	if idx < 0 || idx >= len(m.accounts) {
		idx = 0
	}
	return m.accounts[idx], true
}

func (m model) historyLen() int {
	acct, ok := m.currentAccount()
	if !ok {
		return 0
	}
	res := m.cache.Get(acct, m.asOf)
	return len(acct.Transactions) + len(res.Posted)
}

func (m *model) visibleRows() int {
	if m.height == 0 {
		return 12
	}
	// header + tab bar + table header + status + footer
	available := m.height - 7
	if available < 3 {
		available = 3
	}
	return available
}

func (m *model) ensureCursorInWindow() {
	visible := m.visibleRows()
	if visible <= 0 {
		return
	}
	if m.cursor < m.topIndex {
		m.topIndex = m.cursor
	} else if m.cursor >= m.topIndex+visible {
		m.topIndex = m.cursor - visible + 1
	}
	maxTop := m.historyLen() - visible
	if maxTop < 0 {
		maxTop = 0
	}
	if m.topIndex > maxTop {
		m.topIndex = maxTop
	}
	if m.topIndex < 0 {
		m.topIndex = 0
	}
}
