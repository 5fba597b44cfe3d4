package app

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/lazygrid/lazygrid/internal/config"
	"github.com/lazygrid/lazygrid/internal/export"
	"github.com/lazygrid/lazygrid/internal/grid"
	"github.com/lazygrid/lazygrid/internal/history"
	"github.com/lazygrid/lazygrid/internal/models"
	"github.com/lazygrid/lazygrid/internal/query"
	"github.com/lazygrid/lazygrid/internal/source"
	"github.com/lazygrid/lazygrid/internal/ui/components"
	"github.com/lazygrid/lazygrid/internal/ui/help"
	"github.com/lazygrid/lazygrid/internal/ui/theme"
)

type viewMode int

const (
	normalMode viewMode = iota
	filterMode
	historyMode
	helpMode
)

// App is the main application model
type App struct {
	config    *config.Config
	theme     theme.Theme
	sessionID string

	width  int
	height int
	mode   viewMode

	// Loaded dataset. Filtering and sorting happen in-process over
	// these rows; a Refresh request never mutates them.
	rows       []models.Row
	sourceName string
	grid       *grid.Grid

	tableView    *components.TableView
	filterEditor *components.FilterEditor
	panel        components.Panel

	historyStore   *history.Store
	historyEntries []history.Entry

	lastResult models.QueryResult

	status    string
	statusErr bool
}

// DataLoadedMsg is sent when the source finishes loading
type DataLoadedMsg struct {
	Source  string
	Columns []models.ColumnInfo
	Rows    []models.Row
	Err     error
}

// QueryDoneMsg is sent when a refresh finishes
type QueryDoneMsg struct {
	Request grid.Refresh
	Result  models.QueryResult
}

// HistoryLoadedMsg carries recent refresh history for the overlay
type HistoryLoadedMsg struct {
	Entries []history.Entry
	Err     error
}

// New creates a new App instance with config
func New(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.GetDefaults()
	}
	th := theme.GetTheme(cfg.UI.Theme)

	tv := components.NewTableView(th)
	if cfg.Grid.MaxCellDisplayLength > 0 {
		tv.MaxCellWidth = cfg.Grid.MaxCellDisplayLength
	}

	a := &App{
		config:       cfg,
		theme:        th,
		sessionID:    uuid.New().String(),
		tableView:    tv,
		filterEditor: components.NewFilterEditor(th),
		panel: components.Panel{
			Title:   "Data",
			Theme:   th,
			Focused: true,
		},
	}

	if cfg.History.Enabled {
		if path, err := cfg.HistoryPath(); err == nil {
			if store, err := history.NewStore(path); err == nil {
				a.historyStore = store
			}
		}
	}

	return a
}

// Close releases resources held by the app.
func (a *App) Close() {
	if a.historyStore != nil {
		_ = a.historyStore.Close()
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.loadData()
}

// loadData reads rows from the configured source.
func (a *App) loadData() tea.Cmd {
	cfg := a.config
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		switch {
		case cfg.Source.DSN != "":
			pg, err := source.Connect(ctx, cfg.Source.DSN)
			if err != nil {
				return DataLoadedMsg{Err: err}
			}
			defer pg.Close()
			cols, rows, err := pg.Load(ctx, cfg.Source.Schema, cfg.Source.Table, cfg.Source.RowLimit)
			return DataLoadedMsg{
				Source:  fmt.Sprintf("%s.%s", cfg.Source.Schema, cfg.Source.Table),
				Columns: cols,
				Rows:    rows,
				Err:     err,
			}
		case cfg.Source.CSV != "":
			cols, rows, err := source.LoadCSV(cfg.Source.CSV)
			return DataLoadedMsg{Source: cfg.Source.CSV, Columns: cols, Rows: rows, Err: err}
		default:
			return DataLoadedMsg{Err: fmt.Errorf("no data source configured: set source.dsn or source.csv")}
		}
	}
}

// runQuery evaluates a refresh request against the loaded rows.
func (a *App) runQuery(req grid.Refresh) tea.Cmd {
	rows := a.rows
	return func() tea.Msg {
		res := query.Run(context.Background(), rows, req)
		return QueryDoneMsg{Request: req, Result: res}
	}
}

// recordHistory logs an executed refresh. Failures are non-fatal.
func (a *App) recordHistory(req grid.Refresh, res models.QueryResult) {
	if a.historyStore == nil {
		return
	}
	entry := history.Entry{
		SessionID:     a.sessionID,
		Source:        a.sourceName,
		Predicate:     req.Predicate,
		Page:          req.Page,
		RowCount:      len(res.Rows),
		FilteredCount: res.Filtered,
		Duration:      res.Duration,
		Success:       res.Error == nil,
	}
	if res.Error != nil {
		entry.ErrorMessage = res.Error.Error()
	}
	_ = a.historyStore.Add(entry)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateDimensions()
		return a, nil

	case DataLoadedMsg:
		return a.handleDataLoaded(msg)

	case QueryDoneMsg:
		if msg.Result.Error != nil {
			a.setError(msg.Result.Error.Error())
		}
		a.lastResult = msg.Result
		a.tableView.SetResult(msg.Result)
		sortCol, sortDir := a.grid.SortState()
		a.tableView.SortCol = sortCol
		a.tableView.SortDir = sortDir
		a.recordHistory(msg.Request, msg.Result)
		return a, nil

	case HistoryLoadedMsg:
		if msg.Err != nil {
			a.setError(msg.Err.Error())
			a.mode = normalMode
			return a, nil
		}
		a.historyEntries = msg.Entries
		return a, nil

	case components.ApplyFilterMsg:
		return a.handleApplyFilter(msg)

	case components.RemoveFilterMsg:
		req, changed := a.grid.RemoveFilter(msg.Column)
		a.mode = normalMode
		if !changed {
			return a, nil
		}
		a.status = fmt.Sprintf("removed filter on %s", msg.Column)
		return a, a.runQuery(req)

	case components.CloseFilterEditorMsg:
		a.mode = normalMode
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleDataLoaded(msg DataLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.setError(msg.Err.Error())
		return a, nil
	}

	g, err := grid.New(msg.Columns,
		grid.WithPageSize(a.config.Grid.PageSize),
		grid.WithCaseSensitive(a.config.Grid.CaseSensitiveFilters),
	)
	if err != nil {
		a.setError(err.Error())
		return a, nil
	}

	a.grid = g
	a.rows = msg.Rows
	a.sourceName = msg.Source
	a.panel.Title = msg.Source
	a.tableView.SetColumns(g.Columns())
	a.status = fmt.Sprintf("loaded %d rows from %s", len(msg.Rows), msg.Source)
	a.statusErr = false
	return a, a.runQuery(g.Request())
}

func (a *App) handleApplyFilter(msg components.ApplyFilterMsg) (tea.Model, tea.Cmd) {
	req, applied, err := a.grid.ApplyFilter(msg.Column, msg.Value, msg.Operator)
	if err != nil {
		a.filterEditor.SetSubmitError(err.Error())
		return a, nil
	}
	a.mode = normalMode
	if !applied {
		a.status = "filter unchanged"
		a.statusErr = false
		return a, nil
	}
	a.status = fmt.Sprintf("filtered %s %s", msg.Column, msg.Operator)
	a.statusErr = false
	return a, a.runQuery(req)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Overlay modes consume keys first.
	switch a.mode {
	case filterMode:
		var cmd tea.Cmd
		a.filterEditor, cmd = a.filterEditor.Update(msg)
		return a, cmd
	case historyMode:
		switch msg.String() {
		case "esc", "q", "H":
			a.mode = normalMode
		case "ctrl+x":
			if a.historyStore != nil {
				_ = a.historyStore.Clear()
				a.historyEntries = nil
			}
		}
		return a, nil
	case helpMode:
		switch msg.String() {
		case "esc", "q", "?":
			a.mode = normalMode
		case "ctrl+c":
			return a, tea.Quit
		}
		return a, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "?":
		a.mode = helpMode
	case "up", "k":
		a.tableView.MoveSelection(-1)
	case "down", "j":
		a.tableView.MoveSelection(1)
	case "left", "h":
		a.tableView.MoveColumn(-1)
	case "right", "l":
		a.tableView.MoveColumn(1)
	case "f":
		return a.openFilterEditor()
	case "F":
		if a.grid == nil {
			return a, nil
		}
		if col, ok := a.tableView.SelectedColumn(); ok {
			req, changed := a.grid.RemoveFilter(col.Info.Name)
			if changed {
				a.status = fmt.Sprintf("removed filter on %s", col.Info.Name)
				a.statusErr = false
				return a, a.runQuery(req)
			}
		}
	case "s":
		if a.grid == nil {
			return a, nil
		}
		if col, ok := a.tableView.SelectedColumn(); ok {
			return a, a.runQuery(a.grid.ToggleSort(col.Info.Name))
		}
	case "[", "pgup":
		if a.grid != nil {
			return a, a.runQuery(a.grid.SetPage(a.grid.Page() - 1))
		}
	case "]", "pgdown":
		if a.grid != nil {
			return a, a.runQuery(a.grid.SetPage(a.grid.Page() + 1))
		}
	case "y":
		if cell, ok := a.tableView.SelectedCell(); ok {
			if err := clipboard.WriteAll(cell); err != nil {
				a.setError("clipboard: " + err.Error())
			} else {
				a.status = "copied cell"
				a.statusErr = false
			}
		}
	case "Y":
		if a.grid != nil {
			if err := clipboard.WriteAll(a.grid.Predicate()); err != nil {
				a.setError("clipboard: " + err.Error())
			} else {
				a.status = "copied predicate"
				a.statusErr = false
			}
		}
	case "H":
		return a.openHistory()
	case "e":
		a.exportResult("csv")
	case "E":
		a.exportResult("json")
	case "r":
		return a, a.loadData()
	}
	return a, nil
}

// exportResult writes the rows of the current page's result to a
// timestamped file in the working directory.
func (a *App) exportResult(format string) {
	if a.grid == nil || len(a.lastResult.Rows) == 0 {
		a.setError("nothing to export")
		return
	}

	path := fmt.Sprintf("lazygrid-export-%s.%s", time.Now().Format("20060102-150405"), format)
	cols := make([]models.ColumnInfo, 0, len(a.grid.Columns()))
	for _, col := range a.grid.Columns() {
		cols = append(cols, col.Info)
	}

	var err error
	if format == "json" {
		err = export.ToJSON(a.lastResult.Rows, path)
	} else {
		err = export.ToCSV(cols, a.lastResult.Rows, path)
	}
	if err != nil {
		a.setError("export: " + err.Error())
		return
	}
	a.status = "exported " + path
	a.statusErr = false
}

func (a *App) openFilterEditor() (tea.Model, tea.Cmd) {
	if a.grid == nil {
		return a, nil
	}
	col, ok := a.tableView.SelectedColumn()
	if !ok {
		return a, nil
	}
	if col.Filter == nil {
		a.setError(fmt.Sprintf("column %s is not filterable", col.Info.DisplayTitle()))
		return a, nil
	}
	a.mode = filterMode
	a.filterEditor.Open(col)
	return a, nil
}

func (a *App) openHistory() (tea.Model, tea.Cmd) {
	if a.historyStore == nil {
		a.setError("history is disabled")
		return a, nil
	}
	a.mode = historyMode
	store := a.historyStore
	return a, func() tea.Msg {
		entries, err := store.GetRecent(50)
		return HistoryLoadedMsg{Entries: entries, Err: err}
	}
}

func (a *App) setError(msg string) {
	a.status = msg
	a.statusErr = true
}

// View implements tea.Model
func (a *App) View() string {
	if a.mode == helpMode {
		return help.Render(a.width, a.height, a.theme)
	}

	base := a.renderNormalView()

	switch a.mode {
	case filterMode:
		return lipgloss.Place(
			a.width, a.height,
			lipgloss.Center, lipgloss.Center,
			a.filterEditor.View(),
		)
	case historyMode:
		return lipgloss.Place(
			a.width, a.height,
			lipgloss.Center, lipgloss.Center,
			a.renderHistory(),
		)
	}
	return base
}

func (a *App) renderNormalView() string {
	topBar := lipgloss.NewStyle().
		Width(a.width).
		Background(a.theme.BorderFocused).
		Foreground(lipgloss.Color("230")).
		Padding(0, 2).
		Render(a.topBarContent())

	bottomBar := lipgloss.NewStyle().
		Width(a.width).
		Background(a.theme.Selection).
		Foreground(a.theme.Foreground).
		Padding(0, 2).
		Render("[f] Filter  [F] Clear  [s] Sort  [[/]] Page  [y/Y] Copy  [e/E] Export  [H] History  [?] Help  [q] Quit")

	a.tableView.Width = a.panel.Width
	a.tableView.Height = a.panel.Height
	a.panel.Content = a.tableView.View()

	statusLine := ""
	if a.status != "" {
		style := lipgloss.NewStyle().Padding(0, 2).Foreground(a.theme.Info)
		if a.statusErr {
			style = style.Foreground(a.theme.Error).Bold(true)
		}
		statusLine = style.Render(a.status)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		topBar,
		a.panel.View(),
		statusLine,
		bottomBar,
	)
}

func (a *App) topBarContent() string {
	left := "lazygrid"
	if a.sourceName != "" {
		left += " · " + a.sourceName
	}
	if a.grid != nil {
		if n := a.grid.ActiveFilters(); n > 0 {
			left += fmt.Sprintf(" · %d filter(s)", n)
		}
	}
	return left
}

func (a *App) renderHistory() string {
	headerStyle := lipgloss.NewStyle().
		Foreground(a.theme.Foreground).
		Background(a.theme.Info).
		Padding(0, 1).
		Bold(true)

	lines := []string{headerStyle.Render("Refresh history"), ""}
	if len(a.historyEntries) == 0 {
		lines = append(lines, "(empty)")
	}
	for _, e := range a.historyEntries {
		pred := e.Predicate
		if pred == "" {
			pred = "(no filter)"
		}
		mark := "✓"
		style := lipgloss.NewStyle().Foreground(a.theme.Success)
		if !e.Success {
			mark = "✗"
			style = lipgloss.NewStyle().Foreground(a.theme.Error)
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s  %d/%d rows  %s",
			style.Render(mark),
			e.ExecutedAt.Format("15:04:05"),
			pred,
			e.RowCount,
			e.FilteredCount,
			e.Duration.Round(time.Millisecond),
		))
	}
	lines = append(lines, "", "Esc close · Ctrl+X clear")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.theme.BorderFocused).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (a *App) updateDimensions() {
	if a.width <= 0 || a.height <= 0 {
		return
	}
	// Top bar, bottom bar, status line, and the panel border.
	contentHeight := a.height - 5
	if contentHeight < 5 {
		contentHeight = 5
	}
	a.panel.Width = a.width - 2
	a.panel.Height = contentHeight
	a.filterEditor.Width = min(70, a.width-4)
}
