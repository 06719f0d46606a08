// Package tui is a terminal viewer for a tableview.SortedView.
package tui

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	tableview "github.com/domonda/go-tableview"
)

const (
	maxColumnWidth  = 40
	widthSampleRows = 200
	maxRowsBatch    = 512
)

type (
	// rowsMsg carries rows read by a follower
	rowsMsg        struct{ rows [][]string }
	followErrMsg   struct{ err error }
	followDoneMsg  struct{}
	followErrsDone struct{}
)

// Model implements tea.Model showing the display rows of a SortedView.
// All changes of the view and its model happen within Update,
// the view notifies the Model as Listener and the table rows
// are rebuilt after every handled message that changed the view.
type Model struct {
	view   *tableview.SortedView
	keymap KeyMap
	styles Styles
	logger *logrus.Logger

	table     table.Model
	input     textinput.Model
	searching bool
	regex     bool
	selCol    int
	status    string
	isError   bool
	dirty     bool
	width     int

	removeListener func()

	followModel *tableview.RowsModel
	followRows  <-chan []string
	followErrs  <-chan error
}

type Option func(*Model)

// WithFollow appends the rows received from rows to model,
// which must be the model of the view.
func WithFollow(model *tableview.RowsModel, rows <-chan []string, errs <-chan error) Option {
	return func(m *Model) {
		m.followModel = model
		m.followRows = rows
		m.followErrs = errs
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

func New(view *tableview.SortedView, options ...Option) *Model {
	m := &Model{
		view:   view,
		keymap: DefaultKeyMap(),
		styles: NewStyles(),
		logger: tableview.DefaultLogger,
		dirty:  true,
	}
	for _, o := range options {
		o(m)
	}
	m.input = textinput.New()
	m.input.Prompt = "/"
	m.input.Placeholder = "search..."
	m.input.CharLimit = 256
	m.input.SetValue(view.SearchQuery())
	m.regex = view.IsRegexSearch()

	m.table = table.New(table.WithFocused(true), table.WithHeight(20))
	m.table.SetStyles(m.styles.Table)

	m.removeListener = view.AddListener(tableview.ListenerFunc(func(tableview.ChangeEvent) {
		m.dirty = true
	}))
	m.refresh()
	return m
}

// Run shows the view until the user quits or ctx is done.
func Run(ctx context.Context, m *Model) error {
	defer m.Close()
	_, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

// Close removes the Model as listener from the view.
func (m *Model) Close() {
	if m.removeListener != nil {
		m.removeListener()
		m.removeListener = nil
	}
}

func (m *Model) Init() tea.Cmd {
	if m.followRows == nil {
		return nil
	}
	return tea.Batch(waitForRows(m.followRows), waitForErr(m.followErrs))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	if m.dirty {
		m.refresh()
	}
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		// Reserve lines for the header and the status line
		m.table.SetHeight(max(msg.Height-3, 1))
		m.table.SetWidth(msg.Width)
		return nil

	case rowsMsg:
		m.appendRows(msg.rows)
		return waitForRows(m.followRows)

	case followDoneMsg:
		m.setStatus("follow stopped", false)
		return nil

	case followErrMsg:
		m.logger.WithError(msg.err).Warn("tui: follow error")
		m.setStatus(msg.err.Error(), true)
		return waitForErr(m.followErrs)

	case followErrsDone:
		return nil

	case tea.KeyMsg:
		if keyMatches(msg, m.keymap.ForceQuit) {
			return tea.Quit
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateTable(msg)
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return cmd
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch {
	case keyMatches(msg, m.keymap.Apply):
		if err := m.view.Search(m.input.Value(), m.regex); err != nil {
			m.setStatus(err.Error(), true)
			return nil
		}
		m.endSearch()
		return nil

	case keyMatches(msg, m.keymap.Cancel):
		m.input.SetValue(m.view.SearchQuery())
		m.regex = m.view.IsRegexSearch()
		m.endSearch()
		return nil

	case keyMatches(msg, m.keymap.ToggleRegex):
		m.regex = !m.regex
		m.dirty = true
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) endSearch() {
	m.searching = false
	m.input.Blur()
	m.table.Focus()
	m.setStatus("", false)
}

func (m *Model) updateTable(msg tea.KeyMsg) tea.Cmd {
	if col := sortKeyColumn(msg); col != -1 {
		if col >= tableview.NumColumns(m.view) {
			return nil
		}
		ascending := true
		if m.view.SortColumn() == col {
			ascending = !m.view.IsAscending()
		}
		m.view.Sort(col, ascending)
		m.selCol = col
		return nil
	}

	switch {
	case keyMatches(msg, m.keymap.Quit):
		return tea.Quit

	case keyMatches(msg, m.keymap.Unsort):
		m.view.Sort(-1, true)

	case keyMatches(msg, m.keymap.Search):
		m.searching = true
		m.table.Blur()
		m.dirty = true
		return m.input.Focus()

	case keyMatches(msg, m.keymap.FilterColumn):
		if err := m.view.SetColumnFilter(m.selCol, m.input.Value(), m.regex); err != nil {
			m.setStatus(err.Error(), true)
		}

	case keyMatches(msg, m.keymap.ClearFilters):
		m.view.RemoveAllColumnFilters()

	case keyMatches(msg, m.keymap.ToggleCase):
		m.view.SetCaseSensitive(!m.view.IsCaseSensitive())
		m.dirty = true

	case keyMatches(msg, m.keymap.PrevColumn):
		if m.selCol > 0 {
			m.selCol--
			m.dirty = true
		}

	case keyMatches(msg, m.keymap.NextColumn):
		if m.selCol < tableview.NumColumns(m.view)-1 {
			m.selCol++
			m.dirty = true
		}

	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) appendRows(rows [][]string) {
	if m.followModel == nil {
		return
	}
	converted := make([][]any, 0, len(rows))
	for _, row := range rows {
		values, err := m.followModel.ConvertStrings(row)
		if err != nil {
			m.logger.WithError(err).WithField("row", row).Warn("tui: skipping followed row")
			m.setStatus(err.Error(), true)
			continue
		}
		converted = append(converted, values)
	}
	m.followModel.AppendRows(converted...)
}

func (m *Model) setStatus(status string, isError bool) {
	m.status = status
	m.isError = isError
	m.dirty = true
}

// refresh rebuilds the table columns and rows from the view.
func (m *Model) refresh() {
	m.dirty = false

	titles := m.view.Columns()
	numCols := len(titles)
	if m.selCol >= numCols {
		m.selCol = max(numCols-1, 0)
	}
	numRows := m.view.NumRows()
	rows := make([]table.Row, numRows)
	widths := make([]int, numCols)
	for row := range rows {
		cells := make(table.Row, numCols)
		for col := range cells {
			cells[col] = strings.ReplaceAll(tableview.CellString(m.view.Cell(row, col)), "\n", " ")
			if row < widthSampleRows {
				widths[col] = max(widths[col], utf8.RuneCountInString(cells[col]))
			}
		}
		rows[row] = cells
	}
	columns := make([]table.Column, numCols)
	for col, title := range titles {
		title = m.columnTitle(col, title)
		width := max(widths[col], utf8.RuneCountInString(title))
		columns[col] = table.Column{Title: title, Width: min(width, maxColumnWidth)}
	}

	// Rows must match the columns when they are set
	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	if m.table.Cursor() >= numRows {
		m.table.SetCursor(max(numRows-1, 0))
	}
}

func (m *Model) columnTitle(col int, title string) string {
	if m.view.SortColumn() == col {
		if m.view.IsAscending() {
			title += " ▲"
		} else {
			title += " ▼"
		}
	}
	if m.view.IsColumnFiltered(col) {
		title += " *"
	}
	if col == m.selCol {
		title = "›" + title
	}
	return title
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.table.View())
	b.WriteByte('\n')
	if m.searching {
		b.WriteString(m.styles.Prompt.Render(m.input.View()))
		if m.regex {
			b.WriteString(m.styles.Status.Render(" [regex]"))
		}
		return b.String()
	}
	if m.isError {
		b.WriteString(m.styles.Error.Render(m.status))
		return b.String()
	}
	b.WriteString(m.styles.Status.Render(m.statusLine()))
	return b.String()
}

func (m *Model) statusLine() string {
	parts := []string{fmt.Sprintf("%d/%d rows", m.view.NumRows(), m.view.NumSourceRows())}
	if query := m.view.SearchQuery(); query != "" {
		if m.view.IsRegexSearch() {
			parts = append(parts, fmt.Sprintf("search: /%s/", query))
		} else {
			parts = append(parts, fmt.Sprintf("search: %q", query))
		}
	}
	if filter := m.view.RowFilter(); filter != nil {
		parts = append(parts, "where: "+filter.Expression())
	}
	if !m.view.IsCaseSensitive() {
		parts = append(parts, "ignore case")
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	parts = append(parts, "1-9 sort · / search · f filter · q quit")
	return strings.Join(parts, " | ")
}

func waitForRows(rows <-chan []string) tea.Cmd {
	return func() tea.Msg {
		row, ok := <-rows
		if !ok {
			return followDoneMsg{}
		}
		batch := [][]string{row}
		for len(batch) < maxRowsBatch {
			select {
			case row, ok := <-rows:
				if !ok {
					return rowsMsg{rows: batch}
				}
				batch = append(batch, row)
			default:
				return rowsMsg{rows: batch}
			}
		}
		return rowsMsg{rows: batch}
	}
}

func waitForErr(errs <-chan error) tea.Cmd {
	if errs == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-errs
		if !ok {
			return followErrsDone{}
		}
		return followErrMsg{err: err}
	}
}
