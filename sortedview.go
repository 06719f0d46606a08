package tableview

import (
	"fmt"
	"reflect"

	"github.com/RoaringBitmap/roaring"
	"github.com/sirupsen/logrus"
)

var (
	_ Model    = new(SortedView)
	_ Notifier = new(SortedView)
	_ Listener = new(SortedView)
)

// SortedView decorates a source Model with a sort order,
// a free text search, per column filters and a row filter
// without modifying the source.
//
// Rows of the SortedView are display rows, use ActualRow
// and DisplayRow to translate between display rows
// and rows of the source model.
//
// A SortedView listens to source models that implement Notifier
// and re-sorts and re-filters on every change.
// It is not safe for concurrent use, all methods and
// the source model's notifications must happen on the same goroutine.
type SortedView struct {
	model        Model
	comparable   ComparableModel
	customSearch CustomSearchModel
	detachModel  func()
	numericCols  []bool

	sortColumn    int
	ascending     bool
	caseSensitive bool

	index sortIndex
	// display holds the visible sorted positions,
	// nil if no search or filter is active
	display *roaring.Bitmap

	search        *SearchParams
	columnFilters map[int]*ColumnFilter
	rowFilter     *RowFilter

	listeners Listeners
	logger    *logrus.Logger
}

// NewSortedView returns an unsorted and unfiltered SortedView of model.
// Sorting is case sensitive unless OptionCaseInsensitive is passed.
func NewSortedView(model Model, options ...Option) *SortedView {
	v := &SortedView{
		sortColumn:    -1,
		ascending:     true,
		caseSensitive: !HasOption(options, OptionCaseInsensitive),
		columnFilters: make(map[int]*ColumnFilter),
		logger:        DefaultLogger,
	}
	v.SetModel(model, false)
	return v
}

// SetLogger sets the logger of the view, nil resets it to DefaultLogger.
func (v *SortedView) SetLogger(logger *logrus.Logger) {
	if logger == nil {
		logger = DefaultLogger
	}
	v.logger = logger
}

// Model returns the source model.
func (v *SortedView) Model() Model {
	return v.model
}

// SetModel attaches a new source model and detaches the previous one.
// The sort column, direction and case sensitivity are kept if restoreSorting
// is true and the sort column exists in the new model, else the view is unsorted
// and case sensitive.
// The search and row filter are kept, column filters are kept
// for columns that exist in the new model.
// A nil model detaches the current one and results in an empty view.
func (v *SortedView) SetModel(model Model, restoreSorting bool) {
	if v.detachModel != nil {
		v.detachModel()
		v.detachModel = nil
	}
	v.model = model
	v.comparable, _ = model.(ComparableModel)
	v.customSearch, _ = model.(CustomSearchModel)
	if notifier, ok := model.(Notifier); ok {
		v.detachModel = notifier.AddListener(v)
	}

	if !restoreSorting {
		v.sortColumn = -1
		v.ascending = true
		v.caseSensitive = true
	}
	v.structureChanged()
	v.listeners.Notify(NewStructureChangedEvent(v))
}

func (v *SortedView) Title() string {
	if v.model == nil {
		return ""
	}
	return v.model.Title()
}

func (v *SortedView) Columns() []string {
	if v.model == nil {
		return nil
	}
	return v.model.Columns()
}

// NumRows returns the number of visible rows.
func (v *SortedView) NumRows() int {
	if v.display != nil {
		return int(v.display.GetCardinality())
	}
	return v.index.len()
}

// NumSourceRows returns the number of rows of the source model.
func (v *SortedView) NumSourceRows() int {
	if v.model == nil {
		return 0
	}
	return v.model.NumRows()
}

// Cell returns the value of the source model
// for a display row or nil if row is out of range.
func (v *SortedView) Cell(row, col int) any {
	r := v.ActualRow(row)
	if r < 0 {
		return nil
	}
	return v.model.Cell(r, col)
}

func (v *SortedView) ColumnType(col int) reflect.Type {
	if v.model == nil {
		return nil
	}
	return v.model.ColumnType(col)
}

func (v *SortedView) IsCellEditable(row, col int) bool {
	r := v.ActualRow(row)
	if r < 0 {
		return false
	}
	return v.model.IsCellEditable(r, col)
}

// SetCell sets the value of a display row cell in the source model.
// Sorting and filtering are updated by the change notification
// of the source model, or directly if the model is not a Notifier.
func (v *SortedView) SetCell(row, col int, value any) error {
	r := v.ActualRow(row)
	if r < 0 {
		return fmt.Errorf("%w: display row %d", ErrRowOutOfRange, row)
	}
	if col < 0 || col >= NumColumns(v.model) {
		return fmt.Errorf("%w: %d", ErrColumnOutOfRange, col)
	}
	err := v.model.SetCell(r, col, value)
	if err != nil {
		return err
	}
	if v.detachModel == nil {
		v.TableChanged(NewDataChangedEvent(v.model, r, col))
	}
	return nil
}

// Sort sorts the view by a column of the source model.
// A column of -1 restores the order of the source model.
// Invalid columns are treated like -1.
func (v *SortedView) Sort(column int, ascending bool) {
	if v.model != nil && NumColumns(v.model) != len(v.numericCols) {
		v.logger.WithFields(logrus.Fields{
			"indexColumns":  len(v.numericCols),
			"sourceColumns": NumColumns(v.model),
		}).Debug("tableview: columns changed without notification, rebuilding")
		v.structureChanged()
	}
	if column < -1 || column >= len(v.numericCols) {
		v.logger.WithField("column", column).Warn("tableview: ignoring sort by invalid column")
		column = -1
	}
	v.sortColumn = column
	v.ascending = ascending
	v.applySort()
	v.computeDisplayIndex()
	v.listeners.Notify(ChangeEvent{Source: v, Kind: DataChanged, FirstRow: AllRows, LastRow: AllRows, Column: AllColumns})
}

func (v *SortedView) IsSorted() bool {
	return v.sortColumn != -1
}

// SortColumn returns the sort column or -1 if the view is not sorted.
func (v *SortedView) SortColumn() int {
	return v.sortColumn
}

func (v *SortedView) IsAscending() bool {
	return v.ascending
}

// SetCaseSensitive sets if strings are sorted case sensitive
// and re-sorts the view if necessary.
func (v *SortedView) SetCaseSensitive(caseSensitive bool) {
	if caseSensitive == v.caseSensitive {
		return
	}
	v.caseSensitive = caseSensitive
	if v.IsSorted() {
		v.Sort(v.sortColumn, v.ascending)
	}
}

func (v *SortedView) IsCaseSensitive() bool {
	return v.caseSensitive
}

// Search filters the view by a free text search over all
// non numeric columns of the source model.
// An empty query removes the search.
// If isRegex is true then query is used as regular expression,
// else it matches case-insensitive substrings.
// An invalid regular expression is returned as error
// and the current search stays active.
func (v *SortedView) Search(query string, isRegex bool) error {
	var params *SearchParams
	if query != "" {
		var err error
		params, err = NewSearchParams(query, isRegex)
		if err != nil {
			return err
		}
	}
	v.search = params
	v.filterChanged()
	return nil
}

// SearchQuery returns the current search query
// or an empty string if there is no search.
func (v *SortedView) SearchQuery() string {
	if v.search == nil {
		return ""
	}
	return v.search.Query()
}

func (v *SortedView) IsRegexSearch() bool {
	return v.search != nil && v.search.IsRegex()
}

// SetColumnFilter sets the filter for a column.
// An empty text removes the filter of the column.
// An invalid regular expression is returned as error
// and the current filter of the column stays active.
func (v *SortedView) SetColumnFilter(col int, text string, isRegex bool) error {
	if col < 0 || col >= NumColumns(v) {
		return fmt.Errorf("%w: %d", ErrColumnOutOfRange, col)
	}
	if text == "" {
		v.RemoveColumnFilter(col)
		return nil
	}
	filter, err := NewColumnFilter(text, isRegex)
	if err != nil {
		return err
	}
	v.columnFilters[col] = filter
	v.filterChanged()
	return nil
}

// ColumnFilter returns the filter of a column or nil.
func (v *SortedView) ColumnFilter(col int) *ColumnFilter {
	return v.columnFilters[col]
}

func (v *SortedView) RemoveColumnFilter(col int) {
	if _, ok := v.columnFilters[col]; !ok {
		return
	}
	delete(v.columnFilters, col)
	v.filterChanged()
}

func (v *SortedView) RemoveAllColumnFilters() {
	if len(v.columnFilters) == 0 {
		return
	}
	clear(v.columnFilters)
	v.filterChanged()
}

func (v *SortedView) IsColumnFiltered(col int) bool {
	_, ok := v.columnFilters[col]
	return ok
}

func (v *SortedView) IsAnyColumnFiltered() bool {
	return len(v.columnFilters) > 0
}

// SetRowFilter sets a boolean expression over the columns
// of the source model as row filter, see RowFilter.
// An empty expression removes the row filter.
func (v *SortedView) SetRowFilter(expression string) error {
	var filter *RowFilter
	if expression != "" {
		var err error
		filter, err = NewRowFilter(expression, v.Columns())
		if err != nil {
			return err
		}
	}
	v.rowFilter = filter
	v.filterChanged()
	return nil
}

// RowFilter returns the row filter or nil.
func (v *SortedView) RowFilter() *RowFilter {
	return v.rowFilter
}

// ActualRow returns the source model row of a display row
// or -1 if displayRow is out of range.
func (v *SortedView) ActualRow(displayRow int) int {
	pos := displayRow
	if v.display != nil {
		if displayRow < 0 || uint64(displayRow) >= v.display.GetCardinality() {
			return -1
		}
		p, err := v.display.Select(uint32(displayRow))
		if err != nil {
			return -1
		}
		pos = int(p)
	}
	if pos < 0 || pos >= v.index.len() {
		return -1
	}
	return v.index.sorted[pos]
}

// DisplayRow returns the display row of a source model row
// or -1 if the row is filtered out or out of range.
func (v *SortedView) DisplayRow(sourceRow int) int {
	if sourceRow < 0 || sourceRow >= v.index.len() {
		return -1
	}
	pos := v.index.inverse[sourceRow]
	if v.display == nil {
		return pos
	}
	if !v.display.Contains(uint32(pos)) {
		return -1
	}
	return int(v.display.Rank(uint32(pos))) - 1
}

// AddListener registers a listener for changes of the view.
func (v *SortedView) AddListener(listener Listener) (remove func()) {
	return v.listeners.AddListener(listener)
}

// Refresh re-reads the source model.
// It has to be called after changes of source models
// that don't implement Notifier.
func (v *SortedView) Refresh() {
	v.TableChanged(NewStructureChangedEvent(v.model))
}

// TableChanged implements Listener for change notifications of the source model.
func (v *SortedView) TableChanged(event ChangeEvent) {
	kind := event.Kind
	if kind == DataChanged && v.index.len() != v.NumSourceRows() {
		v.logger.WithFields(logrus.Fields{
			"indexRows":  v.index.len(),
			"sourceRows": v.NumSourceRows(),
		}).Debug("tableview: sort index stale after data change, rebuilding")
		kind = StructureChanged
	}
	if kind == StructureChanged {
		v.structureChanged()
	} else {
		v.applySort()
		v.computeDisplayIndex()
	}
	v.listeners.Notify(ChangeEvent{Source: v, Kind: kind, FirstRow: AllRows, LastRow: AllRows, Column: event.Column})
}

// structureChanged re-detects the columns of the model,
// drops filters of columns that no longer exist
// and rebuilds all indices.
func (v *SortedView) structureChanged() {
	numCols := 0
	if v.model != nil {
		numCols = NumColumns(v.model)
	}
	v.numericCols = make([]bool, numCols)
	for col := range v.numericCols {
		v.numericCols[col] = IsNumericType(v.model.ColumnType(col))
	}

	if v.sortColumn >= numCols {
		v.logger.WithField("column", v.sortColumn).Debug("tableview: sort column removed, view unsorted")
		v.sortColumn = -1
	}
	for col := range v.columnFilters {
		if col >= numCols {
			delete(v.columnFilters, col)
		}
	}
	if v.rowFilter != nil {
		filter, err := NewRowFilter(v.rowFilter.Expression(), v.Columns())
		if err != nil {
			v.logger.WithError(err).Warn("tableview: row filter removed")
		}
		v.rowFilter = filter
	}

	v.applySort()
	v.computeDisplayIndex()
}

func (v *SortedView) filterChanged() {
	v.computeDisplayIndex()
	v.listeners.Notify(ChangeEvent{Source: v, Kind: DataChanged, FirstRow: AllRows, LastRow: AllRows, Column: AllColumns})
}

// applySort rebuilds the sort index for the current
// number of source rows and sorts it if a sort column is set.
func (v *SortedView) applySort() {
	v.index.reset(v.NumSourceRows())
	if v.sortColumn == -1 {
		return
	}
	col := v.sortColumn
	numeric := v.numericCols[col]
	value := func(row int) any { return v.model.Cell(row, col) }
	if v.comparable != nil {
		numeric = IsNumericType(v.comparable.ComparisonColumnType(col))
		value = func(row int) any { return v.comparable.ComparisonCell(row, col) }
	}
	v.index.sortBy(value, numeric, v.caseSensitive, v.ascending)
}

// computeDisplayIndex collects the sorted positions of all rows
// that match the search, all column filters and the row filter.
func (v *SortedView) computeDisplayIndex() {
	if v.search == nil && len(v.columnFilters) == 0 && v.rowFilter == nil {
		v.display = nil
		return
	}
	display := roaring.New()
	for pos, row := range v.index.sorted {
		if v.rowMatches(row) {
			display.Add(uint32(pos))
		}
	}
	v.display = display
	v.logger.WithFields(logrus.Fields{
		"sourceRows":  v.index.len(),
		"visibleRows": display.GetCardinality(),
	}).Debug("tableview: display index computed")
}

func (v *SortedView) rowMatches(row int) bool {
	if v.search != nil && !v.searchMatches(row) {
		return false
	}
	for col, filter := range v.columnFilters {
		if !filter.Matches(v.model.Cell(row, col)) {
			return false
		}
	}
	if v.rowFilter != nil {
		return v.rowFilter.Matches(func(col int) any { return v.model.Cell(row, col) })
	}
	return true
}

func (v *SortedView) searchMatches(row int) bool {
	if v.customSearch != nil {
		return v.customSearch.IsSearchMatch(v.search, row)
	}
	for col, numeric := range v.numericCols {
		if numeric {
			continue
		}
		if v.search.MatchesValue(v.model.Cell(row, col)) {
			return true
		}
	}
	return false
}
