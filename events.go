package tableview

import "fmt"

// ChangeKind tells listeners if only cell values changed
// or if the rows or columns of a table changed.
type ChangeKind int

const (
	// DataChanged signals changed cell values
	// with unchanged rows and columns.
	DataChanged ChangeKind = iota

	// StructureChanged signals inserted or removed
	// rows or changed columns.
	StructureChanged
)

func (k ChangeKind) String() string {
	switch k {
	case DataChanged:
		return "DataChanged"
	case StructureChanged:
		return "StructureChanged"
	}
	return fmt.Sprintf("ChangeKind(%d)", int(k))
}

// AllRows and AllColumns are used as ChangeEvent ranges
// when the change is not limited to certain rows or columns.
const (
	AllRows    = -1
	AllColumns = -1
)

// ChangeEvent describes a change of a table.
type ChangeEvent struct {
	Source   View
	Kind     ChangeKind
	FirstRow int
	LastRow  int
	Column   int
}

// NewDataChangedEvent returns a DataChanged event
// for a single cell of source.
func NewDataChangedEvent(source View, row, col int) ChangeEvent {
	return ChangeEvent{Source: source, Kind: DataChanged, FirstRow: row, LastRow: row, Column: col}
}

// NewStructureChangedEvent returns a StructureChanged event
// covering all rows and columns of source.
func NewStructureChangedEvent(source View) ChangeEvent {
	return ChangeEvent{Source: source, Kind: StructureChanged, FirstRow: AllRows, LastRow: AllRows, Column: AllColumns}
}

func (e ChangeEvent) String() string {
	return fmt.Sprintf("%s(rows %d..%d, col %d)", e.Kind, e.FirstRow, e.LastRow, e.Column)
}

// Listener gets notified about table changes.
type Listener interface {
	TableChanged(event ChangeEvent)
}

// ListenerFunc implements Listener for a function.
type ListenerFunc func(event ChangeEvent)

func (f ListenerFunc) TableChanged(event ChangeEvent) {
	f(event)
}

// Notifier is implemented by tables that notify listeners about changes.
type Notifier interface {
	// AddListener registers a listener and returns
	// a function that removes it again.
	AddListener(listener Listener) (remove func())
}

// Listeners is a list of listeners that implements Notifier.
// It can be embedded into table implementations.
// The zero value is ready to use.
type Listeners struct {
	entries []*listenerEntry
}

type listenerEntry struct {
	listener Listener
}

var _ Notifier = new(Listeners)

func (l *Listeners) AddListener(listener Listener) (remove func()) {
	entry := &listenerEntry{listener: listener}
	l.entries = append(l.entries, entry)
	return func() {
		for i, e := range l.entries {
			if e == entry {
				l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of registered listeners.
func (l *Listeners) Len() int {
	return len(l.entries)
}

// Notify calls TableChanged of all registered listeners
// in the order they were added.
func (l *Listeners) Notify(event ChangeEvent) {
	// Listeners may remove themselves while being notified
	for _, e := range append([]*listenerEntry(nil), l.entries...) {
		e.listener.TableChanged(event)
	}
}
