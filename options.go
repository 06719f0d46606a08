package tableview

import "strings"

// Option flags configure a SortedView.
type Option int

const (
	// OptionCaseInsensitive makes sorting ignore
	// the case of string values.
	OptionCaseInsensitive Option = 1 << iota
)

func (o Option) Has(option Option) bool {
	return o&option != 0
}

func (o Option) String() string {
	var b strings.Builder
	if o.Has(OptionCaseInsensitive) {
		b.WriteString("CaseInsensitive")
	}
	if b.Len() == 0 {
		return "no Option"
	}
	return b.String()
}

func HasOption(options []Option, option Option) bool {
	for _, o := range options {
		if o.Has(option) {
			return true
		}
	}
	return false
}
