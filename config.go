package tableview

import (
	"reflect"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// DefaultParser is used to convert strings
	// to the declared column types of models
	// and to coerce strings in numeric columns when sorting.
	DefaultParser Parser = NewStringParser()

	// DefaultLogger is used by new SortedViews.
	// Use SortedView.SetLogger to change the logger of a single view.
	DefaultLogger = logrus.StandardLogger()
)

var (
	typeOfTime     = reflect.TypeOf(time.Time{})
	typeOfDuration = reflect.TypeOf(time.Duration(0))
	typeOfString   = reflect.TypeOf("")
	typeOfInt64    = reflect.TypeOf(int64(0))
	typeOfFloat64  = reflect.TypeOf(float64(0))
	typeOfBool     = reflect.TypeOf(false)
)
