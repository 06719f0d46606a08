package exceltable

import (
	"errors"

	"github.com/xuri/excelize/v2"
)

// ErrEmptySheet is returned for a sheet without
// data after removing empty rows and columns.
var ErrEmptySheet = errors.New("empty sheet")

// ErrSheetNotExist is returned for a missing sheet.
type ErrSheetNotExist = excelize.ErrSheetNotExist
