package source

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/okian/scorecard/internal/domain/model"
)

func readXLSX(r io.Reader, sheet string) ([]model.RawRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, ErrNoSheet
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoSheet, sheet)
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if len(cells) == 0 {
		return nil, ErrNoHeader
	}
	m, err := newMapping(cells[0])
	if err != nil {
		return nil, err
	}

	rows := make([]model.RawRecord, 0, len(cells)-1)
	for _, line := range cells[1:] {
		if blank(line) {
			continue
		}
		rows = append(rows, m.record(line))
	}
	return rows, nil
}
