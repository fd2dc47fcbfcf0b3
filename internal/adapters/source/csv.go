package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/okian/scorecard/internal/domain/model"
)

func readCSV(r io.Reader) ([]model.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	m, err := newMapping(header)
	if err != nil {
		return nil, err
	}

	var rows []model.RawRecord
	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		if blank(cells) {
			continue
		}
		rows = append(rows, m.record(cells))
	}
}
