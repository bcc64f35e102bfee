package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"MVPScreener/internal/model"
)

// ReadCSV parses rows of symbol,date,price,volume. A header row whose first
// field is "stock_symbol" or "symbol" is skipped.
func ReadCSV(r io.Reader) ([]model.Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true

	var out []model.Observation
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if line == 1 {
			if h := strings.ToLower(rec[0]); h == "stock_symbol" || h == "symbol" {
				continue
			}
		}
		o, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		out = append(out, o)
	}
}

func parseRecord(rec []string) (model.Observation, error) {
	date, err := time.Parse(dateLayout, rec[1])
	if err != nil {
		return model.Observation{}, fmt.Errorf("date: %w", err)
	}
	price, err := decimal.NewFromString(rec[2])
	if err != nil {
		return model.Observation{}, fmt.Errorf("price: %w", err)
	}
	volume, err := strconv.ParseInt(rec[3], 10, 64)
	if err != nil {
		return model.Observation{}, fmt.Errorf("volume: %w", err)
	}
	return model.Observation{Symbol: rec[0], Date: date, Price: price, Volume: volume}, nil
}
