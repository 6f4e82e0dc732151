package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"stockBacktester/internal/domain"
)

// WriteBarsToCSV writes daily bars to a CSV file with a header row.
func WriteBarsToCSV(bars []*domain.PriceBar, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	writer.Write([]string{"date", "open", "high", "low", "close", "volume"})

	for _, b := range bars {
		writer.Write([]string{
			b.Date.Format("2006-01-02"),
			strconv.FormatFloat(b.Open, 'f', -1, 64),
			strconv.FormatFloat(b.High, 'f', -1, 64),
			strconv.FormatFloat(b.Low, 'f', -1, 64),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			strconv.FormatInt(b.Volume, 10),
		})
	}
	return writer.Error()
}

// ReadBarsFromCSV reads daily bars from a CSV file written by
// WriteBarsToCSV. The header row is required.
func ReadBarsFromCSV(filename string) ([]*domain.PriceBar, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	if len(header) < 6 {
		return nil, fmt.Errorf("unexpected CSV header %v: want date,open,high,low,close,volume", header)
	}

	var bars []*domain.PriceBar
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d: %w", line, err)
		}

		date, err := time.Parse("2006-01-02", record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing date '%s': %w", line, record[0], err)
		}
		open, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing open '%s': %w", line, record[1], err)
		}
		high, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing high '%s': %w", line, record[2], err)
		}
		low, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing low '%s': %w", line, record[3], err)
		}
		cls, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing close '%s': %w", line, record[4], err)
		}
		volume, err := strconv.ParseInt(record[5], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing volume '%s': %w", line, record[5], err)
		}

		bars = append(bars, &domain.PriceBar{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  cls,
			Volume: volume,
		})
	}
	return bars, nil
}
