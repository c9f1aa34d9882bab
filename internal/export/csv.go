// Package export serializes the expense collection to a flat tabular format
// for download. There is no import path.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"finspeak/internal/models"
)

// ErrNoData is returned instead of writing a zero-row file when there is
// nothing to export. Callers surface it as a "no data" notification.
var ErrNoData = errors.New("no expenses to export")

// WriteCSV writes the full expense collection as Date, Category, Amount
// rows.
func WriteCSV(w io.Writer, expenses []models.Expense) error {
	if len(expenses) == 0 {
		return ErrNoData
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Category", "Amount"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		record := []string{
			e.Date.Format("2006-01-02"),
			string(e.Category),
			strconv.FormatFloat(e.Amount, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename returns the suggested download name for an export performed now.
func Filename(now time.Time) string {
	return "expenses-" + now.Format("2006-01-02") + ".csv"
}
