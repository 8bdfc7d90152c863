package export

import (
	"encoding/csv"
	"io"

	"github.com/kuvahaku/kuvahaku/internal/records"
)

// WriteCSV writes the table with the spreadsheet columns.
func WriteCSV(w io.Writer, table records.Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Columns); err != nil {
		return err
	}
	for _, r := range table {
		if err := writer.Write(row(r)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
