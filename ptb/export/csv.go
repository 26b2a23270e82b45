package export

import (
	"bytes"
	"encoding/csv"

	"github.com/sageflow/ptbcodec/ptb/entity"
)

// CSV companions mirror each fixed-width member in a spreadsheet-friendly
// form, the way the legacy tooling shipped its extracts. They are advisory:
// import only ever reads the .DAT members.

func csvMemberName(kind entity.Kind) string {
	return string(kind) + "s.csv"
}

func encodeCSV(layout Layout, entities []entity.Entity) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(layout.Columns))
	for i, col := range layout.Columns {
		header[i] = col.Name
	}
	w.Write(header)

	row := make([]string, len(layout.Columns))
	for _, e := range entities {
		for i, col := range layout.Columns {
			row[i] = fieldValue(e, col.Name)
		}
		w.Write(row)
	}
	w.Flush()
	return buf.Bytes()
}
