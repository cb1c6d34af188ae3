package transfer

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/idilsaglam/breachtrack/internal/model"
)

// ErrCSVImportUnsupported is returned when a CSV file is offered for import.
// Only JSON round-trips.
var ErrCSVImportUnsupported = errors.New("CSV import is not supported; import a JSON export instead")

const csvHeader = "Domain,Risk Level,Checked,Notes\n"

// WriteCSV writes one row per catalog item in catalog order. Every field is
// quoted and embedded quotes are doubled.
func WriteCSV(w io.Writer, c model.Catalog, u model.UserState) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(csvHeader); err != nil {
		return err
	}
	for _, it := range c.Items() {
		checked := "No"
		if u.IsChecked(it.ID) {
			checked = "Yes"
		}
		fields := []string{it.ID, string(it.Category), checked, u.Note(it.ID)}
		for i, f := range fields {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(QuoteCSV(f))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// QuoteCSV wraps s in quotes, doubling any quote inside it.
func QuoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
