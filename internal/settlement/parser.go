package settlement

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	enc "github.com/MrJamesThe3rd/fundly/internal/encoding"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/money"
)

// ErrUnknownFormat is returned when no known profile matches the report header.
var ErrUnknownFormat = fmt.Errorf("no matching settlement format found: %w", ledger.ErrValidation)

// Row is one settlement line. Err is set when the line could not be read;
// such rows are reported, not applied.
type Row struct {
	Line          int
	TransactionID string
	Status        ledger.DonationStatus
	Amount        *money.Money
	Err           error
}

// Parser reads payment settlement reports. It detects the delimiter and the
// report format by matching column headers against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Document is a parsed settlement report.
type Document struct {
	// Format is the name of the matched profile.
	Format  string
	Charset enc.Charset
	Rows    []Row
}

// Parse returns every data row of the report along with the matched profile.
func (p *Parser) Parse(r io.Reader) (*Document, error) {
	utf8r, charset, err := enc.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	for _, comma := range []rune{',', ';'} {
		rows, err := readCSV(data, comma)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		return &Document{
			Format:  profile.Name,
			Charset: charset,
			Rows:    parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1),
		}, nil
	}

	return nil, ErrUnknownFormat
}

func readCSV(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows reads data rows. Blank lines are skipped; malformed lines are kept
// with Err set so they show up in the import report.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) []Row {
	var out []Row

	for i, row := range rows {
		line := headerRowNum + i + 1

		txID := cellValue(row, cols[p.TxCol])
		rawStatus := cellValue(row, cols[p.StatusCol])

		if txID == "" && rawStatus == "" {
			continue
		}

		r := Row{Line: line, TransactionID: txID}

		if txID == "" {
			r.Err = errors.New("missing transaction id")
			out = append(out, r)

			continue
		}

		status, ok := parseStatus(rawStatus)
		if !ok {
			r.Err = fmt.Errorf("unknown status %q", rawStatus)
			out = append(out, r)

			continue
		}

		r.Status = status

		if p.AmountCol != "" {
			if s := cellValue(row, cols[p.AmountCol]); s != "" {
				amount, err := parseAmount(s, p.Decimal)
				if err != nil {
					r.Err = err
				} else {
					r.Amount = &amount
				}
			}
		}

		out = append(out, r)
	}

	return out
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
