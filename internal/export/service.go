package export

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fundly/internal/report"
	"github.com/MrJamesThe3rd/fundly/internal/storage"
)

//go:generate mockgen -source=service.go -destination=reports_mock.go -package=export

// Reports builds the transparency report a bundle is made from.
type Reports interface {
	Build(ctx context.Context, campaignID uuid.UUID) (*report.Report, error)
}

// MaxReceiptSize caps a single bundled receipt.
const MaxReceiptSize = 20 << 20

// Receipt is one expense receipt placed in a bundle.
type Receipt struct {
	ExpenseID uuid.UUID
	// File is the path inside the archive. Empty when the download failed.
	File  string
	Error string
}

// Manifest describes what went into a bundle.
type Manifest struct {
	CampaignID uuid.UUID
	Receipts   []Receipt
}

// Missing counts receipts that could not be fetched.
func (m *Manifest) Missing() int {
	n := 0

	for _, r := range m.Receipts {
		if r.File == "" {
			n++
		}
	}

	return n
}

// Service packs a campaign's ledger and expense receipts into an audit bundle.
// Receipts are read from the object store only; a receipt URL pointing
// anywhere else is never fetched.
type Service struct {
	reports  Reports
	receipts storage.Reader
}

func NewService(reports Reports, receipts storage.Reader) *Service {
	return &Service{reports: reports, receipts: receipts}
}

// Filename is the suggested download name of a campaign bundle.
func Filename(campaignID uuid.UUID, now time.Time) string {
	return fmt.Sprintf("campaign_%s_%s.zip", campaignID, now.Format("20060102"))
}

// Bundle is a campaign archive ready to be written.
type Bundle struct {
	svc        *Service
	campaignID uuid.UUID
	report     *report.Report
}

// Open builds the report a bundle is made from. Lookup failures surface here,
// before anything is written.
func (s *Service) Open(ctx context.Context, campaignID uuid.UUID) (*Bundle, error) {
	rep, err := s.reports.Build(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("building report: %w", err)
	}

	return &Bundle{svc: s, campaignID: campaignID, report: rep}, nil
}

// WriteBundle opens the campaign bundle and writes it to w.
func (s *Service) WriteBundle(ctx context.Context, campaignID uuid.UUID, w io.Writer) (*Manifest, error) {
	b, err := s.Open(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	return b.Write(ctx, w)
}

// Write writes a zip archive to w holding ledger.csv, summary.txt and every
// receipt referenced by the campaign's expenses. A receipt that cannot be
// fetched is listed in missing.txt instead of failing the bundle.
func (b *Bundle) Write(ctx context.Context, w io.Writer) (*Manifest, error) {
	rep := b.report
	s := b.svc

	zw := zip.NewWriter(w)

	ledgerFile, err := zw.Create("ledger.csv")
	if err != nil {
		return nil, fmt.Errorf("creating ledger.csv: %w", err)
	}

	if err := rep.WriteCSV(ledgerFile); err != nil {
		return nil, fmt.Errorf("writing ledger.csv: %w", err)
	}

	if err := writeFile(zw, "summary.txt", rep.Summary()); err != nil {
		return nil, err
	}

	manifest := &Manifest{CampaignID: b.campaignID}

	var missing strings.Builder

	for _, e := range rep.Expenses {
		if e.ReceiptURL == "" || e.Deleted {
			continue
		}

		rec := Receipt{ExpenseID: e.ExpenseID}

		name, err := s.addReceipt(ctx, zw, e)
		if err != nil {
			rec.Error = err.Error()
			fmt.Fprintf(&missing, "%s %s: %s\n", e.ExpenseID, e.ReceiptURL, err)
		} else {
			rec.File = name
		}

		manifest.Receipts = append(manifest.Receipts, rec)
	}

	if missing.Len() > 0 {
		if err := writeFile(zw, "missing.txt", missing.String()); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}

	return manifest, nil
}

func writeFile(zw *zip.Writer, name, body string) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}

	if _, err := io.WriteString(f, body); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}

// addReceipt reads the receipt before creating its archive entry, so a
// failed read leaves no partial file behind.
func (s *Service) addReceipt(ctx context.Context, zw *zip.Writer, e report.ExpenseLine) (string, error) {
	key, ok := s.receipts.Key(e.ReceiptURL)
	if !ok {
		return "", errors.New("receipt is not held in storage")
	}

	body, err := s.receipts.Get(ctx, key, MaxReceiptSize)
	if err != nil {
		return "", fmt.Errorf("reading receipt: %w", err)
	}

	if len(body) > MaxReceiptSize {
		return "", fmt.Errorf("receipt exceeds %d bytes", MaxReceiptSize)
	}

	name := "receipts/" + receiptFilename(key, e)

	f, err := zw.Create(name)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", name, err)
	}

	if _, err := f.Write(body); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}

	return name, nil
}

// receiptFilename names a receipt after its expense so entries never collide.
// The extension comes from the storage key and defaults to .pdf.
func receiptFilename(key string, e report.ExpenseLine) string {
	ext := path.Ext(key)
	if ext == "" {
		ext = ".pdf"
	}

	safeDesc := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, e.Description)

	if len(safeDesc) > 40 {
		safeDesc = safeDesc[:40]
	}

	return fmt.Sprintf("%s_%s_%s%s", e.Timestamp.Format("20060102"), e.ExpenseID.String()[:8], safeDesc, ext)
}
