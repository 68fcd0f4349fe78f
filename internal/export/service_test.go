package export_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fundly/internal/export"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/money"
	"github.com/MrJamesThe3rd/fundly/internal/report"
	"github.com/MrJamesThe3rd/fundly/internal/storage"
)

func putReceipt(t *testing.T, store *storage.Local, key, body string) string {
	t.Helper()

	url, err := store.Put(context.Background(), key, "application/octet-stream", []byte(body))
	require.NoError(t, err)

	return url
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := make(map[string]string, len(zr.File))

	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)

		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		files[f.Name] = string(body)
	}

	return files
}

func TestService_WriteBundle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := storage.NewLocal(t.TempDir(), "http://files.test")
	campaignID := uuid.New()
	day := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	pump := uuid.MustParse("11111111-0000-0000-0000-000000000000")
	photo := uuid.MustParse("22222222-0000-0000-0000-000000000000")
	gone := uuid.MustParse("33333333-0000-0000-0000-000000000000")

	rep := &report.Report{
		Campaign:    &ledger.Campaign{ExternalID: campaignID, Title: "Well", GoalAmount: money.MustParse("100")},
		GeneratedAt: day,
		Allocations: []report.Line{{AllocationID: uuid.New(), Amount: money.MustParse("40"), ExpenseDesc: "Pump"}},
		Expenses: []report.ExpenseLine{
			{ExpenseID: pump, Timestamp: day, Description: "Water pump", Amount: money.MustParse("40"), ReceiptURL: putReceipt(t, store, "receipts/pump/r.pdf", "%PDF pump")},
			{ExpenseID: photo, Timestamp: day, Description: "Photo", Amount: money.MustParse("5"), ReceiptURL: putReceipt(t, store, "receipts/photo/r.png", "png bytes")},
			{ExpenseID: gone, Timestamp: day, Description: "Lost", Amount: money.MustParse("5"), ReceiptURL: "http://files.test/receipts/gone/r.pdf"},
			{ExpenseID: uuid.New(), Timestamp: day, Description: "No receipt", Amount: money.MustParse("1")},
			{ExpenseID: uuid.New(), Timestamp: day, Description: "Deleted", Amount: money.MustParse("1"), ReceiptURL: putReceipt(t, store, "receipts/del/r.pdf", "x"), Deleted: true},
		},
	}

	reports := export.NewMockReports(ctrl)
	reports.EXPECT().Build(gomock.Any(), campaignID).Return(rep, nil)

	var buf bytes.Buffer

	manifest, err := export.NewService(reports, store).WriteBundle(context.Background(), campaignID, &buf)
	require.NoError(t, err)

	require.Len(t, manifest.Receipts, 3)
	assert.Equal(t, 1, manifest.Missing())
	assert.Equal(t, "receipts/20240502_11111111_Water_pump.pdf", manifest.Receipts[0].File)
	assert.Equal(t, "receipts/20240502_22222222_Photo.png", manifest.Receipts[1].File)
	assert.Empty(t, manifest.Receipts[2].File)
	assert.Contains(t, manifest.Receipts[2].Error, "not found")

	files := readZip(t, buf.Bytes())

	assert.Equal(t, "%PDF pump", files["receipts/20240502_11111111_Water_pump.pdf"])
	assert.Equal(t, "png bytes", files["receipts/20240502_22222222_Photo.png"])
	assert.True(t, strings.HasPrefix(files["ledger.csv"], "allocation_id,"))
	assert.Contains(t, files["summary.txt"], "Well")
	assert.Contains(t, files["missing.txt"], gone.String())
	assert.Len(t, files, 5)
}

func TestService_WriteBundle_NeverFetchesForeignURLs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var hits atomic.Int32

	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("INTERNAL-SECRET"))
	}))
	t.Cleanup(internal.Close)

	store := storage.NewLocal(t.TempDir(), "http://files.test")
	campaignID := uuid.New()

	urls := []string{
		internal.URL + "/latest/meta-data/iam",
		"http://files.test@" + strings.TrimPrefix(internal.URL, "http://") + "/receipts/a.pdf",
		"http://files.test/receipts/../../etc/passwd",
	}

	rep := &report.Report{Campaign: &ledger.Campaign{ExternalID: campaignID, Title: "Well"}}
	for _, u := range urls {
		rep.Expenses = append(rep.Expenses, report.ExpenseLine{ExpenseID: uuid.New(), Description: "d", Amount: money.MustParse("1"), ReceiptURL: u})
	}

	reports := export.NewMockReports(ctrl)
	reports.EXPECT().Build(gomock.Any(), campaignID).Return(rep, nil)

	var buf bytes.Buffer

	manifest, err := export.NewService(reports, store).WriteBundle(context.Background(), campaignID, &buf)
	require.NoError(t, err)

	assert.Equal(t, len(urls), manifest.Missing())
	assert.Zero(t, hits.Load())

	for name, body := range readZip(t, buf.Bytes()) {
		assert.NotContains(t, body, "INTERNAL-SECRET", name)
	}
}

func TestService_WriteBundle_ReportError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reports := export.NewMockReports(ctrl)
	reports.EXPECT().Build(gomock.Any(), gomock.Any()).Return(nil, ledger.ErrNotFound)

	var buf bytes.Buffer

	_, err := export.NewService(reports, storage.NewLocal(t.TempDir(), "http://files.test")).WriteBundle(context.Background(), uuid.New(), &buf)
	assert.True(t, errors.Is(err, ledger.ErrNotFound))
	assert.Zero(t, buf.Len())
}

func TestFilename(t *testing.T) {
	id := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	assert.Equal(t,
		"campaign_aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee_20240502.zip",
		export.Filename(id, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)),
	)
}
