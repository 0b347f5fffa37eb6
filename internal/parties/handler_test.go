package parties

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vr-inventory/vr-inventory/internal/export"
	"github.com/vr-inventory/vr-inventory/internal/ledger"
	"github.com/vr-inventory/vr-inventory/internal/view"
	_ "github.com/vr-inventory/vr-inventory/testing"
)

type stubReader struct {
	dir    Directory
	dirErr error
	party  Party
	ledger ledger.Ledger
	err    error
}

func (s stubReader) Directory(context.Context) (Directory, error) {
	return s.dir, s.dirErr
}

func (s stubReader) Ledger(context.Context, int64) (Party, ledger.Ledger, error) {
	return s.party, s.ledger, s.err
}

func newTestRouter(t *testing.T, reader Reader) http.Handler {
	t.Helper()
	engine, err := view.NewEngine()
	require.NoError(t, err)
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), reader, engine)
	r := chi.NewRouter()
	r.Route("/customers", h.MountRoutes)
	return r
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestListFiltersSuppliers(t *testing.T) {
	router := newTestRouter(t, stubReader{dir: NewDirectory(sampleParties())})

	rec := get(t, router, "/customers?filter=supplier")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Kumar Traders")
	require.Contains(t, body, "Anand")
	require.NotContains(t, body, "Meena")
}

func TestListRendersEmptyOnStoreError(t *testing.T) {
	router := newTestRouter(t, stubReader{dirErr: errors.New("procedure failed")})

	rec := get(t, router, "/customers")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "No parties found.")
}

func TestShowRendersHistory(t *testing.T) {
	at := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	l := ledger.Aggregate([]ledger.Record{
		ledger.TransactionRecord{Move: ledger.StockMove{ID: 1, Kind: ledger.KindSale, ProductName: "Tyre", Qty: decimal.NewFromInt(2), PricePerUnit: decimal.NewFromInt(350), TS: at}},
	})
	router := newTestRouter(t, stubReader{party: Party{ID: 7, Name: "Ravi", Role: RoleCustomer}, ledger: l})

	rec := get(t, router, "/customers/7")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Ravi")
	require.Contains(t, body, "Tyre (N/A)")
	require.Contains(t, body, "5/3/2024")
	require.Contains(t, body, `<td class="num">2</td>`)
	require.NotContains(t, body, "No history found.")
	require.NotContains(t, body, `role="alert"`)
}

func TestShowSavedAlert(t *testing.T) {
	router := newTestRouter(t, stubReader{party: Party{ID: 7, Name: "Ravi"}, ledger: ledger.Aggregate(nil)})

	body := get(t, router, "/customers/7?saved="+SavedSale).Body.String()
	require.Contains(t, body, `class="alert alert-success"`)
	require.Contains(t, body, "Sale saved successfully!")

	body = get(t, router, "/customers/7?saved="+SavedStockMove).Body.String()
	require.Contains(t, body, "Stock movement saved.")

	body = get(t, router, "/customers/7?saved=<script>").Body.String()
	require.NotContains(t, body, `role="alert"`)
}

func TestShowEmptyHistory(t *testing.T) {
	router := newTestRouter(t, stubReader{party: Party{ID: 7, Name: "Ravi"}, ledger: ledger.Aggregate(nil)})

	rec := get(t, router, "/customers/7")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "No history found.")
}

func TestShowStatuses(t *testing.T) {
	notFound := newTestRouter(t, stubReader{err: ErrNotFound})
	require.Equal(t, http.StatusNotFound, get(t, notFound, "/customers/7").Code)
	require.Equal(t, http.StatusBadRequest, get(t, notFound, "/customers/abc").Code)

	broken := newTestRouter(t, stubReader{err: errors.New("db down")})
	require.Equal(t, http.StatusInternalServerError, get(t, broken, "/customers/7").Code)
}

func TestExportWorkbook(t *testing.T) {
	router := newTestRouter(t, stubReader{party: Party{ID: 7, Name: "Ravi"}, ledger: ledger.Aggregate(nil)})

	rec := get(t, router, "/customers/7/export.xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	name, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	require.Equal(t, "Ravi", name)
}
