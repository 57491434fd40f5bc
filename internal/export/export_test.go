package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbd888/andromeda/internal/alerts"
	"github.com/mbd888/andromeda/internal/ledger"
	"github.com/mbd888/andromeda/internal/monitor"
	"github.com/mbd888/andromeda/internal/risk"
	"github.com/mbd888/andromeda/internal/txgen"
)

var stamp = time.Date(2024, 3, 9, 14, 5, 7, 123_000_000, time.UTC).UnixMilli()

func sampleEntry() ledger.Entry {
	return ledger.Entry{
		Transaction: txgen.Transaction{
			ID:                  "tx_1_abc",
			Hash:                "0xfeed",
			From:                txgen.Pool[0],
			To:                  txgen.Pool[1],
			Value:               decimal.RequireFromString("1234.5"),
			GasUsed:             250000,
			GasPrice:            12.346,
			Timestamp:           stamp,
			BlockNumber:         18500000,
			ContractInteraction: true,
		},
		Analysis: risk.Analysis{
			RiskScore:        82,
			Classification:   risk.ClassMalicious,
			Confidence:       91.256,
			DetectedPatterns: []string{"Flash loan attack", "Sandwich attack"},
		},
	}
}

func readCSV(t *testing.T, data string) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestTransactions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Transactions(&buf, []ledger.Entry{sampleEntry()}))

	rows := readCSV(t, buf.String())
	require.Len(t, rows, 2)
	assert.Equal(t, transactionHeader, rows[0])
	assert.Equal(t, []string{
		"tx_1_abc",
		"0xfeed",
		txgen.Pool[0],
		txgen.Pool[1],
		"1234.500000",
		"250000",
		"12.35",
		"18500000",
		"2024-03-09T14:05:07.123Z",
		"82",
		"malicious",
		"91.26",
		"Flash loan attack; Sandwich attack",
		"true",
		"false",
	}, rows[1])
}

func TestTransactions_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Transactions(&buf, nil))
	assert.Len(t, readCSV(t, buf.String()), 1)
}

func TestAlerts_QuotesMessages(t *testing.T) {
	a := &alerts.Alert{
		ID:            "alert_1_x",
		TransactionID: "tx_1_abc",
		WalletAddress: txgen.Pool[2],
		Type:          alerts.TypeHighRisk,
		Severity:      alerts.SeverityCritical,
		Message:       `MALICIOUS: "quoted", with comma`,
		Timestamp:     stamp,
		Status:        alerts.StatusActive,
	}

	var buf bytes.Buffer
	require.NoError(t, Alerts(&buf, []*alerts.Alert{a}))

	rows := readCSV(t, buf.String())
	require.Len(t, rows, 2)
	assert.Equal(t, alertHeader, rows[0])
	assert.Equal(t, a.Message, rows[1][5])
	assert.Equal(t, "2024-03-09T14:05:07.123Z", rows[1][7])
}

type staticFeed []ledger.Entry

func (s staticFeed) Feed(f monitor.Filter) []ledger.Entry {
	out := []ledger.Entry{}
	for _, e := range s {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	low := sampleEntry()
	low.ID = "tx_2_low"
	low.Analysis.RiskScore = 10
	low.Analysis.Classification = risk.ClassNormal

	store := alerts.NewMemoryStore()
	require.NoError(t, store.Add(context.Background(), &alerts.Alert{
		ID: "alert_1", Severity: alerts.SeverityHigh, Status: alerts.StatusActive,
	}))

	h := NewHandler(staticFeed{sampleEntry(), low}, store)
	h.now = func() time.Time { return time.UnixMilli(stamp) }

	r := gin.New()
	h.RegisterRoutes(r.Group("/v1"))
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestExportFeedHandler(t *testing.T) {
	r := newTestRouter(t)

	w := get(r, "/v1/feed/export.csv?risk=high")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, contentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="security-transactions-2024-03-09.csv"`, w.Header().Get("Content-Disposition"))

	rows := readCSV(t, w.Body.String())
	require.Len(t, rows, 2)
	assert.Equal(t, "tx_1_abc", rows[1][0])

	w = get(r, "/v1/feed/export.csv?risk=extreme")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportAlertsHandler(t *testing.T) {
	r := newTestRouter(t)

	w := get(r, "/v1/alerts/export.csv")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, readCSV(t, w.Body.String()), 2)

	w = get(r, "/v1/alerts/export.csv?severity=critical")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, readCSV(t, w.Body.String()), 1)

	w = get(r, "/v1/alerts/export.csv?status=bogus")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
