package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/mamadbah2/zerocarbon/internal/config"
	"github.com/mamadbah2/zerocarbon/internal/domain/models"
)

type fakeSheet struct {
	rows [][]interface{}
}

func (f *fakeSheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/sheet-123/values/") {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
		var body struct {
			Values [][]interface{} `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.rows = append(f.rows, body.Values...)
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-123"}`))
	case r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"range": "Digest!A1:I10", "values": f.rows})
	default:
		http.Error(w, "unexpected request", http.StatusBadRequest)
	}
}

func newTestRepository(t *testing.T, sheet *fakeSheet) *GoogleSheetRepository {
	t.Helper()
	srv := httptest.NewServer(sheet)
	t.Cleanup(srv.Close)

	repo, err := NewGoogleSheetRepository(context.Background(),
		config.SheetsConfig{SpreadsheetID: "sheet-123"},
		nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return repo
}

func TestGoogleSheetRepository_DigestRoundTrip(t *testing.T) {
	sheet := &fakeSheet{rows: [][]interface{}{
		{"date", "user_id", "food", "electricity", "travel", "waste", "total", "trend", "percent"},
	}}
	repo := newTestRepository(t, sheet)
	ctx := context.Background()
	at := time.Date(2026, 5, 8, 20, 0, 0, 0, time.UTC)

	require.NoError(t, repo.AppendDigest(ctx, models.DigestRow{
		Date: at, UserID: "alice", Food: 12.346, Electricity: 8.2, Travel: 21, Waste: 6,
		Total: 47.546, TrendStatus: models.TrendImprovement, TrendPercent: -20,
	}))
	require.NoError(t, repo.AppendDigest(ctx, models.DigestRow{Date: at, UserID: "bob", TrendStatus: models.TrendInsufficientData}))

	require.Len(t, sheet.rows, 3)
	assert.Equal(t, "2026-05-08", sheet.rows[1][0])
	assert.Equal(t, 12.35, sheet.rows[1][2])

	rows, err := repo.ListDigests(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0].UserID)
	assert.Equal(t, time.Date(2026, 5, 8, 0, 0, 0, 0, time.UTC), rows[0].Date)
	assert.Equal(t, 12.35, rows[0].Food)
	assert.Equal(t, 47.55, rows[0].Total)
	assert.Equal(t, models.TrendImprovement, rows[0].TrendStatus)
	assert.Equal(t, -20.0, rows[0].TrendPercent)
}

func TestParseDigestRowRejectsBadNumbers(t *testing.T) {
	_, err := parseDigestRow([]interface{}{"2026-05-08", "alice", "x", 1, 1, 1, 1, "regression", 0})
	assert.Error(t, err)

	_, err = parseDigestRow([]interface{}{"", "alice", 1, 1, 1, 1, 1, "regression", 0})
	assert.Error(t, err)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 12.35, round2(12.345))
	assert.Equal(t, -0.13, round2(-0.125))
	assert.Equal(t, 21.0, round2(21))
}
