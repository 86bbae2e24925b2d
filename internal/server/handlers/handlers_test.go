package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/zerocarbon/internal/domain/models"
	"github.com/mamadbah2/zerocarbon/internal/service/emissions"
)

type fakeTracking struct {
	submitted []emissions.Submission
	submitErr error
	summary   models.AggregateSummary
	err       error
}

func (f *fakeTracking) Submit(_ context.Context, userID string, sub emissions.Submission) (models.ActivityRecord, error) {
	if f.submitErr != nil {
		return models.ActivityRecord{}, f.submitErr
	}
	f.submitted = append(f.submitted, sub)
	return models.ActivityRecord{ID: "rec-1", UserID: userID, Category: sub.Category(), CarbonKg: 4.2}, nil
}

func (f *fakeTracking) Activities(_ context.Context, userID string, category models.Category) ([]models.ActivityRecord, error) {
	return []models.ActivityRecord{{ID: "rec-1", UserID: userID, Category: category}}, f.err
}

func (f *fakeTracking) Summary(context.Context, string) (models.AggregateSummary, error) {
	return f.summary, f.err
}

func (f *fakeTracking) DeleteUser(context.Context, string) (int64, error) { return 3, f.err }

func (f *fakeTracking) Foods(context.Context) ([]models.EmissionFactor, error) {
	return []models.EmissionFactor{{FoodName: "beef", KgCO2PerKg: 27}}, f.err
}

func (f *fakeTracking) SetFoodFactor(_ context.Context, name string, kg float64) (models.EmissionFactor, error) {
	return models.EmissionFactor{FoodName: name, KgCO2PerKg: kg}, f.err
}

type fakeAdvisor struct {
	enabled bool
	reply   string
	err     error
}

func (f fakeAdvisor) Enabled() bool { return f.enabled }

func (f fakeAdvisor) Advise(context.Context, string, string) (string, error) { return f.reply, f.err }

type fakeScanner struct {
	got []byte
	err error
}

func (f *fakeScanner) Scan(_ context.Context, image []byte) (models.WasteScanResult, error) {
	f.got = image
	if f.err != nil {
		return models.WasteScanResult{}, f.err
	}
	return models.WasteScanResult{
		WasteClassification: models.WasteClassification{Material: "Plastic", WeightKg: 1.2, EmissionFactor: 6},
		CarbonKg:            7.2,
	}, nil
}

type fakeDigests struct {
	rows []models.DigestRow
	err  error
}

func (f fakeDigests) History(context.Context, string) ([]models.DigestRow, error) { return f.rows, f.err }

func newEngine(tracking TrackingService, advisor Advisor, scanner WasteScanner, digests DigestHistory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	activities := NewActivityHandler(tracking, nil)
	insights := NewInsightsHandler(advisor, scanner, digests, nil)

	r := gin.New()
	r.POST("/users/:userID/activities/:category", activities.Submit)
	r.GET("/users/:userID/activities/:category", activities.List)
	r.GET("/users/:userID/summary", activities.Summary)
	r.DELETE("/users/:userID", activities.DeleteUser)
	r.GET("/foods", activities.ListFoods)
	r.PUT("/foods/:name", activities.UpsertFood)
	r.POST("/users/:userID/advisor/chat", insights.Chat)
	r.POST("/users/:userID/waste/scan", insights.ScanWaste)
	r.GET("/users/:userID/digests", insights.Digests)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestActivityHandler_Submit(t *testing.T) {
	tests := []struct {
		name     string
		category string
		body     string
		want     emissions.Submission
	}{
		{"food", "food", `{"food_name":"Beef","quantity_kg":2}`, emissions.FoodSubmission{FoodName: "Beef", QuantityKg: 2}},
		{"electricity", "electricity", `{"units_kwh":100}`, emissions.ElectricitySubmission{UnitsKWh: 100}},
		{"travel", "travel", `{"mode":"car","distance_km":10}`, emissions.TravelSubmission{Mode: "car", DistanceKm: 10}},
		{"waste", "waste", `{"quantity_kg":5}`, emissions.WasteSubmission{QuantityKg: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracking := &fakeTracking{}
			w := doJSON(newEngine(tracking, nil, nil, nil), http.MethodPost, "/users/u1/activities/"+tt.category, tt.body)

			require.Equal(t, http.StatusCreated, w.Code)
			require.Len(t, tracking.submitted, 1)
			assert.Equal(t, tt.want, tracking.submitted[0])

			var record models.ActivityRecord
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
			assert.Equal(t, "u1", record.UserID)
			assert.InDelta(t, 4.2, record.CarbonKg, 1e-9)
		})
	}
}

func TestActivityHandler_SubmitErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		err      error
		wantCode int
	}{
		{"unknown category", "/users/u1/activities/shopping", `{}`, nil, http.StatusNotFound},
		{"malformed json", "/users/u1/activities/food", `{"food_name":`, nil, http.StatusBadRequest},
		{"missing field", "/users/u1/activities/travel", `{"mode":"car"}`, nil, http.StatusBadRequest},
		{"invalid quantity", "/users/u1/activities/waste", `{"quantity_kg":-1}`,
			fmt.Errorf("%w: quantity_kg must be positive", models.ErrInvalidQuantity), http.StatusBadRequest},
		{"unknown food", "/users/u1/activities/food", `{"food_name":"unicorn","quantity_kg":1}`,
			fmt.Errorf("%w: unicorn", models.ErrUnknownFoodItem), http.StatusUnprocessableEntity},
		{"unknown travel mode", "/users/u1/activities/travel", `{"mode":"rocket","distance_km":1}`,
			fmt.Errorf("%w: rocket", models.ErrUnknownTravelMode), http.StatusBadRequest},
		{"persistence", "/users/u1/activities/waste", `{"quantity_kg":1}`,
			fmt.Errorf("append waste activity: %w", models.ErrPersistence), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracking := &fakeTracking{submitErr: tt.err}
			w := doJSON(newEngine(tracking, nil, nil, nil), http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestActivityHandler_Reads(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tracking := &fakeTracking{summary: models.AggregateSummary{
		UserID:     "u1",
		GrandTotal: 42,
		Trend:      models.Trend{Status: models.TrendImprovement, Percent: -20, FirstDate: day, LastDate: day.AddDate(0, 0, 1)},
		TrendText:  "Emissions reduced by 20.00%",
	}}
	r := newEngine(tracking, nil, nil, nil)

	w := doJSON(r, http.MethodGet, "/users/u1/summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Emissions reduced by 20.00%")

	w = doJSON(r, http.MethodGet, "/users/u1/activities/travel", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"category":"travel"`)

	w = doJSON(r, http.MethodGet, "/users/u1/activities/pets", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodDelete, "/users/u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":3}`, w.Body.String())

	w = doJSON(r, http.MethodGet, "/foods", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "beef")

	w = doJSON(r, http.MethodPut, "/foods/tofu", `{"kg_co2_per_kg":3}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tofu")

	tracking.err = fmt.Errorf("list: %w", models.ErrPersistence)
	w = doJSON(r, http.MethodGet, "/users/u1/summary", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "list:")
}

func TestInsightsHandler_Chat(t *testing.T) {
	tests := []struct {
		name      string
		advisor   Advisor
		body      string
		wantCode  int
		wantReply string
	}{
		{"answers", fakeAdvisor{enabled: true, reply: "Eat less beef."}, `{"message":"how?"}`, http.StatusOK, "Eat less beef."},
		{"disabled", fakeAdvisor{}, `{"message":"how?"}`, http.StatusServiceUnavailable, "Advisor is not available."},
		{"missing message", fakeAdvisor{enabled: true}, `{}`, http.StatusBadRequest, "Invalid request"},
		{"upstream failure", fakeAdvisor{enabled: true, err: fmt.Errorf("%w: timeout", models.ErrAdvisorService)},
			`{"message":"how?"}`, http.StatusBadGateway, genericAdvisorReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(newEngine(&fakeTracking{}, tt.advisor, nil, nil), http.MethodPost, "/users/u1/advisor/chat", tt.body)
			require.Equal(t, tt.wantCode, w.Code)

			var resp models.AdviceResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantReply, resp.Reply)
		})
	}
}

func TestInsightsHandler_ScanWaste(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "bottle.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	scanner := &fakeScanner{}
	req := httptest.NewRequest(http.MethodPost, "/users/u1/waste/scan", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	newEngine(&fakeTracking{}, nil, scanner, nil).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []byte("jpeg-bytes"), scanner.got)
	assert.Contains(t, w.Body.String(), `"carbon_emission":7.2`)
	assert.Contains(t, w.Body.String(), `"material":"Plastic"`)
}

func TestInsightsHandler_ScanWasteWithoutImage(t *testing.T) {
	w := doJSON(newEngine(&fakeTracking{}, nil, &fakeScanner{}, nil), http.MethodPost, "/users/u1/waste/scan", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No image uploaded")
}

func TestInsightsHandler_Digests(t *testing.T) {
	rows := []models.DigestRow{{UserID: "u1", Total: 12.5, TrendStatus: models.TrendInsufficientData}}
	w := doJSON(newEngine(&fakeTracking{}, nil, nil, fakeDigests{rows: rows}), http.MethodGet, "/users/u1/digests", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u1")

	w = doJSON(newEngine(&fakeTracking{}, nil, nil, fakeDigests{err: errors.New("sheets down")}), http.MethodGet, "/users/u1/digests", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
