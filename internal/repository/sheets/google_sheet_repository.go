package sheets

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/zerocarbon/internal/config"
	"github.com/mamadbah2/zerocarbon/internal/domain/models"
)

const (
	dateLayout   = "2006-01-02"
	digestRange  = "Digest!A:I"
	digestFields = 9
)

// GoogleSheetRepository stores weekly digest rows in a Google Sheet, one row
// per user per run.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, extra ...option.ClientOption) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}
	opts = append(opts, extra...)

	service, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendDigest appends one digest row.
func (r *GoogleSheetRepository) AppendDigest(ctx context.Context, row models.DigestRow) error {
	values := []interface{}{
		row.Date.Format(dateLayout),
		row.UserID,
		round2(row.Food),
		round2(row.Electricity),
		round2(row.Travel),
		round2(row.Waste),
		round2(row.Total),
		string(row.TrendStatus),
		round2(row.TrendPercent),
	}
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, digestRange, payload).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append digest row for %s: %w", row.UserID, err)
	}

	r.logger.Debug("digest row appended", zap.String("user_id", row.UserID), zap.String("range", digestRange))
	return nil
}

// ListDigests reads back the digest rows of userID. Malformed rows, such as a
// header line, are skipped.
func (r *GoogleSheetRepository) ListDigests(ctx context.Context, userID string) ([]models.DigestRow, error) {
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, digestRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", digestRange, err)
	}

	rows := make([]models.DigestRow, 0)
	for _, raw := range resp.Values {
		if len(raw) < digestFields || fmt.Sprint(raw[1]) != userID {
			continue
		}
		row, err := parseDigestRow(raw)
		if err != nil {
			r.logger.Debug("skip malformed digest row", zap.Any("row", raw), zap.Error(err))
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseDigestRow(raw []interface{}) (models.DigestRow, error) {
	date, err := parseDate(raw[0])
	if err != nil {
		return models.DigestRow{}, err
	}

	nums := make([]float64, 0, 6)
	for _, idx := range []int{2, 3, 4, 5, 6, 8} {
		v, err := parseFloat(raw[idx])
		if err != nil {
			return models.DigestRow{}, fmt.Errorf("column %d: %w", idx, err)
		}
		nums = append(nums, v)
	}

	return models.DigestRow{
		Date:         date,
		UserID:       fmt.Sprint(raw[1]),
		Food:         nums[0],
		Electricity:  nums[1],
		Travel:       nums[2],
		Waste:        nums[3],
		Total:        nums[4],
		TrendStatus:  models.TrendStatus(fmt.Sprint(raw[7])),
		TrendPercent: nums[5],
	}, nil
}

func parseDate(value interface{}) (time.Time, error) {
	str := fmt.Sprint(value)
	if str == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if len(str) > 10 {
		str = str[:10]
	}
	return time.Parse(dateLayout, str)
}

func parseFloat(value interface{}) (float64, error) {
	str := fmt.Sprint(value)
	if str == "" {
		return 0, fmt.Errorf("empty numeric value")
	}
	return strconv.ParseFloat(str, 64)
}

// round2 rounds half away from zero on the decimal value, so 12.345 becomes 12.35.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
