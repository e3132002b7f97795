package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/singleflight"

	"moodflow/backend/internal/catalog"
	apperrors "moodflow/backend/internal/errors"
	"moodflow/backend/internal/model"
)

const (
	DefaultAnalyticsDays = 7
	MaxAnalyticsDays     = 365

	historyReadTimeout = 30 * time.Second

	summarySheet = "Summary"
	dailySheet   = "Daily"
)

type HistoryStore interface {
	DailyHistory(ctx context.Context, userID string, from, to time.Time) ([]model.MoodHistoryRow, error)
}

type AnalyticsService struct {
	history HistoryStore
	catalog *catalog.Catalog
	logger  *slog.Logger
	now     func() time.Time
	group   singleflight.Group
}

type AnalyticsReport struct {
	From      string                 `json:"from"`
	To        string                 `json:"to"`
	Days      int                    `json:"days"`
	Summaries []model.MoodSummary    `json:"summaries"`
	Daily     []model.MoodHistoryRow `json:"daily"`
}

func NewAnalyticsService(history HistoryStore, moodCatalog *catalog.Catalog, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		history: history,
		catalog: moodCatalog,
		logger:  logger,
		now:     time.Now,
	}
}

// Summary aggregates the user's last days of history per mood. Concurrent
// requests for the same user and range share one read, which runs detached
// from any single caller's cancellation.
func (s *AnalyticsService) Summary(ctx context.Context, userID string, days int) (*AnalyticsReport, *apperrors.APIError) {
	days = clampDays(days)
	key := fmt.Sprintf("%s:%d", userID, days)

	results := s.group.DoChan(key, func() (interface{}, error) {
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyReadTimeout)
		defer cancel()

		to := s.now().UTC()
		from := to.AddDate(0, 0, -days)
		rows, err := s.history.DailyHistory(readCtx, userID, from, to)
		if err != nil {
			return nil, err
		}
		return &AnalyticsReport{
			From:      from.Format("2006-01-02"),
			To:        to.Format("2006-01-02"),
			Days:      days,
			Summaries: s.summarize(rows),
			Daily:     rows,
		}, nil
	})

	select {
	case <-ctx.Done():
		return nil, apperrors.Unavailable("request_cancelled", "request cancelled")
	case result := <-results:
		if result.Err != nil {
			s.logger.Error("load mood history failed", "user_id", userID, "days", days, "error", result.Err)
			return nil, apperrors.Internal("failed to load analytics")
		}
		return result.Val.(*AnalyticsReport), nil
	}
}

// Export renders the summary as an XLSX workbook with a summary sheet and a
// per-day sheet.
func (s *AnalyticsService) Export(ctx context.Context, userID string, days int) ([]byte, string, *apperrors.APIError) {
	report, apiErr := s.Summary(ctx, userID, days)
	if apiErr != nil {
		return nil, "", apiErr
	}

	content, err := writeReportXLSX(report)
	if err != nil {
		s.logger.Error("render analytics workbook failed", "user_id", userID, "error", err)
		return nil, "", apperrors.Internal("failed to export analytics")
	}
	filename := fmt.Sprintf("moodflow-analytics-%s-%s.xlsx", report.From, report.To)
	return content, filename, nil
}

// summarize folds daily rows into one entry per mood. The average rating is
// the mean of the rated days only.
func (s *AnalyticsService) summarize(rows []model.MoodHistoryRow) []model.MoodSummary {
	byMood := make(map[model.MoodType]*model.MoodSummary)
	ratings := make(map[model.MoodType][]float64)
	for _, row := range rows {
		summary, ok := byMood[row.MoodType]
		if !ok {
			summary = &model.MoodSummary{MoodType: row.MoodType}
			byMood[row.MoodType] = summary
		}
		summary.SessionCount += row.SessionCount
		summary.TotalDurationSeconds += row.TotalDurationSeconds
		if row.AverageRating > 0 {
			ratings[row.MoodType] = append(ratings[row.MoodType], row.AverageRating)
		}
	}

	summaries := make([]model.MoodSummary, 0, len(byMood))
	for mood, summary := range byMood {
		if mean, err := stats.Mean(ratings[mood]); err == nil {
			summary.AverageRating = mean
		}
		summaries = append(summaries, *summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		pi := s.position(summaries[i].MoodType)
		pj := s.position(summaries[j].MoodType)
		if pi != pj {
			return pi < pj
		}
		return summaries[i].MoodType < summaries[j].MoodType
	})
	return summaries
}

func (s *AnalyticsService) position(mood model.MoodType) int {
	if pos := s.catalog.Position(mood); pos >= 0 {
		return pos
	}
	return len(model.MoodTypes)
}

func writeReportXLSX(report *AnalyticsReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(dailySheet); err != nil {
		return nil, err
	}

	summaryRows := make([][]interface{}, 0, len(report.Summaries))
	for _, summary := range report.Summaries {
		summaryRows = append(summaryRows, []interface{}{
			string(summary.MoodType),
			summary.SessionCount,
			summary.TotalDurationSeconds,
			summary.AverageRating,
		})
	}
	if err := writeSheet(f, summarySheet,
		[]string{"mood", "sessions", "total_seconds", "average_rating"}, summaryRows); err != nil {
		return nil, err
	}

	dailyRows := make([][]interface{}, 0, len(report.Daily))
	for _, row := range report.Daily {
		dailyRows = append(dailyRows, []interface{}{
			row.Date,
			string(row.MoodType),
			row.SessionCount,
			row.TotalDurationSeconds,
			row.AverageRating,
		})
	}
	if err := writeSheet(f, dailySheet,
		[]string{"date", "mood", "sessions", "total_seconds", "average_rating"}, dailyRows); err != nil {
		return nil, err
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func clampDays(days int) int {
	if days <= 0 {
		return DefaultAnalyticsDays
	}
	if days > MaxAnalyticsDays {
		return MaxAnalyticsDays
	}
	return days
}
