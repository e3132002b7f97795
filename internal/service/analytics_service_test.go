package service

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"moodflow/backend/internal/catalog"
	"moodflow/backend/internal/logging"
	"moodflow/backend/internal/model"
)

type MockHistoryStore struct {
	mock.Mock
}

func (m *MockHistoryStore) DailyHistory(ctx context.Context, userID string, from, to time.Time) ([]model.MoodHistoryRow, error) {
	args := m.Called(ctx, userID, from, to)
	if rows, ok := args.Get(0).([]model.MoodHistoryRow); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

var analyticsNow = time.Date(2026, 5, 10, 15, 30, 0, 0, time.UTC)

func newAnalyticsService(store *MockHistoryStore) *AnalyticsService {
	service := NewAnalyticsService(store, catalog.Default(), logging.Discard())
	service.now = func() time.Time { return analyticsNow }
	return service
}

func sampleHistory() []model.MoodHistoryRow {
	return []model.MoodHistoryRow{
		{Date: "2026-05-08", MoodType: model.MoodStressed, SessionCount: 1, TotalDurationSeconds: 600, AverageRating: 2},
		{Date: "2026-05-08", MoodType: model.MoodCalm, SessionCount: 2, TotalDurationSeconds: 1200, AverageRating: 4},
		{Date: "2026-05-09", MoodType: model.MoodCalm, SessionCount: 1, TotalDurationSeconds: 300},
		{Date: "2026-05-10", MoodType: model.MoodCalm, SessionCount: 1, TotalDurationSeconds: 60, AverageRating: 5},
	}
}

func TestSummaryGroupsByMood(t *testing.T) {
	store := &MockHistoryStore{}
	from := analyticsNow.AddDate(0, 0, -7)
	store.On("DailyHistory", mock.Anything, "user-1", from, analyticsNow).Return(sampleHistory(), nil)

	report, apiErr := newAnalyticsService(store).Summary(context.Background(), "user-1", 0)

	require.Nil(t, apiErr)
	assert.Equal(t, "2026-05-03", report.From)
	assert.Equal(t, "2026-05-10", report.To)
	assert.Equal(t, DefaultAnalyticsDays, report.Days)
	require.Len(t, report.Summaries, 2)

	calm := report.Summaries[0]
	assert.Equal(t, model.MoodCalm, calm.MoodType)
	assert.Equal(t, 4, calm.SessionCount)
	assert.Equal(t, 1560, calm.TotalDurationSeconds)
	assert.InDelta(t, 4.5, calm.AverageRating, 1e-9)

	stressed := report.Summaries[1]
	assert.Equal(t, model.MoodStressed, stressed.MoodType)
	assert.InDelta(t, 2.0, stressed.AverageRating, 1e-9)
	store.AssertExpectations(t)
}

func TestSummaryWithoutRatingsAveragesZero(t *testing.T) {
	store := &MockHistoryStore{}
	store.On("DailyHistory", mock.Anything, "user-1", mock.Anything, mock.Anything).Return([]model.MoodHistoryRow{
		{Date: "2026-05-10", MoodType: model.MoodTired, SessionCount: 3, TotalDurationSeconds: 90},
	}, nil)

	report, apiErr := newAnalyticsService(store).Summary(context.Background(), "user-1", 7)

	require.Nil(t, apiErr)
	require.Len(t, report.Summaries, 1)
	assert.Zero(t, report.Summaries[0].AverageRating)
}

func TestSummaryClampsDays(t *testing.T) {
	store := &MockHistoryStore{}
	from := analyticsNow.AddDate(0, 0, -MaxAnalyticsDays)
	store.On("DailyHistory", mock.Anything, "user-1", from, analyticsNow).Return([]model.MoodHistoryRow{}, nil)

	report, apiErr := newAnalyticsService(store).Summary(context.Background(), "user-1", 10000)

	require.Nil(t, apiErr)
	assert.Equal(t, MaxAnalyticsDays, report.Days)
	assert.Empty(t, report.Summaries)
	store.AssertExpectations(t)
}

func TestSummaryStoreFailure(t *testing.T) {
	store := &MockHistoryStore{}
	store.On("DailyHistory", mock.Anything, "user-1", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	report, apiErr := newAnalyticsService(store).Summary(context.Background(), "user-1", 7)

	assert.Nil(t, report)
	require.NotNil(t, apiErr)
	assert.Equal(t, 500, apiErr.Status)
}

func TestExportWritesWorkbook(t *testing.T) {
	store := &MockHistoryStore{}
	store.On("DailyHistory", mock.Anything, "user-1", mock.Anything, mock.Anything).Return(sampleHistory(), nil)

	content, filename, apiErr := newAnalyticsService(store).Export(context.Background(), "user-1", 7)

	require.Nil(t, apiErr)
	assert.Equal(t, "moodflow-analytics-2026-05-03-2026-05-10.xlsx", filename)

	workbook, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer workbook.Close()

	summaryRows, err := workbook.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, summaryRows, 3)
	assert.Equal(t, []string{"mood", "sessions", "total_seconds", "average_rating"}, summaryRows[0])
	assert.Equal(t, "calm", summaryRows[1][0])
	assert.Equal(t, "4", summaryRows[1][1])

	dailyRows, err := workbook.GetRows(dailySheet)
	require.NoError(t, err)
	assert.Len(t, dailyRows, 5)
	assert.Equal(t, "2026-05-08", dailyRows[1][0])
}

type gatedHistoryStore struct {
	entered chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (s *gatedHistoryStore) DailyHistory(ctx context.Context, userID string, from, to time.Time) ([]model.MoodHistoryRow, error) {
	if s.calls.Add(1) == 1 {
		close(s.entered)
	}
	<-s.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sampleHistory(), nil
}

func TestSummarySharedReadSurvivesCancelledCaller(t *testing.T) {
	store := &gatedHistoryStore{entered: make(chan struct{}), release: make(chan struct{})}
	service := NewAnalyticsService(store, catalog.Default(), logging.Discard())
	service.now = func() time.Time { return analyticsNow }

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan int, 1)
	go func() {
		_, apiErr := service.Summary(ctxA, "user-1", 7)
		status := 0
		if apiErr != nil {
			status = apiErr.Status
		}
		errA <- status
	}()
	<-store.entered

	type outcome struct {
		report *AnalyticsReport
		status int
	}
	resultB := make(chan outcome, 1)
	go func() {
		report, apiErr := service.Summary(context.Background(), "user-1", 7)
		status := 0
		if apiErr != nil {
			status = apiErr.Status
		}
		resultB <- outcome{report: report, status: status}
	}()

	cancelA()
	assert.Equal(t, 503, <-errA)

	// Give the second caller time to join the in-flight read.
	time.Sleep(20 * time.Millisecond)
	close(store.release)

	b := <-resultB
	require.Zero(t, b.status)
	require.NotNil(t, b.report)
	assert.Len(t, b.report.Summaries, 2)
	assert.Equal(t, int32(1), store.calls.Load())
}
