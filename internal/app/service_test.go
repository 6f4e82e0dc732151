package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"stockBacktester/internal/domain"
	"stockBacktester/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

// mockProvider returns a canned bar series or error.
type mockProvider struct {
	bars []*domain.PriceBar
	err  error

	gotSymbol string
	gotStart  time.Time
	gotEnd    time.Time
}

func (m *mockProvider) GetDailyBars(_ context.Context, symbol string, start, end time.Time) ([]*domain.PriceBar, error) {
	m.gotSymbol = symbol
	m.gotStart = start
	m.gotEnd = end
	return m.bars, m.err
}

// mockRepo records saved runs.
type mockRepo struct {
	saved   []*domain.Result
	saveErr error
}

func (m *mockRepo) SaveRun(_ context.Context, result *domain.Result) (int64, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	m.saved = append(m.saved, result)
	return int64(len(m.saved)), nil
}

func (m *mockRepo) FindRuns(_ context.Context, _ string, _ int) ([]*domain.RunSummary, error) {
	return []*domain.RunSummary{{ID: 1, Symbol: "AAPL"}}, nil
}

func (m *mockRepo) FindTrades(_ context.Context, _ int64) ([]*domain.Trade, error) {
	return nil, nil
}

func risingBars(n int) []*domain.PriceBar {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]*domain.PriceBar, n)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = &domain.PriceBar{Date: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}
	return bars
}

func validRules() domain.RuleSet {
	return domain.RuleSet{
		EntryRules: []domain.EntryRule{
			{Indicator: domain.IndicatorPrice, Operator: domain.OpGreaterThan, Value: 0},
		},
		ExitRules: []domain.ExitRule{
			{Type: domain.ExitTakeProfit, Value: 5},
		},
		PositionSizePercent: 10,
		MaxPositions:        1,
	}
}

func validRequest() Request {
	return Request{
		Symbol:         "AAPL",
		StartDate:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC),
		InitialCapital: 10000,
		Rules:          validRules(),
	}
}

func newTestService(t *testing.T, provider ports.BarProvider, runs ports.RunRepository) *BacktestService {
	t.Helper()
	svc, err := NewBacktestService(&mockLogger{}, provider, runs)
	require.NoError(t, err)
	// Pin "now" so date validation is stable.
	svc.now = func() time.Time {
		return time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestRun_Success(t *testing.T) {
	provider := &mockProvider{bars: risingBars(20)}
	repo := &mockRepo{}
	svc := newTestService(t, provider, repo)

	req := validRequest()
	result, err := svc.Run(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "AAPL", provider.gotSymbol)
	assert.Equal(t, req.StartDate, provider.gotStart)
	assert.Equal(t, req.EndDate, provider.gotEnd)

	// The result echoes the requested range, not the bar range.
	assert.Equal(t, req.StartDate, result.Config.StartDate)
	assert.Equal(t, req.EndDate, result.Config.EndDate)
	assert.Len(t, result.EquityCurve, 20)

	require.Len(t, repo.saved, 1)
	assert.Same(t, result, repo.saved[0])
}

func TestRun_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{
			name:    "empty symbol",
			mutate:  func(r *Request) { r.Symbol = "" },
			wantErr: ports.ErrInvalidRequest,
		},
		{
			name:    "non-positive capital",
			mutate:  func(r *Request) { r.InitialCapital = 0 },
			wantErr: ports.ErrInvalidRequest,
		},
		{
			name: "start after end",
			mutate: func(r *Request) {
				r.StartDate, r.EndDate = r.EndDate, r.StartDate
			},
			wantErr: ports.ErrInvalidDateRange,
		},
		{
			name: "start equals end",
			mutate: func(r *Request) {
				r.EndDate = r.StartDate
			},
			wantErr: ports.ErrInvalidDateRange,
		},
		{
			name: "span over five years",
			mutate: func(r *Request) {
				r.StartDate = time.Date(2018, 1, 2, 0, 0, 0, 0, time.UTC)
			},
			wantErr: ports.ErrInvalidDateRange,
		},
		{
			name: "end in the future",
			mutate: func(r *Request) {
				r.EndDate = time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
			},
			wantErr: ports.ErrInvalidDateRange,
		},
		{
			name: "invalid rules",
			mutate: func(r *Request) {
				r.Rules.EntryRules[0].Indicator = "MACD"
			},
			wantErr: ports.ErrInvalidRules,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockProvider{bars: risingBars(20)}
			svc := newTestService(t, provider, nil)

			req := validRequest()
			tt.mutate(&req)

			_, err := svc.Run(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
			// Validation failures never reach the provider.
			assert.Empty(t, provider.gotSymbol)
		})
	}
}

func TestRun_ProviderFailure(t *testing.T) {
	provider := &mockProvider{err: ports.ErrProviderUnavailable}
	svc := newTestService(t, provider, nil)

	_, err := svc.Run(context.Background(), validRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrProviderUnavailable))
}

func TestRun_PersistenceFailureIsNotFatal(t *testing.T) {
	provider := &mockProvider{bars: risingBars(20)}
	repo := &mockRepo{saveErr: ports.ErrQueryFailed}
	svc := newTestService(t, provider, repo)

	result, err := svc.Run(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestRun_NilRepositorySkipsPersistence(t *testing.T) {
	provider := &mockProvider{bars: risingBars(20)}
	svc := newTestService(t, provider, nil)

	result, err := svc.Run(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestQuickRun(t *testing.T) {
	provider := &mockProvider{bars: risingBars(40)}
	svc := newTestService(t, provider, nil)

	result, err := svc.QuickRun(context.Background(), "AAPL", 6)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "AAPL", provider.gotSymbol)
	assert.Equal(t, provider.gotEnd.AddDate(0, -6, 0), provider.gotStart)
	assert.Equal(t, 10000.0, result.Capital.Initial)

	t.Run("months out of range", func(t *testing.T) {
		_, err := svc.QuickRun(context.Background(), "AAPL", 0)
		assert.True(t, errors.Is(err, ports.ErrInvalidRequest))

		_, err = svc.QuickRun(context.Background(), "AAPL", 61)
		assert.True(t, errors.Is(err, ports.ErrInvalidRequest))
	})
}

func TestTemplates(t *testing.T) {
	svc := newTestService(t, &mockProvider{}, nil)
	catalog := svc.Templates()
	assert.NotEmpty(t, catalog)
}

func TestRuns(t *testing.T) {
	t.Run("with repository", func(t *testing.T) {
		svc := newTestService(t, &mockProvider{}, &mockRepo{})
		runs, err := svc.Runs(context.Background(), "AAPL", 10)
		require.NoError(t, err)
		assert.Len(t, runs, 1)
	})

	t.Run("without repository", func(t *testing.T) {
		svc := newTestService(t, &mockProvider{}, nil)
		runs, err := svc.Runs(context.Background(), "AAPL", 10)
		require.NoError(t, err)
		assert.Nil(t, runs)
	})
}

func TestNewBacktestService_RequiresCollaborators(t *testing.T) {
	_, err := NewBacktestService(nil, &mockProvider{}, nil)
	assert.Error(t, err)

	_, err = NewBacktestService(&mockLogger{}, nil, nil)
	assert.Error(t, err)
}
