package jobs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/growthplan-backend/internal/application/service"
	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

type mockRedistributor struct {
	mock.Mock
}

func (m *mockRedistributor) RedistributeAll(ctx context.Context, period planning.Period, asOfDay int) (*service.BatchResult, error) {
	args := m.Called(ctx, period, asOfDay)
	result, _ := args.Get(0).(*service.BatchResult)
	return result, args.Error(1)
}

func fixedClock(s *Scheduler, t time.Time) {
	s.now = func() time.Time { return t }
}

func TestRunOnce_UsesYesterday(t *testing.T) {
	m := &mockRedistributor{}
	march := planning.Period{Month: "March", Year: 2025}
	m.On("RedistributeAll", mock.Anything, march, 14).
		Return(&service.BatchResult{Period: march, AsOfDay: 14, Succeeded: 3}, nil)

	s, err := NewScheduler(m, nil, "")
	require.NoError(t, err)
	fixedClock(s, time.Date(2025, time.March, 15, 0, 5, 0, 0, time.UTC))

	result, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Succeeded)
	m.AssertExpectations(t)
}

func TestRunOnce_FirstOfMonthPlansWholeMonth(t *testing.T) {
	m := &mockRedistributor{}
	april := planning.Period{Month: "April", Year: 2025}
	m.On("RedistributeAll", mock.Anything, april, 0).
		Return(&service.BatchResult{Period: april}, nil)

	s, err := NewScheduler(m, nil, "")
	require.NoError(t, err)
	fixedClock(s, time.Date(2025, time.April, 1, 0, 5, 0, 0, time.UTC))

	_, err = s.RunOnce(context.Background())
	require.NoError(t, err)
	m.AssertExpectations(t)
}

func TestRunOnce_WrapsError(t *testing.T) {
	m := &mockRedistributor{}
	m.On("RedistributeAll", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("database is locked"))

	s, err := NewScheduler(m, nil, "")
	require.NoError(t, err)

	_, err = s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler(&mockRedistributor{}, nil, "not a cron spec")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a cron spec")
}

func TestScheduler_StartStop(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s, err := NewScheduler(&mockRedistributor{}, logger, "@every 1h")
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.Contains(t, buf.String(), "scheduler started")
}

func TestCronLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	l := cronLogger{logger: slog.New(slog.NewTextHandler(&buf, nil))}

	l.Error(errors.New("boom"), "panic", "job", "redistribute")
	assert.Contains(t, buf.String(), "error=boom")
	assert.Contains(t, buf.String(), "job=redistribute")
}
