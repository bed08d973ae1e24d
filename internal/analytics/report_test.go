package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportStoreSummary(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewReportStore(db)

	mock.ExpectQuery("FROM scammer_analytics\\s+WHERE timestamp IS NOT NULL").
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum", "convs", "days", "avg_u", "avg_f"}).
			AddRow(12, 3780.5, 3, 2, 4.25, 1.5))
	mock.ExpectQuery("GROUP BY strategy").
		WillReturnRows(sqlmock.NewRows([]string{"strategy", "count"}).
			AddRow("hold_music", 5).
			AddRow("confusion", 7))

	sum, err := store.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), sum.TotalTurns)
	assert.InDelta(t, 3780.5, sum.TotalSecondsWasted, 1e-9)
	assert.Equal(t, int64(3), sum.Conversations)
	assert.Equal(t, int64(2), sum.ActiveDays)
	assert.Equal(t, map[string]int64{"hold_music": 5, "confusion": 7}, sum.StrategyBreakdown)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportStoreSummaryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM scammer_analytics").WillReturnError(errors.New("relation does not exist"))

	_, err = NewReportStore(db).Summary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analytics: query summary")
}

func TestReportStoreBreakdownError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("WHERE timestamp IS NOT NULL").
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d", "e", "f"}).AddRow(0, 0, 0, 0, 0, 0))
	mock.ExpectQuery("GROUP BY strategy").WillReturnError(errors.New("timeout"))

	_, err = NewReportStore(db).Summary(context.Background())
	assert.ErrorContains(t, err, "analytics: query breakdown")
}

func TestReportStoreRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	seen := time.Date(2024, 3, 9, 14, 0, 0, 0, time.UTC)
	mock.ExpectQuery("GROUP BY conversation_id").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"conversation_id", "turns", "seconds", "strategy", "last_seen"}).
			AddRow("call:CA1", 4, 960.0, "hold_music", seen).
			AddRow("sms:+15550100", 1, 45.0, "confusion", seen.Add(-time.Hour)))

	recent, err := NewReportStore(db).Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "call:CA1", recent[0].ConversationID)
	assert.Equal(t, int64(4), recent[0].Turns)
	assert.Equal(t, "hold_music", recent[0].LastStrategy)
	assert.True(t, recent[0].LastSeen.Equal(seen))
	require.NoError(t, mock.ExpectationsWereMet())

	none, err := NewReportStore(db).Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestNewReportStoreRequiresDB(t *testing.T) {
	assert.Panics(t, func() { NewReportStore(nil) })
}
