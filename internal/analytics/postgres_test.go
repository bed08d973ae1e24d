package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertArgs(id string, turn int, tag string) []any {
	args := make([]any, 29)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	args[1] = id
	args[2] = turn
	args[4] = tag
	return args
}

func TestPostgresSinkAppend(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	sink := newPostgresSinkWithExec(mock)
	rec := sampleRecord("conv-7", 3, time.Now())

	mock.ExpectExec("INSERT INTO scammer_analytics").
		WithArgs(insertArgs("conv-7", 3, "hold_music")...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, sink.Append(context.Background(), rec))

	mock.ExpectExec("INSERT INTO scammer_analytics").
		WithArgs(insertArgs("conv-7", 3, "hold_music")...).
		WillReturnError(errors.New("connection reset"))
	err = sink.Append(context.Background(), rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analytics: insert record")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSinkRequiresPool(t *testing.T) {
	assert.Panics(t, func() { NewPostgresSink(nil) })
	assert.Panics(t, func() { newPostgresSinkWithExec(nil) })
}
