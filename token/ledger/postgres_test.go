package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreateInsertsRecord(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	expires := time.Now().Add(7 * 24 * time.Hour)
	mock.ExpectExec(`(?s)INSERT\s+INTO\s+refresh_tokens`).
		WithArgs("jti-1", "user-1", expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &Record{JTI: "jti-1", UserID: "user-1", ExpiresAt: expires})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)SELECT\s+.*FROM\s+refresh_tokens\s+WHERE\s+jti`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"jti", "user_id", "expires_at", "created_at"}))

	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	expires := time.Now().Add(time.Hour)
	created := time.Now()
	rows := sqlmock.NewRows([]string{"jti", "user_id", "expires_at", "created_at"}).
		AddRow("jti-1", "user-1", expires, created)
	mock.ExpectQuery(`(?s)SELECT\s+.*FROM\s+refresh_tokens\s+WHERE\s+jti`).
		WithArgs("jti-1").
		WillReturnRows(rows)

	record, err := repo.Get(context.Background(), "jti-1")
	require.NoError(t, err)
	require.Equal(t, "user-1", record.UserID)
	require.True(t, record.ExpiresAt.Equal(expires))
}

func TestDeleteByJTIToleratesZeroMatches(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`(?s)DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+jti`).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteByJTI(context.Background(), "gone"))
}

func TestDeleteExpiredReportsCount(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	cutoff := time.Now()
	mock.ExpectExec(`(?s)DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+expires_at`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpired(context.Background(), cutoff)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
}
