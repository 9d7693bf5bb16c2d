package ludb

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lupennat/ludb-sub002/internal/validation"
)

func TestTransactionCommit(t *testing.T) {
	db, mock := newMockDB(t, "mysql")
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("update `accounts` set `balance` = ? where `id` = ?").
		WithArgs(10, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	n, err := tx.Table("accounts").Where("id", "=", 1).UpdateContext(ctx, map[string]any{"balance": 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, tx.Commit())
	assert.True(t, tx.IsClosed())
	assert.ErrorIs(t, tx.Commit(), ErrTransactionClosed)
	assert.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionClosedRejectsStatements(t *testing.T) {
	db, mock := newMockDB(t, "mysql")
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
	require.NoError(t, tx.Rollback())

	_, err = tx.Table("users").DeleteContext(ctx)
	assert.ErrorIs(t, err, ErrTransactionClosed)

	assert.ErrorIs(t, tx.Savepoint(ctx, "sp1"), ErrTransactionClosed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionSavepoints(t *testing.T) {
	db, mock := newMockDB(t, "pgx")
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT trans2").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT trans2").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("RELEASE SAVEPOINT trans2").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, tx.Savepoint(ctx, "trans2"))
	require.NoError(t, tx.RollbackTo(ctx, "trans2"))
	require.NoError(t, tx.ReleaseSavepoint(ctx, "trans2"))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionSQLServerSavepoints(t *testing.T) {
	db, mock := newMockDB(t, "sqlserver")
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("SAVE TRANSACTION trans2").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ROLLBACK TRANSACTION trans2").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, tx.Savepoint(ctx, "trans2"))
	require.NoError(t, tx.RollbackTo(ctx, "trans2"))
	require.NoError(t, tx.ReleaseSavepoint(ctx, "trans2"))
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionSavepointNames(t *testing.T) {
	db, mock := newMockDB(t, "mysql")
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	assert.ErrorIs(t, tx.Savepoint(ctx, ""), ErrEmptySavepoint)

	var idErr *validation.IdentifierError
	assert.ErrorAs(t, tx.Savepoint(ctx, "sp; drop table users"), &idErr)
}
