package metadata

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func stateDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)
	return db
}

func TestRepository_StoresCredential(t *testing.T) {
	r := NewSQLiteRepository(stateDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", []byte("eyJ.first")))
	require.NoError(t, r.Set(ctx, "token", []byte("eyJ.second")))

	v, err := r.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("eyJ.second"), v, "set replaces the previous value")
}

func TestRepository_MissingKey(t *testing.T) {
	r := NewSQLiteRepository(stateDB(t))

	v, err := r.Get(context.Background(), "user")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestRepository_DeleteSeveralKeys(t *testing.T) {
	r := NewSQLiteRepository(stateDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", []byte("t")))
	require.NoError(t, r.Set(ctx, "user", []byte(`{"id":42}`)))
	require.NoError(t, r.Set(ctx, "other", []byte("keep")))

	require.NoError(t, r.Delete(ctx, "token", "user", "never-set"))
	require.NoError(t, r.Delete(ctx))

	for _, k := range []string{"token", "user"} {
		v, err := r.Get(ctx, k)
		require.NoError(t, err)
		assert.Nil(t, v, k)
	}
	v, err := r.Get(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, []byte("keep"), v)
}

func withMock(t *testing.T) (*SQLiteRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db), mock
}

func TestRepository_DriverErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("get", func(t *testing.T) {
		r, mock := withMock(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectValueSQL)).
			WithArgs("token").
			WillReturnError(errors.New("disk I/O error"))

		v, err := r.Get(ctx, "token")
		assert.Nil(t, v)
		assert.ErrorContains(t, err, `metadata get "token": disk I/O error`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("set", func(t *testing.T) {
		r, mock := withMock(t)
		mock.ExpectExec("INSERT INTO metadata").
			WithArgs("token", []byte("v")).
			WillReturnError(errors.New("readonly database"))

		assert.ErrorContains(t, r.Set(ctx, "token", []byte("v")), `metadata set "token"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete", func(t *testing.T) {
		r, mock := withMock(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM metadata WHERE key IN (?, ?)")).
			WithArgs("token", "user").
			WillReturnError(errors.New("locked"))

		assert.ErrorContains(t, r.Delete(ctx, "token", "user"), "metadata delete token, user: locked")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
