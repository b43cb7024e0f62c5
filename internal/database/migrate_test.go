package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/englearn/schemas"
)

func TestMigrate(t *testing.T) {
	tests := []struct {
		name       string
		migrations fstest.MapFS
		setupMock  func(mock sqlmock.Sqlmock)
		wantErr    bool
	}{
		{
			name: "runs files in name order",
			migrations: fstest.MapFS{
				"migrations/002_second.sql": {Data: []byte("CREATE TABLE b (id INT)")},
				"migrations/001_first.sql":  {Data: []byte("CREATE TABLE a (id INT)")},
				"migrations/README.md":      {Data: []byte("ignored")},
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a (id INT)")).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE b (id INT)")).WillReturnResult(sqlmock.NewResult(0, 0))
			},
		},
		{
			name: "stops at the first failure",
			migrations: fstest.MapFS{
				"migrations/001_first.sql":  {Data: []byte("CREATE TABLE a (id INT)")},
				"migrations/002_second.sql": {Data: []byte("CREATE TABLE b (id INT)")},
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a (id INT)")).WillReturnError(errors.New("syntax error"))
			},
			wantErr: true,
		},
		{
			name:       "no migrations",
			migrations: fstest.MapFS{},
			setupMock:  func(mock sqlmock.Sqlmock) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setupMock(mock)

			err = Migrate(context.Background(), sqlx.NewDb(db, "mysql"), tt.migrations)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMigrate_embeddedSchemas(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS user_progress").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS dictionary_entries").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(context.Background(), sqlx.NewDb(db, "mysql"), schemas.Migrations))
	assert.NoError(t, mock.ExpectationsWereMet())
}
