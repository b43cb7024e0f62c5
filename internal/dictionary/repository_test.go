package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBCache_Get(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta("SELECT * FROM dictionary_entries WHERE word = ? AND source_type = ?")

	tests := []struct {
		name      string
		word      string
		setupMock func(mock sqlmock.Sqlmock)
		want      []byte
		wantErr   error
	}{
		{
			name: "found",
			word: "Hello",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"word", "source_type", "response", "created_at", "updated_at"}).
					AddRow("hello", "rapidapi", json.RawMessage(`{"word":"hello"}`), now, now)
				mock.ExpectQuery(query).WithArgs("hello", SourceTypeRapidAPI).WillReturnRows(rows)
			},
			want: []byte(`{"word":"hello"}`),
		},
		{
			name: "not found",
			word: "nonexistent",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(query).WithArgs("nonexistent", SourceTypeRapidAPI).
					WillReturnRows(sqlmock.NewRows([]string{"word", "source_type", "response", "created_at", "updated_at"}))
			},
			wantErr: ErrCacheMiss,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setupMock(mock)

			got, err := NewDBCache(sqlx.NewDb(db, "mysql")).Get(context.Background(), tt.word)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBCache_Put(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   bool
	}{
		{
			name: "upserts the response",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO dictionary_entries").
					WithArgs("hello", SourceTypeRapidAPI, []byte(`{"word":"hello"}`)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO dictionary_entries").
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setupMock(mock)

			err = NewDBCache(sqlx.NewDb(db, "mysql")).Put(context.Background(), "hello", []byte(`{"word":"hello"}`))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBCache_Words(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT word FROM dictionary_entries WHERE source_type = ? ORDER BY word")).
		WithArgs(SourceTypeRapidAPI).
		WillReturnRows(sqlmock.NewRows([]string{"word"}).AddRow("hello").AddRow("look up"))

	words, err := NewDBCache(sqlx.NewDb(db, "mysql")).Words(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "look up"}, words)
	assert.NoError(t, mock.ExpectationsWereMet())
}
