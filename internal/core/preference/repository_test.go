package preference

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baseplate/storeops/internal/core/search"
	"github.com/baseplate/storeops/internal/storage/postgres"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(&postgres.Client{DB: db}), mock
}

func TestPreviousSearchRoundTrip(t *testing.T) {
	repo, mock := newMock(t)
	user := uuid.New()
	store := repo.ForUser(user)
	ps := search.PreviousSearch{
		Filters: []search.LineState{{Column: "id", Comparator: "equalTo", Value: 4.0}, {}},
		Sort:    search.Sort{Field: "id", Direction: search.Asc},
		Page:    search.Page{Number: 1, Size: 25},
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO previous_searches (user_id, screen, search)")).
		WithArgs(user.String(), "receipts", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.SavePreviousSearch(context.Background(), "receipts", ps))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT search FROM previous_searches")).
		WithArgs(user.String(), "receipts").
		WillReturnRows(sqlmock.NewRows([]string{"search"}).AddRow(
			[]byte(`{"filters":[{"column":"id","comparator":"equalTo","value":4},{}],"sort":{"field":"id","direction":"ASC"},"page":{"number":1,"size":25}}`)))
	got, err := store.PreviousSearch(context.Background(), "receipts")
	require.NoError(t, err)
	assert.Equal(t, &ps, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreviousSearchMissing(t *testing.T) {
	repo, mock := newMock(t)
	user := uuid.New()

	mock.ExpectQuery("SELECT search").WillReturnRows(sqlmock.NewRows([]string{"search"}))
	got, err := repo.PreviousSearch(context.Background(), user, "receipts")
	require.NoError(t, err)
	assert.Nil(t, got)

	mock.ExpectQuery("SELECT columns").WillReturnRows(sqlmock.NewRows([]string{"columns"}).AddRow(nil))
	cols, err := repo.PreviousColumns(context.Background(), user, "receipts")
	require.NoError(t, err)
	assert.Nil(t, cols)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreviousColumns(t *testing.T) {
	repo, mock := newMock(t)
	store := repo.ForUser(uuid.New())

	mock.ExpectExec("INSERT INTO previous_searches").
		WithArgs(sqlmock.AnyArg(), "services", []byte(`["store","price"]`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.SavePreviousColumns(context.Background(), "services", []string{"store", "price"}))

	mock.ExpectQuery("SELECT columns").
		WillReturnRows(sqlmock.NewRows([]string{"columns"}).AddRow([]byte(`["store","price"]`)))
	cols, err := store.PreviousColumns(context.Background(), "services")
	require.NoError(t, err)
	assert.Equal(t, []string{"store", "price"}, cols)
	assert.NoError(t, mock.ExpectationsWereMet())
}
