package userrepo

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/mae-finance/wallet/internal/domain"
)

func TestCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepoPGS(db)

	createdAt := time.Now().Truncate(time.Second).UTC()

	arg := domain.CreateUserParams{
		Username:       "alice",
		HashedPassword: "hashed",
		FullName:       "Alice Smith",
		Email:          "alice@example.com",
	}

	rows := sqlmock.NewRows([]string{"username", "hashed_password", "full_name", "email", "created_at"}).
		AddRow(arg.Username, arg.HashedPassword, arg.FullName, arg.Email, createdAt)

	mock.ExpectQuery(regexp.QuoteMeta(createQuery)).
		WithArgs(arg.Username, arg.HashedPassword, arg.FullName, arg.Email).
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), arg)
	require.NoError(t, err)

	want := domain.User{
		Username:       arg.Username,
		HashedPassword: arg.HashedPassword,
		FullName:       arg.FullName,
		Email:          arg.Email,
		CreatedAt:      createdAt,
	}

	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(want, got))
	}

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepoPGS(db)

	mock.ExpectQuery(regexp.QuoteMeta(createQuery)).
		WillReturnError(&pq.Error{Constraint: "users_pkey"})

	_, err = repo.Create(context.Background(), domain.CreateUserParams{Username: "alice"})
	require.ErrorIs(t, err, domain.ErrUsernameAlreadyExists)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepoPGS(db)

	mock.ExpectQuery(regexp.QuoteMeta(createQuery)).
		WillReturnError(&pq.Error{Constraint: "users_email_key"})

	_, err = repo.Create(context.Background(), domain.CreateUserParams{Email: "alice@example.com"})
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepoPGS(db)

	mock.ExpectQuery(regexp.QuoteMeta(getQuery)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFullName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepoPGS(db)

	createdAt := time.Now().Truncate(time.Second).UTC()

	rows := sqlmock.NewRows([]string{"username", "hashed_password", "full_name", "email", "created_at"}).
		AddRow("alice", "hashed", "Alice Jones", "alice@example.com", createdAt)

	mock.ExpectQuery(regexp.QuoteMeta(updateFullNameQuery)).
		WithArgs("alice", "Alice Jones").
		WillReturnRows(rows)

	got, err := repo.UpdateFullName(context.Background(), "alice", "Alice Jones")
	require.NoError(t, err)
	require.Equal(t, "Alice Jones", got.FullName)

	require.NoError(t, mock.ExpectationsWereMet())
}
