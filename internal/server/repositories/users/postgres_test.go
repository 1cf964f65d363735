package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/licitacrm/licitacrm/internal/common"
	"github.com/licitacrm/licitacrm/internal/server/models"
)

const (
	byEmailQuery = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*role,\s*avatar_url\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	byIDQuery    = `(?s)^SELECT\s+id,\s*email,\s*password_hash,\s*role,\s*avatar_url\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
)

var userColumns = []string{"id", "email", "password_hash", "role", "avatar_url"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(userColumns).
		AddRow("u-1", "a@b.com", "$2a$10$hash", "admin", "https://cdn/avatar.png")
	mock.ExpectQuery(byEmailQuery).
		WithArgs("a@b.com").
		WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != "u-1" || got.Email != "a@b.com" || got.PasswordHash != "$2a$10$hash" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if got.Role != models.RoleAdmin {
		t.Fatalf("unexpected role: %q", got.Role)
	}
	if got.AvatarURL == nil || *got.AvatarURL != "https://cdn/avatar.png" {
		t.Fatalf("unexpected avatar: %v", got.AvatarURL)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByEmail_NullAvatar(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(userColumns).AddRow("u-1", "a@b.com", "h", "user", nil)
	mock.ExpectQuery(byEmailQuery).WithArgs("a@b.com").WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.AvatarURL != nil {
		t.Fatalf("expected nil avatar, got %q", *got.AvatarURL)
	}
	if got.Role != models.RoleUser {
		t.Fatalf("unexpected role: %q", got.Role)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byEmailQuery).
		WithArgs("ghost@b.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@b.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByEmail_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byEmailQuery).
		WithArgs("a@b.com").
		WillReturnError(errors.New("db err"))

	_, err := repo.GetByEmail(context.Background(), "a@b.com")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(userColumns).AddRow("u-2", "c@d.com", "h", "user", nil)
	mock.ExpectQuery(byIDQuery).WithArgs("u-2").WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "u-2")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ID != "u-2" || got.Email != "c@d.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byIDQuery).WithArgs("gone").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "gone")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byIDQuery).WithArgs("u-2").WillReturnError(errors.New("conn reset"))

	_, err := repo.GetByID(context.Background(), "u-2")
	if err == nil || !regexp.MustCompile(`db error: .*conn reset`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
