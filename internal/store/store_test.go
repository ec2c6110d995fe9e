package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"dealership/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = sqlDB.Close()
	})
	return db, mock
}

var accountCols = []string{"account_id", "account_firstname", "account_lastname", "account_email", "account_password", "account_type"}

func TestAccounts_Create(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`INSERT INTO account .* RETURNING account_id`).
		WithArgs("Sam", "Lee", "sam@example.com", "hash", "Client").
		WillReturnRows(sqlmock.NewRows([]string{"account_id"}).AddRow(42))

	a := &models.Account{Firstname: "Sam", Lastname: "Lee", Email: "sam@example.com", PasswordHash: "hash", Role: models.RoleClient}
	id, err := NewAccounts(db).Create(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, 42, id)
	assert.Equal(t, 42, a.ID)
}

func TestAccounts_CreateDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`INSERT INTO account`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	a := &models.Account{Firstname: "Sam", Lastname: "Lee", Email: "sam@example.com", PasswordHash: "hash", Role: models.RoleClient}
	_, err := NewAccounts(db).Create(context.Background(), a)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestAccounts_CreateDBError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`INSERT INTO account`).WillReturnError(errors.New("db down"))

	_, err := NewAccounts(db).Create(context.Background(), &models.Account{Role: models.RoleClient})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicate)
	assert.Contains(t, err.Error(), "db down")
}

func TestAccounts_ByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT account_id, .* FROM account WHERE account_email`).
		WithArgs("sam@example.com").
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow(7, "Sam", "Lee", "sam@example.com", "hash", "Employee"))

	a, err := NewAccounts(db).ByEmail(context.Background(), "sam@example.com")
	require.NoError(t, err)
	assert.Equal(t, 7, a.ID)
	assert.Equal(t, "hash", a.PasswordHash)
	assert.Equal(t, models.RoleEmployee, a.Role)
}

func TestAccounts_ByEmailNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`FROM account WHERE account_email`).WillReturnRows(sqlmock.NewRows(accountCols))

	_, err := NewAccounts(db).ByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccounts_ByID(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`FROM account WHERE account_id`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow(7, "Sam", "Lee", "sam@example.com", "hash", "Client"))

	a, err := NewAccounts(db).ByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Sam", a.Firstname)
}

func TestAccounts_EmailExists(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM account`).
		WithArgs("sam@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := NewAccounts(db).EmailExists(context.Background(), "sam@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAccounts_UpdateProfile(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`UPDATE account SET account_firstname`).
		WithArgs("Samuel", "Lee", "samuel@example.com", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE account SET account_firstname`).
		WithArgs("Samuel", "Lee", "samuel@example.com", 8).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewAccounts(db)
	require.NoError(t, s.UpdateProfile(context.Background(), 7, "Samuel", "Lee", "samuel@example.com"))
	assert.ErrorIs(t, s.UpdateProfile(context.Background(), 8, "Samuel", "Lee", "samuel@example.com"), ErrNotFound)
}

func TestAccounts_UpdatePassword(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`UPDATE account SET account_password`).
		WithArgs("newhash", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewAccounts(db).UpdatePassword(context.Background(), 7, "newhash"))
}

func TestAccounts_SetRole(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`UPDATE account SET account_type`).
		WithArgs("Admin", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewAccounts(db).SetRole(context.Background(), 7, models.RoleAdmin))
}

func TestFavorites_AddIgnoresConflict(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO favorites .* ON CONFLICT \(account_id, inv_id\) DO NOTHING`).
		WithArgs(7, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO favorites .* ON CONFLICT`).
		WithArgs(7, 3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewFavorites(db)
	inserted, err := s.Add(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = s.Add(context.Background(), 7, 3)
	require.NoError(t, err, "a duplicate pair is a no-op")
	assert.False(t, inserted)
}

func TestFavorites_RemoveAbsent(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`DELETE FROM favorites WHERE account_id`).
		WithArgs(7, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := NewFavorites(db).Remove(context.Background(), 7, 99)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFavorites_Exists(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM favorites`).
		WithArgs(7, 3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err := NewFavorites(db).Exists(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFavorites_ListNewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	cols := []string{"fav_id", "created_at", "inv_id", "inv_make", "inv_model", "inv_year", "inv_thumbnail", "inv_price"}
	mock.ExpectQuery(`FROM favorites AS f\s+JOIN inventory AS i .* ORDER BY f.created_at DESC`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(3, t0.Add(2*time.Minute), 30, "Jeep", "Wrangler", 2019, "/tn/jeep.png", 28045.0).
			AddRow(2, t0.Add(time.Minute), 20, "Ford", "Model T", 1921, "/tn/ford.png", 30000.0).
			AddRow(1, t0, 10, "DMC", "Delorean", 1982, "/tn/dmc.png", 65000.0))

	got, err := NewFavorites(db).List(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{30, 20, 10}, []int{got[0].InvID, got[1].InvID, got[2].InvID})
	assert.Equal(t, "Wrangler", got[0].Model)
	assert.Equal(t, 28045.0, got[0].Price)
}

func TestFavorites_ListError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`FROM favorites`).WillReturnError(sql.ErrConnDone)

	_, err := NewFavorites(db).List(context.Background(), 7)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

var vehicleCols = []string{"inv_id", "inv_make", "inv_model", "inv_year", "inv_description", "inv_image",
	"inv_thumbnail", "inv_price", "inv_miles", "inv_color", "classification_id", "classification_name"}

func TestInventory_ByClassification(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`FROM inventory AS i\s+JOIN classification AS c .* WHERE i.classification_id`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(vehicleCols).
			AddRow(5, "Jeep", "Wrangler", 2019, "Rugged", "/img/jeep.png", "/tn/jeep.png", 28045.0, 41205, "Yellow", 2, "SUV"))

	got, err := NewInventory(db).ByClassification(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "SUV", got[0].ClassificationName)
	assert.Equal(t, 41205, got[0].Miles)
}

func TestInventory_ByClassificationEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`FROM inventory`).WithArgs(9).WillReturnRows(sqlmock.NewRows(vehicleCols))

	got, err := NewInventory(db).ByClassification(context.Background(), 9)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInventory_ByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`WHERE i.inv_id`).WithArgs(404).WillReturnRows(sqlmock.NewRows(vehicleCols))

	_, err := NewInventory(db).ByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInventory_AddClassificationDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`INSERT INTO classification`).
		WithArgs("SUV").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := NewInventory(db).AddClassification(context.Background(), "SUV")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestInventory_AddUpdateDelete(t *testing.T) {
	db, mock := newMockDB(t)
	v := &models.Vehicle{Make: "Jeep", Model: "Wrangler", Year: 2019, Description: "Rugged and fun",
		Image: "/img/jeep.png", Thumbnail: "/tn/jeep.png", Price: 28045, Miles: 41205, Color: "Yellow", ClassificationID: 2}

	mock.ExpectQuery(`INSERT INTO inventory .* RETURNING inv_id`).
		WithArgs("Jeep", "Wrangler", 2019, "Rugged and fun", "/img/jeep.png", "/tn/jeep.png", 28045.0, 41205, "Yellow", 2).
		WillReturnRows(sqlmock.NewRows([]string{"inv_id"}).AddRow(11))
	mock.ExpectExec(`UPDATE inventory SET inv_make`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM inventory WHERE inv_id`).
		WithArgs(11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM inventory WHERE inv_id`).
		WithArgs(11).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewInventory(db)
	id, err := s.Add(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, 11, id)

	v.Color = "Red"
	require.NoError(t, s.Update(context.Background(), v))
	require.NoError(t, s.Delete(context.Background(), 11))
	assert.ErrorIs(t, s.Delete(context.Background(), 11), ErrNotFound)
}

func TestMigrate_UsesEmbeddedMigrations(t *testing.T) {
	db, _ := newMockDB(t)
	old := gooseUp
	defer func() { gooseUp = old }()

	var dir string
	gooseUp = func(ctx context.Context, _ *sql.DB, d string) error {
		dir = d
		return nil
	}
	require.NoError(t, Migrate(context.Background(), db))
	assert.Equal(t, ".", dir)

	gooseUp = func(context.Context, *sql.DB, string) error { return errors.New("boom") }
	assert.ErrorContains(t, Migrate(context.Background(), db), "boom")
}
