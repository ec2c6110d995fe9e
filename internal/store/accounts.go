package store

import (
	"context"

	"dealership/internal/models"

	"gorm.io/gorm"
)

type Accounts struct{ db *gorm.DB }

func NewAccounts(db *gorm.DB) *Accounts { return &Accounts{db: db} }

const accountColumns = `account_id, account_firstname, account_lastname, account_email, account_password, account_type`

// Create inserts the account and returns its id. A taken email yields ErrDuplicate.
func (s *Accounts) Create(ctx context.Context, a *models.Account) (int, error) {
	const q = `INSERT INTO account (account_firstname, account_lastname, account_email, account_password, account_type)
		VALUES (?, ?, ?, ?, ?) RETURNING account_id`
	var id int
	res := s.db.WithContext(ctx).Raw(q, a.Firstname, a.Lastname, a.Email, a.PasswordHash, string(a.Role)).Scan(&id)
	if res.Error != nil {
		return 0, dbErr("create account", res.Error)
	}
	a.ID = id
	return id, nil
}

func (s *Accounts) EmailExists(ctx context.Context, email string) (bool, error) {
	const q = `SELECT COUNT(*) FROM account WHERE account_email = ?`
	var n int64
	if err := s.db.WithContext(ctx).Raw(q, email).Scan(&n).Error; err != nil {
		return false, dbErr("email exists", err)
	}
	return n > 0, nil
}

func (s *Accounts) get(ctx context.Context, op, where string, arg any) (*models.Account, error) {
	var a models.Account
	res := s.db.WithContext(ctx).Raw(`SELECT `+accountColumns+` FROM account WHERE `+where, arg).Scan(&a)
	if res.Error != nil {
		return nil, dbErr(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, dbErr(op, gorm.ErrRecordNotFound)
	}
	return &a, nil
}

func (s *Accounts) ByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.get(ctx, "account by email", "account_email = ?", email)
}

func (s *Accounts) ByID(ctx context.Context, id int) (*models.Account, error) {
	return s.get(ctx, "account by id", "account_id = ?", id)
}

func (s *Accounts) UpdateProfile(ctx context.Context, id int, firstname, lastname, email string) error {
	const q = `UPDATE account SET account_firstname = ?, account_lastname = ?, account_email = ? WHERE account_id = ?`
	res := s.db.WithContext(ctx).Exec(q, firstname, lastname, email, id)
	if res.Error != nil {
		return dbErr("update account", res.Error)
	}
	if res.RowsAffected == 0 {
		return dbErr("update account", gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *Accounts) UpdatePassword(ctx context.Context, id int, hash string) error {
	const q = `UPDATE account SET account_password = ? WHERE account_id = ?`
	res := s.db.WithContext(ctx).Exec(q, hash, id)
	if res.Error != nil {
		return dbErr("update password", res.Error)
	}
	if res.RowsAffected == 0 {
		return dbErr("update password", gorm.ErrRecordNotFound)
	}
	return nil
}

// SetRole is used by the startup admin seed. No HTTP route changes roles.
func (s *Accounts) SetRole(ctx context.Context, id int, role models.Role) error {
	const q = `UPDATE account SET account_type = ? WHERE account_id = ?`
	res := s.db.WithContext(ctx).Exec(q, string(role), id)
	if res.Error != nil {
		return dbErr("set role", res.Error)
	}
	if res.RowsAffected == 0 {
		return dbErr("set role", gorm.ErrRecordNotFound)
	}
	return nil
}
