package store

import (
	"context"

	"dealership/internal/models"

	"gorm.io/gorm"
)

type Favorites struct{ db *gorm.DB }

func NewFavorites(db *gorm.DB) *Favorites { return &Favorites{db: db} }

// Add reports whether a row was inserted. An existing pair is left as is,
// so two concurrent adds never produce two rows.
func (s *Favorites) Add(ctx context.Context, accountID, invID int) (bool, error) {
	const q = `INSERT INTO favorites (account_id, inv_id) VALUES (?, ?)
		ON CONFLICT (account_id, inv_id) DO NOTHING`
	res := s.db.WithContext(ctx).Exec(q, accountID, invID)
	if res.Error != nil {
		return false, dbErr("add favorite", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Remove reports whether a row was deleted; a missing pair is not an error.
func (s *Favorites) Remove(ctx context.Context, accountID, invID int) (bool, error) {
	const q = `DELETE FROM favorites WHERE account_id = ? AND inv_id = ?`
	res := s.db.WithContext(ctx).Exec(q, accountID, invID)
	if res.Error != nil {
		return false, dbErr("remove favorite", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Favorites) Exists(ctx context.Context, accountID, invID int) (bool, error) {
	const q = `SELECT COUNT(*) FROM favorites WHERE account_id = ? AND inv_id = ?`
	var n int64
	if err := s.db.WithContext(ctx).Raw(q, accountID, invID).Scan(&n).Error; err != nil {
		return false, dbErr("favorite exists", err)
	}
	return n > 0, nil
}

// List returns the account's favorites, most recently added first.
func (s *Favorites) List(ctx context.Context, accountID int) ([]models.FavoriteVehicle, error) {
	const q = `SELECT f.fav_id, f.created_at, i.inv_id, i.inv_make, i.inv_model, i.inv_year, i.inv_thumbnail, i.inv_price
		FROM favorites AS f
		JOIN inventory AS i ON f.inv_id = i.inv_id
		WHERE f.account_id = ?
		ORDER BY f.created_at DESC, f.fav_id DESC`
	out := []models.FavoriteVehicle{}
	if err := s.db.WithContext(ctx).Raw(q, accountID).Scan(&out).Error; err != nil {
		return nil, dbErr("list favorites", err)
	}
	return out, nil
}
