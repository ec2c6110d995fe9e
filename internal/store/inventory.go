package store

import (
	"context"

	"dealership/internal/models"

	"gorm.io/gorm"
)

// Inventory reads and manages classifications and vehicles.
type Inventory struct{ db *gorm.DB }

func NewInventory(db *gorm.DB) *Inventory { return &Inventory{db: db} }

const vehicleColumns = `i.inv_id, i.inv_make, i.inv_model, i.inv_year, i.inv_description, i.inv_image,
	i.inv_thumbnail, i.inv_price, i.inv_miles, i.inv_color, i.classification_id, c.classification_name`

func (s *Inventory) Classifications(ctx context.Context) ([]models.Classification, error) {
	const q = `SELECT classification_id, classification_name FROM classification ORDER BY classification_name`
	out := []models.Classification{}
	if err := s.db.WithContext(ctx).Raw(q).Scan(&out).Error; err != nil {
		return nil, dbErr("list classifications", err)
	}
	return out, nil
}

func (s *Inventory) ClassificationByID(ctx context.Context, id int) (*models.Classification, error) {
	const q = `SELECT classification_id, classification_name FROM classification WHERE classification_id = ?`
	var c models.Classification
	res := s.db.WithContext(ctx).Raw(q, id).Scan(&c)
	if res.Error != nil {
		return nil, dbErr("classification by id", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, dbErr("classification by id", gorm.ErrRecordNotFound)
	}
	return &c, nil
}

func (s *Inventory) AddClassification(ctx context.Context, name string) (*models.Classification, error) {
	const q = `INSERT INTO classification (classification_name) VALUES (?) RETURNING classification_id`
	c := models.Classification{Name: name}
	if err := s.db.WithContext(ctx).Raw(q, name).Scan(&c.ID).Error; err != nil {
		return nil, dbErr("add classification", err)
	}
	return &c, nil
}

func (s *Inventory) ByClassification(ctx context.Context, classificationID int) ([]models.Vehicle, error) {
	q := `SELECT ` + vehicleColumns + `
		FROM inventory AS i
		JOIN classification AS c ON i.classification_id = c.classification_id
		WHERE i.classification_id = ?
		ORDER BY i.inv_make, i.inv_model`
	out := []models.Vehicle{}
	if err := s.db.WithContext(ctx).Raw(q, classificationID).Scan(&out).Error; err != nil {
		return nil, dbErr("inventory by classification", err)
	}
	return out, nil
}

func (s *Inventory) ByID(ctx context.Context, invID int) (*models.Vehicle, error) {
	q := `SELECT ` + vehicleColumns + `
		FROM inventory AS i
		JOIN classification AS c ON i.classification_id = c.classification_id
		WHERE i.inv_id = ?`
	var v models.Vehicle
	res := s.db.WithContext(ctx).Raw(q, invID).Scan(&v)
	if res.Error != nil {
		return nil, dbErr("vehicle by id", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, dbErr("vehicle by id", gorm.ErrRecordNotFound)
	}
	return &v, nil
}

func (s *Inventory) Add(ctx context.Context, v *models.Vehicle) (int, error) {
	const q = `INSERT INTO inventory (inv_make, inv_model, inv_year, inv_description, inv_image, inv_thumbnail,
		inv_price, inv_miles, inv_color, classification_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING inv_id`
	var id int
	err := s.db.WithContext(ctx).Raw(q, v.Make, v.Model, v.Year, v.Description, v.Image, v.Thumbnail,
		v.Price, v.Miles, v.Color, v.ClassificationID).Scan(&id).Error
	if err != nil {
		return 0, dbErr("add vehicle", err)
	}
	v.ID = id
	return id, nil
}

func (s *Inventory) Update(ctx context.Context, v *models.Vehicle) error {
	const q = `UPDATE inventory SET inv_make = ?, inv_model = ?, inv_year = ?, inv_description = ?, inv_image = ?,
		inv_thumbnail = ?, inv_price = ?, inv_miles = ?, inv_color = ?, classification_id = ?
		WHERE inv_id = ?`
	res := s.db.WithContext(ctx).Exec(q, v.Make, v.Model, v.Year, v.Description, v.Image, v.Thumbnail,
		v.Price, v.Miles, v.Color, v.ClassificationID, v.ID)
	if res.Error != nil {
		return dbErr("update vehicle", res.Error)
	}
	if res.RowsAffected == 0 {
		return dbErr("update vehicle", gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *Inventory) Delete(ctx context.Context, invID int) error {
	const q = `DELETE FROM inventory WHERE inv_id = ?`
	res := s.db.WithContext(ctx).Exec(q, invID)
	if res.Error != nil {
		return dbErr("delete vehicle", res.Error)
	}
	if res.RowsAffected == 0 {
		return dbErr("delete vehicle", gorm.ErrRecordNotFound)
	}
	return nil
}
