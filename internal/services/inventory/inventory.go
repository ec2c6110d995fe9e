// Package inventory serves the public catalogue and the staff-only
// classification and vehicle management forms.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"dealership/internal/models"
	"dealership/internal/store"
	"dealership/internal/validate"

	"go.uber.org/zap"
)

var (
	ErrNoInventory             = errors.New("no data returned")
	ErrDuplicateClassification = errors.New("classification already exists")
)

type Store interface {
	Classifications(ctx context.Context) ([]models.Classification, error)
	ClassificationByID(ctx context.Context, id int) (*models.Classification, error)
	AddClassification(ctx context.Context, name string) (*models.Classification, error)
	ByClassification(ctx context.Context, classificationID int) ([]models.Vehicle, error)
	ByID(ctx context.Context, invID int) (*models.Vehicle, error)
	Add(ctx context.Context, v *models.Vehicle) (int, error)
	Update(ctx context.Context, v *models.Vehicle) error
	Delete(ctx context.Context, invID int) error
}

type Service struct {
	store Store
	lg    *zap.SugaredLogger
}

func NewService(st Store, lg *zap.SugaredLogger) *Service {
	return &Service{store: st, lg: lg}
}

// parseID maps anything that is not a positive integer onto ErrNotFound, so
// a mangled URL renders the same page as a missing row.
func parseID(what, raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s %q: %w", what, raw, store.ErrNotFound)
	}
	return id, nil
}

func (s *Service) Classifications(ctx context.Context) ([]models.Classification, error) {
	return s.store.Classifications(ctx)
}

type Listing struct {
	Classification models.Classification
	Vehicles       []models.Vehicle
}

func (l Listing) Title() string { return l.Classification.Name + " vehicles" }

func (s *Service) ByClassification(ctx context.Context, rawID string) (Listing, error) {
	id, err := parseID("classification", rawID)
	if err != nil {
		return Listing{}, err
	}
	c, err := s.store.ClassificationByID(ctx, id)
	if err != nil {
		return Listing{}, err
	}
	vs, err := s.store.ByClassification(ctx, id)
	if err != nil {
		return Listing{}, err
	}
	return Listing{Classification: *c, Vehicles: vs}, nil
}

func (s *Service) Detail(ctx context.Context, rawInvID string) (*models.Vehicle, error) {
	id, err := parseID("vehicle", rawInvID)
	if err != nil {
		return nil, err
	}
	return s.store.ByID(ctx, id)
}

// JSON lists a classification's vehicles for the management page script.
// An empty result is an error.
func (s *Service) JSON(ctx context.Context, rawID string) ([]models.Vehicle, error) {
	id, err := strconv.Atoi(strings.TrimSpace(rawID))
	if err != nil {
		return nil, fmt.Errorf("inventory json %q: %w", rawID, ErrNoInventory)
	}
	vs, err := s.store.ByClassification(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(vs) == 0 {
		return nil, fmt.Errorf("inventory json %d: %w", id, ErrNoInventory)
	}
	return vs, nil
}

type ClassificationInput struct {
	Name string `form:"classification_name" validate:"required,alphanum" msg:"Classification must not contain spaces or special characters."`
}

func (s *Service) AddClassification(ctx context.Context, in ClassificationInput) (*models.Classification, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, validate.Errors{"classification_name": "Classification name is required."}
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	c, err := s.store.AddClassification(ctx, in.Name)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, ErrDuplicateClassification
	}
	if err != nil {
		return nil, fmt.Errorf("add classification: %w", err)
	}
	s.lg.Infow("classification added", "classification_id", c.ID, "name", c.Name)
	return c, nil
}

// VehicleInput is the add and edit form as submitted. Fields stay strings so
// a rejected form can be shown again exactly as typed.
type VehicleInput struct {
	ID               string `form:"inv_id"`
	ClassificationID string `form:"classification_id" validate:"required,number" msg:"Choose a classification."`
	Make             string `form:"inv_make" validate:"required" msg:"Make is required."`
	Model            string `form:"inv_model" validate:"required" msg:"Model is required."`
	Year             string `form:"inv_year" validate:"required,vehicleyear" msg:"Enter a valid year."`
	Description      string `form:"inv_description" validate:"required,min=10" msg:"Description must be at least 10 characters."`
	Image            string `form:"inv_image" validate:"required" msg:"Image path is required."`
	Thumbnail        string `form:"inv_thumbnail" validate:"required" msg:"Thumbnail path is required."`
	Price            string `form:"inv_price" validate:"required,price" msg:"Price must be a number >= 0."`
	Miles            string `form:"inv_miles" validate:"required,number" msg:"Miles must be an integer >= 0."`
	Color            string `form:"inv_color"`
}

const (
	NoImage     = "/images/vehicles/no-image.png"
	NoThumbnail = "/images/vehicles/no-image-tn.png"
)

// NewVehicleInput is the blank add form.
func NewVehicleInput() VehicleInput {
	return VehicleInput{Image: NoImage, Thumbnail: NoThumbnail}
}

// InputFrom fills the edit form from a stored vehicle.
func InputFrom(v models.Vehicle) VehicleInput {
	return VehicleInput{
		ID:               strconv.Itoa(v.ID),
		ClassificationID: strconv.Itoa(v.ClassificationID),
		Make:             v.Make,
		Model:            v.Model,
		Year:             strconv.Itoa(v.Year),
		Description:      v.Description,
		Image:            v.Image,
		Thumbnail:        v.Thumbnail,
		Price:            strconv.FormatFloat(v.Price, 'f', -1, 64),
		Miles:            strconv.Itoa(v.Miles),
		Color:            v.Color,
	}
}

// Values exposes the form fields by input name.
func (in VehicleInput) Values() map[string]string {
	return map[string]string{
		"inv_id":            in.ID,
		"classification_id": in.ClassificationID,
		"inv_make":          in.Make,
		"inv_model":         in.Model,
		"inv_year":          in.Year,
		"inv_description":   in.Description,
		"inv_image":         in.Image,
		"inv_thumbnail":     in.Thumbnail,
		"inv_price":         in.Price,
		"inv_miles":         in.Miles,
		"inv_color":         in.Color,
	}
}

func (in VehicleInput) Name() string {
	return strings.TrimSpace(strings.TrimSpace(in.Make) + " " + strings.TrimSpace(in.Model))
}

func (in *VehicleInput) trim() {
	for _, f := range []*string{&in.ID, &in.ClassificationID, &in.Make, &in.Model, &in.Year,
		&in.Description, &in.Image, &in.Thumbnail, &in.Price, &in.Miles, &in.Color} {
		*f = strings.TrimSpace(*f)
	}
}

// vehicle validates the input and converts it. The classification must exist.
func (s *Service) vehicle(ctx context.Context, in VehicleInput) (*models.Vehicle, error) {
	in.trim()
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	v := &models.Vehicle{
		Make:        in.Make,
		Model:       in.Model,
		Description: in.Description,
		Image:       in.Image,
		Thumbnail:   in.Thumbnail,
		Color:       in.Color,
	}
	// The validator has already checked that these parse.
	v.ClassificationID, _ = strconv.Atoi(in.ClassificationID)
	v.Year, _ = strconv.Atoi(in.Year)
	v.Price, _ = strconv.ParseFloat(in.Price, 64)
	v.Miles, _ = strconv.Atoi(in.Miles)

	if _, err := s.store.ClassificationByID(ctx, v.ClassificationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, validate.Errors{"classification_id": "Choose a classification."}
		}
		return nil, err
	}
	return v, nil
}

func (s *Service) AddVehicle(ctx context.Context, in VehicleInput) (*models.Vehicle, error) {
	v, err := s.vehicle(ctx, in)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Add(ctx, v); err != nil {
		return nil, fmt.Errorf("add vehicle: %w", err)
	}
	s.lg.Infow("vehicle added", "inv_id", v.ID, "classification_id", v.ClassificationID)
	return v, nil
}

func (s *Service) UpdateVehicle(ctx context.Context, in VehicleInput) (*models.Vehicle, error) {
	id, err := strconv.Atoi(strings.TrimSpace(in.ID))
	if err != nil || id <= 0 {
		return nil, validate.Errors{"inv_id": "Vehicle is missing."}
	}
	v, err := s.vehicle(ctx, in)
	if err != nil {
		return nil, err
	}
	v.ID = id
	if err := s.store.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("update vehicle %d: %w", id, err)
	}
	s.lg.Infow("vehicle updated", "inv_id", id)
	return v, nil
}

// DeleteVehicle removes the vehicle and returns it as it was.
func (s *Service) DeleteVehicle(ctx context.Context, rawInvID string) (*models.Vehicle, error) {
	id, err := parseID("vehicle", rawInvID)
	if err != nil {
		return nil, err
	}
	v, err := s.store.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete vehicle %d: %w", id, err)
	}
	s.lg.Infow("vehicle deleted", "inv_id", id)
	return v, nil
}
