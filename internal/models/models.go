package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleClient   Role = "Client"
	RoleEmployee Role = "Employee"
	RoleAdmin    Role = "Admin"
)

// IsStaff reports whether the role may manage inventory.
func (r Role) IsStaff() bool { return r == RoleEmployee || r == RoleAdmin }

type Account struct {
	ID           int    `gorm:"column:account_id;primaryKey" json:"account_id"`
	Firstname    string `gorm:"column:account_firstname;not null" json:"account_firstname"`
	Lastname     string `gorm:"column:account_lastname;not null" json:"account_lastname"`
	Email        string `gorm:"column:account_email;uniqueIndex;not null" json:"account_email"`
	PasswordHash string `gorm:"column:account_password;not null" json:"-"`
	Role         Role   `gorm:"column:account_type;not null;default:Client" json:"account_type"`
}

func (Account) TableName() string { return "account" }

var ErrMissingField = errors.New("missing required field")

// NewAccount builds a client account; the hash must already be derived.
func NewAccount(firstname, lastname, email, passwordHash string) (*Account, error) {
	a := &Account{
		Firstname:    strings.TrimSpace(firstname),
		Lastname:     strings.TrimSpace(lastname),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         RoleClient,
	}
	switch {
	case a.Firstname == "":
		return nil, fmt.Errorf("%w: firstname", ErrMissingField)
	case a.Lastname == "":
		return nil, fmt.Errorf("%w: lastname", ErrMissingField)
	case a.Email == "":
		return nil, fmt.Errorf("%w: email", ErrMissingField)
	case a.PasswordHash == "":
		return nil, fmt.Errorf("%w: password hash", ErrMissingField)
	}
	return a, nil
}

func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Profile is the public part of an account. It is what a session token carries.
func (a Account) Profile() Profile {
	return Profile{ID: a.ID, Firstname: a.Firstname, Lastname: a.Lastname, Email: a.Email, Role: a.Role}
}

type Profile struct {
	ID        int    `json:"account_id"`
	Firstname string `json:"account_firstname"`
	Lastname  string `json:"account_lastname"`
	Email     string `json:"account_email"`
	Role      Role   `json:"account_type"`
}

type Favorite struct {
	ID        int       `gorm:"column:fav_id;primaryKey" json:"fav_id"`
	AccountID int       `gorm:"column:account_id;not null" json:"account_id"`
	InvID     int       `gorm:"column:inv_id;not null" json:"inv_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Favorite) TableName() string { return "favorites" }

func NewFavorite(accountID, invID int) (Favorite, error) {
	if accountID <= 0 || invID <= 0 {
		return Favorite{}, fmt.Errorf("favorite needs positive ids, got account=%d inv=%d", accountID, invID)
	}
	return Favorite{AccountID: accountID, InvID: invID}, nil
}

// FavoriteVehicle is a favorite joined with the vehicle fields shown in the list.
type FavoriteVehicle struct {
	FavID     int       `gorm:"column:fav_id" json:"fav_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	InvID     int       `gorm:"column:inv_id" json:"inv_id"`
	Make      string    `gorm:"column:inv_make" json:"inv_make"`
	Model     string    `gorm:"column:inv_model" json:"inv_model"`
	Year      int       `gorm:"column:inv_year" json:"inv_year"`
	Thumbnail string    `gorm:"column:inv_thumbnail" json:"inv_thumbnail"`
	Price     float64   `gorm:"column:inv_price" json:"inv_price"`
}

type Classification struct {
	ID   int    `gorm:"column:classification_id;primaryKey" json:"classification_id"`
	Name string `gorm:"column:classification_name;uniqueIndex;not null" json:"classification_name"`
}

func (Classification) TableName() string { return "classification" }

type Vehicle struct {
	ID                 int     `gorm:"column:inv_id;primaryKey" json:"inv_id"`
	Make               string  `gorm:"column:inv_make" json:"inv_make"`
	Model              string  `gorm:"column:inv_model" json:"inv_model"`
	Year               int     `gorm:"column:inv_year" json:"inv_year"`
	Description        string  `gorm:"column:inv_description" json:"inv_description"`
	Image              string  `gorm:"column:inv_image" json:"inv_image"`
	Thumbnail          string  `gorm:"column:inv_thumbnail" json:"inv_thumbnail"`
	Price              float64 `gorm:"column:inv_price" json:"inv_price"`
	Miles              int     `gorm:"column:inv_miles" json:"inv_miles"`
	Color              string  `gorm:"column:inv_color" json:"inv_color"`
	ClassificationID   int     `gorm:"column:classification_id" json:"classification_id"`
	ClassificationName string  `gorm:"column:classification_name;->" json:"classification_name,omitempty"`
}

func (Vehicle) TableName() string { return "inventory" }

func (v Vehicle) Name() string { return v.Make + " " + v.Model }
