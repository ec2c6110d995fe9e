// Package memory is an in-process implementation of the store layer. It backs
// development runs without a database and doubles as a test fake.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"dealership/internal/models"
	"dealership/internal/store"
)

type DB struct {
	mu sync.RWMutex

	accounts        map[int]models.Account
	classifications map[int]models.Classification
	vehicles        map[int]models.Vehicle
	favorites       []models.Favorite

	nextAccount, nextClass, nextVehicle, nextFav int

	now func() time.Time
	// last keeps created_at strictly increasing within one process.
	last time.Time
}

func New() *DB {
	return &DB{
		accounts:        map[int]models.Account{},
		classifications: map[int]models.Classification{},
		vehicles:        map[int]models.Vehicle{},
		now:             time.Now,
	}
}

func (db *DB) Accounts() *Accounts   { return &Accounts{db: db} }
func (db *DB) Favorites() *Favorites { return &Favorites{db: db} }
func (db *DB) Inventory() *Inventory { return &Inventory{db: db} }

func (db *DB) stamp() time.Time {
	t := db.now().UTC()
	if !t.After(db.last) {
		t = db.last.Add(time.Microsecond)
	}
	db.last = t
	return t
}

func notFound(op string) error  { return fmt.Errorf("%s: %w", op, store.ErrNotFound) }
func duplicate(op string) error { return fmt.Errorf("%s: %w", op, store.ErrDuplicate) }

// SeedSample loads a small catalogue so a fresh development server has
// something to browse.
func (db *DB) SeedSample(ctx context.Context) error {
	inv := db.Inventory()
	sample := []struct {
		class string
		cars  []models.Vehicle
	}{
		{"Custom", []models.Vehicle{
			{Make: "DMC", Model: "Delorean", Year: 1981, Description: "Stainless steel body and gull-wing doors.",
				Image: "/images/vehicles/delorean.jpg", Thumbnail: "/images/vehicles/delorean-tn.jpg",
				Price: 65000, Miles: 56000, Color: "Silver"},
		}},
		{"SUV", []models.Vehicle{
			{Make: "Jeep", Model: "Wrangler", Year: 2019, Description: "Rugged and ready for any trail.",
				Image: "/images/vehicles/wrangler.jpg", Thumbnail: "/images/vehicles/wrangler-tn.jpg",
				Price: 28045, Miles: 41205, Color: "Yellow"},
		}},
		{"Truck", []models.Vehicle{
			{Make: "Ford", Model: "F-150", Year: 2017, Description: "Full size pickup with a crew cab.",
				Image: "/images/vehicles/f150.jpg", Thumbnail: "/images/vehicles/f150-tn.jpg",
				Price: 31000, Miles: 60000, Color: "Blue"},
		}},
	}
	for _, s := range sample {
		c, err := inv.AddClassification(ctx, s.class)
		if err != nil {
			return err
		}
		for _, v := range s.cars {
			v.ClassificationID = c.ID
			if _, err := inv.Add(ctx, &v); err != nil {
				return err
			}
		}
	}
	return nil
}

type Accounts struct{ db *DB }

func (s *Accounts) Create(_ context.Context, a *models.Account) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, x := range s.db.accounts {
		if x.Email == a.Email {
			return 0, duplicate("create account")
		}
	}
	s.db.nextAccount++
	a.ID = s.db.nextAccount
	s.db.accounts[a.ID] = *a
	return a.ID, nil
}

func (s *Accounts) EmailExists(_ context.Context, email string) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	for _, x := range s.db.accounts {
		if x.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *Accounts) ByEmail(_ context.Context, email string) (*models.Account, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	for _, x := range s.db.accounts {
		if x.Email == email {
			return &x, nil
		}
	}
	return nil, notFound("account by email")
}

func (s *Accounts) ByID(_ context.Context, id int) (*models.Account, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	x, ok := s.db.accounts[id]
	if !ok {
		return nil, notFound("account by id")
	}
	return &x, nil
}

func (s *Accounts) UpdateProfile(_ context.Context, id int, firstname, lastname, email string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	x, ok := s.db.accounts[id]
	if !ok {
		return notFound("update account")
	}
	for _, o := range s.db.accounts {
		if o.ID != id && o.Email == email {
			return duplicate("update account")
		}
	}
	x.Firstname, x.Lastname, x.Email = firstname, lastname, email
	s.db.accounts[id] = x
	return nil
}

func (s *Accounts) UpdatePassword(_ context.Context, id int, hash string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	x, ok := s.db.accounts[id]
	if !ok {
		return notFound("update password")
	}
	x.PasswordHash = hash
	s.db.accounts[id] = x
	return nil
}

// SetRole mirrors the SQL store; no HTTP route changes roles.
func (s *Accounts) SetRole(_ context.Context, id int, role models.Role) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	x, ok := s.db.accounts[id]
	if !ok {
		return notFound("set role")
	}
	x.Role = role
	s.db.accounts[id] = x
	return nil
}

type Favorites struct{ db *DB }

func (s *Favorites) Add(_ context.Context, accountID, invID int) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.accounts[accountID]; !ok {
		return false, fmt.Errorf("add favorite: db error: unknown account %d", accountID)
	}
	if _, ok := s.db.vehicles[invID]; !ok {
		return false, fmt.Errorf("add favorite: db error: unknown vehicle %d", invID)
	}
	for _, f := range s.db.favorites {
		if f.AccountID == accountID && f.InvID == invID {
			return false, nil
		}
	}
	f, err := models.NewFavorite(accountID, invID)
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	s.db.nextFav++
	f.ID, f.CreatedAt = s.db.nextFav, s.db.stamp()
	s.db.favorites = append(s.db.favorites, f)
	return true, nil
}

func (s *Favorites) Remove(_ context.Context, accountID, invID int) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for i, f := range s.db.favorites {
		if f.AccountID == accountID && f.InvID == invID {
			s.db.favorites = append(s.db.favorites[:i], s.db.favorites[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Favorites) Exists(_ context.Context, accountID, invID int) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	for _, f := range s.db.favorites {
		if f.AccountID == accountID && f.InvID == invID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Favorites) List(_ context.Context, accountID int) ([]models.FavoriteVehicle, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	out := []models.FavoriteVehicle{}
	for _, f := range s.db.favorites {
		if f.AccountID != accountID {
			continue
		}
		v, ok := s.db.vehicles[f.InvID]
		if !ok {
			continue
		}
		out = append(out, models.FavoriteVehicle{
			FavID: f.ID, CreatedAt: f.CreatedAt, InvID: v.ID, Make: v.Make, Model: v.Model,
			Year: v.Year, Thumbnail: v.Thumbnail, Price: v.Price,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].FavID > out[j].FavID
	})
	return out, nil
}

type Inventory struct{ db *DB }

func (s *Inventory) Classifications(_ context.Context) ([]models.Classification, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	out := make([]models.Classification, 0, len(s.db.classifications))
	for _, c := range s.db.classifications {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Inventory) ClassificationByID(_ context.Context, id int) (*models.Classification, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	c, ok := s.db.classifications[id]
	if !ok {
		return nil, notFound("classification by id")
	}
	return &c, nil
}

func (s *Inventory) AddClassification(_ context.Context, name string) (*models.Classification, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, c := range s.db.classifications {
		if strings.EqualFold(c.Name, name) {
			return nil, duplicate("add classification")
		}
	}
	s.db.nextClass++
	c := models.Classification{ID: s.db.nextClass, Name: name}
	s.db.classifications[c.ID] = c
	return &c, nil
}

func (s *Inventory) withClass(v models.Vehicle) models.Vehicle {
	v.ClassificationName = s.db.classifications[v.ClassificationID].Name
	return v
}

func (s *Inventory) ByClassification(_ context.Context, classificationID int) ([]models.Vehicle, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	out := []models.Vehicle{}
	for _, v := range s.db.vehicles {
		if v.ClassificationID == classificationID {
			out = append(out, s.withClass(v))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Make != out[j].Make {
			return out[i].Make < out[j].Make
		}
		return out[i].Model < out[j].Model
	})
	return out, nil
}

func (s *Inventory) ByID(_ context.Context, invID int) (*models.Vehicle, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	v, ok := s.db.vehicles[invID]
	if !ok {
		return nil, notFound("vehicle by id")
	}
	v = s.withClass(v)
	return &v, nil
}

func (s *Inventory) Add(_ context.Context, v *models.Vehicle) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.classifications[v.ClassificationID]; !ok {
		return 0, fmt.Errorf("add vehicle: db error: unknown classification %d", v.ClassificationID)
	}
	s.db.nextVehicle++
	v.ID = s.db.nextVehicle
	s.db.vehicles[v.ID] = *v
	return v.ID, nil
}

func (s *Inventory) Update(_ context.Context, v *models.Vehicle) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.vehicles[v.ID]; !ok {
		return notFound("update vehicle")
	}
	if _, ok := s.db.classifications[v.ClassificationID]; !ok {
		return fmt.Errorf("update vehicle: db error: unknown classification %d", v.ClassificationID)
	}
	x := *v
	x.ClassificationName = ""
	s.db.vehicles[v.ID] = x
	return nil
}

// Delete drops the vehicle and, like the foreign key cascade, its favorites.
func (s *Inventory) Delete(_ context.Context, invID int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.vehicles[invID]; !ok {
		return notFound("delete vehicle")
	}
	delete(s.db.vehicles, invID)
	kept := s.db.favorites[:0]
	for _, f := range s.db.favorites {
		if f.InvID != invID {
			kept = append(kept, f)
		}
	}
	s.db.favorites = kept
	return nil
}
