package inventory

import (
	"context"
	"strconv"
	"testing"

	"dealership/internal/models"
	"dealership/internal/store"
	"dealership/internal/store/memory"
	"dealership/internal/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) (*Service, *memory.DB) {
	t.Helper()
	db := memory.New()
	return NewService(db.Inventory(), zap.NewNop().Sugar()), db
}

func jeep(classID int) VehicleInput {
	return VehicleInput{
		ClassificationID: strconv.Itoa(classID),
		Make:             " Jeep ",
		Model:            "Wrangler",
		Year:             "2019",
		Description:      "Rugged and ready for any trail.",
		Image:            "/images/vehicles/wrangler.jpg",
		Thumbnail:        "/images/vehicles/wrangler-tn.jpg",
		Price:            "28045.50",
		Miles:            "41205",
		Color:            "Yellow",
	}
}

func TestAddClassification(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	c, err := svc.AddClassification(ctx, ClassificationInput{Name: "SUV"})
	require.NoError(t, err)
	assert.Equal(t, "SUV", c.Name)

	_, err = svc.AddClassification(ctx, ClassificationInput{Name: "SUV"})
	assert.ErrorIs(t, err, ErrDuplicateClassification)

	for _, bad := range []string{"Sport Utility", "SUV!", ""} {
		_, err = svc.AddClassification(ctx, ClassificationInput{Name: bad})
		fe, ok := validate.As(err)
		require.True(t, ok, bad)
		assert.Contains(t, fe, "classification_name")
	}
}

func TestAddVehicle(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c, _ := svc.AddClassification(ctx, ClassificationInput{Name: "SUV"})

	v, err := svc.AddVehicle(ctx, jeep(c.ID))
	require.NoError(t, err)
	assert.Positive(t, v.ID)
	assert.Equal(t, "Jeep", v.Make)
	assert.Equal(t, 2019, v.Year)
	assert.Equal(t, 28045.5, v.Price)

	got, err := svc.Detail(ctx, strconv.Itoa(v.ID))
	require.NoError(t, err)
	assert.Equal(t, "SUV", got.ClassificationName)
}

func TestAddVehicle_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c, _ := svc.AddClassification(ctx, ClassificationInput{Name: "SUV"})

	in := jeep(c.ID)
	in.Year = "1800"
	in.Description = "short"
	in.Price = "-5"
	in.Miles = "12.5"
	in.Image = ""
	_, err := svc.AddVehicle(ctx, in)
	fe, ok := validate.As(err)
	require.True(t, ok, "got %v", err)
	for _, k := range []string{"inv_year", "inv_description", "inv_price", "inv_miles", "inv_image"} {
		assert.Contains(t, fe, k)
	}
	assert.Equal(t, "Description must be at least 10 characters.", fe["inv_description"])

	in = jeep(999)
	_, err = svc.AddVehicle(ctx, in)
	fe, ok = validate.As(err)
	require.True(t, ok)
	assert.Equal(t, "Choose a classification.", fe["classification_id"])
}

func TestUpdateAndDeleteVehicle(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c, _ := svc.AddClassification(ctx, ClassificationInput{Name: "SUV"})
	v, err := svc.AddVehicle(ctx, jeep(c.ID))
	require.NoError(t, err)

	in := InputFrom(*v)
	in.Color = "Red"
	updated, err := svc.UpdateVehicle(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Red", updated.Color)

	in.ID = ""
	_, err = svc.UpdateVehicle(ctx, in)
	_, ok := validate.As(err)
	assert.True(t, ok)

	gone, err := svc.DeleteVehicle(ctx, strconv.Itoa(v.ID))
	require.NoError(t, err)
	assert.Equal(t, "Red", gone.Color)

	_, err = svc.Detail(ctx, strconv.Itoa(v.ID))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestByClassification(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c, _ := svc.AddClassification(ctx, ClassificationInput{Name: "SUV"})

	l, err := svc.ByClassification(ctx, strconv.Itoa(c.ID))
	require.NoError(t, err)
	assert.Equal(t, "SUV vehicles", l.Title())
	assert.Empty(t, l.Vehicles)

	_, err = svc.AddVehicle(ctx, jeep(c.ID))
	require.NoError(t, err)
	l, err = svc.ByClassification(ctx, strconv.Itoa(c.ID))
	require.NoError(t, err)
	assert.Len(t, l.Vehicles, 1)

	_, err = svc.ByClassification(ctx, "abc")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = svc.ByClassification(ctx, "77")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestJSON(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c, _ := svc.AddClassification(ctx, ClassificationInput{Name: "SUV"})

	_, err := svc.JSON(ctx, strconv.Itoa(c.ID))
	assert.ErrorIs(t, err, ErrNoInventory)

	_, _ = svc.AddVehicle(ctx, jeep(c.ID))
	vs, err := svc.JSON(ctx, strconv.Itoa(c.ID))
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, "SUV", vs[0].ClassificationName)
}

func TestInputFrom_RoundTrip(t *testing.T) {
	v := models.Vehicle{ID: 3, ClassificationID: 2, Make: "DMC", Model: "Delorean", Year: 1981, Price: 65000, Miles: 12}
	in := InputFrom(v)
	assert.Equal(t, "65000", in.Price)
	assert.Equal(t, "DMC Delorean", in.Name())
	assert.Equal(t, "3", in.Values()["inv_id"])
}
