package partstore_test

import (
	"errors"
	"testing"

	partstore "github.com/dalemusser/canopyhub/internal/app/store/parts"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"github.com/dalemusser/canopyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_ListByCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := partstore.New(db)

	for _, p := range []models.Part{
		{Category: "Ducts", Item: "Bend", SvgPath: "/svg/bend.svg"},
		{Category: "Ducts", Item: "Access door", SvgPath: "/svg/door.svg"},
		{Category: "Fans", Item: "Axial", SvgPath: "/svg/fan.svg", Dimensions: models.Dimensions{Width: 40, Height: 40}},
	} {
		if _, err := store.Create(ctx, p); err != nil {
			t.Fatalf("Create %q failed: %v", p.Item, err)
		}
	}

	ducts, err := store.List(ctx, "Ducts")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(ducts) != 2 || ducts[0].Item != "Access door" {
		t.Errorf("List(Ducts) = %+v", ducts)
	}
	all, _ := store.List(ctx, "")
	if len(all) != 3 {
		t.Errorf("List() returned %d, want 3", len(all))
	}
}

func TestStore_UpdateMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := partstore.New(db).Update(ctx, primitive.NewObjectID(), models.Part{Category: "x", Item: "y"})
	if !errors.Is(err, partstore.ErrNotFound) {
		t.Errorf("Update missing: got %v, want ErrNotFound", err)
	}
}
