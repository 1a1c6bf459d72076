package pricestore_test

import (
	"errors"
	"testing"

	pricestore "github.com/dalemusser/canopyhub/internal/app/store/pricelist"
	"github.com/dalemusser/canopyhub/internal/app/system/csvutil"
	"github.com/dalemusser/canopyhub/internal/app/system/indexes"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"github.com/dalemusser/canopyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := pricestore.New(db)

	it := models.PriceItem{Category: "Canopy", Subcategory: "Wall", Item: "Filter", Prices: models.Prices{A: 10}}
	created, err := store.Create(ctx, it)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if _, err := store.Create(ctx, it); !errors.Is(err, pricestore.ErrDuplicate) {
		t.Errorf("second Create: got %v, want ErrDuplicate", err)
	}
}

func TestStore_UpdateAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := pricestore.New(db)

	created, err := store.Create(ctx, models.PriceItem{Category: "Ductwork", Item: "Bend"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	created.Prices.C = 4.25
	updated, err := store.Update(ctx, created.ID, created)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Prices.C != 4.25 {
		t.Errorf("Prices.C = %v, want 4.25", updated.Prices.C)
	}
	if _, err := store.Update(ctx, primitive.NewObjectID(), created); !errors.Is(err, pricestore.ErrNotFound) {
		t.Errorf("Update missing: got %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, created.ID); !errors.Is(err, pricestore.ErrNotFound) {
		t.Errorf("GetByID after delete: got %v, want ErrNotFound", err)
	}
}

func TestStore_UpsertIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := pricestore.New(db)

	if _, err := store.Create(ctx, models.PriceItem{Category: "Canopy", Subcategory: "Wall", Item: "Filter", Prices: models.Prices{A: 1}}); err != nil {
		t.Fatal(err)
	}
	rows := []csvutil.PriceRow{
		{Category: "Canopy", Subcategory: "Wall", Item: "Filter", Prices: models.Prices{A: 10, B: 12}},
		{Category: "Canopy", Subcategory: "Island", Item: "Light", Prices: models.Prices{E: 3}, SvgPath: "/svg/light.svg"},
	}

	first, err := store.Upsert(ctx, rows)
	if err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}
	if first.Inserted != 1 || first.Updated != 1 {
		t.Errorf("first Upsert = %+v, want 1 inserted, 1 updated", first)
	}

	second, err := store.Upsert(ctx, rows)
	if err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}
	if second.Inserted != 0 || second.Updated != 0 || second.Unchanged != 2 {
		t.Errorf("second Upsert = %+v, want 2 unchanged", second)
	}

	items, err := store.List(ctx, "Canopy")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	// Sorted by natural key: Island before Wall.
	if items[0].Item != "Light" || items[1].Prices != (models.Prices{A: 10, B: 12}) {
		t.Errorf("unexpected items: %+v", items)
	}
	if items[0].CreatedAt.IsZero() {
		t.Error("expected upserted item to get createdAt")
	}
}
