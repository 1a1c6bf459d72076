package productstore_test

import (
	"errors"
	"testing"

	productstore "github.com/dalemusser/canopyhub/internal/app/store/products"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"github.com/dalemusser/canopyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := productstore.New(db)

	formID := primitive.NewObjectID()
	fieldID := primitive.NewObjectID()
	created, err := store.Create(ctx, models.Product{
		Category: "Filters", Name: "Baffle 500", Type: "filter", Form: formID,
		CustomFields: []models.FieldValue{{FieldID: fieldID, Value: "500x500"}},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	list, err := store.List(ctx, productstore.ListFilter{Form: formID})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].CustomFields[0].Value != "500x500" {
		t.Errorf("List = %+v", list)
	}
	if list, _ := store.List(ctx, productstore.ListFilter{Category: "Fans"}); len(list) != 0 {
		t.Errorf("category filter returned %d products", len(list))
	}

	created.Price = 42
	updated, err := store.Update(ctx, created.ID, created)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Price != 42 {
		t.Errorf("Price = %v, want 42", updated.Price)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, created.ID); !errors.Is(err, productstore.ErrNotFound) {
		t.Errorf("GetByID after delete: got %v, want ErrNotFound", err)
	}
}
