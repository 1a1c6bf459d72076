package fieldstore_test

import (
	"errors"
	"testing"

	fieldstore "github.com/dalemusser/canopyhub/internal/app/store/customfields"
	formstore "github.com/dalemusser/canopyhub/internal/app/store/forms"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"github.com/dalemusser/canopyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_DeletePullsFromForms(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fields := fieldstore.New(db)
	forms := formstore.New(db)

	size, err := fields.Create(ctx, models.CustomField{Label: "Size", FieldType: models.FieldSelect, Options: []string{"S", "M"}})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	colour, _ := fields.Create(ctx, models.CustomField{Label: "Colour", FieldType: models.FieldText})

	form, err := forms.Create(ctx, models.Form{Name: "Filters", Fields: []primitive.ObjectID{size.ID, colour.ID}})
	if err != nil {
		t.Fatalf("Create form failed: %v", err)
	}

	if err := fields.Delete(ctx, size.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	got, err := forms.GetByID(ctx, form.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Fields) != 1 || got.Fields[0] != colour.ID {
		t.Errorf("form.Fields = %v, want [%s]", got.Fields, colour.ID.Hex())
	}
	if err := fields.Delete(ctx, size.ID); !errors.Is(err, fieldstore.ErrNotFound) {
		t.Errorf("second Delete: got %v, want ErrNotFound", err)
	}
}

func TestStore_GetByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fields := fieldstore.New(db)
	a, _ := fields.Create(ctx, models.CustomField{Label: "A", FieldType: models.FieldNumber})
	missing := primitive.NewObjectID()

	got, err := fields.GetByIDs(ctx, []primitive.ObjectID{a.ID, missing})
	if err != nil {
		t.Fatalf("GetByIDs failed: %v", err)
	}
	if len(got) != 1 || got[a.ID].Label != "A" {
		t.Errorf("GetByIDs = %v", got)
	}
}
