package collectionstore_test

import (
	"errors"
	"testing"

	collectionstore "github.com/dalemusser/canopyhub/internal/app/store/collections"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"github.com/dalemusser/canopyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_MembersAndTotal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := collectionstore.New(db)
	c, err := store.Create(ctx, models.SurveyCollection{CollectionRef: "KS123456A1-A", Name: "Visit"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if c.Surveys == nil || c.TotalAreas != 0 {
		t.Fatalf("new collection = %+v, want empty surveys", c)
	}

	s1, s2 := primitive.NewObjectID(), primitive.NewObjectID()
	for _, id := range []primitive.ObjectID{s1, s2, s1} {
		if err := store.AddSurvey(ctx, c.ID, id); err != nil {
			t.Fatalf("AddSurvey failed: %v", err)
		}
	}
	got, err := store.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Surveys) != 2 || got.TotalAreas != 2 {
		t.Errorf("after adds: surveys=%v total=%d, want 2 and 2", got.Surveys, got.TotalAreas)
	}
	if ok, _ := store.Contains(ctx, c.ID, s2); !ok {
		t.Error("Contains(s2) = false, want true")
	}

	rest, err := store.RemoveSurvey(ctx, c.ID, s1)
	if err != nil {
		t.Fatalf("RemoveSurvey failed: %v", err)
	}
	if len(rest) != 1 || rest[0] != s2 {
		t.Errorf("remaining = %v, want [%s]", rest, s2.Hex())
	}
	got, _ = store.GetByID(ctx, c.ID)
	if got.TotalAreas != 1 {
		t.Errorf("TotalAreas = %d, want 1", got.TotalAreas)
	}

	if err := store.AddSurvey(ctx, primitive.NewObjectID(), s1); !errors.Is(err, collectionstore.ErrNotFound) {
		t.Errorf("AddSurvey missing: got %v, want ErrNotFound", err)
	}
}

func TestStore_UpdateAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := collectionstore.New(db)
	c, err := store.Create(ctx, models.SurveyCollection{CollectionRef: "KS1-A", IdempotencyKey: "abc"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	upd, err := store.UpdateInfo(ctx, c.ID, "Second visit", "")
	if err != nil {
		t.Fatalf("UpdateInfo failed: %v", err)
	}
	if upd.Name != "Second visit" || upd.CollectionRef != "KS1-A" {
		t.Errorf("UpdateInfo = %+v", upd)
	}
	if err := store.Rename(ctx, c.ID, "KS2-A"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	byKey, err := store.GetByIdempotencyKey(ctx, "abc")
	if err != nil {
		t.Fatalf("GetByIdempotencyKey failed: %v", err)
	}
	if byKey.CollectionRef != "KS2-A" {
		t.Errorf("CollectionRef = %q, want KS2-A", byKey.CollectionRef)
	}

	list, err := store.List(ctx, primitive.NilObjectID)
	if err != nil || len(list) != 1 {
		t.Fatalf("List = %d, %v; want 1", len(list), err)
	}

	if err := store.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, c.ID); !errors.Is(err, collectionstore.ErrNotFound) {
		t.Errorf("GetByID after delete: got %v, want ErrNotFound", err)
	}
}
