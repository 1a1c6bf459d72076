package surveystore_test

import (
	"errors"
	"testing"

	surveystore "github.com/dalemusser/canopyhub/internal/app/store/surveys"
	"github.com/dalemusser/canopyhub/internal/app/system/indexes"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"github.com/dalemusser/canopyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateNormalizes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := surveystore.New(db)
	legacy := primitive.NewObjectID()
	sv, err := store.Create(ctx, models.Survey{RefID: "KIT123456A1-A", CollectionID: &legacy})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByID(ctx, sv.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.CollectionID != nil {
		t.Errorf("legacy collectionId should not be stored, got %v", got.CollectionID)
	}
	if len(got.Collections) != 1 || got.Collections[0].CollectionID != legacy || !got.Collections[0].IsPrimary {
		t.Errorf("Collections = %+v, want one primary membership of %s", got.Collections, legacy.Hex())
	}
	if got.Contacts == nil || got.Equipment.Entries == nil || got.Schematic.PlacedItems == nil {
		t.Error("expected empty slices after round trip")
	}
}

func TestStore_DuplicateRef(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := surveystore.New(db)

	if _, err := store.Create(ctx, models.Survey{RefID: "KS111111B2-A"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Survey{RefID: "KS111111B2-A"}); !errors.Is(err, surveystore.ErrDuplicateRef) {
		t.Fatalf("second Create: got %v, want ErrDuplicateRef", err)
	}

	ok, err := store.RefExists(ctx, "KS111111B2-A")
	if err != nil || !ok {
		t.Errorf("RefExists = %v, %v; want true", ok, err)
	}
	ok, err = store.RefExists(ctx, "KS111111B2-B")
	if err != nil || ok {
		t.Errorf("RefExists(unused) = %v, %v; want false", ok, err)
	}
}

func TestStore_ReplaceKeepsCreatedAt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := surveystore.New(db)
	sv, err := store.Create(ctx, models.Survey{RefID: "KS222222C3-A", AreaName: "Main", IdempotencyKey: "k1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	upd, err := store.Replace(ctx, sv.ID, models.Survey{RefID: "KS222222C3-A", AreaName: "Pastry"})
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if upd.AreaName != "Pastry" {
		t.Errorf("AreaName = %q, want Pastry", upd.AreaName)
	}
	if !upd.CreatedAt.Equal(sv.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", sv.CreatedAt, upd.CreatedAt)
	}

	byKey, err := store.GetByIdempotencyKey(ctx, "k1")
	if err != nil {
		t.Fatalf("GetByIdempotencyKey failed: %v", err)
	}
	if byKey.ID != sv.ID {
		t.Errorf("GetByIdempotencyKey returned %s, want %s", byKey.ID.Hex(), sv.ID.Hex())
	}

	if _, err := store.Replace(ctx, primitive.NewObjectID(), models.Survey{}); !errors.Is(err, surveystore.ErrNotFound) {
		t.Errorf("Replace missing: got %v, want ErrNotFound", err)
	}
}

func TestStore_MembershipUpdates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := surveystore.New(db)
	c1, c2 := primitive.NewObjectID(), primitive.NewObjectID()

	a, err := store.Create(ctx, models.Survey{RefID: "KS1-A", Collections: []models.CollectionMembership{
		{CollectionID: c1, AreaIndex: 0, CollectionRef: "KS1-A", IsPrimary: true},
		{CollectionID: c2, AreaIndex: 3},
	}})
	if err != nil {
		t.Fatalf("Create a failed: %v", err)
	}
	b, err := store.Create(ctx, models.Survey{RefID: "KS1-B", Collections: []models.CollectionMembership{
		{CollectionID: c1, AreaIndex: 1, CollectionRef: "KS1-A"},
	}})
	if err != nil {
		t.Fatalf("Create b failed: %v", err)
	}

	n, err := store.CountInCollection(ctx, c1)
	if err != nil || n != 2 {
		t.Fatalf("CountInCollection = %d, %v; want 2", n, err)
	}

	if err := store.SetCollectionRef(ctx, c1, "KS9-A"); err != nil {
		t.Fatalf("SetCollectionRef failed: %v", err)
	}
	if err := store.SetAreaIndex(ctx, b.ID, c1, 0); err != nil {
		t.Fatalf("SetAreaIndex failed: %v", err)
	}
	members, err := store.List(ctx, surveystore.ListFilter{Collection: c1})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("List returned %d, want 2", len(members))
	}
	for _, m := range members {
		for _, ms := range m.Collections {
			if ms.CollectionID == c1 && ms.CollectionRef != "KS9-A" {
				t.Errorf("%s collectionRef = %q, want KS9-A", m.RefID, ms.CollectionRef)
			}
		}
	}

	if err := store.RemoveCollection(ctx, c1); err != nil {
		t.Fatalf("RemoveCollection failed: %v", err)
	}
	gotA, _ := store.GetByID(ctx, a.ID)
	if len(gotA.Collections) != 1 || gotA.Collections[0].CollectionID != c2 || !gotA.Collections[0].IsPrimary {
		t.Errorf("a.Collections = %+v, want c2 promoted to primary", gotA.Collections)
	}
	gotB, _ := store.GetByID(ctx, b.ID)
	if len(gotB.Collections) != 0 {
		t.Errorf("b.Collections = %+v, want empty", gotB.Collections)
	}
}

func TestStore_GetByIDsKeepsOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := surveystore.New(db)
	var ids []primitive.ObjectID
	for _, ref := range []string{"R-A", "R-B", "R-C"} {
		sv, err := store.Create(ctx, models.Survey{RefID: ref})
		if err != nil {
			t.Fatalf("Create %s failed: %v", ref, err)
		}
		ids = append(ids, sv.ID)
	}
	want := []primitive.ObjectID{ids[2], primitive.NewObjectID(), ids[0]}
	got, err := store.GetByIDs(ctx, want)
	if err != nil {
		t.Fatalf("GetByIDs failed: %v", err)
	}
	if len(got) != 2 || got[0].RefID != "R-C" || got[1].RefID != "R-A" {
		t.Errorf("GetByIDs order wrong: %+v", got)
	}

	if err := store.Delete(ctx, ids[1]); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, ids[1]); !errors.Is(err, surveystore.ErrNotFound) {
		t.Errorf("second Delete: got %v, want ErrNotFound", err)
	}
}
