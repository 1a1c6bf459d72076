package clientstore_test

import (
	"errors"
	"testing"

	clientstore "github.com/dalemusser/canopyhub/internal/app/store/clients"
	"github.com/dalemusser/canopyhub/internal/app/system/paging"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"github.com/dalemusser/canopyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateLinksBackReferences(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sites := clientstore.New(db, clientstore.Sites)
	groups := clientstore.New(db, clientstore.Groups)

	v, err := sites.Create(ctx, bson.M{"siteName": "Harbour Kitchen"})
	if err != nil {
		t.Fatalf("Create site failed: %v", err)
	}
	site := v.(*models.Site)
	if site.NameCI != "harbour kitchen" {
		t.Errorf("NameCI = %q, want %q", site.NameCI, "harbour kitchen")
	}
	if site.CreatedAt.IsZero() || site.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	v, err = groups.Create(ctx, bson.M{"groupName": "North", "sites": bson.A{site.ID}})
	if err != nil {
		t.Fatalf("Create group failed: %v", err)
	}
	group := v.(*models.Group)
	if len(group.Sites) != 1 || group.Sites[0] != site.ID {
		t.Errorf("group.Sites = %v, want [%s]", group.Sites, site.ID.Hex())
	}

	v, err = sites.Get(ctx, site.ID)
	if err != nil {
		t.Fatalf("Get site failed: %v", err)
	}
	if got := v.(*models.Site).Groups; len(got) != 1 || got[0] != group.ID {
		t.Errorf("site.Groups = %v, want [%s]", got, group.ID.Hex())
	}
}

func TestStore_UpdateRefreshesNameCI(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	contacts := clientstore.New(db, clientstore.Contacts)
	v, err := contacts.Create(ctx, bson.M{"firstName": "Ann", "lastName": "Smith"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	c := v.(*models.Contact)
	if c.NameCI != "ann smith" {
		t.Errorf("NameCI = %q, want %q", c.NameCI, "ann smith")
	}

	v, err = contacts.Update(ctx, c.ID, bson.M{"lastName": "Jones"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got := v.(*models.Contact)
	if got.FirstName != "Ann" || got.LastName != "Jones" {
		t.Errorf("names = %q %q", got.FirstName, got.LastName)
	}
	if got.NameCI != "ann jones" {
		t.Errorf("NameCI = %q, want %q", got.NameCI, "ann jones")
	}
}

func TestStore_ListSearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	chains := clientstore.New(db, clientstore.Chains)
	for _, name := range []string{"Burger Barn", "Bagel Box", "Pizza Place"} {
		if _, err := chains.Create(ctx, bson.M{"chainName": name}); err != nil {
			t.Fatalf("Create %q failed: %v", name, err)
		}
	}

	tests := []struct {
		search string
		limit  int64
		want   []string
	}{
		{"", 0, []string{"Bagel Box", "Burger Barn", "Pizza Place"}},
		{"b", 0, []string{"Bagel Box", "Burger Barn"}},
		{"BUR", 0, []string{"Burger Barn"}},
		{"", 1, []string{"Bagel Box"}},
		{"(", 0, nil},
	}
	for _, tt := range tests {
		page, err := chains.List(ctx, clientstore.ListOptions{Search: tt.search, Limit: tt.limit})
		got := page.Items
		if err != nil {
			t.Fatalf("List(%q) failed: %v", tt.search, err)
		}
		if len(got) != len(tt.want) {
			t.Errorf("List(%q, %d) returned %d, want %d", tt.search, tt.limit, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if name := v.(*models.Chain).ChainName; name != tt.want[i] {
				t.Errorf("List(%q)[%d] = %q, want %q", tt.search, i, name, tt.want[i])
			}
		}
	}
}

func TestStore_ListCursors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	chains := clientstore.New(db, clientstore.Chains)
	for _, name := range []string{"Delta Diner", "Alpha Grill", "Echo Eats", "Bravo Bistro", "Charlie Cafe"} {
		if _, err := chains.Create(ctx, bson.M{"chainName": name}); err != nil {
			t.Fatalf("Create %q failed: %v", name, err)
		}
	}
	names := func(p clientstore.Page) []string {
		out := make([]string, 0, len(p.Items))
		for _, v := range p.Items {
			out = append(out, v.(*models.Chain).ChainName)
		}
		return out
	}

	first, err := chains.List(ctx, clientstore.ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if got := names(first); len(got) != 2 || got[0] != "Alpha Grill" || got[1] != "Bravo Bistro" {
		t.Fatalf("first page = %v", got)
	}
	if first.PrevCursor != "" || first.NextCursor == "" {
		t.Fatalf("first page cursors = %q / %q", first.PrevCursor, first.NextCursor)
	}

	second, err := chains.List(ctx, clientstore.ListOptions{After: first.NextCursor, Limit: 2})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if got := names(second); len(got) != 2 || got[0] != "Charlie Cafe" || got[1] != "Delta Diner" {
		t.Fatalf("second page = %v", got)
	}

	last, _ := chains.List(ctx, clientstore.ListOptions{After: second.NextCursor, Limit: 2})
	if got := names(last); len(got) != 1 || got[0] != "Echo Eats" || last.NextCursor != "" {
		t.Fatalf("last page = %v next=%q", got, last.NextCursor)
	}

	back, err := chains.List(ctx, clientstore.ListOptions{Before: second.PrevCursor, Limit: 2})
	if err != nil {
		t.Fatalf("back page: %v", err)
	}
	if got := names(back); len(got) != 2 || got[0] != "Alpha Grill" || got[1] != "Bravo Bistro" {
		t.Fatalf("back page = %v", got)
	}

	if _, err := chains.List(ctx, clientstore.ListOptions{After: "%%%"}); !errors.Is(err, paging.ErrBadCursor) {
		t.Errorf("bad cursor: err = %v, want ErrBadCursor", err)
	}
}

func TestStore_DeleteCleansReferences(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	suppliers := clientstore.New(db, clientstore.Suppliers)
	sites := clientstore.New(db, clientstore.Sites)

	v, _ := suppliers.Create(ctx, bson.M{"supplierName": "Filters Ltd"})
	sup := v.(*models.Supplier)
	v, err := sites.Create(ctx, bson.M{"siteName": "Dockside", "suppliers": bson.A{sup.ID}})
	if err != nil {
		t.Fatalf("Create site failed: %v", err)
	}
	site := v.(*models.Site)

	if err := suppliers.Delete(ctx, sup.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	v, _ = sites.Get(ctx, site.ID)
	if got := v.(*models.Site).Suppliers; len(got) != 0 {
		t.Errorf("site.Suppliers = %v, want empty", got)
	}
	if _, err := suppliers.Get(ctx, sup.ID); !errors.Is(err, clientstore.ErrNotFound) {
		t.Errorf("Get after delete: got %v, want ErrNotFound", err)
	}
	if err := suppliers.Delete(ctx, primitive.NewObjectID()); !errors.Is(err, clientstore.ErrNotFound) {
		t.Errorf("Delete missing: got %v, want ErrNotFound", err)
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"sites", "groups", "chains", "contacts", "suppliers"} {
		k, ok := clientstore.Lookup(name)
		if !ok || k.Name != name {
			t.Errorf("Lookup(%q) = %v, %v", name, k.Name, ok)
		}
	}
	if _, ok := clientstore.Lookup("users"); ok {
		t.Error("Lookup(users) should fail")
	}
	if got := clientstore.Sites.LegacyRefs(); got["group"] != "groups" || got["chain"] != "chains" {
		t.Errorf("Sites.LegacyRefs() = %v", got)
	}
}
