package catalog_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/canopyhub/internal/app/features/catalog"
	"github.com/dalemusser/canopyhub/internal/domain/models"
	"github.com/dalemusser/canopyhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return catalog.Routes(catalog.NewHandler(db, zap.NewNop()))
}

func do(t *testing.T, r http.Handler, method, path string, body any, out any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode response %q: %v", method, path, rec.Body.String(), err)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return rec.Code, env
}

// setupForm creates a required "Diameter" field and an optional "Finish"
// field, and a form holding both.
func setupForm(t *testing.T, r http.Handler) (models.Form, models.CustomField, models.CustomField) {
	t.Helper()
	var dia, fin models.CustomField
	if code, env := do(t, r, "POST", "/customFields", map[string]any{
		"label": "Diameter", "fieldType": "number", "required": true,
	}, &dia); code != http.StatusCreated {
		t.Fatalf("create field: %d (%s)", code, env.Error)
	}
	if code, env := do(t, r, "POST", "/customFields", map[string]any{
		"label": "Finish", "fieldType": "select", "options": []string{"Steel", "Black"},
	}, &fin); code != http.StatusCreated {
		t.Fatalf("create field: %d (%s)", code, env.Error)
	}
	var form models.Form
	if code, env := do(t, r, "POST", "/forms", map[string]any{
		"name": "Fans", "fields": []string{dia.ID.Hex(), fin.ID.Hex()},
	}, &form); code != http.StatusCreated {
		t.Fatalf("create form: %d (%s)", code, env.Error)
	}
	return form, dia, fin
}

func TestProduct_RequiresFormAndFields(t *testing.T) {
	r := newRouter(t)
	form, dia, fin := setupForm(t, r)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{
			name: "missing required attributes",
			body: map[string]any{"name": "Axial"},
			want: http.StatusBadRequest,
		},
		{
			name: "unknown form",
			body: map[string]any{"category": "Fans", "name": "Axial", "type": "fan", "form": dia.ID.Hex()},
			want: http.StatusBadRequest,
		},
		{
			name: "required field missing",
			body: map[string]any{
				"category": "Fans", "name": "Axial", "type": "fan", "form": form.ID.Hex(),
				"customFields": []map[string]any{{"fieldId": fin.ID.Hex(), "value": "Steel"}},
			},
			want: http.StatusBadRequest,
		},
		{
			name: "valid",
			body: map[string]any{
				"category": "Fans", "name": "Axial", "type": "fan", "form": form.ID.Hex(),
				"customFields": []map[string]any{{"fieldId": dia.ID.Hex(), "value": 400}},
			},
			want: http.StatusCreated,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, env := do(t, r, "POST", "/products", tc.body, nil)
			if code != tc.want {
				t.Errorf("status: got %d, want %d (%s)", code, tc.want, env.Error)
			}
		})
	}
}

func TestForm_DeleteInUseAndFieldCleanup(t *testing.T) {
	r := newRouter(t)
	form, dia, _ := setupForm(t, r)

	var p models.Product
	code, env := do(t, r, "POST", "/products", map[string]any{
		"category": "Fans", "name": "Axial", "type": "fan", "form": form.ID.Hex(),
		"customFields": []map[string]any{{"fieldId": dia.ID.Hex(), "value": "400"}},
	}, &p)
	if code != http.StatusCreated {
		t.Fatalf("create product: %d (%s)", code, env.Error)
	}

	if code, _ := do(t, r, "DELETE", "/forms/"+form.ID.Hex(), nil, nil); code != http.StatusBadRequest {
		t.Errorf("delete in-use form: got %d, want %d", code, http.StatusBadRequest)
	}

	if code, env := do(t, r, "DELETE", "/customFields/"+dia.ID.Hex(), nil, nil); code != http.StatusOK {
		t.Fatalf("delete field: %d (%s)", code, env.Error)
	}
	var got struct {
		models.Form
		FieldDefs []models.CustomField `json:"fieldDefs"`
	}
	do(t, r, "GET", "/forms/"+form.ID.Hex(), nil, &got)
	if len(got.Fields) != 1 || len(got.FieldDefs) != 1 || got.FieldDefs[0].Label != "Finish" {
		t.Errorf("form after field delete: fields=%v defs=%+v", got.Fields, got.FieldDefs)
	}

	if code, _ := do(t, r, "DELETE", "/products/"+p.ID.Hex(), nil, nil); code != http.StatusOK {
		t.Fatalf("delete product: %d", code)
	}
	if code, _ := do(t, r, "DELETE", "/forms/"+form.ID.Hex(), nil, nil); code != http.StatusOK {
		t.Errorf("delete unused form: got %d, want %d", code, http.StatusOK)
	}
}

func TestCustomField_SelectNeedsOptions(t *testing.T) {
	r := newRouter(t)

	code, _ := do(t, r, "POST", "/customFields", map[string]any{"label": "Colour", "fieldType": "select"}, nil)
	if code != http.StatusBadRequest {
		t.Errorf("select without options: got %d, want %d", code, http.StatusBadRequest)
	}
	code, _ = do(t, r, "POST", "/customFields", map[string]any{"label": "Colour", "fieldType": "radio"}, nil)
	if code != http.StatusBadRequest {
		t.Errorf("unknown type: got %d, want %d", code, http.StatusBadRequest)
	}
}

func TestParts_CRUD(t *testing.T) {
	r := newRouter(t)

	var p models.Part
	code, env := do(t, r, "POST", "/parts", map[string]any{
		"category": "Canopy", "item": "Filter", "svgPath": "/svg/filter.svg",
		"dimensions": map[string]any{"width": 50, "height": 50},
	}, &p)
	if code != http.StatusCreated {
		t.Fatalf("create: %d (%s)", code, env.Error)
	}

	code, env = do(t, r, "PUT", "/parts/"+p.ID.Hex(), map[string]any{
		"category": "Canopy", "item": "Baffle filter", "price": 12.5,
	}, &p)
	if code != http.StatusOK {
		t.Fatalf("update: %d (%s)", code, env.Error)
	}
	if p.Item != "Baffle filter" || p.Price != 12.5 {
		t.Errorf("updated part = %+v", p)
	}

	var list []models.Part
	do(t, r, "GET", "/parts?category=Canopy", nil, &list)
	if len(list) != 1 {
		t.Errorf("list returned %d parts, want 1", len(list))
	}

	if code, _ := do(t, r, "DELETE", "/parts/"+p.ID.Hex(), nil, nil); code != http.StatusOK {
		t.Errorf("delete: got %d", code)
	}
	if code, _ := do(t, r, "GET", "/parts/"+p.ID.Hex(), nil, nil); code != http.StatusNotFound {
		t.Errorf("get after delete: got %d, want %d", code, http.StatusNotFound)
	}
}
