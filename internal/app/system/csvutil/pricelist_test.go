package csvutil

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dalemusser/canopyhub/internal/domain/models"
)

func TestWritePriceList_HeaderOrder(t *testing.T) {
	var buf bytes.Buffer
	err := WritePriceList(&buf, []PriceRow{{
		ID: "64b000000000000000000001", Category: "Canopy", Subcategory: "Wall", Item: "Filter",
		Prices: models.Prices{A: 10, B: 12.5, C: 0, D: 7, E: 1}, SvgPath: "/svg/filter.svg",
	}})
	if err != nil {
		t.Fatalf("WritePriceList() error = %v", err)
	}
	want := "_id,category,subcategory,item,prices.A,prices.B,prices.C,prices.D,prices.E,svgPath\n" +
		"64b000000000000000000001,Canopy,Wall,Filter,10,12.5,0,7,1,/svg/filter.svg\n"
	if buf.String() != want {
		t.Errorf("WritePriceList() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestPriceList_RoundTrip(t *testing.T) {
	in := []PriceRow{
		{Category: "Canopy", Subcategory: "Wall", Item: "Filter, baffle", Prices: models.Prices{A: 10, B: 12.5}},
		{Category: "Ductwork", Item: "Bend 90\"", Prices: models.Prices{C: 3, D: 4, E: 5}, SvgPath: "/svg/bend.svg"},
	}
	var buf bytes.Buffer
	if err := WritePriceList(&buf, in); err != nil {
		t.Fatalf("WritePriceList() error = %v", err)
	}
	res, err := ParsePriceList(&buf)
	if err != nil {
		t.Fatalf("ParsePriceList() error = %v", err)
	}
	if res.HasErrors() {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Rows) != len(in) {
		t.Fatalf("got %d rows, want %d", len(res.Rows), len(in))
	}
	for i := range in {
		if res.Rows[i].Key() != in[i].Key() || res.Rows[i].Prices != in[i].Prices || res.Rows[i].SvgPath != in[i].SvgPath {
			t.Errorf("row %d = %+v, want %+v", i, res.Rows[i], in[i])
		}
	}
}

func TestPriceList_RoundTripKeepsSurroundingSpaces(t *testing.T) {
	in := []PriceRow{{Category: "Canopy", Subcategory: " Wall ", Item: "Filter  ", Prices: models.Prices{A: 1}}}
	var buf bytes.Buffer
	if err := WritePriceList(&buf, in); err != nil {
		t.Fatalf("WritePriceList() error = %v", err)
	}
	res, err := ParsePriceList(&buf)
	if err != nil {
		t.Fatalf("ParsePriceList() error = %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0].Key() != in[0].Key() {
		t.Fatalf("rows = %+v, want key %v", res.Rows, in[0].Key())
	}

	fromJSON := RowsFromJSON([]map[string]any{{"category": "Canopy", "subcategory": " Wall ", "item": "Filter  "}})
	if len(fromJSON.Rows) != 1 || fromJSON.Rows[0].Key() != in[0].Key() {
		t.Errorf("JSON rows = %+v, want key %v", fromJSON.Rows, in[0].Key())
	}

	blank, _ := ParsePriceList(strings.NewReader("category,item\nCanopy,   \n"))
	if len(blank.Errors) != 1 || !strings.Contains(blank.Errors[0].Reason, "missing item") {
		t.Errorf("whitespace item: errors = %v, want missing item", blank.Errors)
	}
}

func TestParsePriceList_MissingPriceColumns(t *testing.T) {
	csv := "\ufeffcategory,item,prices.B\nCanopy,Filter,4.5\nCanopy,Light,\n"
	res, err := ParsePriceList(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParsePriceList() error = %v", err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(res.Rows))
	}
	if res.Rows[0].Prices != (models.Prices{B: 4.5}) {
		t.Errorf("row 0 prices = %+v", res.Rows[0].Prices)
	}
	if res.Rows[1].Prices != (models.Prices{}) {
		t.Errorf("row 1 prices = %+v, want zero", res.Rows[1].Prices)
	}
}

func TestParsePriceList_RowErrors(t *testing.T) {
	tests := []struct {
		name        string
		csv         string
		errContains string
	}{
		{"missing category", "category,item\n,Filter\n", "missing category"},
		{"missing item", "category,item\nCanopy,\n", "missing item"},
		{"bad price", "category,item,prices.A\nCanopy,Filter,abc\n", "band A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParsePriceList(strings.NewReader(tt.csv))
			if err != nil {
				t.Fatalf("ParsePriceList() error = %v", err)
			}
			if len(res.Errors) != 1 {
				t.Fatalf("got %d errors, want 1", len(res.Errors))
			}
			if res.Errors[0].Line != 2 {
				t.Errorf("Line = %d, want 2", res.Errors[0].Line)
			}
			if !strings.Contains(res.Errors[0].Reason, tt.errContains) {
				t.Errorf("Reason %q doesn't contain %q", res.Errors[0].Reason, tt.errContains)
			}
			if !strings.Contains(res.Summary(), "1 row(s) rejected") {
				t.Errorf("Summary() = %q", res.Summary())
			}
		})
	}
}

func TestParsePriceList_RequiresItemColumn(t *testing.T) {
	if _, err := ParsePriceList(strings.NewReader("category,name\nA,B\n")); err == nil {
		t.Error("expected error for header without item column")
	}
}

func TestRowsFromJSON(t *testing.T) {
	var items []map[string]any
	raw := `[
		{"category":"Canopy","subcategory":"Wall","item":"Filter","prices.A":10,"prices.B":"12.50"},
		{"category":"Canopy","item":"Light","prices":{"C":3,"E":"£1,200"}},
		{"category":"","item":"Nothing"}
	]`
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		t.Fatal(err)
	}
	res := RowsFromJSON(items)
	if len(res.Rows) != 2 || len(res.Errors) != 1 {
		t.Fatalf("rows=%d errors=%d, want 2 and 1", len(res.Rows), len(res.Errors))
	}
	if res.Rows[0].Prices != (models.Prices{A: 10, B: 12.5}) {
		t.Errorf("flat prices = %+v", res.Rows[0].Prices)
	}
	if res.Rows[1].Prices != (models.Prices{C: 3, E: 1200}) {
		t.Errorf("nested prices = %+v", res.Rows[1].Prices)
	}
	if res.Errors[0].Line != 3 {
		t.Errorf("error line = %d, want 3", res.Errors[0].Line)
	}
}
