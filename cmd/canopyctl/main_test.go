package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dalemusser/canopyhub/internal/domain/models"
	"github.com/dalemusser/canopyhub/internal/surveyclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func sampleSurvey() models.Survey {
	return models.Survey{
		ID:       primitive.NewObjectID(),
		RefID:    "KIT/KS/123456A/A",
		AreaName: "Main kitchen",
		Canopy: models.CanopySection{
			Comments: map[string]string{"C1": "filters missing"},
		},
		Schematic: models.Schematic{
			AccessDoorSelections: []models.DoorSelection{{Door: "300x300", Price: 45, Quantity: 2}},
			PartsTotal:           models.PriceTotal{Overall: 90, Breakdown: map[string]float64{"Doors": 90}},
		},
	}
}

func TestStateFile_RoundTrip(t *testing.T) {
	for _, name := range []string{"area.json", "area.yaml", "area.YML"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := sampleSurvey()

			require.NoError(t, writeSurvey(path, want))
			got, err := readSurvey(path)
			require.NoError(t, err)

			assert.Equal(t, want.ID, got.ID)
			assert.Equal(t, want.RefID, got.RefID)
			assert.Equal(t, want.Canopy.Comments, got.Canopy.Comments)
			assert.Equal(t, want.Schematic.AccessDoorSelections, got.Schematic.AccessDoorSelections)
			assert.Equal(t, 90.0, got.Schematic.PartsTotal.Breakdown["Doors"])
		})
	}
}

func TestStateFile_YAMLUsesAPIFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "area.yaml")
	require.NoError(t, writeSurvey(path, sampleSurvey()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "refId: KIT/KS/123456A/A")
	assert.Contains(t, string(data), "canopySurvey:")
}

func TestReadSurvey_PriceTotalAsNumber(t *testing.T) {
	path := filepath.Join(t.TempDir(), "area.yaml")
	doc := "refId: KIT/KS/1A23456/A\nschematic:\n  partsTotal: 125.5\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	sv, err := readSurvey(path)
	require.NoError(t, err)
	assert.Equal(t, 125.5, sv.Schematic.PartsTotal.Overall)
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, xlsxContentType, contentTypeFor("prices.XLSX"))
	assert.Equal(t, "application/json", contentTypeFor("prices.json"))
	assert.Equal(t, "text/csv", contentTypeFor("prices.csv"))
	assert.Equal(t, "text/csv", contentTypeFor("prices"))
}

func TestPromptConfirm(t *testing.T) {
	assumeYes = false
	var out bytes.Buffer

	leave := promptConfirm(strings.NewReader("y\n"), &out)
	assert.True(t, leave(context.Background(), surveyclient.Result{Status: 500}, nil))
	assert.Contains(t, out.String(), "status 500")

	stay := promptConfirm(strings.NewReader("\n"), &out)
	assert.False(t, stay(context.Background(), surveyclient.Result{}, nil))

	assumeYes = true
	defer func() { assumeYes = false }()
	assert.True(t, promptConfirm(strings.NewReader(""), &out)(context.Background(), surveyclient.Result{}, nil))
}

func TestCheckRefCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/surveys/kitchenSurveys/checkRef", r.URL.Path)
		taken := r.URL.Query().Get("refId") == "KIT/KS/123456A/A"
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]bool{"exists": taken}})
	}))
	defer srv.Close()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"survey", "checkref", "--base-url", srv.URL, "KIT/KS/123456A/A"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "KIT/KS/123456A/A is taken\n", out.String())
}
