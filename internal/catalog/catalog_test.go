package catalog_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"foodgram/internal/catalog"
	"foodgram/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSON(t *testing.T) {
	got, err := catalog.ReadJSON(strings.NewReader(`[
		{"name": "apricot jam", "measurement_unit": "g"},
		{"name": "egg", "measurement_unit": "pcs"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, []models.Ingredient{
		{Name: "apricot jam", MeasurementUnit: "g"},
		{Name: "egg", MeasurementUnit: "pcs"},
	}, got)

	_, err = catalog.ReadJSON(strings.NewReader(`{"name": "egg"}`))
	assert.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	got, err := catalog.ReadCSV(strings.NewReader("name,measurement_unit\nflour, g\n\"salt, sea\",pinch\n"))
	require.NoError(t, err)
	assert.Equal(t, []models.Ingredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "salt, sea", MeasurementUnit: "pinch"},
	}, got)

	headless, err := catalog.ReadCSV(strings.NewReader("milk,ml\n"))
	require.NoError(t, err)
	assert.Len(t, headless, 1)

	_, err = catalog.ReadCSV(strings.NewReader("milk,ml,extra\n"))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "ingredients.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("sugar,g\n"), 0o644))

	got, err := catalog.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, []models.Ingredient{{Name: "sugar", MeasurementUnit: "g"}}, got)

	_, err = catalog.ReadFile(filepath.Join(dir, "ingredients.xml"))
	assert.Error(t, err)
}
