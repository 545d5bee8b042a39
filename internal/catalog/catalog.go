// Package catalog reads ingredient catalog dumps for bulk import.
package catalog

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"foodgram/internal/models"
)

// ReadFile loads a catalog from a .json or .csv file.
func ReadFile(path string) ([]models.Ingredient, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return ReadJSON(f)
	case ".csv":
		return ReadCSV(f)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
}

// ReadJSON decodes an array of {"name", "measurement_unit"} objects.
func ReadJSON(r io.Reader) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := json.NewDecoder(r).Decode(&ingredients); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return ingredients, nil
}

// ReadCSV reads "name,measurement_unit" records. A header row with those
// column names is skipped.
func ReadCSV(r io.Reader) ([]models.Ingredient, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var ingredients []models.Ingredient
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog line %d: %w", line, err)
		}
		if line == 1 && strings.EqualFold(record[0], "name") && strings.EqualFold(record[1], "measurement_unit") {
			continue
		}
		ingredients = append(ingredients, models.Ingredient{Name: record[0], MeasurementUnit: record[1]})
	}
	return ingredients, nil
}
