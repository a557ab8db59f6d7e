package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/soumyadeepsahu/SVGnest/internal/model"
)

// jsonDocument is the on-disk shape of a JSON export.
type jsonDocument struct {
	Container model.Container  `json:"container"`
	Result    model.NestResult `json:"result"`
}

// ExportJSON writes the full nesting result, including placement polygons,
// as indented JSON.
func ExportJSON(path string, result model.NestResult, container model.Container) error {
	doc := jsonDocument{Container: container, Result: result}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cannot write JSON file: %w", err)
	}
	return nil
}
