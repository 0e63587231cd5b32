package publichealth

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/clinicdesk/platform/pkg/common/models"
	"gopkg.in/yaml.v3"
)

type Catalog struct {
	Stats []models.PublicHealthStat `yaml:"stats" json:"stats"`
}

// Load reads a regional surveillance catalog from a yaml file. An empty path
// falls back to the built-in catalog so the service works without any
// deployment-specific file.
func Load(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultCatalog(), err
	}
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, err
	}
	if len(cat.Stats) == 0 {
		return Catalog{}, fmt.Errorf("public health catalog empty")
	}
	return cat, nil
}

func DefaultCatalog() Catalog {
	return Catalog{Stats: []models.PublicHealthStat{
		{Region: "North District", Metric: "Flu Cases", Value: "1,240", Trend: "up"},
		{Region: "North District", Metric: "Vaccination Rate", Value: "76%", Trend: "up"},
		{Region: "South District", Metric: "Flu Cases", Value: "890", Trend: "down"},
		{Region: "South District", Metric: "Vaccination Rate", Value: "81%", Trend: "flat"},
		{Region: "West County", Metric: "COVID-19 Positivity", Value: "4.2%", Trend: "down"},
		{Region: "East County", Metric: "COVID-19 Positivity", Value: "5.8%", Trend: "up"},
	}}
}
