package config

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/greedyreview/internal/domain/model"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

type catalogFile struct {
	Repositories []model.Repository `yaml:"repositories"`
}

// LoadTaxonomy reads a keyword taxonomy from a YAML file. An empty path
// returns the embedded default taxonomy.
func LoadTaxonomy(path string) (model.Taxonomy, error) {
	data, err := readConfigFile(path, "defaults/taxonomy.yaml")
	if err != nil {
		return model.Taxonomy{}, fmt.Errorf("read taxonomy: %w", err)
	}

	return ParseTaxonomy(data)
}

// ParseTaxonomy decodes and validates a YAML taxonomy document. Every
// category needs a key and at least one keyword; category keys must be unique.
func ParseTaxonomy(data []byte) (model.Taxonomy, error) {
	var tax model.Taxonomy
	if err := yaml.Unmarshal(data, &tax); err != nil {
		return model.Taxonomy{}, fmt.Errorf("parse taxonomy: %w", err)
	}

	if len(tax.Categories) == 0 {
		return model.Taxonomy{}, fmt.Errorf("taxonomy has no categories")
	}

	seen := make(map[string]struct{}, len(tax.Categories))
	for i, c := range tax.Categories {
		key := strings.TrimSpace(c.Key)
		if key == "" {
			return model.Taxonomy{}, fmt.Errorf("taxonomy category %d has no key", i)
		}
		if _, dup := seen[key]; dup {
			return model.Taxonomy{}, fmt.Errorf("taxonomy category %q is defined twice", key)
		}
		seen[key] = struct{}{}
		if len(c.Keywords) == 0 {
			return model.Taxonomy{}, fmt.Errorf("taxonomy category %q has no keywords", key)
		}
		tax.Categories[i].Key = key
	}

	return tax, nil
}

// LoadCatalog reads the repository catalog from a YAML file. An empty path
// returns the embedded default catalog.
func LoadCatalog(path string) ([]model.Repository, error) {
	data, err := readConfigFile(path, "defaults/repositories.yaml")
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	for i, r := range f.Repositories {
		owner, name, ok := strings.Cut(r.ID, "/")
		if !ok || owner == "" || name == "" {
			return nil, fmt.Errorf("catalog entry %d: id %q must be owner/name", i, r.ID)
		}
		if r.Name == "" {
			f.Repositories[i].Name = name
		}
	}

	return f.Repositories, nil
}

func readConfigFile(path, fallback string) ([]byte, error) {
	if path == "" {
		return defaultsFS.ReadFile(fallback)
	}
	return os.ReadFile(path)
}
