package loader_test

import (
	"strings"
	"testing"

	"github.com/aretw0/espalier/internal/dto"
	"github.com/aretw0/espalier/internal/loader"
)

func TestRegistryLookups(t *testing.T) {
	reg := loader.NewRegistry()
	reg.Register(loader.Format{
		Name:       "yaml",
		Extensions: []string{".yaml", ".yml"},
		Parse: func([]byte) (*dto.Document, error) {
			return &dto.Document{}, nil
		},
	})

	if _, err := reg.ByName("yaml"); err != nil {
		t.Errorf("ByName(yaml) = %v", err)
	}
	if _, err := reg.ByExtension(".yml"); err != nil {
		t.Errorf("ByExtension(.yml) = %v", err)
	}

	_, err := reg.ByName("toml")
	if err == nil || !strings.Contains(err.Error(), "yaml") {
		t.Errorf("unknown name should list known formats: %v", err)
	}
	_, err = reg.ByExtension(".toml")
	if err == nil || !strings.Contains(err.Error(), ".yaml") {
		t.Errorf("unknown extension should list known extensions: %v", err)
	}
}

func TestDefaultRegistryCoversAllFormats(t *testing.T) {
	for _, name := range []string{"yaml", "json", "ascii", "csv", "hcl", "markdown"} {
		if _, err := loader.Default.ByName(name); err != nil {
			t.Errorf("default registry missing %q: %v", name, err)
		}
	}
}
