package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/elektrokombinacija/warehouse-planner/internal/core"
)

// Load reads an instance file, picking the format from the extension:
// .lp/.asp for init facts, .yaml/.yml for YAML.
func Load(path string) (*core.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".lp", ".asp":
		return ParseFacts(f)
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return nil, fmt.Errorf("%w: unsupported instance format %q", core.ErrMalformed, filepath.Ext(path))
	}
}
