package mapping

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/catmatch/pkg/errors"
)

// overlayFile is the on-disk shape of an overlay:
//
//	pairs:
//	  - source: "Corte Total"
//	    target: fiber_cut
type overlayFile struct {
	Pairs []Pair `yaml:"pairs"`
}

// LoadPairs reads extra label pairs from a YAML file.
func LoadPairs(path string) ([]Pair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return ParsePairs(data, path)
}

// ParsePairs decodes overlay YAML. name is only used in error messages.
func ParsePairs(data []byte, name string) ([]Pair, error) {
	var doc overlayFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapParse("yaml", name, err)
	}
	for i, p := range doc.Pairs {
		if p.Source == "" || p.Target == "" {
			return nil, errors.NewValidationError("pairs", i, "source and target are required")
		}
	}
	return doc.Pairs, nil
}
