package schemes

import (
	"bytes"
	"os"
	"strings"

	"campus-match/internal/domain/matching"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type fileDoc struct {
	Schemes []schemeDoc `yaml:"schemes"`
}

type schemeDoc struct {
	Name      string       `yaml:"name"`
	Version   int          `yaml:"version"`
	Limit     int          `yaml:"limit"`
	Threshold thresholdDoc `yaml:"threshold"`
	Fields    []fieldDoc   `yaml:"fields"`
}

type thresholdDoc struct {
	MinScore  float64 `yaml:"min_score"`
	Inclusive bool    `yaml:"inclusive"`
}

type fieldDoc struct {
	Name       string  `yaml:"name"`
	Rule       string  `yaml:"rule"`
	Weight     float64 `yaml:"weight"`
	Multiplier float64 `yaml:"multiplier"`
	FlagField  string  `yaml:"flag_field"`
	Penalty    float64 `yaml:"penalty"`
}

// LoadFile reads a scheme document from disk. An empty path yields no schemes.
func LoadFile(path string) ([]*matching.Scheme, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "schemes: read %s", path)
	}
	out, err := Parse(b)
	if err != nil {
		return nil, eris.Wrapf(err, "schemes: %s", path)
	}
	return out, nil
}

// Parse decodes a YAML scheme document and validates every scheme in it.
// Unknown keys are rejected so that typos fail at startup.
func Parse(b []byte) ([]*matching.Scheme, error) {
	var doc fileDoc
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, eris.Wrap(matching.ErrInvalidScheme, "decode yaml: "+err.Error())
	}

	out := make([]*matching.Scheme, 0, len(doc.Schemes))
	seen := make(map[string]struct{}, len(doc.Schemes))
	for _, sd := range doc.Schemes {
		fields := make([]matching.FieldDefinition, 0, len(sd.Fields))
		for _, fd := range sd.Fields {
			fields = append(fields, matching.FieldDefinition{
				Name:       fd.Name,
				Rule:       matching.Rule(strings.ToLower(strings.TrimSpace(fd.Rule))),
				Weight:     fd.Weight,
				Multiplier: fd.Multiplier,
				FlagField:  fd.FlagField,
				Penalty:    fd.Penalty,
			})
		}

		s, err := matching.NewScheme(sd.Name, sd.Version, fields, sd.Limit, matching.Threshold{
			MinScore:  sd.Threshold.MinScore,
			Inclusive: sd.Threshold.Inclusive,
		})
		if err != nil {
			return nil, err
		}
		if _, dup := seen[s.Name]; dup {
			return nil, eris.Wrapf(matching.ErrInvalidScheme, "scheme %q defined twice", s.Name)
		}
		seen[s.Name] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

// Register loads path and adds its schemes to reg, replacing built-ins with
// the same name. It returns the names it registered.
func Register(reg *matching.Registry, path string) ([]string, error) {
	loaded, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(loaded))
	for _, s := range loaded {
		reg.Register(s)
		names = append(names, s.Name)
	}
	return names, nil
}
