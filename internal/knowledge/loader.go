package knowledge

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk shape of a knowledge base overlay.
type catalogFile struct {
	Protocols []Protocol        `yaml:"protocols"`
	Drugs     []DrugInteraction `yaml:"drugs"`
}

// LoadCatalog reads protocols and drug interactions from a YAML file and
// overlays them on DefaultCatalog. An entry whose phrase or drug name
// matches a built-in one replaces it in place; new entries are appended.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}

	var f catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse knowledge base %s: %w", path, err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("knowledge base %s: %w", path, err)
	}

	c := DefaultCatalog()
	for _, p := range f.Protocols {
		p.Phrase = strings.ToLower(strings.TrimSpace(p.Phrase))
		c.Protocols = upsert(c.Protocols, p, func(a, b Protocol) bool { return a.Phrase == b.Phrase })
	}
	for _, d := range f.Drugs {
		c.Drugs = upsert(c.Drugs, d, func(a, b DrugInteraction) bool { return strings.EqualFold(a.Drug, b.Drug) })
	}
	return c, nil
}

func (f catalogFile) validate() error {
	var errs []error
	for i, p := range f.Protocols {
		if strings.TrimSpace(p.Phrase) == "" {
			errs = append(errs, fmt.Errorf("protocols[%d]: phrase is required", i))
		}
		if strings.TrimSpace(p.Procedure) == "" {
			errs = append(errs, fmt.Errorf("protocols[%d] %q: procedure is required", i, p.Phrase))
		}
	}
	for i, d := range f.Drugs {
		if strings.TrimSpace(d.Drug) == "" {
			errs = append(errs, fmt.Errorf("drugs[%d]: drug is required", i))
		}
		if len(d.Interactions) == 0 {
			errs = append(errs, fmt.Errorf("drugs[%d] %q: at least one interaction is required", i, d.Drug))
		}
	}
	return errors.Join(errs...)
}

func upsert[T any](list []T, v T, same func(a, b T) bool) []T {
	for i := range list {
		if same(list[i], v) {
			list[i] = v
			return list
		}
	}
	return append(list, v)
}
