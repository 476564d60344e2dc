package tonal

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/RyanBlaney/acorde-sonar/algorithms/common"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// TonesPerChord is the number of target frequencies of every signature
const TonesPerChord = 3

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

var defaultCatalog = mustLoadDefaultCatalog()

// ChordSignature is a named set of three target frequencies
type ChordSignature struct {
	Key         string                 `json:"key" yaml:"key"`
	Name        string                 `json:"name" yaml:"display_name"`
	Frequencies [TonesPerChord]float64 `json:"frequencies" yaml:"frequencies"`
}

// CatalogEntry is the unvalidated form of a signature, as read from a file
// or built in code
type CatalogEntry struct {
	Key         string    `yaml:"-"`
	Name        string    `yaml:"display_name"`
	Frequencies []float64 `yaml:"frequencies"`
}

// Catalog is an ordered, read-only list of chord signatures. Iteration
// follows insertion order, which decides ties during classification. A
// Catalog is never modified after construction and may be shared freely
// between goroutines.
type Catalog struct {
	signatures []ChordSignature
	index      map[string]int
}

// NewCatalog validates entries and builds a catalog preserving their order.
// Every entry needs a unique non-empty key, a non-empty name and exactly
// three positive frequencies.
func NewCatalog(entries ...CatalogEntry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, common.InvalidConfigf("chord catalog is empty")
	}

	c := &Catalog{
		signatures: make([]ChordSignature, 0, len(entries)),
		index:      make(map[string]int, len(entries)),
	}

	for _, entry := range entries {
		key := strings.TrimSpace(entry.Key)
		if key == "" {
			return nil, common.InvalidConfigf("chord entry without key")
		}
		if _, dup := c.index[key]; dup {
			return nil, common.InvalidConfigf("duplicate chord key %q", key)
		}
		if len(entry.Frequencies) != TonesPerChord {
			return nil, common.InvalidConfigf("chord %q has %d frequencies, want %d", key, len(entry.Frequencies), TonesPerChord)
		}

		sig := ChordSignature{
			Key:  key,
			Name: norm.NFC.String(strings.TrimSpace(entry.Name)),
		}
		if sig.Name == "" {
			return nil, common.InvalidConfigf("chord %q has no display name", key)
		}
		for i, f := range entry.Frequencies {
			if !(f > 0) {
				return nil, common.InvalidConfigf("chord %q has non-positive frequency %g", key, f)
			}
			sig.Frequencies[i] = f
		}

		c.index[key] = len(c.signatures)
		c.signatures = append(c.signatures, sig)
	}

	return c, nil
}

// LoadCatalog parses a YAML mapping of
//
//	key:
//	  frequencies: [f1, f2, f3]
//	  display_name: name
//
// keeping the document order of the keys
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, common.InvalidConfigf("chord catalog is empty")
		}
		return nil, fmt.Errorf("%w: parse chord catalog: %v", common.ErrInvalidConfiguration, err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, common.InvalidConfigf("chord catalog must be a mapping of chord keys")
	}

	root := doc.Content[0]
	entries := make([]CatalogEntry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		var entry CatalogEntry
		if err := root.Content[i+1].Decode(&entry); err != nil {
			return nil, fmt.Errorf("%w: chord %q: %v", common.ErrInvalidConfiguration, root.Content[i].Value, err)
		}
		entry.Key = root.Content[i].Value
		entries = append(entries, entry)
	}

	return NewCatalog(entries...)
}

// LoadCatalogFile reads a YAML catalog from disk
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chord catalog: %w", err)
	}
	defer f.Close()

	return LoadCatalog(f)
}

// DefaultCatalog returns the built-in catalog of seven triads. The same
// instance is returned on every call.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

func mustLoadDefaultCatalog() *Catalog {
	c, err := LoadCatalog(bytes.NewReader(defaultCatalogYAML))
	if err != nil {
		panic(fmt.Sprintf("built-in chord catalog: %v", err))
	}
	return c
}

// Len returns the number of signatures
func (c *Catalog) Len() int {
	return len(c.signatures)
}

// Signatures returns a copy of the signatures in catalog order
func (c *Catalog) Signatures() []ChordSignature {
	out := make([]ChordSignature, len(c.signatures))
	copy(out, c.signatures)
	return out
}

// Lookup finds a signature by key
func (c *Catalog) Lookup(key string) (ChordSignature, bool) {
	i, ok := c.index[key]
	if !ok {
		return ChordSignature{}, false
	}
	return c.signatures[i], true
}

// FrequencyRange returns the lowest and highest target frequency
func (c *Catalog) FrequencyRange() (lo, hi float64) {
	all := make([]float64, 0, len(c.signatures)*TonesPerChord)
	for _, sig := range c.signatures {
		all = append(all, sig.Frequencies[:]...)
	}
	return common.MinMax(all)
}
