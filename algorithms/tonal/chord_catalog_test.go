package tonal

import (
	"strings"
	"sync"
	"testing"

	"github.com/RyanBlaney/acorde-sonar/algorithms/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogOrderAndContent(t *testing.T) {
	c := DefaultCatalog()
	require.Same(t, c, DefaultCatalog())
	require.Equal(t, 7, c.Len())

	keys := make([]string, 0, c.Len())
	for _, sig := range c.Signatures() {
		keys = append(keys, sig.Key)
	}
	assert.Equal(t, []string{
		"do_maior", "re_menor", "mi_menor", "fa_maior",
		"sol_maior", "la_menor", "si_menor_5b",
	}, keys)

	doMaior, ok := c.Lookup("do_maior")
	require.True(t, ok)
	assert.Equal(t, "Dó Maior", doMaior.Name)
	assert.Equal(t, [3]float64{523.25, 659.25, 783.99}, doMaior.Frequencies)

	lo, hi := c.FrequencyRange()
	assert.Equal(t, 493.88, lo)
	assert.Equal(t, 1318.51, hi)

	_, ok = c.Lookup("missing")
	assert.False(t, ok)
}

func TestSignaturesReturnsCopy(t *testing.T) {
	c := DefaultCatalog()
	sigs := c.Signatures()
	sigs[0].Name = "changed"

	first, _ := c.Lookup("do_maior")
	assert.Equal(t, "Dó Maior", first.Name)
}

func TestLoadCatalogPreservesDocumentOrder(t *testing.T) {
	doc := `
zeta:
  frequencies: [300, 400, 500]
  display_name: Zeta
alpha:
  frequencies: [100, 200, 300]
  display_name: Alpha
`
	c, err := LoadCatalog(strings.NewReader(doc))
	require.NoError(t, err)

	sigs := c.Signatures()
	require.Len(t, sigs, 2)
	assert.Equal(t, "zeta", sigs[0].Key)
	assert.Equal(t, "alpha", sigs[1].Key)
}

func TestLoadCatalogNormalizesNames(t *testing.T) {
	// "Dó" written with a combining acute accent
	doc := "do:\n  frequencies: [1, 2, 3]\n  display_name: \"Do\u0301 Maior\"\n"
	c, err := LoadCatalog(strings.NewReader(doc))
	require.NoError(t, err)

	sig, _ := c.Lookup("do")
	assert.Equal(t, "Dó Maior", sig.Name)
}

func TestLoadCatalogRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"not a mapping":    "- a\n- b\n",
		"two frequencies":  "x:\n  frequencies: [1, 2]\n  display_name: X\n",
		"four frequencies": "x:\n  frequencies: [1, 2, 3, 4]\n  display_name: X\n",
		"no name":          "x:\n  frequencies: [1, 2, 3]\n",
		"zero frequency":   "x:\n  frequencies: [0, 2, 3]\n  display_name: X\n",
		"scalar entry":     "x: 5\n",
		"duplicate key":    "x:\n  frequencies: [1, 2, 3]\n  display_name: X\ny:\n  frequencies: [1, 2, 3]\n  display_name: Y\nx:\n  frequencies: [1, 2, 3]\n  display_name: X\n",
		"broken yaml":      "x: [1, 2\n",
	}

	for name, doc := range cases {
		_, err := LoadCatalog(strings.NewReader(doc))
		assert.ErrorIs(t, err, common.ErrInvalidConfiguration, name)
	}
}

func TestNewCatalogValidation(t *testing.T) {
	_, err := NewCatalog()
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)

	_, err = NewCatalog(CatalogEntry{Name: "No Key", Frequencies: []float64{1, 2, 3}})
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)

	c, err := NewCatalog(CatalogEntry{Key: "k", Name: " Name ", Frequencies: []float64{1, 2, 3}})
	require.NoError(t, err)
	sig, ok := c.Lookup("k")
	require.True(t, ok)
	assert.Equal(t, "Name", sig.Name)
}

func TestLoadCatalogFileMissing(t *testing.T) {
	_, err := LoadCatalogFile("testdata/does-not-exist.yaml")
	assert.Error(t, err)
}

func TestCatalogConcurrentReads(t *testing.T) {
	c := DefaultCatalog()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, sig := range c.Signatures() {
				_, ok := c.Lookup(sig.Key)
				assert.True(t, ok)
			}
		}()
	}
	wg.Wait()
}
