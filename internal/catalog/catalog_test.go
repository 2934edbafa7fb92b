package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	cat := Default()

	o, ok := cat.Lookup(CategoryMaterial, "teakwood")
	assert.True(t, ok)
	assert.Equal(t, "Teakwood", o.Title)
	assert.Equal(t, 599.0, o.PriceDelta)

	_, ok = cat.Lookup(CategoryMaterial, "granite")
	assert.False(t, ok)

	_, ok = cat.Lookup(Category("colorway"), "natural")
	assert.False(t, ok)
}

func TestHasCategory(t *testing.T) {
	cat := Default()

	for _, c := range Categories {
		assert.True(t, cat.HasCategory(c), "category %s", c)
	}
	assert.False(t, cat.HasCategory(Category("fabric")))
}

func TestConfigurationKey_OptionalOrderInsensitive(t *testing.T) {
	a := Configuration{Material: "oakwood", Optional: []string{"mattress", "bedding"}}
	b := Configuration{Material: "oakwood", Optional: []string{"bedding", "mattress"}}

	assert.Equal(t, a.Key(), b.Key())
}

func TestConfigurationKey_DistinguishesSelections(t *testing.T) {
	a := Configuration{Material: "oakwood", Size: "queen"}
	b := Configuration{Material: "oakwood", Size: "king"}

	assert.NotEqual(t, a.Key(), b.Key())
}

func TestConfigurationSummary(t *testing.T) {
	cfg := Configuration{
		Material:  "oakwood",
		Finish:    "natural",
		Size:      "queen",
		Headboard: "panel",
		Base:      "platform",
	}

	assert.Equal(t, "Oakwood Queen Bed, Natural finish, Panel headboard, Platform base", cfg.Summary())
}
