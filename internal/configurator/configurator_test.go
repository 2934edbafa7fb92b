package configurator

import (
	"errors"
	"testing"

	"github.com/bean4896/hessen-custom/internal/catalog"
	"github.com/bean4896/hessen-custom/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryPersister struct {
	cfg     catalog.Configuration
	has     bool
	loadErr error
	saves   int
}

func (m *memoryPersister) Save(cfg catalog.Configuration) error {
	m.cfg = cfg
	m.has = true
	m.saves++
	return nil
}

func (m *memoryPersister) Load() (catalog.Configuration, bool, error) {
	return m.cfg, m.has, m.loadErr
}

func TestNewStore_Defaults(t *testing.T) {
	s := NewStore(catalog.Default(), nil)

	cfg := s.Current()
	assert.Equal(t, "rubberwood", cfg.Material)
	assert.Equal(t, "queen", cfg.Size)
	assert.Equal(t, pricing.BasePrice+250, s.Price()) // queen carries +250
}

func TestNewStore_LoadsPersistedSelection(t *testing.T) {
	p := &memoryPersister{cfg: catalog.Configuration{Material: "hinoki"}, has: true}

	s := NewStore(catalog.Default(), p)

	assert.Equal(t, "hinoki", s.Current().Material)
}

func TestNewStore_LoadFailureFallsBackToDefaults(t *testing.T) {
	p := &memoryPersister{loadErr: errors.New("disk gone")}

	s := NewStore(catalog.Default(), p)

	assert.Equal(t, "rubberwood", s.Current().Material)
}

func TestSelect_UnknownCategoryRejected(t *testing.T) {
	s := NewStore(catalog.Default(), nil)

	err := s.Select(catalog.Category("fabric"), "velvet")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	// Optional is multi-valued and not addressable via Select.
	err = s.Select(catalog.CategoryOptional, "mattress")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestSelect_PersistsEveryChange(t *testing.T) {
	p := &memoryPersister{}
	s := NewStore(catalog.Default(), p)

	require.NoError(t, s.Select(catalog.CategoryMaterial, "teakwood"))

	assert.Equal(t, 1, p.saves)
	assert.Equal(t, "teakwood", p.cfg.Material)
}

func TestToggleOption(t *testing.T) {
	s := NewStore(catalog.Default(), nil)

	s.ToggleOption("mattress")
	assert.Equal(t, []string{"mattress"}, s.Current().Optional)

	s.ToggleOption("bedding")
	assert.Equal(t, []string{"mattress", "bedding"}, s.Current().Optional)

	s.ToggleOption("mattress")
	assert.Equal(t, []string{"bedding"}, s.Current().Optional)
}

func TestReset(t *testing.T) {
	s := NewStore(catalog.Default(), nil)
	require.NoError(t, s.Select(catalog.CategoryMaterial, "hinoki"))
	s.ToggleOption("warranty")

	s.Reset()

	assert.Equal(t, DefaultConfiguration(), s.Current())
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	s := NewStore(catalog.Default(), nil)
	s.ToggleOption("mattress")

	cfg := s.Current()
	cfg.Optional[0] = "tampered"

	assert.Equal(t, []string{"mattress"}, s.Current().Optional)
}
