package configurator

import (
	"errors"
	"log"

	"github.com/bean4896/hessen-custom/internal/catalog"
	"github.com/bean4896/hessen-custom/internal/pricing"
)

var ErrUnknownCategory = errors.New("unknown option category")

// Persister is the side-effect port for keeping the in-progress selection
// across sessions. Implementations store a JSON-serializable snapshot under a
// fixed namespace key.
type Persister interface {
	Save(cfg catalog.Configuration) error
	Load() (catalog.Configuration, bool, error)
}

// Store holds one user's in-progress configuration. It is an explicit,
// injected object rather than ambient state so it can be exercised without
// any UI attached.
type Store struct {
	cat     *catalog.Catalog
	persist Persister
	cfg     catalog.Configuration
}

// DefaultConfiguration is the selection shown before the user touches
// anything.
func DefaultConfiguration() catalog.Configuration {
	return catalog.Configuration{
		Material:  "rubberwood",
		Finish:    "natural",
		Size:      "queen",
		Headboard: "panel",
		Base:      "platform",
	}
}

// NewStore creates a store seeded from the persister when a prior selection
// exists, otherwise from the defaults. A persister that fails to load is
// logged and treated as empty.
func NewStore(cat *catalog.Catalog, persist Persister) *Store {
	s := &Store{cat: cat, persist: persist, cfg: DefaultConfiguration()}
	if persist != nil {
		cfg, ok, err := persist.Load()
		if err != nil {
			log.Printf("configurator: load persisted selection: %v", err)
		} else if ok {
			s.cfg = cfg
		}
	}
	return s
}

// Select sets the option for a single-select category. The category must be
// known to the catalog; the optional category is multi-valued and goes
// through ToggleOption instead.
func (s *Store) Select(category catalog.Category, id string) error {
	if category == catalog.CategoryOptional || !s.cat.HasCategory(category) {
		return ErrUnknownCategory
	}
	switch category {
	case catalog.CategoryMaterial:
		s.cfg.Material = id
	case catalog.CategoryFinish:
		s.cfg.Finish = id
	case catalog.CategorySize:
		s.cfg.Size = id
	case catalog.CategoryHeadboard:
		s.cfg.Headboard = id
	case catalog.CategoryBase:
		s.cfg.Base = id
	}
	s.save()
	return nil
}

// ToggleOption adds the id to the optional set, or removes it when already
// present. Order of the set carries no meaning.
func (s *Store) ToggleOption(id string) {
	for i, existing := range s.cfg.Optional {
		if existing == id {
			s.cfg.Optional = append(s.cfg.Optional[:i], s.cfg.Optional[i+1:]...)
			s.save()
			return
		}
	}
	s.cfg.Optional = append(s.cfg.Optional, id)
	s.save()
}

func (s *Store) Reset() {
	s.cfg = DefaultConfiguration()
	s.save()
}

// Current returns a copy of the selection; mutating it does not touch the
// store.
func (s *Store) Current() catalog.Configuration {
	cfg := s.cfg
	cfg.Optional = append([]string(nil), s.cfg.Optional...)
	return cfg
}

func (s *Store) Price() float64 {
	return pricing.Price(s.cfg, s.cat)
}

func (s *Store) Breakdown() []pricing.Line {
	return pricing.Breakdown(s.cfg, s.cat)
}

func (s *Store) save() {
	if s.persist == nil {
		return
	}
	if err := s.persist.Save(s.Current()); err != nil {
		log.Printf("configurator: persist selection: %v", err)
	}
}
