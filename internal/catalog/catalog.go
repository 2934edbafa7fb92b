package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Category names the configurable aspects of a bedframe. The set is closed:
// anything else is rejected at the boundary instead of being passed through.
type Category string

const (
	CategoryMaterial  Category = "material"
	CategoryFinish    Category = "finish"
	CategorySize      Category = "size"
	CategoryHeadboard Category = "headboard"
	CategoryBase      Category = "base"
	CategoryOptional  Category = "optional"
)

// Categories in display order. Material through base are single-select,
// optional is multi-select.
var Categories = []Category{
	CategoryMaterial,
	CategoryFinish,
	CategorySize,
	CategoryHeadboard,
	CategoryBase,
	CategoryOptional,
}

// Option is one selectable choice within a category. Options are defined at
// build time and never mutated.
type Option struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	PriceDelta float64 `json:"price_delta"`
}

// Group is an ordered list of options for one category.
type Group struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Options  []Option `json:"options"`
}

// Catalog is the full option table.
type Catalog struct {
	groups []Group
	index  map[Category]map[string]Option
}

func New(groups []Group) *Catalog {
	c := &Catalog{
		groups: groups,
		index:  make(map[Category]map[string]Option, len(groups)),
	}
	for _, g := range groups {
		byID := make(map[string]Option, len(g.Options))
		for _, o := range g.Options {
			byID[o.ID] = o
		}
		c.index[g.Category] = byID
	}
	return c
}

func (c *Catalog) Groups() []Group {
	return c.groups
}

// Lookup returns the option for an id within a category. Unknown categories
// and unknown ids both report false; callers treat them as priced at zero.
func (c *Catalog) Lookup(category Category, id string) (Option, bool) {
	byID, ok := c.index[category]
	if !ok {
		return Option{}, false
	}
	o, ok := byID[id]
	return o, ok
}

func (c *Catalog) HasCategory(category Category) bool {
	_, ok := c.index[category]
	return ok
}

// Configuration is a user's selection across categories. Single-select
// categories hold one option id (empty means unselected), the optional
// category holds a set of ids.
type Configuration struct {
	Material  string   `json:"material"`
	Finish    string   `json:"finish"`
	Size      string   `json:"size"`
	Headboard string   `json:"headboard"`
	Base      string   `json:"base"`
	Optional  []string `json:"optional,omitempty"`
}

// Selected returns the id chosen for a single-select category.
func (cfg Configuration) Selected(category Category) string {
	switch category {
	case CategoryMaterial:
		return cfg.Material
	case CategoryFinish:
		return cfg.Finish
	case CategorySize:
		return cfg.Size
	case CategoryHeadboard:
		return cfg.Headboard
	case CategoryBase:
		return cfg.Base
	}
	return ""
}

// Key is a canonical string form of the configuration. Optional ids are
// sorted so two configurations that differ only in selection order produce
// the same key. Used as the cart merge key together with the product id.
func (cfg Configuration) Key() string {
	opts := append([]string(nil), cfg.Optional...)
	sort.Strings(opts)
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s",
		cfg.Material, cfg.Finish, cfg.Size, cfg.Headboard, cfg.Base,
		strings.Join(opts, ","))
}

// Summary is a short human-readable description for display and order rows.
func (cfg Configuration) Summary() string {
	title := func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	}
	return fmt.Sprintf("%s %s Bed, %s finish, %s headboard, %s base",
		title(cfg.Material), title(cfg.Size), title(cfg.Finish),
		title(cfg.Headboard), title(cfg.Base))
}
