package catalog

// Default returns the production option table for the configurable bedframe.
// Price deltas are relative to the base price.
func Default() *Catalog {
	return New([]Group{
		{
			Category: CategoryMaterial,
			Label:    "Material",
			Options: []Option{
				{ID: "rubberwood", Title: "Rubberwood", PriceDelta: 0},
				{ID: "pinewood", Title: "Pinewood", PriceDelta: 149},
				{ID: "teakwood", Title: "Teakwood", PriceDelta: 599},
				{ID: "oakwood", Title: "Oakwood", PriceDelta: 299},
				{ID: "blackwalnut", Title: "Black Walnut", PriceDelta: 499},
				{ID: "cherrywood", Title: "Cherrywood", PriceDelta: 399},
				{ID: "ashwood", Title: "Ashwood", PriceDelta: 349},
				{ID: "hinoki", Title: "Hinoki", PriceDelta: 799},
				{ID: "hpl-laminate", Title: "HPL Laminate", PriceDelta: 99},
			},
		},
		{
			Category: CategoryFinish,
			Label:    "Finish",
			Options: []Option{
				{ID: "natural", Title: "Natural", PriceDelta: 0},
				{ID: "honey", Title: "Honey", PriceDelta: 79},
				{ID: "coal", Title: "Coal", PriceDelta: 99},
				{ID: "white", Title: "White", PriceDelta: 89},
			},
		},
		{
			Category: CategorySize,
			Label:    "Bed Size",
			Options: []Option{
				{ID: "single", Title: "Single", PriceDelta: 0},
				{ID: "supersingle", Title: "Supersingle", PriceDelta: 200},
				{ID: "queen", Title: "Queen", PriceDelta: 250},
				{ID: "king", Title: "King", PriceDelta: 299},
			},
		},
		{
			Category: CategoryHeadboard,
			Label:    "Headboard",
			Options: []Option{
				{ID: "panel", Title: "Panel", PriceDelta: 0},
				{ID: "slat", Title: "Slat", PriceDelta: 149},
				{ID: "upholstered", Title: "Upholstered", PriceDelta: 399},
				{ID: "none", Title: "No Headboard", PriceDelta: 0},
			},
		},
		{
			Category: CategoryBase,
			Label:    "Frame Base",
			Options: []Option{
				{ID: "platform", Title: "Platform", PriceDelta: 0},
				{ID: "slats", Title: "Slats", PriceDelta: 79},
				{ID: "storage", Title: "Storage", PriceDelta: 449},
				{ID: "adjustable", Title: "Adjustable", PriceDelta: 699},
			},
		},
		{
			Category: CategoryOptional,
			Label:    "Optional",
			Options: []Option{
				{ID: "mattress", Title: "Premium Mattress", PriceDelta: 899},
				{ID: "bedding", Title: "Bedding Set", PriceDelta: 199},
				{ID: "nightstand", Title: "Matching Nightstand", PriceDelta: 299},
				{ID: "warranty", Title: "Extended Warranty", PriceDelta: 149},
			},
		},
	})
}
