package domain

// Limits are the capabilities a plan grants to a store.
type Limits struct {
	MaxProducts        int  `json:"max_products" validate:"gte=0"`
	CanCustomizeBanner bool `json:"can_customize_banner"`
	CanUseIntegrations bool `json:"can_use_integrations"`
	CanUseCustomDomain bool `json:"can_use_custom_domain"`
}

// Plan is a subscription tier. Price is in centavos.
type Plan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Limits      Limits   `json:"limits"`
	Recommended bool     `json:"recommended"`
}

func (p Plan) Clone() Plan {
	if p.Features != nil {
		p.Features = append([]string(nil), p.Features...)
	}
	return p
}

// FallbackPlan is used when the catalog is empty so resolution always yields
// a plan.
var FallbackPlan = Plan{
	ID:   "free",
	Name: "Free",
}

// Resolve returns the plan with the given id, or the first catalog entry when
// no plan matches.
func Resolve(catalog []Plan, id string) Plan {
	if p, ok := Lookup(catalog, id); ok {
		return p
	}
	if len(catalog) == 0 {
		return FallbackPlan.Clone()
	}
	return catalog[0]
}

// Lookup is like Resolve but reports whether the id was found.
func Lookup(catalog []Plan, id string) (Plan, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
