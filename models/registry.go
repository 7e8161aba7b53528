package models

// PropertyEntry maps a display name to the external (Cloudbeds) identifier
// used for auto-detection.
type PropertyEntry struct {
	Name string `mapstructure:"name" json:"name" validate:"required"`
	ID   string `mapstructure:"id" json:"id" validate:"required"`
}

// PropertyRegistry is static configuration; detection honours its order.
type PropertyRegistry []PropertyEntry

// Names returns the registered property names in definition order.
func (r PropertyRegistry) Names() []string {
	names := make([]string, len(r))
	for i, e := range r {
		names[i] = e.Name
	}
	return names
}

// Has reports whether name is registered (exact match).
func (r PropertyRegistry) Has(name string) bool {
	for _, e := range r {
		if e.Name == name {
			return true
		}
	}
	return false
}

// DefaultRegistry lists the hostels tracked out of the box.
func DefaultRegistry() PropertyRegistry {
	return PropertyRegistry{
		{Name: "Flamingo", ID: "6733"},
		{Name: "Puerto", ID: "316328"},
		{Name: "Arena", ID: "315588"},
		{Name: "Duque", ID: "316438"},
		{Name: "Las Palmas", ID: "316428"},
		{Name: "Aguere", ID: "316437"},
		{Name: "Medano", ID: "316440"},
		{Name: "Los Amigos", ID: "316443"},
		{Name: "Cisne", ID: "316442"},
		{Name: "Ashavana", ID: "316441"},
		{Name: "Las Eras", ID: "316439"},
	}
}
