package output

import "strings"

// Location is one row of the locations table.
type Location struct {
	// Name is the country or region, e.g. "Canada".
	Name string `json:"name" yaml:"name"`
	// Abbreviation is the short name, e.g. "CA".
	Abbreviation string `json:"abbreviation" yaml:"abbreviation"`
	// City is the city name, e.g. "Toronto".
	City string `json:"city" yaml:"city"`
	// Label is the token the connect command accepts, e.g. "CA Toronto".
	Label string `json:"label" yaml:"label"`
}

// NewLocation builds a Location with every field stripped of control
// sequences and surrounding whitespace.
func NewLocation(name, abbreviation, city, label string) Location {
	return Location{
		Name:         clean(name),
		Abbreviation: clean(abbreviation),
		City:         clean(city),
		Label:        clean(label),
	}
}

func clean(s string) string {
	return strings.TrimSpace(Sanitize(s))
}

// String returns "Name (City) [Label]".
func (l Location) String() string {
	return l.Name + " (" + l.City + ") [" + l.Label + "]"
}
