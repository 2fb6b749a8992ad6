package zones

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/floodwatch/floodwatch/internal/models"
)

//go:embed data/flood_zones.json
var floodZonesJSON []byte

//go:embed data/shelters.json
var sheltersJSON []byte

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Registry is the fixed set of named flood-zone polygons. It is read-only
// after Load.
type Registry struct {
	features []Feature
	byName   map[string]int // normalized zone name -> feature index
}

// Load parses the embedded flood-zone GeoJSON into a Registry.
func Load() (*Registry, error) {
	var fc FeatureCollection
	if err := json.Unmarshal(floodZonesJSON, &fc); err != nil {
		return nil, fmt.Errorf("error parsing flood zone data: %w", err)
	}

	r := &Registry{
		features: fc.Features,
		byName:   make(map[string]int, len(fc.Features)),
	}
	for i, f := range fc.Features {
		name, ok := f.Properties["zone"].(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("flood zone feature %d has no zone name", i)
		}
		r.byName[normalize(name)] = i
	}
	return r, nil
}

// Names returns the zone names in feature order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.features))
	for _, f := range r.features {
		if name, ok := f.Properties["zone"].(string); ok {
			names = append(names, name)
		}
	}
	return names
}

// Contains reports whether a zone with the given name exists, using the same
// normalization as alert matching.
func (r *Registry) Contains(name string) bool {
	_, ok := r.byName[normalize(name)]
	return ok
}

func (r *Registry) Features() []Feature {
	return r.features
}

// Shelters parses the embedded shelter GeoJSON into seed records for the
// shelter directory.
func Shelters() ([]models.Shelter, error) {
	var fc FeatureCollection
	if err := json.Unmarshal(sheltersJSON, &fc); err != nil {
		return nil, fmt.Errorf("error parsing shelter data: %w", err)
	}

	shelters := make([]models.Shelter, 0, len(fc.Features))
	for i, f := range fc.Features {
		var coords []float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil || len(coords) < 2 {
			return nil, fmt.Errorf("shelter feature %d has invalid coordinates", i)
		}

		sh := models.Shelter{
			Name:      stringProp(f.Properties, "name"),
			Type:      models.ShelterType(stringProp(f.Properties, "type")),
			Longitude: coords[0],
			Latitude:  coords[1],
			Contact:   stringProp(f.Properties, "contact"),
		}
		if capacity, ok := f.Properties["capacity"].(float64); ok {
			sh.Capacity = int(capacity)
		}
		shelters = append(shelters, sh)
	}
	return shelters, nil
}

func stringProp(props map[string]any, key string) string {
	s, _ := props[key].(string)
	return s
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
