package models

type ShelterType string

const (
	ShelterTypeRelief   ShelterType = "Relief Camp"
	ShelterTypeMedical  ShelterType = "Medical Center"
	ShelterTypeCommunal ShelterType = "Community Hall"
)

// Shelter is a static emergency facility record. Coordinates follow GeoJSON
// order (longitude first).
type Shelter struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Type      ShelterType `json:"type"`
	Longitude float64     `json:"longitude"`
	Latitude  float64     `json:"latitude"`
	Capacity  int         `json:"capacity,omitempty"`
	Contact   string      `json:"contact,omitempty"`
}
