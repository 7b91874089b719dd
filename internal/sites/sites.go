// Package sites holds the facility reference data consumed by the aggregation
// services. The list is static: facilities change on the timescale of years,
// and the mobile app ships the same table.
package sites

import "math"

// Site is a fixed geographic point of interest (hospital or imaging center).
type Site struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// DefaultSiteID is the facility used when no site is configured.
const DefaultSiteID = "kennestone"

// Facilities returns the built-in facility list in display order.
func Facilities() []Site {
	return []Site{
		{
			ID:      "kennestone",
			Name:    "Kennestone Hospital",
			Address: "677 Church St NE, Marietta, GA 30060",
			Lat:     33.9625,
			Lon:     -84.5480,
		},
		{
			ID:      "cobb",
			Name:    "Cobb Hospital",
			Address: "3950 Austell Rd, Austell, GA 30106",
			Lat:     33.8486,
			Lon:     -84.6433,
		},
		{
			ID:      "douglas",
			Name:    "Douglas Hospital",
			Address: "8954 Hospital Dr, Douglasville, GA 30134",
			Lat:     33.7515,
			Lon:     -84.7477,
		},
		{
			ID:      "paulding",
			Name:    "Paulding Hospital",
			Address: "2518 Jimmy Lee Smith Pkwy, Hiram, GA 30141",
			Lat:     33.8635,
			Lon:     -84.7613,
		},
		{
			ID:      "north-fulton",
			Name:    "North Fulton Hospital",
			Address: "3000 Hospital Blvd, Roswell, GA 30076",
			Lat:     34.0418,
			Lon:     -84.3436,
		},
	}
}

// ByID looks up a facility by its identifier.
func ByID(id string) (Site, bool) {
	for _, s := range Facilities() {
		if s.ID == id {
			return s, true
		}
	}
	return Site{}, false
}

// Default returns the fallback facility used when a configured site is absent
// from the reference data.
func Default() Site {
	s, _ := ByID(DefaultSiteID)
	return s
}

// Unlocated returns a copy of the site with its coordinates cleared. Useful
// in tests and for facilities whose addresses have not been geocoded yet.
func Unlocated(s Site) Site {
	s.Lat = math.NaN()
	s.Lon = math.NaN()
	return s
}
