package booking

import "strings"

// City is one of the fixed set of cities the service sells tickets between.
type City string

const (
	CityMumbai    City = "Mumbai"
	CityDelhi     City = "Delhi"
	CityPune      City = "Pune"
	CityBangalore City = "Bangalore"
	CityChennai   City = "Chennai"
	CityHyderabad City = "Hyderabad"
	CityKolkata   City = "Kolkata"
	CityAhmedabad City = "Ahmedabad"
	CityJaipur    City = "Jaipur"
	CityGoa       City = "Goa"
)

var cities = map[City]struct{}{
	CityMumbai:    {},
	CityDelhi:     {},
	CityPune:      {},
	CityBangalore: {},
	CityChennai:   {},
	CityHyderabad: {},
	CityKolkata:   {},
	CityAhmedabad: {},
	CityJaipur:    {},
	CityGoa:       {},
}

// fareTable maps an ordered (origin, destination) pair to the per-passenger
// base fare in whole INR. The table is directional: a missing reverse entry
// means that route is not sold, which is a real no-fare condition rather
// than a gap in the data.
var fareTable = map[City]map[City]int64{
	CityMumbai: {
		CityDelhi:     2500,
		CityPune:      450,
		CityBangalore: 1800,
		CityAhmedabad: 900,
		CityGoa:       1100,
	},
	CityDelhi: {
		CityMumbai:    2500,
		CityJaipur:    600,
		CityKolkata:   2200,
		CityAhmedabad: 1400,
	},
	CityPune: {
		CityMumbai:    450,
		CityHyderabad: 1000,
		CityGoa:       850,
	},
	CityBangalore: {
		CityChennai:   700,
		CityHyderabad: 950,
		CityGoa:       1200,
	},
	CityChennai: {
		CityBangalore: 700,
		CityHyderabad: 1050,
	},
	CityHyderabad: {
		CityBangalore: 950,
		CityPune:      1000,
	},
	CityKolkata: {
		CityDelhi: 2200,
	},
	CityAhmedabad: {
		CityMumbai: 900,
	},
	CityJaipur: {
		CityDelhi: 600,
	},
	// Goa is destination-only: no outbound fares are sold.
}

// ParseCity validates a raw city name against the fixed city set. Matching
// is exact after trimming whitespace.
func ParseCity(raw string) (City, bool) {
	city := City(strings.TrimSpace(raw))
	_, ok := cities[city]
	return city, ok
}

// Cities returns the fixed city set in no particular order.
func Cities() []City {
	result := make([]City, 0, len(cities))
	for c := range cities {
		result = append(result, c)
	}
	return result
}

// BaseFare returns the per-passenger base fare for the ordered
// (origin, destination) pair, or false if the route is not sold.
func BaseFare(origin, destination City) (int64, bool) {
	destinations, ok := fareTable[origin]
	if !ok {
		return 0, false
	}
	fare, ok := destinations[destination]
	return fare, ok
}
