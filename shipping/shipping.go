// Package shipping holds the static province-to-region fee table. Lookups are
// pure; unknown provinces fall back to a default fee.
package shipping

type Region struct {
	Name      string
	Fee       float64
	Provinces []string
}

const (
	// DefaultFee applies when a province matches no region.
	DefaultFee        = 120.00
	UnknownRegionName = "Unknown Region"
)

var regions = []Region{
	{
		Name:      "Metro Manila",
		Fee:       50.00,
		Provinces: []string{"Metro Manila"},
	},
	{
		Name: "Luzon",
		Fee:  80.00,
		Provinces: []string{
			"Abra", "Albay", "Apayao", "Aurora", "Bataan", "Batanes", "Batangas",
			"Benguet", "Bulacan", "Cagayan", "Camarines Norte", "Camarines Sur",
			"Catanduanes", "Cavite", "Ifugao", "Ilocos Norte", "Ilocos Sur",
			"Isabela", "Kalinga", "La Union", "Laguna", "Marinduque", "Masbate",
			"Mountain Province", "Nueva Ecija", "Nueva Vizcaya", "Occidental Mindoro",
			"Oriental Mindoro", "Palawan", "Pampanga", "Pangasinan", "Quezon",
			"Quirino", "Rizal", "Romblon", "Sorsogon", "Tarlac", "Zambales",
		},
	},
	{
		Name: "Visayas",
		Fee:  120.00,
		Provinces: []string{
			"Aklan", "Antique", "Biliran", "Bohol", "Capiz", "Cebu", "Eastern Samar",
			"Guimaras", "Iloilo", "Leyte", "Negros Occidental", "Negros Oriental",
			"Northern Samar", "Samar", "Siquijor", "Southern Leyte",
		},
	},
	{
		Name: "Mindanao",
		Fee:  150.00,
		Provinces: []string{
			"Agusan del Norte", "Agusan del Sur", "Bukidnon", "Camiguin",
			"Cotabato", "Davao del Norte", "Davao del Sur", "Davao Occidental",
			"Davao Oriental", "Lanao del Norte", "Misamis Occidental",
			"Misamis Oriental", "Sarangani", "South Cotabato", "Sultan Kudarat",
			"Surigao del Norte", "Surigao del Sur", "Zamboanga del Norte",
			"Zamboanga del Sur", "Zamboanga Sibugay",
		},
	},
}

// RegionAndFee returns the shipping region name and fee for a province.
func RegionAndFee(province string) (string, float64) {
	for _, r := range regions {
		for _, p := range r.Provinces {
			if p == province {
				return r.Name, r.Fee
			}
		}
	}
	return UnknownRegionName, DefaultFee
}

// Fee returns only the fee for a province.
func Fee(province string) float64 {
	_, fee := RegionAndFee(province)
	return fee
}
