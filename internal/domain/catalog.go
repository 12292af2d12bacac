package domain

import "strings"

// City is one of the fixed regions the bot offers.
type City struct {
	Key       string
	Label     string
	Districts []string
}

// Catalog is the fixed city/district table. District display names come from
// official municipal sources; the stored value is the normalized key, not the
// display string.
var Catalog = []City{
	{
		Key:   "krasnodar",
		Label: "Краснодар",
		Districts: []string{
			"Центральный", "Прикубанский", "Фестивальный",
			"Северный", "Западный", "Юбилейный",
		},
	},
	{
		Key:   "moscow",
		Label: "Москва",
		Districts: []string{
			"Центральный", "Северный", "Восточный",
			"Западный", "Юго-Западный", "Юго-Восточный",
		},
	},
	{
		Key:   "spb",
		Label: "СПБ",
		Districts: []string{
			"Адмиралтейский", "Василеостровский", "Московский",
			"Невский", "Приморский", "Калининский",
		},
	},
}

// CityByKey returns the catalog entry for key.
func CityByKey(key string) (City, bool) {
	for _, c := range Catalog {
		if c.Key == key {
			return c, true
		}
	}
	return City{}, false
}

// NormalizeDistrict converts a district display name to its stored lookup key:
// lower-cased, spaces replaced with underscores.
func NormalizeDistrict(display string) string {
	return strings.ToLower(strings.ReplaceAll(display, " ", "_"))
}

// ValidDistrict reports whether key is the normalized form of one of the
// city's districts.
func ValidDistrict(cityKey, key string) bool {
	city, ok := CityByKey(cityKey)
	if !ok {
		return false
	}
	for _, d := range city.Districts {
		if NormalizeDistrict(d) == key {
			return true
		}
	}
	return false
}
