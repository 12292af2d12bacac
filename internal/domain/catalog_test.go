package domain

import "testing"

func TestNormalizeDistrict(t *testing.T) {
	if got := NormalizeDistrict("Юго-Западный"); got != "юго-западный" {
		t.Fatalf("unexpected key: %q", got)
	}
	if got := NormalizeDistrict("Central District"); got != "central_district" {
		t.Fatalf("unexpected key: %q", got)
	}
}

func TestValidDistrict(t *testing.T) {
	if !ValidDistrict("moscow", "юго-западный") {
		t.Fatal("expected moscow district to validate")
	}
	if ValidDistrict("moscow", "адмиралтейский") {
		t.Fatal("spb district must not validate for moscow")
	}
	if ValidDistrict("unknown", "центральный") {
		t.Fatal("unknown city must not validate")
	}
}

func TestCityByKey(t *testing.T) {
	city, ok := CityByKey("spb")
	if !ok {
		t.Fatal("spb not found")
	}
	if len(city.Districts) != 6 {
		t.Fatalf("expected 6 districts, got %d", len(city.Districts))
	}
	if _, ok := CityByKey("tula"); ok {
		t.Fatal("unexpected city")
	}
}

func TestValidPropertyType(t *testing.T) {
	for _, code := range []string{"1", "2", "3", "house", "studio"} {
		if !ValidPropertyType(code) {
			t.Fatalf("expected %s to be valid", code)
		}
	}
	if ValidPropertyType("4") {
		t.Fatal("unexpected property type")
	}
}
