package geourl

import "testing"

func TestExtract(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		wantOK  bool
		wantLat float64
		wantLng float64
	}{
		{
			name:    "apple maps link",
			text:    "I'm here https://maps.apple.com/?coordinate=30.27,-97.74 please hurry",
			wantOK:  true,
			wantLat: 30.27,
			wantLng: -97.74,
		},
		{
			name:    "google maps query link",
			text:    "https://maps.google.com/?q=40.7128,-74.006",
			wantOK:  true,
			wantLat: 40.7128,
			wantLng: -74.006,
		},
		{
			name:    "google maps viewport link",
			text:    "https://www.google.com/maps/@51.5,-0.12,15z",
			wantOK:  true,
			wantLat: 51.5,
			wantLng: -0.12,
		},
		{
			name:   "no link",
			text:   "there is a fire in my kitchen",
			wantOK: false,
		},
		{
			name:   "map link without coordinates",
			text:   "https://maps.apple.com/?address=somewhere",
			wantOK: false,
		},
		{
			name:   "out of range latitude",
			text:   "coordinate=123.0,-97.74",
			wantOK: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			coords, ok := Extract(tc.text)
			if ok != tc.wantOK {
				t.Fatalf("Extract(%q) ok = %v, want %v", tc.text, ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if coords.Latitude != tc.wantLat || coords.Longitude != tc.wantLng {
				t.Fatalf("Extract(%q) = (%v, %v), want (%v, %v)",
					tc.text, coords.Latitude, coords.Longitude, tc.wantLat, tc.wantLng)
			}
		})
	}
}

func TestContainsMapLink(t *testing.T) {
	if !ContainsMapLink("check HTTPS://MAPS.APPLE.COM/?coordinate=1,2") {
		t.Fatal("expected map link to be detected case-insensitively")
	}
	if ContainsMapLink("no links here") {
		t.Fatal("expected no map link")
	}
}
