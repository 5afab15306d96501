package alert

import (
	"encoding/json"
	"strings"
	"testing"

	"lifeline/app/client/nearby"
	"lifeline/app/service/profile"
	"lifeline/app/service/reasoner"
)

func testProfile() *profile.UserProfile {
	return &profile.UserProfile{
		UserID:   "user-1",
		FullName: "Jordan Avery",
		Phone:    "+1555",
		EmergencyContacts: []profile.EmergencyContact{
			{Name: "Sam", Relation: "sibling", Phone: "+1777", Priority: 1},
		},
	}
}

func testDecision() *reasoner.Decision {
	return &reasoner.Decision{
		SOSTrigger:  true,
		Severity:    "high",
		Confidence:  0.93,
		TriageNotes: "trapped in a fire",
		HelpType:    "fire",
		NextAction:  "Dispatch fire response",
	}
}

func TestBuildWithNearbyContext(t *testing.T) {
	nearbyCtx := &nearby.Context{
		Places: nearby.Places{
			Hospitals: []nearby.Place{
				{
					Name:          "General Hospital",
					Address:       "1 Main St",
					Coordinates:   nearby.Coordinates{Latitude: 30.28, Longitude: -97.75},
					DistanceValue: 1609.344,
				},
			},
		},
		Weather: []nearby.Weather{{Condition: "Clear"}},
	}

	record := Build(testProfile(), testDecision(), nearbyCtx, 30.27, -97.74)

	if record.AlertID == "" {
		t.Fatal("alert id must be generated")
	}
	if record.Location.Latitude != 30.27 || record.Location.Longitude != -97.74 {
		t.Fatalf("location = %+v", record.Location)
	}
	if record.ResponderStatus.CurrentStatus != "Pending" {
		t.Fatalf("responder status = %q", record.ResponderStatus.CurrentStatus)
	}
	if record.SeverityAssessment.SeverityLevel != "high" {
		t.Fatalf("severity = %+v", record.SeverityAssessment)
	}

	hospitals := record.NearbyContext.NearbyFacilities.Hospitals
	if len(hospitals) != 1 {
		t.Fatalf("hospitals = %+v", hospitals)
	}
	if hospitals[0].DistanceMiles != "1.00" {
		t.Fatalf("distance miles = %q, want 1.00", hospitals[0].DistanceMiles)
	}
	if !strings.Contains(hospitals[0].MapsLink, "30.28,-97.75") {
		t.Fatalf("maps link = %q", hospitals[0].MapsLink)
	}
}

func TestBuildWithoutNearbyContext(t *testing.T) {
	record := Build(testProfile(), testDecision(), nil, 30.27, -97.74)

	data, err := json.Marshal(record.NearbyContext)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if strings.Contains(string(data), "null") {
		t.Fatalf("partial nearby context must render empty, not null: %s", data)
	}
}

func TestBuildUniqueAlertIDs(t *testing.T) {
	a := Build(testProfile(), testDecision(), nil, 1, 2)
	b := Build(testProfile(), testDecision(), nil, 1, 2)

	if a.AlertID == b.AlertID {
		t.Fatal("alert ids must be unique per record")
	}
}
