package alert

import (
	"fmt"
	"time"

	"lifeline/app/client/nearby"
	"lifeline/app/service/profile"
	"lifeline/app/service/reasoner"

	"github.com/elliotchance/pie/v2"
	"github.com/google/uuid"
)

const (
	triggerSource = "sos_chat"
	statusPending = "Pending"

	metersPerMile = 1609.344
)

// Build assembles an incident record from the profile, the reasoning
// decision and the (possibly missing) nearby context. A nil nearby
// context renders as empty facility lists and weather, never null.
func Build(user *profile.UserProfile, decision *reasoner.Decision, nearbyCtx *nearby.Context, lat, lng float64) Record {
	now := time.Now().UTC().Format(time.RFC3339)

	record := Record{
		AlertID:       uuid.NewString(),
		TriggerSource: triggerSource,
		UserID:        user.UserID,
		Timestamp:     now,
		Location: Location{
			Latitude:  lat,
			Longitude: lng,
			Accuracy:  "map_link",
			Geohash:   nil,
		},
		ProfileSummary: ProfileSummary{
			FullName:               user.FullName,
			MedicalConditions:      orEmpty(user.MedicalConditions),
			Allergies:              orEmpty(user.Allergies),
			CurrentMedications:     orEmpty(user.CurrentMedications),
			PreferredCommunication: user.PreferredCommunication,
			EmergencyContacts:      mapContacts(user.EmergencyContacts),
			AdditionalNotes:        user.AdditionalNotes,
		},
		AIGeneratedMessage: decision.NextAction,
		SeverityAssessment: Severity{
			SeverityLevel:   decision.Severity,
			ConfidenceScore: decision.Confidence,
			TriageNotes:     decision.TriageNotes,
		},
		NearbyContext: NearbyContext{
			LiveIncidentsNearby: []any{},
			NearbyFacilities: Facilities{
				Hospitals:      []Facility{},
				PoliceStations: []Facility{},
				FireStations:   []Facility{},
			},
			Weather: []nearby.Weather{},
		},
		ResponderStatus: ResponderStatus{
			CurrentStatus:          statusPending,
			AssignedResponderID:    nil,
			FallbackChainTriggered: false,
			LastUpdated:            now,
		},
	}

	if nearbyCtx != nil {
		record.NearbyContext.NearbyFacilities = Facilities{
			Hospitals:      mapFacilities(nearbyCtx.Places.Hospitals),
			PoliceStations: mapFacilities(nearbyCtx.Places.PoliceStations),
			FireStations:   mapFacilities(nearbyCtx.Places.FireStations),
		}
		if len(nearbyCtx.Weather) > 0 {
			record.NearbyContext.Weather = nearbyCtx.Weather
		}
	}

	return record
}

func mapContacts(contacts []profile.EmergencyContact) []Contact {
	result := pie.Map(contacts, func(c profile.EmergencyContact) Contact {
		return Contact{
			Name:     c.Name,
			Relation: c.Relation,
			Phone:    c.Phone,
			Priority: c.Priority,
		}
	})
	if result == nil {
		result = []Contact{}
	}

	return result
}

func mapFacilities(places []nearby.Place) []Facility {
	result := pie.Map(places, func(p nearby.Place) Facility {
		return Facility{
			Name:          p.Name,
			Address:       p.Address,
			DistanceMiles: metersToMiles(p.DistanceValue),
			ContactNumber: "",
			MapsLink: fmt.Sprintf("https://maps.google.com/?q=%v,%v",
				p.Coordinates.Latitude, p.Coordinates.Longitude),
		}
	})
	if result == nil {
		result = []Facility{}
	}

	return result
}

func metersToMiles(meters float64) string {
	return fmt.Sprintf("%.2f", meters/metersPerMile)
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}

	return values
}
