package alert

import "lifeline/app/client/nearby"

// Record is the denormalized incident snapshot delivered to the
// responder dashboard. Later status transitions belong to the
// dashboard, not to this service.
type Record struct {
	AlertID            string          `json:"alertId"`
	TriggerSource      string          `json:"triggerSource"`
	UserID             string          `json:"userId"`
	Timestamp          string          `json:"timestamp"`
	Location           Location        `json:"location"`
	ProfileSummary     ProfileSummary  `json:"profileSummary"`
	AIGeneratedMessage string          `json:"aiGeneratedMessage"`
	SeverityAssessment Severity        `json:"severityAssessment"`
	NearbyContext      NearbyContext   `json:"nearbyContext"`
	ResponderStatus    ResponderStatus `json:"responderStatus"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  string  `json:"accuracy"`
	Geohash   *string `json:"geohash"`
}

type ProfileSummary struct {
	FullName               string    `json:"fullName"`
	MedicalConditions      []string  `json:"medicalConditions"`
	Allergies              []string  `json:"allergies"`
	CurrentMedications     []string  `json:"currentMedications"`
	PreferredCommunication string    `json:"preferredCommunication"`
	EmergencyContacts      []Contact `json:"emergencyContacts"`
	AdditionalNotes        string    `json:"additionalNotes"`
}

type Contact struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Phone    string `json:"phone"`
	Priority int    `json:"priority"`
}

type Severity struct {
	SeverityLevel   string  `json:"severityLevel"`
	ConfidenceScore float32 `json:"confidenceScore"`
	TriageNotes     string  `json:"triageNotes"`
}

type NearbyContext struct {
	LiveIncidentsNearby []any            `json:"liveIncidentsNearby"`
	NearbyFacilities    Facilities       `json:"nearbyFacilities"`
	Weather             []nearby.Weather `json:"weather"`
}

type Facilities struct {
	Hospitals      []Facility `json:"hospitals"`
	PoliceStations []Facility `json:"policeStations"`
	FireStations   []Facility `json:"fireStations"`
}

type Facility struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	DistanceMiles string `json:"distanceMiles"`
	ContactNumber string `json:"contactNumber"`
	MapsLink      string `json:"mapsLink"`
}

type ResponderStatus struct {
	CurrentStatus          string  `json:"currentStatus"`
	AssignedResponderID    *string `json:"assignedResponderId"`
	FallbackChainTriggered bool    `json:"fallbackChainTriggered"`
	LastUpdated            string  `json:"lastUpdated"`
}
