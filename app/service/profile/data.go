package profile

type UserProfile struct {
	UserID                 string             `json:"userId"`
	FullName               string             `json:"fullName"`
	Phone                  string             `json:"phone"`
	MedicalConditions      []string           `json:"medicalConditions"`
	Allergies              []string           `json:"allergies"`
	CurrentMedications     []string           `json:"currentMedications"`
	PreferredCommunication string             `json:"preferredCommunication"`
	AdditionalNotes        string             `json:"additionalNotes"`
	EmergencyContacts      []EmergencyContact `json:"emergencyContacts"`
}

type EmergencyContact struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Phone    string `json:"phone"`
	Priority int    `json:"priority"`
}
