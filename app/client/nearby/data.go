package nearby

type Context struct {
	Places  Places    `json:"places"`
	Weather []Weather `json:"weather"`
}

type Places struct {
	Hospitals      []Place `json:"hospitals"`
	PoliceStations []Place `json:"policeStations"`
	FireStations   []Place `json:"fireStations"`
}

type Place struct {
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
	// Driving distance in meters
	DistanceValue float64 `json:"distanceValue"`
	// Human-readable distance, e.g. "2.3 km"
	Distance string `json:"distance"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Weather struct {
	Condition   string `json:"condition,omitempty"`
	Temperature string `json:"temperature,omitempty"`
	Humidity    string `json:"humidity,omitempty"`
	WindSpeed   string `json:"windSpeed,omitempty"`
	Visibility  string `json:"visibility,omitempty"`
}
