package models

// RoomActionResponse is returned by activate and deactivate.
type RoomActionResponse struct {
	Message string `json:"message"`
	Room    string `json:"room"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	Service       string `json:"service"`
	ActiveRooms   int    `json:"active_rooms"`
	TotalPatterns int    `json:"total_patterns"`
}

type RoomsResponse struct {
	ActiveRooms  []string             `json:"active_rooms"`
	RoomPatterns map[string]Condition `json:"room_patterns"`
	TotalRooms   int                  `json:"total_rooms"`
}

// OverrideMessage is the Kafka payload used to push overrides for a room.
type OverrideMessage struct {
	RoomNumber string `json:"roomNumber"`
	VitalSignsUpdate
}
