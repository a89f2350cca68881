package shooter

import "time"

// Shooter is a registered member who competes for a club. Birth year is
// nullable; many legacy imports never carried one, which leaves the shooter
// unclassifiable for age-class purposes but otherwise valid.
type Shooter struct {
	ID        string    `json:"id"`
	ClubID    string    `json:"club_id"`
	Name      string    `json:"name"`
	BirthYear *int      `json:"birth_year"`
	Sex       string    `json:"sex"` // "male", "female" or "unknown"
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateShooterInput holds the fields required to register a shooter.
type CreateShooterInput struct {
	ClubID    string `json:"club_id"`
	Name      string `json:"name"`
	BirthYear *int   `json:"birth_year"`
	Sex       string `json:"sex"`
}

// UpdateShooterInput holds optional fields for a partial shooter update.
type UpdateShooterInput struct {
	Name      *string `json:"name,omitempty"`
	BirthYear *int    `json:"birth_year,omitempty"`
	Sex       *string `json:"sex,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}
