package club

import "time"

// Club is a member club of the district association.
type Club struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ShortName  string    `json:"short_name"`
	DistrictID string    `json:"district_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateClubInput holds the fields required to register a club.
type CreateClubInput struct {
	Name       string `json:"name"`
	ShortName  string `json:"short_name"`
	DistrictID string `json:"district_id"`
}

// UpdateClubInput holds optional fields for a partial club update.
type UpdateClubInput struct {
	Name      *string `json:"name,omitempty"`
	ShortName *string `json:"short_name,omitempty"`
}

// ClubListParams controls pagination of club listings.
type ClubListParams struct {
	Limit  int
	Cursor string
}
