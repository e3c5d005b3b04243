package archive

import "strings"

// PersonFields are the fields the people list searches by default.
var PersonFields = []string{"full_name", "display_name", "primary_role", "roles"}

// Person is a composer, lyricist, translator or other contributor
type Person struct {
	ID                        string           `json:"person_id"`
	FullName                  string           `json:"full_name"`
	DisplayName               string           `json:"display_name"`
	PlaceOfBirth              *string          `json:"place_of_birth"`
	PlacesOfHawaiianInfluence []string         `json:"places_of_hawaiian_influence"`
	PrimaryInfluenceLocation  *string          `json:"primary_influence_location"`
	HawaiianSpeaker           *bool            `json:"hawaiian_speaker"`
	BirthDate                 *string          `json:"birth_date"`
	DeathDate                 *string          `json:"death_date"`
	CulturalBackground        *string          `json:"cultural_background"`
	BiographicalNotes         string           `json:"biographical_notes"`
	Roles                     []string         `json:"roles"`
	PrimaryRole               string           `json:"primary_role"`
	Specialties               []string         `json:"specialties"`
	ActivePeriodStart         *int             `json:"active_period_start"`
	ActivePeriodEnd           *int             `json:"active_period_end"`
	NotableWorks              []string         `json:"notable_works"`
	AwardsHonors              []Award          `json:"awards_honors"`
	SourceReferences          SourceReferences `json:"source_references"`
	VerificationStatus        string           `json:"verification_status"`
	LastVerifiedDate          *string          `json:"last_verified_date"`
}

// Award is an honor received by a person
type Award struct {
	Name      string `json:"name"`
	AwardedBy string `json:"awarded_by"`
	Year      int    `json:"year"`
}

// SourceReferences lists where biographical facts came from
type SourceReferences struct {
	Sources   []string `json:"sources"`
	Citations []string `json:"citations"`
}

// Name returns the display name, falling back to the full name
func (p Person) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.FullName
}

// SearchField implements search.Searchable
func (p Person) SearchField(name string) (string, bool) {
	switch name {
	case "person_id":
		return p.ID, p.ID != ""
	case "full_name":
		return p.FullName, p.FullName != ""
	case "display_name":
		return p.DisplayName, p.DisplayName != ""
	case "primary_role":
		return p.PrimaryRole, p.PrimaryRole != ""
	case "roles":
		return joined(p.Roles)
	case "specialties":
		return joined(p.Specialties)
	case "notable_works":
		return joined(p.NotableWorks)
	case "place_of_birth":
		if p.PlaceOfBirth == nil {
			return "", false
		}
		return *p.PlaceOfBirth, *p.PlaceOfBirth != ""
	}
	return "", false
}

// joined renders a list field as a single searchable value
func joined(values []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	return strings.Join(values, ", "), true
}
