package archive

import "strconv"

// EntryFields are the fields the songbook entry list searches by default.
var EntryFields = []string{"printed_song_title", "eng_title_transl", "modern_song_title", "composer", "songbook_name"}

// Diacritics records how consistently a songbook printed ʻokina and kahakō
type Diacritics string

const (
	DiacriticsYes          Diacritics = "Yes"
	DiacriticsNo           Diacritics = "No"
	DiacriticsInconsistent Diacritics = "Inconsistent"
	DiacriticsUnknown      Diacritics = "Unknown"
)

// SongbookEntry records how a song appeared in one published songbook
type SongbookEntry struct {
	ID                    int64      `json:"id,omitempty"`
	Timestamp             string     `json:"timestamp,omitempty"`
	PrintedSongTitle      string     `json:"printed_song_title"`
	EngTitleTransl        string     `json:"eng_title_transl,omitempty"`
	ModernSongTitle       string     `json:"modern_song_title,omitempty"`
	ScrippedSongTitle     string     `json:"scripped_song_title,omitempty"`
	SongTitle             string     `json:"song_title,omitempty"`
	SongbookName          string     `json:"songbook_name"`
	Page                  *int       `json:"page,omitempty"`
	PubYear               *int       `json:"pub_year,omitempty"`
	Diacritics            Diacritics `json:"diacritics,omitempty"`
	Composer              string     `json:"composer,omitempty"`
	AdditionalInformation string     `json:"additional_information,omitempty"`
	EmailAddress          string     `json:"email_address,omitempty"`
	CanonicalMeleID       string     `json:"canonical_mele_id,omitempty"`
	CreatedAt             string     `json:"created_at,omitempty"`
	UpdatedAt             string     `json:"updated_at,omitempty"`
}

// Linked reports whether the entry is already linked to a canonical song
func (e SongbookEntry) Linked() bool {
	return e.CanonicalMeleID != ""
}

// SearchField implements search.Searchable
func (e SongbookEntry) SearchField(name string) (string, bool) {
	switch name {
	case "printed_song_title":
		return e.PrintedSongTitle, e.PrintedSongTitle != ""
	case "eng_title_transl":
		return e.EngTitleTransl, e.EngTitleTransl != ""
	case "modern_song_title":
		return e.ModernSongTitle, e.ModernSongTitle != ""
	case "scripped_song_title":
		return e.ScrippedSongTitle, e.ScrippedSongTitle != ""
	case "song_title":
		return e.SongTitle, e.SongTitle != ""
	case "composer":
		return e.Composer, e.Composer != ""
	case "songbook_name":
		return e.SongbookName, e.SongbookName != ""
	case "additional_information":
		return e.AdditionalInformation, e.AdditionalInformation != ""
	case "pub_year":
		if e.PubYear == nil {
			return "", false
		}
		return strconv.Itoa(*e.PubYear), true
	}
	return "", false
}
