package linkage

// Fields searched by the free-text review filter
var Fields = []string{"song_title_matched", "songbook_entry_title", "songbook_name", "composer"}

// Linkage is a suggested association between a canonical song and a
// songbook entry, as produced by the matching engine
type Linkage struct {
	SongID          string  `json:"canonical_mele_id"`
	SongTitle       string  `json:"song_title_matched"`
	EntryTitle      string  `json:"songbook_entry_title"`
	SongbookName    string  `json:"songbook_name"`
	Page            int     `json:"page"`
	PubYear         int     `json:"pub_year"`
	Composer        string  `json:"composer"`
	SimilarityScore float64 `json:"similarity_score"`
	Status          Status  `json:"match_status"`
	Timestamp       string  `json:"timestamp"`
	EntryID         int64   `json:"songbook_entry_id"`
}

// Key returns the composite key of the linkage
func (l Linkage) Key() Key {
	return Key{SongID: l.SongID, EntryID: l.EntryID}
}

// Band returns the confidence band of the similarity score
func (l Linkage) Band() Band {
	return ClassifyConfidence(l.SimilarityScore)
}

// SearchField implements search.Searchable
func (l Linkage) SearchField(name string) (string, bool) {
	switch name {
	case "song_title_matched":
		return l.SongTitle, l.SongTitle != ""
	case "songbook_entry_title":
		return l.EntryTitle, l.EntryTitle != ""
	case "songbook_name":
		return l.SongbookName, l.SongbookName != ""
	case "composer":
		return l.Composer, l.Composer != ""
	}
	return "", false
}
