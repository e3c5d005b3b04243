// Package archive defines the Huapala archive records (canonical songs,
// people and songbook entries) and their bulk JSON ingestion.
package archive

import "strings"

// SongFields are the fields the song list searches by default.
var SongFields = []string{"canonical_title_hawaiian", "canonical_title_english", "primary_composer"}

// UnknownComposer is shown when a song carries no composer at all
const UnknownComposer = "Unknown"

// Song is the canonical (authoritative) record of a mele
type Song struct {
	ID              string              `json:"canonical_mele_id"`
	TitleHawaiian   string              `json:"canonical_title_hawaiian"`
	TitleEnglish    string              `json:"canonical_title_english"`
	PrimaryComposer string              `json:"primary_composer"`
	Composer        string              `json:"composer,omitempty"` // legacy exports use this instead of primary_composer
	Translator      string              `json:"translator"`
	SourceFile      string              `json:"source_file"`
	CulturalNotes   string              `json:"cultural_significance_notes,omitempty"`
	Island          string              `json:"island,omitempty"`
	MeleType        string              `json:"mele_type,omitempty"`
	Processing      *ProcessingMetadata `json:"processing_metadata,omitempty"`
	Verses          []Verse             `json:"verses,omitempty"`
}

// ProcessingMetadata describes how a song was parsed from its source document
type ProcessingMetadata struct {
	OriginalFile        string   `json:"original_file,omitempty"`
	ExportedAt          string   `json:"exported_at,omitempty"`
	Source              string   `json:"source,omitempty"`
	ProcessedAt         string   `json:"processed_at,omitempty"`
	ParsingQualityScore *float64 `json:"parsing_quality_score,omitempty"`
	TotalSections       int      `json:"total_sections"`
	TotalLines          int      `json:"total_lines"`
}

// SongStats summarizes the structure of a song's lyrics
type SongStats struct {
	Verses   int
	Choruses int
	Lines    int
}

// Stats counts verses, choruses (hui) and lines
func (s Song) Stats() SongStats {
	var stats SongStats
	for _, v := range s.Verses {
		switch v.Type {
		case VerseTypeChorus:
			stats.Choruses++
		default:
			stats.Verses++
		}
		stats.Lines += len(v.Lines)
	}
	return stats
}

// ComposerOrUnknown returns the composer for display
func (s Song) ComposerOrUnknown() string {
	if strings.TrimSpace(s.PrimaryComposer) != "" {
		return s.PrimaryComposer
	}
	if strings.TrimSpace(s.Composer) != "" {
		return s.Composer
	}
	return UnknownComposer
}

// SearchField implements search.Searchable
func (s Song) SearchField(name string) (string, bool) {
	switch name {
	case "canonical_mele_id":
		return s.ID, s.ID != ""
	case "canonical_title_hawaiian":
		return s.TitleHawaiian, s.TitleHawaiian != ""
	case "canonical_title_english":
		return s.TitleEnglish, s.TitleEnglish != ""
	case "primary_composer":
		return s.PrimaryComposer, s.PrimaryComposer != ""
	case "translator":
		return s.Translator, s.Translator != ""
	case "island":
		return s.Island, s.Island != ""
	case "lyrics":
		text := s.lyrics()
		return text, text != ""
	}
	return "", false
}

func (s Song) lyrics() string {
	var parts []string
	for _, v := range s.Verses {
		for _, l := range v.Lines {
			if l.Hawaiian != "" {
				parts = append(parts, l.Hawaiian)
			}
			if l.English != "" {
				parts = append(parts, l.English)
			}
		}
	}
	return strings.Join(parts, "\n")
}

// prepare fills display defaults once at ingestion
func (s *Song) prepare() {
	s.PrimaryComposer = s.ComposerOrUnknown()
}
