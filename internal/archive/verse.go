package archive

import (
	"encoding/json"
	"fmt"
	"strings"
)

// VerseType distinguishes verses from the hui (chorus)
type VerseType string

const (
	VerseTypeVerse  VerseType = "verse"
	VerseTypeChorus VerseType = "chorus"
)

// Line is one line of a verse with its translation
type Line struct {
	ID        string `json:"id"`
	Number    int    `json:"line_number"`
	Hawaiian  string `json:"hawaiian_text"`
	English   string `json:"english_text"`
	Bilingual bool   `json:"is_bilingual"`
}

// Verse is a section of a song. After decoding, Lines is always populated
// regardless of which shape the source JSON used.
type Verse struct {
	ID     string    `json:"id"`
	Type   VerseType `json:"type"`
	Number int       `json:"number"`
	Order  int       `json:"order"`
	Label  string    `json:"label"`
	Lines  []Line    `json:"lines"`
}

// VerseContent is the lyric payload of a verse as found in source data.
// It is either LinesForm or FlatTextForm.
type VerseContent interface {
	toLines(verseID string) []Line
}

// LinesForm is structured, line-by-line content
type LinesForm struct {
	Lines []Line
}

// FlatTextForm is legacy content with one text block per language
type FlatTextForm struct {
	HawaiianText string
	EnglishText  string
}

func (c LinesForm) toLines(verseID string) []Line {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	for i := range lines {
		if lines[i].Number == 0 {
			lines[i].Number = i + 1
		}
		if lines[i].ID == "" {
			lines[i].ID = lineID(verseID, i+1)
		}
	}
	return lines
}

// toLines splits each language on line breaks and pairs them by position.
// No attempt is made to reconstruct breaks inside a single long line.
func (c FlatTextForm) toLines(verseID string) []Line {
	hawaiian := splitLines(c.HawaiianText)
	english := splitLines(c.EnglishText)

	n := max(len(hawaiian), len(english))
	lines := make([]Line, 0, n)
	for i := 0; i < n; i++ {
		var line Line
		if i < len(hawaiian) {
			line.Hawaiian = hawaiian[i]
		}
		if i < len(english) {
			line.English = english[i]
		}
		line.Number = i + 1
		line.ID = lineID(verseID, i+1)
		line.Bilingual = line.Hawaiian != "" && line.English != ""
		lines = append(lines, line)
	}
	return lines
}

// ToLines converts any verse content to the line form
func ToLines(verseID string, content VerseContent) []Line {
	if content == nil {
		return nil
	}
	return content.toLines(verseID)
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(lineBreaks.Replace(text), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func lineID(verseID string, n int) string {
	if verseID == "" {
		return fmt.Sprintf("l%d", n)
	}
	return fmt.Sprintf("%s.l%d", verseID, n)
}

// rawVerse accepts every verse shape found in exported song data
type rawVerse struct {
	ID            string    `json:"id"`
	Type          VerseType `json:"type"`
	Number        int       `json:"number"`
	Order         int       `json:"order"`
	Label         string    `json:"label"`
	Lines         []Line    `json:"lines"`
	HawaiianText  string    `json:"hawaiian_text"`
	EnglishText   string    `json:"english_text"`
	HawaiianLines []string  `json:"hawaiian_lines"`
	EnglishLines  []string  `json:"english_lines"`
}

func (r *rawVerse) content() VerseContent {
	switch {
	case len(r.Lines) > 0:
		return LinesForm{Lines: r.Lines}
	case len(r.HawaiianLines) > 0 || len(r.EnglishLines) > 0:
		return FlatTextForm{
			HawaiianText: strings.Join(r.HawaiianLines, "\n"),
			EnglishText:  strings.Join(r.EnglishLines, "\n"),
		}
	default:
		return FlatTextForm{HawaiianText: r.HawaiianText, EnglishText: r.EnglishText}
	}
}

// UnmarshalJSON normalizes legacy verse shapes into Lines
func (v *Verse) UnmarshalJSON(data []byte) error {
	var raw rawVerse
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*v = Verse{
		ID:     raw.ID,
		Type:   raw.Type,
		Number: raw.Number,
		Order:  raw.Order,
		Label:  raw.Label,
	}
	if v.Type == "" {
		v.Type = VerseTypeVerse
	}
	v.Lines = ToLines(raw.ID, raw.content())
	return nil
}
