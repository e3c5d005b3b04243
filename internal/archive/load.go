package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/huapala/huapala/internal/util"
)

// LoadSongs reads a songs-data.json style array of canonical songs
func LoadSongs(path string) ([]Song, error) {
	songs, err := loadFile[Song](path)
	if err != nil {
		return nil, err
	}
	for i := range songs {
		songs[i].prepare()
	}
	util.DebugLog("Loaded %d songs from %s", len(songs), path)
	return songs, nil
}

// LoadPeople reads a JSON array of person records
func LoadPeople(path string) ([]Person, error) {
	people, err := loadFile[Person](path)
	if err != nil {
		return nil, err
	}
	util.DebugLog("Loaded %d people from %s", len(people), path)
	return people, nil
}

// LoadEntries reads a JSON array of songbook entries
func LoadEntries(path string) ([]SongbookEntry, error) {
	entries, err := loadFile[SongbookEntry](path)
	if err != nil {
		return nil, err
	}
	util.DebugLog("Loaded %d songbook entries from %s", len(entries), path)
	return entries, nil
}

// DecodeSongs decodes songs from r, applying the same ingestion defaults as LoadSongs
func DecodeSongs(r io.Reader) ([]Song, error) {
	var songs []Song
	if err := json.NewDecoder(r).Decode(&songs); err != nil {
		return nil, fmt.Errorf("%w: failed to decode songs: %w", util.ErrLoad, err)
	}
	for i := range songs {
		songs[i].prepare()
	}
	return songs, nil
}

func loadFile[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %w", util.ErrLoad, path, err)
	}
	defer f.Close()

	var records []T
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %w", util.ErrLoad, path, err)
	}
	return records, nil
}
