package search

// Document is a map-backed record for collections whose shape is only known
// at runtime, such as rows decoded from an arbitrary JSON array.
type Document map[string]string

// SearchField implements Searchable.
func (d Document) SearchField(name string) (string, bool) {
	value, ok := d[name]
	return value, ok
}

// DocumentsFromMaps converts decoded JSON objects into documents, keeping
// string values only. Non-string values are treated as absent.
func DocumentsFromMaps(rows []map[string]any) []Document {
	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc := make(Document, len(row))
		for key, value := range row {
			if s, ok := value.(string); ok {
				doc[key] = s
			}
		}
		docs = append(docs, doc)
	}
	return docs
}
