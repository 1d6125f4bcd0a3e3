package docbot

// SourceDocument is one scraped page of raw text.
type SourceDocument struct {
	// SourceID identifies the document, usually its URL. Unique per corpus.
	SourceID string `json:"sourceId"`
	Title    string `json:"title,omitempty"`
	RawText  string `json:"rawText"`
}

// Validate returns an error if the document contains invalid fields.
func (d *SourceDocument) Validate() error {
	if d.SourceID == "" {
		return Errorf(EINVALID, "document source ID required")
	}
	return nil
}

// ValidateDocuments checks every document and that source IDs are unique.
func ValidateDocuments(docs []*SourceDocument) error {
	seen := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		if doc == nil {
			return Errorf(EINVALID, "nil document")
		}
		if err := doc.Validate(); err != nil {
			return err
		}
		if _, ok := seen[doc.SourceID]; ok {
			return Errorf(EINVALID, "duplicate document source ID %q", doc.SourceID)
		}
		seen[doc.SourceID] = struct{}{}
	}
	return nil
}
