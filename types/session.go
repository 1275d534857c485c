package types

// QATurn is a single question/answer exchange with the sources the answer was
// grounded on. Turns are append-only within a session.
type QATurn struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
	AskedAt  int64    `json:"asked_at"`
}

// Session binds a set of documents to an ordered Q&A history and an optional
// cached summary. Sessions live for the process lifetime only.
type Session struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	DocumentIDs []string `json:"document_ids"`
	Turns       []QATurn `json:"turns"`
	Summary     string   `json:"summary"`
	CreatedAt   int64    `json:"created_at"`
}
