package types

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UploadRequest struct {
	Title  string `json:"title"`
	Source string `json:"source"`
}

type CreateSessionRequest struct {
	DocumentIDs []string `json:"document_ids"`
	Label       string   `json:"label"`
}

type AskRequest struct {
	Question string `json:"question"`
	Model    string `json:"model,omitempty"`
}

type SummaryRequest struct {
	Model string `json:"model,omitempty"`
}

type ProcessURLsRequest struct {
	URLs []string `json:"urls"`
}
