package types

type DataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type UploadResponse struct {
	Document Document `json:"document"`
}

type AskResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

type SummaryResponse struct {
	Summary string `json:"summary"`
}

type ProcessURLsResponse struct {
	Documents []Document        `json:"documents"`
	Failed    map[string]string `json:"failed,omitempty"`
}

// CSVSummary is a describe()-style overview of an uploaded CSV file.
type CSVSummary struct {
	Columns    []string          `json:"columns"`
	RowCount   int               `json:"row_count"`
	Head       [][]string        `json:"head"`
	Statistics []ColumnStatistic `json:"statistics"`
}

// ColumnStatistic holds summary statistics for one numeric column.
type ColumnStatistic struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}
