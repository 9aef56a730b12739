package models

// SearchRequest is the body of a /search call. The initial search sends
// Query; keyword re-searches send QueryList with IsInitial false.
type SearchRequest struct {
	Query     string   `json:"query,omitempty"`
	QueryList []string `json:"query_list,omitempty"`
	IsInitial *bool    `json:"is_initial,omitempty"`
}

// SearchResponse is the subset of the /search reply the explorer uses.
type SearchResponse struct {
	Alert             string    `json:"alert,omitempty"`
	Articles          []Article `json:"articles"`
	Keywords          []string  `json:"keywords"`
	RecommendKeywords []string  `json:"recommend_keywords,omitempty"`
}

// ArticlesRequest is the body shared by /keywords and /summary.
type ArticlesRequest struct {
	Articles []Article `json:"articles"`
}

// KeywordsResponse is the /keywords reply.
type KeywordsResponse struct {
	Keywords []string `json:"keywords"`
}

// SummaryResponse is the /summary reply.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// FinalReportRequest is the body of a /final_report call.
type FinalReportRequest struct {
	Keywords []string `json:"keywords"`
	Summary  string   `json:"summary"`
}

// FinalReport is the /final_report reply.
type FinalReport struct {
	Definitions map[string]string `json:"definitions,omitempty"`
	Text        string            `json:"final_report"`
}
