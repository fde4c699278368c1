package monitor

import "time"

const (
	OpAddTexts        = "add_texts"
	OpGetMatchingText = "get_matching_text"
)

type OpMetrics struct {
	Op        string        `json:"op"`
	Namespace string        `json:"namespace"`
	Count     int           `json:"count"` // texts added or documents returned
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

type Summary struct {
	Adds         int           `json:"adds"`
	Queries      int           `json:"queries"`
	Failures     int           `json:"failures"`
	TextsAdded   int           `json:"texts_added"`
	DocsReturned int           `json:"docs_returned"`
	AvgLatency   time.Duration `json:"avg_latency"`
	Namespaces   []string      `json:"namespaces"`
	Since        time.Time     `json:"since"`
}
