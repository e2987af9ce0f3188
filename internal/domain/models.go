package domain

import "time"

// Role identifies the author of a chat message.
type Role string

// Chat message roles understood by every provider.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a chat message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest represents a provider-agnostic generation request.
type CompletionRequest struct {
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// CompletionResponse represents a normalized provider response.
type CompletionResponse struct {
	ID         string    `json:"id"`
	Model      string    `json:"model"`
	Provider   string    `json:"provider"`
	Content    string    `json:"content"`
	Usage      Usage     `json:"usage"`
	FinishTime time.Time `json:"finish_time"`
}

// Usage tracks token consumption as reported by the vendor.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// TaskImpact is the per-execution energy saving of a sustainability task.
type TaskImpact struct {
	Code            string  `json:"code"            yaml:"code"`
	KWhPerExecution float64 `json:"kwh_per_execution" yaml:"kwh_per_execution"`
}

// ImpactRequest asks for the impact of a task executed a number of times.
// Non-nil overrides replace the computed values.
type ImpactRequest struct {
	TaskCode   string
	Executions int
	KWh        *float64
	CO2        *float64
	Cost       *float64
}

// ImpactEstimate is the estimated saving of a task execution batch.
type ImpactEstimate struct {
	KWh  float64 `json:"kwh"`
	CO2  float64 `json:"co2"`
	Cost float64 `json:"cost"`
}

// ClassCountHistogram maps a detected object class to its number of instances.
type ClassCountHistogram map[string]int

// Detection is the output of one detector pass over one image.
type Detection struct {
	Counts ClassCountHistogram
	Total  int
	Scores []float64
}

// Verdict is the classification of a before/after image pair.
type Verdict string

// Possible verdicts.
const (
	VerdictChanged     Verdict = "CHANGED"
	VerdictSmallChange Verdict = "SMALL_CHANGE"
)

// Comparison is the similarity-only result of /cv/compare.
type Comparison struct {
	SSIM    float64 `json:"ssim"`
	Verdict Verdict `json:"verdict"`
}

// SimilarityResult is the structural similarity signal of a verification.
type SimilarityResult struct {
	Score     float64 `json:"score"`
	Threshold float64 `json:"threshold"`
	Changed   bool    `json:"changed"`
}

// ClassDelta holds the before and after count of one changed class.
type ClassDelta struct {
	Before int `json:"before"`
	After  int `json:"after"`
}

// DetectionResult is the object detection signal of a verification.
type DetectionResult struct {
	Enabled        bool                  `json:"enabled"`
	DeltaMin       int                   `json:"delta_min"`
	Before         ClassCountHistogram   `json:"before"`
	After          ClassCountHistogram   `json:"after"`
	ChangedClasses map[string]ClassDelta `json:"changed_classes"`
	Changed        bool                  `json:"changed"`
}

// VerificationVerdict is the full outcome of /cv/verify.
type VerificationVerdict struct {
	Verdict    Verdict          `json:"verdict"`
	Approved   bool             `json:"approved"`
	Message    string           `json:"message"`
	Similarity SimilarityResult `json:"similarity"`
	Detection  DetectionResult  `json:"detection"`
}
