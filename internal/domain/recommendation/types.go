package recommendation

import "time"

// ConfidenceLevel buckets the numeric confidence score.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// JobRecord is a benchmarked reference role from the catalog. The catalog is
// maintained by an offline ingestion process; the engine never mutates it.
type JobRecord struct {
	JobCode     string    `json:"jobCode"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	JobFamily   string    `json:"jobFamily"`
	CareerLevel string    `json:"careerLevel"`
	Embedding   []float32 `json:"embedding"`
}

// MarketDataRow holds benchmark salary percentiles for a job code. An empty
// Location marks the default (nationwide) row.
type MarketDataRow struct {
	JobCode    string    `json:"jobCode"`
	Location   string    `json:"location,omitempty"`
	P25        float64   `json:"p25"`
	P50        float64   `json:"p50"`
	P75        float64   `json:"p75"`
	SampleSize int       `json:"sampleSize"`
	AsOfDate   time.Time `json:"asOfDate"`
}

// IsDefault reports whether the row is the nationwide fallback.
func (r MarketDataRow) IsDefault() bool {
	return r.Location == ""
}

// LocationIndexEntry maps a location to its salary-cost multiplier
// (1.0 = baseline).
type LocationIndexEntry struct {
	Location        string  `json:"location"`
	IndexMultiplier float64 `json:"indexMultiplier"`
}

// MatchCandidate is a catalog job ranked against the query.
type MatchCandidate struct {
	Job             JobRecord
	SimilarityScore float64
}

// Percentiles carries the p25/p50/p75 salary triple. The monotonic invariant
// p25 <= p50 <= p75 holds for every triple produced by the engine.
type Percentiles struct {
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
}

// RecommendedRange is the caller-facing framing of the percentiles.
type RecommendedRange struct {
	Min    float64 `json:"min"`
	Target float64 `json:"target"`
	Max    float64 `json:"max"`
}

// ConfidenceFactors exposes the individual inputs to the confidence score.
type ConfidenceFactors struct {
	MatchQuality       float64 `json:"matchQuality"`
	Coverage           float64 `json:"coverage"`
	SampleAdequacy     float64 `json:"sampleAdequacy"`
	LocationConfidence float64 `json:"locationConfidence"`
}

// Confidence summarizes how trustworthy a recommendation is.
type Confidence struct {
	Score   float64           `json:"score"`
	Level   ConfidenceLevel   `json:"level"`
	Factors ConfidenceFactors `json:"factors"`
}

// MatchedJob is the response view of a match candidate.
type MatchedJob struct {
	JobCode         string  `json:"jobCode"`
	Title           string  `json:"title"`
	SimilarityScore float64 `json:"similarityScore"`
}

// Recommendation is the final result returned to the caller.
type Recommendation struct {
	Percentiles      Percentiles      `json:"percentiles"`
	RecommendedRange RecommendedRange `json:"recommendedRange"`
	Confidence       Confidence       `json:"confidence"`
	MatchedJobs      []MatchedJob     `json:"matchedJobs"`
}

// Request describes one salary recommendation query.
type Request struct {
	JobTitle       string `json:"jobTitle"`
	JobDescription string `json:"jobDescription,omitempty"`
	Location       string `json:"location,omitempty"`
	JobFamily      string `json:"jobFamily,omitempty"`
	TopK           int    `json:"topK,omitempty"`
}
