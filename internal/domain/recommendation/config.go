package recommendation

import "time"

// ConfidenceWeights combines the four confidence factors. The weights must
// sum to 1 and are fixed configuration, never derived at runtime.
type ConfidenceWeights struct {
	MatchQuality       float64
	SampleAdequacy     float64
	Coverage           float64
	LocationConfidence float64
}

// ConfidenceThresholds maps a score to a level: >= High is high,
// >= Medium is medium, anything below is low.
type ConfidenceThresholds struct {
	High   float64
	Medium float64
}

// Config holds runtime knobs for the recommendation engine.
type Config struct {
	DefaultTopK      int
	MaxTopK          int
	MinSimilarity    float64
	BaselineLocation string
	MatchTimeout     time.Duration
	OverallTimeout   time.Duration
	SampleSizeTarget int
	Weights          ConfidenceWeights
	Thresholds       ConfidenceThresholds
}

const (
	defaultTopK             = 5
	defaultMaxTopK          = 20
	defaultMinSimilarity    = 0.7
	defaultMatchTimeout     = time.Second
	defaultOverallTimeout   = 2 * time.Second
	defaultSampleSizeTarget = 100
)

// Location confidence tiers: exact-location row, default row adjusted by a
// known index, default row for a location missing from the index.
const (
	locationConfidenceExact   = 1.0
	locationConfidenceDefault = 0.6
	locationConfidenceUnknown = 0.3
)

func (c Config) withDefaults() Config {
	if c.DefaultTopK <= 0 {
		c.DefaultTopK = defaultTopK
	}
	if c.MaxTopK <= 0 {
		c.MaxTopK = defaultMaxTopK
	}
	if c.MinSimilarity <= 0 {
		c.MinSimilarity = defaultMinSimilarity
	}
	if c.MatchTimeout <= 0 {
		c.MatchTimeout = defaultMatchTimeout
	}
	if c.OverallTimeout <= 0 {
		c.OverallTimeout = defaultOverallTimeout
	}
	if c.SampleSizeTarget <= 0 {
		c.SampleSizeTarget = defaultSampleSizeTarget
	}
	if c.Weights == (ConfidenceWeights{}) {
		c.Weights = ConfidenceWeights{
			MatchQuality:       0.4,
			SampleAdequacy:     0.25,
			Coverage:           0.15,
			LocationConfidence: 0.2,
		}
	}
	if c.Thresholds == (ConfidenceThresholds{}) {
		c.Thresholds = ConfidenceThresholds{High: 0.75, Medium: 0.45}
	}
	return c
}
