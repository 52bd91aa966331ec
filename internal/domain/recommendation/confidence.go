package recommendation

// ConfidenceScorer combines match quality, data volume and location
// specificity into one score. Pure and total: every valid input yields a
// score in [0,1].
type ConfidenceScorer struct {
	cfg Config
}

// NewConfidenceScorer constructs the scorer.
func NewConfidenceScorer(cfg Config) *ConfidenceScorer {
	return &ConfidenceScorer{cfg: cfg.withDefaults()}
}

// ConfidenceInput carries the facts the scorer needs from earlier stages.
type ConfidenceInput struct {
	BestSimilarity  float64
	JobsUsed        int
	TopK            int
	TotalSampleSize int
	UsedExactRow    bool
	LocationKnown   bool
}

// Score computes the weighted average of the four clamped factors and maps
// the result to a level.
func (s *ConfidenceScorer) Score(in ConfidenceInput) Confidence {
	topK := in.TopK
	if topK <= 0 {
		topK = s.cfg.DefaultTopK
	}

	factors := ConfidenceFactors{
		MatchQuality:       clamp01(in.BestSimilarity),
		Coverage:           clamp01(float64(in.JobsUsed) / float64(topK)),
		SampleAdequacy:     clamp01(float64(in.TotalSampleSize) / float64(s.cfg.SampleSizeTarget)),
		LocationConfidence: locationConfidence(in.UsedExactRow, in.LocationKnown),
	}

	w := s.cfg.Weights
	score := clamp01(
		w.MatchQuality*factors.MatchQuality +
			w.SampleAdequacy*factors.SampleAdequacy +
			w.Coverage*factors.Coverage +
			w.LocationConfidence*factors.LocationConfidence,
	)

	return Confidence{
		Score:   score,
		Level:   s.level(score),
		Factors: factors,
	}
}

func (s *ConfidenceScorer) level(score float64) ConfidenceLevel {
	switch {
	case score >= s.cfg.Thresholds.High:
		return ConfidenceHigh
	case score >= s.cfg.Thresholds.Medium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func locationConfidence(usedExactRow, locationKnown bool) float64 {
	switch {
	case usedExactRow:
		return locationConfidenceExact
	case locationKnown:
		return locationConfidenceDefault
	default:
		return locationConfidenceUnknown
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
