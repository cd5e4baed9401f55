package rick

import (
	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/rick/normalize"
)

// Thresholds are the tunable cut-offs of the pipeline. Every population and failure query reads
// its cut-off from here, whether it came through a pattern or through the keyword fallback.
type Thresholds struct {
	// AtRisk and DoingWell bound the population queries, in percent.
	AtRisk    float64
	DoingWell float64
	// Failure is the passing grade of a single assignment, in percent.
	Failure float64
	// ChronicMissing is the number of missing grades that makes a student chronically missing.
	ChronicMissing int
	// AssignmentMatch is the minimum normalizer score for an assignment to match.
	AssignmentMatch int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		AtRisk:          60,
		DoingWell:       80,
		Failure:         60,
		ChronicMissing:  3,
		AssignmentMatch: normalize.DefaultThreshold,
	}
}

// ThresholdsFromConfig reads conf, keeping the default for every unset value.
func ThresholdsFromConfig(conf core.RickConfig) Thresholds {
	th := DefaultThresholds()
	if conf.AtRiskThreshold > 0 {
		th.AtRisk = conf.AtRiskThreshold
	}
	if conf.DoingWellThreshold > 0 {
		th.DoingWell = conf.DoingWellThreshold
	}
	if conf.FailureThreshold > 0 {
		th.Failure = conf.FailureThreshold
	}
	if conf.ChronicMissingMin > 0 {
		th.ChronicMissing = conf.ChronicMissingMin
	}
	if conf.AssignmentMatchMin > 0 {
		th.AssignmentMatch = conf.AssignmentMatchMin
	}
	return th
}
