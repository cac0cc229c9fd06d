package quota

import (
	"math"

	"github.com/atlasfield/fieldops/internal/models"
)

// warningThresholdPercent is the consumption percentage at which a quota
// transitions from active to warning.
const warningThresholdPercent = 75.0

// severityRank orders statuses for monotonicity comparisons.
var severityRank = map[string]int{
	models.QuotaStatusActive:   0,
	models.QuotaStatusWarning:  1,
	models.QuotaStatusExceeded: 2,
}

// Evaluation is the derived state for a limit/usage pair.
type Evaluation struct {
	Status          string  // Derived quota status.
	UsagePercentage float64 // Consumption percentage, rounded to two decimals.
}

// Evaluate derives the quota status from a limit and a usage count.
// A negative limit means unlimited, a zero limit blocks the resource
// entirely, and a positive limit is a hard ceiling with a warning band at
// 75% consumption. Exceeded requires usage strictly greater than the limit.
func Evaluate(limit, usage int64) Evaluation {
	if limit < 0 {
		return Evaluation{Status: models.QuotaStatusActive}
	}
	if limit == 0 {
		if usage > 0 {
			return Evaluation{Status: models.QuotaStatusExceeded, UsagePercentage: 100}
		}
		return Evaluation{Status: models.QuotaStatusActive}
	}

	percentage := math.Round(float64(usage)/float64(limit)*100*100) / 100
	switch {
	case usage > limit:
		return Evaluation{Status: models.QuotaStatusExceeded, UsagePercentage: percentage}
	case percentage >= warningThresholdPercent:
		return Evaluation{Status: models.QuotaStatusWarning, UsagePercentage: percentage}
	default:
		return Evaluation{Status: models.QuotaStatusActive, UsagePercentage: percentage}
	}
}

// Severity returns the ordering rank of a status. Inactive ranks lowest;
// it is an administrative flag, not an evaluation outcome.
func Severity(status string) int {
	if rank, ok := severityRank[status]; ok {
		return rank
	}
	return -1
}
