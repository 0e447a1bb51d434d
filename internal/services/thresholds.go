package services

// Classification thresholds for trends and observations.
//
// These are product decisions, not algorithmic truths; changing one
// changes what reports say, never what they measure.
const (
	completionPositivePct = 80.0
	completionNeutralPct  = 50.0

	issueRateNegativePct = 30.0
	issueRateNeutralPct  = 10.0
	issueRateHighPct     = 50.0

	ratingPositive     = 4.0
	ratingNeutral      = 3.0
	ratingExcellent    = 4.5
	ratingNeedsWork    = 3.0
	lowRatingThreshold = 2.0

	quickVisitMinutes    = 5
	extendedVisitMinutes = 30
	outlierFactor        = 2

	sparseMilesPerStop = 6.0
	denseMilesPerStop  = 1.2

	metersPerMile = 1609.344
)
