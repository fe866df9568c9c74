package scoring

// RiskCategory is the combined clinical risk bucket.
type RiskCategory string

const (
	RiskLow      RiskCategory = "Low"
	RiskModerate RiskCategory = "Moderate"
	RiskHigh     RiskCategory = "High"
	RiskCritical RiskCategory = "Critical"
)

// CombineRisk maps the two scores onto one category. Either score may be nil
// (not computed because no inputs were available); with neither score the
// category defaults to Low.
func CombineRisk(urgency, organ *int) RiskCategory {
	u, o := 0, 0
	if urgency != nil {
		u = *urgency
	}
	if organ != nil {
		o = *organ
	}

	switch {
	case u >= 7 || o >= 6:
		return RiskCritical
	case u >= 5 || o >= 4:
		return RiskHigh
	case u >= 3 || o >= 2:
		return RiskModerate
	default:
		return RiskLow
	}
}
