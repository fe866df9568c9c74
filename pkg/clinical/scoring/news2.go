package scoring

import (
	"fmt"
	"strings"
)

// ScoreBreakdown is the result of one deterministic score computation.
// Scored lists the parameters that actually contributed, so callers can
// tell "all normal" apart from "nothing measured".
type ScoreBreakdown struct {
	Total      int            `json:"total"`
	Components map[string]int `json:"components"`
	Scored     []string       `json:"scored"`
}

func (b ScoreBreakdown) String() string {
	parts := make([]string, 0, len(b.Scored))
	for _, name := range b.Scored {
		parts = append(parts, fmt.Sprintf("%s=%d", name, b.Components[name]))
	}
	return fmt.Sprintf("total=%d (%s)", b.Total, strings.Join(parts, ", "))
}

// NEWS2 computes the additive vitals-based urgency score. Each parameter is
// banded independently; absent parameters contribute nothing and are not
// listed in Scored.
func NEWS2(v VitalSigns) ScoreBreakdown {
	b := ScoreBreakdown{Components: map[string]int{}}

	score := func(name string, points int) {
		b.Components[name] = points
		b.Scored = append(b.Scored, name)
		b.Total += points
	}

	if v.RespiratoryRate != nil {
		score("respiratory_rate", bandRespiratoryRate(*v.RespiratoryRate))
	}
	if v.SpO2 != nil {
		score("spo2", bandSpO2(*v.SpO2))
	}
	if v.SupplementalO2 != nil {
		points := 0
		if *v.SupplementalO2 {
			points = 2
		}
		score("supplemental_o2", points)
	}
	if v.SystolicBP != nil {
		score("systolic_bp", bandSystolicBP(*v.SystolicBP))
	}
	if v.HeartRate != nil {
		score("heart_rate", bandHeartRate(*v.HeartRate))
	}
	if v.Consciousness != nil {
		points := 3
		if strings.EqualFold(strings.TrimSpace(*v.Consciousness), "alert") {
			points = 0
		}
		score("consciousness", points)
	}
	if v.Temperature != nil {
		score("temperature", bandTemperature(*v.Temperature))
	}

	return b
}

func bandRespiratoryRate(rr int) int {
	switch {
	case rr <= 8:
		return 3
	case rr <= 11:
		return 1
	case rr <= 20:
		return 0
	case rr <= 24:
		return 2
	default:
		return 3
	}
}

func bandSpO2(spo2 int) int {
	switch {
	case spo2 <= 91:
		return 3
	case spo2 <= 93:
		return 2
	case spo2 <= 95:
		return 1
	default:
		return 0
	}
}

func bandSystolicBP(sbp int) int {
	switch {
	case sbp <= 90:
		return 3
	case sbp <= 100:
		return 2
	case sbp <= 110:
		return 1
	case sbp <= 219:
		return 0
	default:
		return 3
	}
}

func bandHeartRate(hr int) int {
	switch {
	case hr <= 40:
		return 3
	case hr <= 50:
		return 1
	case hr <= 90:
		return 0
	case hr <= 110:
		return 1
	case hr <= 130:
		return 2
	default:
		return 3
	}
}

func bandTemperature(t float64) int {
	switch {
	case t <= 35.0:
		return 3
	case t <= 36.0:
		return 1
	case t <= 38.0:
		return 0
	case t <= 39.0:
		return 1
	default:
		return 2
	}
}
