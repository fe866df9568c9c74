package scoring

import "testing"

func TestCombineRisk(t *testing.T) {
	tests := []struct {
		name    string
		urgency *int
		organ   *int
		want    RiskCategory
	}{
		{"no scores", nil, nil, RiskLow},
		{"low urgency only", Int(2), nil, RiskLow},
		{"low with both present", Int(2), Int(1), RiskLow},
		{"moderate by urgency", Int(3), nil, RiskModerate},
		{"moderate by organ", nil, Int(2), RiskModerate},
		{"high by urgency", Int(5), Int(0), RiskHigh},
		{"high by organ", Int(0), Int(4), RiskHigh},
		{"critical by urgency", Int(7), nil, RiskCritical},
		{"critical by organ", nil, Int(6), RiskCritical},
		{"critical with both extreme", Int(11), Int(12), RiskCritical},
		{"highest wins", Int(2), Int(6), RiskCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CombineRisk(tt.urgency, tt.organ); got != tt.want {
				t.Errorf("CombineRisk = %s, want %s", got, tt.want)
			}
		})
	}
}
