package scoring

import "testing"

func TestNEWS2SpecExample(t *testing.T) {
	v := VitalSigns{
		RespiratoryRate: Int(22),
		SpO2:            Int(93),
		SupplementalO2:  Bool(true),
		SystolicBP:      Int(95),
		HeartRate:       Int(115),
		Consciousness:   String("alert"),
		Temperature:     Float(38.5),
	}

	b := NEWS2(v)
	if b.Total != 11 {
		t.Errorf("Total = %d, want 11 (%s)", b.Total, b)
	}
	if len(b.Scored) != 7 {
		t.Errorf("Scored = %d parameters, want 7", len(b.Scored))
	}
}

func TestNEWS2Bands(t *testing.T) {
	tests := []struct {
		name string
		v    VitalSigns
		want int
	}{
		{"empty input scores zero", VitalSigns{}, 0},
		{"rr low extreme", VitalSigns{RespiratoryRate: Int(8)}, 3},
		{"rr low", VitalSigns{RespiratoryRate: Int(9)}, 1},
		{"rr normal", VitalSigns{RespiratoryRate: Int(20)}, 0},
		{"rr raised", VitalSigns{RespiratoryRate: Int(21)}, 2},
		{"rr high extreme", VitalSigns{RespiratoryRate: Int(25)}, 3},
		{"spo2 boundaries", VitalSigns{SpO2: Int(91)}, 3},
		{"spo2 92", VitalSigns{SpO2: Int(92)}, 2},
		{"spo2 94", VitalSigns{SpO2: Int(94)}, 1},
		{"spo2 96", VitalSigns{SpO2: Int(96)}, 0},
		{"on oxygen", VitalSigns{SupplementalO2: Bool(true)}, 2},
		{"room air", VitalSigns{SupplementalO2: Bool(false)}, 0},
		{"sbp shock", VitalSigns{SystolicBP: Int(90)}, 3},
		{"sbp 100", VitalSigns{SystolicBP: Int(100)}, 2},
		{"sbp 110", VitalSigns{SystolicBP: Int(110)}, 1},
		{"sbp normal", VitalSigns{SystolicBP: Int(219)}, 0},
		{"sbp hypertensive crisis", VitalSigns{SystolicBP: Int(220)}, 3},
		{"hr bradycardia", VitalSigns{HeartRate: Int(40)}, 3},
		{"hr 50", VitalSigns{HeartRate: Int(50)}, 1},
		{"hr normal", VitalSigns{HeartRate: Int(90)}, 0},
		{"hr 110", VitalSigns{HeartRate: Int(110)}, 1},
		{"hr 130", VitalSigns{HeartRate: Int(130)}, 2},
		{"hr tachycardia", VitalSigns{HeartRate: Int(131)}, 3},
		{"alert", VitalSigns{Consciousness: String("alert")}, 0},
		{"alert case insensitive", VitalSigns{Consciousness: String("Alert")}, 0},
		{"confused", VitalSigns{Consciousness: String("confused")}, 3},
		{"hypothermia", VitalSigns{Temperature: Float(35.0)}, 3},
		{"temp 36", VitalSigns{Temperature: Float(36.0)}, 1},
		{"temp normal", VitalSigns{Temperature: Float(38.0)}, 0},
		{"temp febrile", VitalSigns{Temperature: Float(39.0)}, 1},
		{"temp high fever", VitalSigns{Temperature: Float(39.1)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NEWS2(tt.v)
			if got.Total != tt.want {
				t.Errorf("NEWS2(%+v).Total = %d, want %d", tt.v, got.Total, tt.want)
			}
		})
	}
}

func TestNEWS2MissingFieldsNeverIncreaseScore(t *testing.T) {
	full := VitalSigns{
		RespiratoryRate: Int(22),
		SpO2:            Int(93),
		SupplementalO2:  Bool(true),
		SystolicBP:      Int(95),
		HeartRate:       Int(115),
		Consciousness:   String("confused"),
		Temperature:     Float(38.5),
	}
	fullScore := NEWS2(full).Total

	partial := full
	partial.SpO2 = nil
	partial.Consciousness = nil
	partialScore := NEWS2(partial).Total

	if partialScore > fullScore {
		t.Errorf("dropping fields increased the score: %d > %d", partialScore, fullScore)
	}
}

func TestNEWS2Deterministic(t *testing.T) {
	v := VitalSigns{RespiratoryRate: Int(23), SpO2: Int(92), Temperature: Float(39.5)}
	first := NEWS2(v)
	for i := 0; i < 50; i++ {
		if got := NEWS2(v); got.Total != first.Total {
			t.Fatalf("run %d: Total = %d, want %d", i, got.Total, first.Total)
		}
	}
}
