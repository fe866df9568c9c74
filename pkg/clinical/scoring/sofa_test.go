package scoring

import "testing"

func TestSOFASpecExample(t *testing.T) {
	// PaO2/FiO2 = 80/0.4 = 200 -> 2, platelets 45 -> 3, bilirubin 3 -> 2,
	// creatinine 2.5 -> 2, GCS 9 -> 3. Total 12.
	l := LabValues{
		PaO2:       Float(80),
		FiO2:       Float(0.4),
		Platelets:  Float(45),
		Bilirubin:  Float(3),
		Creatinine: Float(2.5),
		GCS:        Int(9),
	}

	b := SOFA(l)
	if b.Total != 12 {
		t.Errorf("Total = %d, want 12 (%s)", b.Total, b)
	}
	if len(b.Scored) != 5 {
		t.Errorf("Scored = %d parameters, want 5", len(b.Scored))
	}
}

func TestSOFABands(t *testing.T) {
	tests := []struct {
		name string
		l    LabValues
		want int
	}{
		{"empty input scores zero", LabValues{}, 0},
		{"pf severe", LabValues{PaO2: Float(49), FiO2: Float(0.5)}, 4},
		{"pf 150", LabValues{PaO2: Float(75), FiO2: Float(0.5)}, 3},
		{"pf 250", LabValues{PaO2: Float(125), FiO2: Float(0.5)}, 2},
		{"pf 350", LabValues{PaO2: Float(175), FiO2: Float(0.5)}, 1},
		{"pf normal", LabValues{PaO2: Float(400), FiO2: Float(1.0)}, 0},
		{"pao2 without fio2 not scored", LabValues{PaO2: Float(60)}, 0},
		{"fio2 zero not scored", LabValues{PaO2: Float(60), FiO2: Float(0)}, 0},
		{"platelets 19", LabValues{Platelets: Float(19)}, 4},
		{"platelets 49", LabValues{Platelets: Float(49)}, 3},
		{"platelets 99", LabValues{Platelets: Float(99)}, 2},
		{"platelets 149", LabValues{Platelets: Float(149)}, 1},
		{"platelets normal", LabValues{Platelets: Float(150)}, 0},
		{"bilirubin 12", LabValues{Bilirubin: Float(12)}, 4},
		{"bilirubin 6", LabValues{Bilirubin: Float(6)}, 3},
		{"bilirubin 2", LabValues{Bilirubin: Float(2)}, 2},
		{"bilirubin 1.2", LabValues{Bilirubin: Float(1.2)}, 1},
		{"bilirubin normal", LabValues{Bilirubin: Float(1.0)}, 0},
		{"creatinine 5", LabValues{Creatinine: Float(5)}, 4},
		{"creatinine 3.5", LabValues{Creatinine: Float(3.5)}, 3},
		{"creatinine 2", LabValues{Creatinine: Float(2)}, 2},
		{"creatinine 1.2", LabValues{Creatinine: Float(1.2)}, 1},
		{"creatinine normal", LabValues{Creatinine: Float(1.0)}, 0},
		{"gcs 5", LabValues{GCS: Int(5)}, 4},
		{"gcs 9", LabValues{GCS: Int(9)}, 3},
		{"gcs 12", LabValues{GCS: Int(12)}, 2},
		{"gcs 14", LabValues{GCS: Int(14)}, 1},
		{"gcs 15", LabValues{GCS: Int(15)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SOFA(tt.l)
			if got.Total != tt.want {
				t.Errorf("SOFA(%+v).Total = %d, want %d", tt.l, got.Total, tt.want)
			}
		})
	}
}
