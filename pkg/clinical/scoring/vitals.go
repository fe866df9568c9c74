package scoring

// VitalSigns holds the observations used by the urgency score.
// Every field is optional: a nil field is excluded from scoring entirely,
// it does NOT count as a normal (0 point) reading.
type VitalSigns struct {
	RespiratoryRate *int     `json:"respiratory_rate,omitempty"` // breaths/min
	SpO2            *int     `json:"spo2,omitempty"`             // %
	SupplementalO2  *bool    `json:"supplemental_o2,omitempty"`
	SystolicBP      *int     `json:"systolic_bp,omitempty"` // mmHg
	HeartRate       *int     `json:"heart_rate,omitempty"`  // bpm
	Consciousness   *string  `json:"consciousness,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"` // °C
}

// HasAny reports whether at least one vital is present.
func (v *VitalSigns) HasAny() bool {
	if v == nil {
		return false
	}
	return v.RespiratoryRate != nil || v.SpO2 != nil || v.SupplementalO2 != nil ||
		v.SystolicBP != nil || v.HeartRate != nil || v.Consciousness != nil ||
		v.Temperature != nil
}

// LabValues holds the lab results used by the organ dysfunction score.
// All fields optional, same absence semantics as VitalSigns.
type LabValues struct {
	Creatinine *float64 `json:"creatinine,omitempty"` // mg/dL
	Bilirubin  *float64 `json:"bilirubin,omitempty"`  // mg/dL
	Platelets  *float64 `json:"platelets,omitempty"`  // x10^9/L
	PaO2       *float64 `json:"pao2,omitempty"`       // mmHg
	FiO2       *float64 `json:"fio2,omitempty"`       // fraction, e.g. 0.21
	Lactate    *float64 `json:"lactate,omitempty"`    // mmol/L
	GCS        *int     `json:"gcs,omitempty"`        // Glasgow Coma Scale, 3-15
}

// HasAny reports whether at least one lab value is present.
func (l *LabValues) HasAny() bool {
	if l == nil {
		return false
	}
	return l.Creatinine != nil || l.Bilirubin != nil || l.Platelets != nil ||
		l.PaO2 != nil || l.FiO2 != nil || l.Lactate != nil || l.GCS != nil
}

// Helpers for building optional fields inline.

func Int(v int) *int             { return &v }
func Float(v float64) *float64   { return &v }
func Bool(v bool) *bool          { return &v }
func String(v string) *string    { return &v }
