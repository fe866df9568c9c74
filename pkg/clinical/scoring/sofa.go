package scoring

// SOFA computes the additive labs-based organ dysfunction score.
// Bands are ordered worst-first so the worst matching band wins.
func SOFA(l LabValues) ScoreBreakdown {
	b := ScoreBreakdown{Components: map[string]int{}}

	score := func(name string, points int) {
		b.Components[name] = points
		b.Scored = append(b.Scored, name)
		b.Total += points
	}

	// Respiratory component needs both PaO2 and FiO2 to form the ratio.
	if l.PaO2 != nil && l.FiO2 != nil && *l.FiO2 > 0 {
		ratio := *l.PaO2 / *l.FiO2
		score("pao2_fio2_ratio", bandPF(ratio))
	}
	if l.Platelets != nil {
		score("platelets", bandPlatelets(*l.Platelets))
	}
	if l.Bilirubin != nil {
		score("bilirubin", bandBilirubin(*l.Bilirubin))
	}
	if l.Creatinine != nil {
		score("creatinine", bandCreatinine(*l.Creatinine))
	}
	if l.GCS != nil {
		score("gcs", bandGCS(*l.GCS))
	}

	return b
}

func bandPF(ratio float64) int {
	switch {
	case ratio < 100:
		return 4
	case ratio < 200:
		return 3
	case ratio < 300:
		return 2
	case ratio < 400:
		return 1
	default:
		return 0
	}
}

func bandPlatelets(plt float64) int {
	switch {
	case plt < 20:
		return 4
	case plt < 50:
		return 3
	case plt < 100:
		return 2
	case plt < 150:
		return 1
	default:
		return 0
	}
}

func bandBilirubin(bili float64) int {
	switch {
	case bili >= 12:
		return 4
	case bili >= 6:
		return 3
	case bili >= 2:
		return 2
	case bili >= 1.2:
		return 1
	default:
		return 0
	}
}

func bandCreatinine(cr float64) int {
	switch {
	case cr >= 5:
		return 4
	case cr >= 3.5:
		return 3
	case cr >= 2:
		return 2
	case cr >= 1.2:
		return 1
	default:
		return 0
	}
}

func bandGCS(gcs int) int {
	switch {
	case gcs < 6:
		return 4
	case gcs < 10:
		return 3
	case gcs < 13:
		return 2
	case gcs < 15:
		return 1
	default:
		return 0
	}
}
