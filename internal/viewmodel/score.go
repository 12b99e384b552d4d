package viewmodel

// ScoreBand groups a portfolio score for display.
type ScoreBand struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ScoreBandFor returns the band of a portfolio score: 800 and above is
// excellent, 600 good, 400 fair, anything lower poor.
func ScoreBandFor(score float64) ScoreBand {
	switch {
	case score >= 800:
		return ScoreBand{Name: "excellent", Color: "green"}
	case score >= 600:
		return ScoreBand{Name: "good", Color: "yellow"}
	case score >= 400:
		return ScoreBand{Name: "fair", Color: "orange"}
	default:
		return ScoreBand{Name: "poor", Color: "red"}
	}
}
