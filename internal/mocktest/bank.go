package mocktest

import "github.com/soumil/jeeprep/internal/domain"

// DefaultBank is the fixed question bank every chapter test draws from.
var DefaultBank = []domain.Question{
	{
		ID:   "force-accel",
		Text: "A block of mass m on a smooth surface is pulled by a constant force F. Find acceleration (symbolic).",
		Options: []domain.Option{
			{Key: "A", Label: "F/m"},
			{Key: "B", Label: "m/F"},
			{Key: "C", Label: "F·m"},
			{Key: "D", Label: "0"},
		},
		Correct: "A",
	},
	{
		ID:   "centripetal",
		Text: "A particle moves in a circle of radius R with angular speed ω. What is its centripetal acceleration?",
		Options: []domain.Option{
			{Key: "A", Label: "ω²R"},
			{Key: "B", Label: "ωR"},
			{Key: "C", Label: "R/ω"},
			{Key: "D", Label: "1/ω²R"},
		},
		Correct: "A",
	},
	{
		ID:   "series-caps",
		Text: "Two capacitors C and 2C in series across V. Charge on each is?",
		Options: []domain.Option{
			{Key: "A", Label: "2CV"},
			{Key: "B", Label: "CV/2"},
			{Key: "C", Label: "2C·V/3"},
			{Key: "D", Label: "Same Q on both: Q = 2C·V/3"},
		},
		Correct: "B",
	},
	{
		ID:   "free-fall",
		Text: "A body of mass m is dropped from height h. Ignore air resistance. Speed just before hitting?",
		Options: []domain.Option{
			{Key: "A", Label: "√(2gh)"},
			{Key: "B", Label: "gh"},
			{Key: "C", Label: "2gh"},
			{Key: "D", Label: "h/2g"},
		},
		Correct: "A",
	},
	{
		ID:   "mirror-deviation",
		Text: "A light ray incident at small angle θ on a plane mirror. Find deviation.",
		Options: []domain.Option{
			{Key: "A", Label: "2θ"},
			{Key: "B", Label: "θ"},
			{Key: "C", Label: "90°"},
			{Key: "D", Label: "0"},
		},
		Correct: "A",
	},
}
