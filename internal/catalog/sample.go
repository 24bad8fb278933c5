package catalog

// SampleModule returns a small built-in module so the player can run
// without an authored module file. It exercises every unit flavor the
// engine distinguishes: plain, skippable, and gated.
func SampleModule() *ModuleDefinition {
	return &ModuleDefinition{
		ID:    "intro-fractions",
		Title: "Introduction to Fractions",
		Settings: &AdaptiveSettings{
			Mode:               ModeGuided,
			AllowLearnerChoice: true,
		},
		Units: []StaticLearningUnit{
			{
				ID:        "lu-welcome",
				Title:     "Welcome & Overview",
				Type:      "video",
				ContentID: "vid-welcome",
				Category:  "introduction",
				Sequence:  1,
			},
			{
				ID:                "lu-parts-whole",
				Title:             "Parts of a Whole",
				Type:              "video",
				ContentID:         "vid-parts-whole",
				Category:          "concept",
				IsRequired:        true,
				Sequence:          2,
				EstimatedDuration: 8,
				Adaptive: &AdaptiveDescriptor{
					TeachesNodes: []string{"node-fraction-concept"},
					IsSkippable:  true,
				},
			},
			{
				ID:                "lu-numerator-denominator",
				Title:             "Numerators and Denominators",
				Type:              "reading",
				ContentID:         "doc-num-denom",
				Category:          "concept",
				IsRequired:        true,
				Sequence:          3,
				EstimatedDuration: 6,
				Adaptive: &AdaptiveDescriptor{
					TeachesNodes: []string{"node-notation"},
					IsSkippable:  true,
				},
			},
			{
				ID:                "lu-checkpoint-basics",
				Title:             "Checkpoint: Fraction Basics",
				Type:              "quiz",
				ContentID:         "quiz-basics",
				Category:          "assessment",
				IsRequired:        true,
				Sequence:          4,
				EstimatedDuration: 10,
				Adaptive: &AdaptiveDescriptor{
					AssessesNodes: []string{"node-fraction-concept", "node-notation"},
					IsGate:        true,
					Gate: &GateConfig{
						MasteryThreshold: 0.8,
						MinQuestions:     5,
						MaxRetries:       2,
						FailStrategy:     FailHold,
					},
				},
			},
			{
				ID:                "lu-equivalent",
				Title:             "Equivalent Fractions",
				Type:              "video",
				ContentID:         "vid-equivalent",
				Category:          "concept",
				IsRequired:        true,
				Sequence:          5,
				EstimatedDuration: 9,
				Adaptive: &AdaptiveDescriptor{
					TeachesNodes: []string{"node-equivalence"},
				},
			},
			{
				ID:        "lu-wrap-up",
				Title:     "Wrap-up & Next Steps",
				Type:      "reading",
				ContentID: "doc-wrap-up",
				Category:  "summary",
				Sequence:  6,
			},
		},
	}
}
