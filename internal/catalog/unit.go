package catalog

// FailStrategy controls what happens when a gate's retry budget runs out.
type FailStrategy string

const (
	// FailHold blocks progression at the gate until an author or
	// instructor intervenes. This is the only strategy currently
	// implemented; other values are reserved.
	FailHold FailStrategy = "hold"
)

// GateConfig holds the checkpoint configuration for a gate unit.
type GateConfig struct {
	MasteryThreshold float64      `json:"masteryThreshold"`
	MinQuestions     int          `json:"minQuestions"`
	MaxRetries       int          `json:"maxRetries"`
	FailStrategy     FailStrategy `json:"failStrategy"`
}

// AdaptiveDescriptor carries the knowledge-graph metadata attached to a
// learning unit by the course author. Units without a descriptor are
// plain sequential content.
type AdaptiveDescriptor struct {
	TeachesNodes  []string    `json:"teachesNodes,omitempty"`
	AssessesNodes []string    `json:"assessesNodes,omitempty"`
	IsGate        bool        `json:"isGate,omitempty"`
	IsSkippable   bool        `json:"isSkippable,omitempty"`
	Gate          *GateConfig `json:"gateConfig,omitempty"`
}

// StaticLearningUnit is one atomic piece of course content as authored.
// The playlist engine treats the unit list as read-only input.
type StaticLearningUnit struct {
	ID                string              `json:"id"`
	Title             string              `json:"title"`
	Type              string              `json:"type"`
	ContentID         string              `json:"contentId"`
	Category          string              `json:"category,omitempty"`
	IsRequired        bool                `json:"isRequired"`
	Sequence          int                 `json:"sequence"`
	EstimatedDuration int                 `json:"estimatedDuration,omitempty"`
	Adaptive          *AdaptiveDescriptor `json:"adaptive,omitempty"`
}

// IsGate reports whether the unit is a checkpoint that can block progress.
func (u *StaticLearningUnit) IsGate() bool {
	return u.Adaptive != nil && u.Adaptive.IsGate
}

// IsSkippable reports whether adaptive modes may skip this unit.
func (u *StaticLearningUnit) IsSkippable() bool {
	return u.Adaptive != nil && u.Adaptive.IsSkippable
}

// GateConfig returns the unit's gate configuration, or nil for non-gates.
func (u *StaticLearningUnit) GateConfig() *GateConfig {
	if !u.IsGate() {
		return nil
	}
	return u.Adaptive.Gate
}
