package catalog

// Mode is the course-level adaptivity policy.
type Mode string

const (
	// ModeOff disables all adaptivity: the playlist is walked
	// front to back regardless of unit metadata.
	ModeOff Mode = "off"

	// ModeGuided enables gate evaluation, retries, remedial
	// injection and mastery-based skipping.
	ModeGuided Mode = "guided"
)

// AdaptiveSettings is the per-module adaptivity configuration.
// A nil settings value everywhere in the engine behaves exactly
// like ModeOff.
type AdaptiveSettings struct {
	Mode                 Mode `json:"mode"`
	AllowLearnerChoice   bool `json:"allowLearnerChoice,omitempty"`
	PreAssessmentEnabled bool `json:"preAssessmentEnabled,omitempty"`
}

// EffectiveMode resolves the mode for possibly-absent settings.
func (s *AdaptiveSettings) EffectiveMode() Mode {
	if s == nil || s.Mode == "" {
		return ModeOff
	}
	return s.Mode
}
