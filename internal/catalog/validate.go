package catalog

import (
	"fmt"
	"strings"
)

// validateModule performs the structural checks on a decoded module.
// Returns a combined error describing all problems found, or nil if valid.
func validateModule(def *ModuleDefinition) error {
	var errs []string

	idSet := make(map[string]bool, len(def.Units))
	for _, u := range def.Units {
		if idSet[u.ID] {
			errs = append(errs, fmt.Sprintf("duplicate unit ID: %q", u.ID))
		}
		idSet[u.ID] = true
	}

	for _, u := range def.Units {
		if u.Adaptive == nil {
			continue
		}
		prefix := fmt.Sprintf("unit %q", u.ID)

		if u.Adaptive.IsGate {
			gc := u.Adaptive.Gate
			if gc == nil {
				errs = append(errs, fmt.Sprintf("%s: isGate set but gateConfig missing", prefix))
				continue
			}
			if gc.MasteryThreshold <= 0 || gc.MasteryThreshold > 1.0 {
				errs = append(errs, fmt.Sprintf("%s: masteryThreshold must be in (0, 1.0], got %f", prefix, gc.MasteryThreshold))
			}
			if gc.MinQuestions < 0 {
				errs = append(errs, fmt.Sprintf("%s: minQuestions must be >= 0, got %d", prefix, gc.MinQuestions))
			}
			if gc.MaxRetries < 0 {
				errs = append(errs, fmt.Sprintf("%s: maxRetries must be >= 0, got %d", prefix, gc.MaxRetries))
			}
			if gc.FailStrategy != "" && gc.FailStrategy != FailHold {
				errs = append(errs, fmt.Sprintf("%s: unknown failStrategy %q", prefix, gc.FailStrategy))
			}
			if len(u.Adaptive.AssessesNodes) == 0 {
				errs = append(errs, fmt.Sprintf("%s: gate assesses no nodes", prefix))
			}
		} else if u.Adaptive.Gate != nil {
			errs = append(errs, fmt.Sprintf("%s: gateConfig present but isGate not set", prefix))
		}
	}

	// Every node a gate assesses should be taught somewhere in the module,
	// otherwise a failed gate can inject practice for content the learner
	// never saw.
	taught := make(map[string]bool)
	for _, u := range def.Units {
		if u.Adaptive == nil {
			continue
		}
		for _, n := range u.Adaptive.TeachesNodes {
			taught[n] = true
		}
	}
	for _, u := range def.Units {
		if !u.IsGate() {
			continue
		}
		for _, n := range u.Adaptive.AssessesNodes {
			if !taught[n] {
				errs = append(errs, fmt.Sprintf("gate %q assesses node %q that no unit teaches", u.ID, n))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("module validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
