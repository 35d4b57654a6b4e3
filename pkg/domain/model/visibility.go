package model

import "sort"

// VisibleSet is the set of live field ids for one answer set
type VisibleSet map[string]struct{}

// Has reports whether the field id is live
func (s VisibleSet) Has(fieldID string) bool {
	_, ok := s[fieldID]
	return ok
}

// IDs returns the live field ids in lexical order
func (s VisibleSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// trigger is one usable conditional rule: source answers value -> target
type trigger struct {
	sourceID string
	value    string
	targetID string
}

// collectTriggers returns the rules that can take part in evaluation. Rules
// on fields that cannot trigger, on fields without id, and self-targeting
// rules are ignored.
func collectTriggers(fields []FieldDefinition) []trigger {
	var triggers []trigger
	for _, f := range fields {
		if f.ID == "" || !f.Type.CanTrigger() {
			continue
		}
		for _, rule := range f.ConditionalLogic {
			if rule.TargetFieldID == "" || rule.TargetFieldID == f.ID {
				continue
			}
			triggers = append(triggers, trigger{
				sourceID: f.ID,
				value:    rule.TriggerValue,
				targetID: rule.TargetFieldID,
			})
		}
	}
	return triggers
}

// answerMatches compares a raw answer to a trigger value. Only string answers
// can match and the comparison is exact.
func answerMatches(answers RawInput, sourceID, value string) bool {
	raw, ok := answers[sourceID]
	if !ok {
		return false
	}
	s, ok := raw.(string)
	return ok && s == value
}

// ComputeVisibleFields returns the ids of the fields that are live for the
// given answers. A field is live when no rule targets it, or when at least
// one radio/select field has a rule targeting it whose trigger value equals
// that field's answer. Whether the trigger field is itself live is not
// considered.
func ComputeVisibleFields(fields []FieldDefinition, answers RawInput) VisibleSet {
	triggers := collectTriggers(fields)

	targeted := make(map[string]bool, len(triggers))
	for _, t := range triggers {
		targeted[t.targetID] = true
	}

	visible := make(VisibleSet, len(fields))
	for _, f := range fields {
		if f.ID != "" && !targeted[f.ID] {
			visible[f.ID] = struct{}{}
		}
	}

	for _, t := range triggers {
		if answerMatches(answers, t.sourceID, t.value) {
			visible[t.targetID] = struct{}{}
		}
	}

	// Drop targets that do not exist in the field list
	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f.ID] = true
	}
	for id := range visible {
		if !known[id] {
			delete(visible, id)
		}
	}

	return visible
}

// ComputeVisibleFieldsTransitive is the fixed-point variant of
// ComputeVisibleFields: a trigger only reveals its targets while it is live
// itself. Evaluation starts from the unconditional fields and grows the set
// until it is stable, so trigger cycles with no live entry stay hidden.
func ComputeVisibleFieldsTransitive(fields []FieldDefinition, answers RawInput) VisibleSet {
	triggers := collectTriggers(fields)

	known := make(map[string]bool, len(fields))
	targeted := make(map[string]bool, len(triggers))
	for _, f := range fields {
		if f.ID != "" {
			known[f.ID] = true
		}
	}
	for _, t := range triggers {
		targeted[t.targetID] = true
	}

	visible := make(VisibleSet, len(fields))
	var queue []string
	for _, f := range fields {
		if f.ID != "" && !targeted[f.ID] {
			if !visible.Has(f.ID) {
				visible[f.ID] = struct{}{}
				queue = append(queue, f.ID)
			}
		}
	}

	bySource := make(map[string][]trigger)
	for _, t := range triggers {
		bySource[t.sourceID] = append(bySource[t.sourceID], t)
	}

	// Each field enters the queue at most once, bounding the walk by the
	// number of fields.
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		for _, t := range bySource[id] {
			if !known[t.targetID] || visible.Has(t.targetID) {
				continue
			}
			if answerMatches(answers, t.sourceID, t.value) {
				visible[t.targetID] = struct{}{}
				queue = append(queue, t.targetID)
			}
		}
	}

	return visible
}
