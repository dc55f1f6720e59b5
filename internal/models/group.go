package models

// Group represents one secret friend drawing: who is invited, who has
// confirmed, and (after the draw) who gives to whom.
//
// The JSON tags define the on-disk format of the flat-file store; the keys
// mirror the groups.json layout this service has always used.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	// Knowing the ID is what grants access to the group page, so IDs are
	// never listed anywhere.
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Natal 2026", "Office Party").
	Name string `json:"name"`

	// Participants is the ordered list of invited participant names.
	// Names are unique within a group.
	Participants []string `json:"participants"`

	// Confirmations maps a participant name to the bcrypt hash of the
	// password they chose when confirming. A participant is confirmed
	// iff their name is a key here.
	Confirmations map[string]string `json:"participants_confirmed"`

	// Drawn reports whether the draw has been performed. A group is drawn
	// at most once.
	Drawn bool `json:"drawn"`

	// Assignments maps each participant to the participant they give a gift
	// to. Nil until the draw happens; afterwards it is a derangement of
	// Participants (nobody is assigned to themselves).
	Assignments map[string]string `json:"assignments,omitempty"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`
}

// HasParticipant reports whether name is on the group's invite list.
func (g *Group) HasParticipant(name string) bool {
	for _, p := range g.Participants {
		if p == name {
			return true
		}
	}
	return false
}

// Confirmed reports whether the named participant has confirmed.
func (g *Group) Confirmed(name string) bool {
	_, ok := g.Confirmations[name]
	return ok
}

// ConfirmedCount returns how many participants have confirmed so far.
func (g *Group) ConfirmedCount() int {
	return len(g.Confirmations)
}

// AllConfirmed reports whether every invited participant has confirmed.
func (g *Group) AllConfirmed() bool {
	return len(g.Confirmations) == len(g.Participants)
}

// Clone returns a deep copy of the group. Stores hand out clones so callers
// cannot mutate cached state behind the store's back.
func (g *Group) Clone() *Group {
	clone := *g
	clone.Participants = append([]string(nil), g.Participants...)
	if g.Confirmations != nil {
		clone.Confirmations = make(map[string]string, len(g.Confirmations))
		for k, v := range g.Confirmations {
			clone.Confirmations[k] = v
		}
	}
	if g.Assignments != nil {
		clone.Assignments = make(map[string]string, len(g.Assignments))
		for k, v := range g.Assignments {
			clone.Assignments[k] = v
		}
	}
	return &clone
}
