package cart

// Snapshot is the persistable view of cart state, used by the session layer
// to survive restarts. Derived pricing is not stored; it is recomputed from
// the restored state.
type Snapshot struct {
	Items   []LineItem                    `json:"items" bson:"items"`
	Details map[string]ReservationDetails `json:"details" bson:"details"`
}

func (c *Cart) Snapshot() Snapshot {
	snap := Snapshot{
		Items:   make([]LineItem, len(c.items)),
		Details: make(map[string]ReservationDetails, len(c.details)),
	}
	copy(snap.Items, c.items)
	for id, details := range c.details {
		snap.Details[id] = details
	}
	return snap
}

func (c *Cart) Restore(snap Snapshot) {
	c.items = make([]LineItem, len(snap.Items))
	copy(c.items, snap.Items)
	c.details = make(map[string]ReservationDetails, len(snap.Details))
	for id, details := range snap.Details {
		c.details[id] = details
	}
}
