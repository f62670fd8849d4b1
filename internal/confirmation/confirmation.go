package confirmation

import "encoding/json"

// Store holds the last successful booking summary for the confirmation
// screen. At most one value; overwritten or cleared explicitly. The payload
// stays opaque: it is rendered as the backend returned it.
type Store struct {
	summary json.RawMessage
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Set(summary json.RawMessage) {
	s.summary = summary
}

func (s *Store) Get() (json.RawMessage, bool) {
	if s.summary == nil {
		return nil, false
	}
	return s.summary, true
}

func (s *Store) Clear() {
	s.summary = nil
}
