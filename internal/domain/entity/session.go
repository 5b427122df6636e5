package entity

import "time"

// NoOpenRow marks a session without an expanded detail panel
const NoOpenRow = -1

// ViewFilter user's current narrowing of the catalog
type ViewFilter struct {
	Query      string                   // trimmed + lowercased
	Categories map[CategoryTag]struct{} // empty means all
	AnchorOnly bool
	MineOnly   bool
}

// HasCategory reports whether tag is selected (always true for "all").
func (f ViewFilter) HasCategory(tag CategoryTag) bool {
	if len(f.Categories) == 0 {
		return true
	}
	_, ok := f.Categories[tag]
	return ok
}

// Session per-user interactive state. Lives only in memory.
type Session struct {
	UserID      int64
	UserName    string // as typed, untrimmed
	Ledger      *PlannedLedger
	Filter      ViewFilter
	OpenRowID   int
	Page        int
	AwaitName   bool
	ListChatID  int64
	ListMsgID   int
	StartedAt   time.Time
	LastUpdated time.Time
}

// NewSession fresh session awaiting a user name
func NewSession(userID int64) *Session {
	now := time.Now()
	return &Session{
		UserID:      userID,
		OpenRowID:   NoOpenRow,
		AwaitName:   true,
		StartedAt:   now,
		LastUpdated: now,
	}
}

// HasUser reports whether the user already entered a name.
func (s *Session) HasUser() bool {
	return s != nil && s.Ledger != nil && s.UserName != ""
}

// Clone deep copy: the ledger and the category set are not shared.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	if s.Ledger != nil {
		cp.Ledger = s.Ledger.Clone()
	}
	if s.Filter.Categories != nil {
		cp.Filter.Categories = make(map[CategoryTag]struct{}, len(s.Filter.Categories))
		for k := range s.Filter.Categories {
			cp.Filter.Categories[k] = struct{}{}
		}
	}
	return &cp
}
