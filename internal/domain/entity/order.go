package entity

import (
	"strings"
	"time"
)

// OrderKind fresh order vs reorder
type OrderKind string

const (
	OrderKindOrder   OrderKind = "order"
	OrderKindReorder OrderKind = "reorder"
)

// OrderLine one planned row in a composed message
type OrderLine struct {
	RowID     int
	AromaName string
	Planned   int
	Cost      float64
}

// OrderMessage composed shareable order text
type OrderMessage struct {
	Kind        OrderKind
	Tag         string
	DisplayName string
	Lines       []string
	Items       []OrderLine
	Total       float64
}

// Text renders the shareable block: tag + name header followed by item lines.
func (m OrderMessage) Text() string {
	var b strings.Builder
	header := strings.TrimSpace(strings.TrimSpace(m.Tag) + " " + strings.TrimSpace(m.DisplayName))
	if header != "" {
		b.WriteString(header)
		b.WriteString("\n")
	}
	b.WriteString(strings.Join(m.Lines, "\n"))
	return b.String()
}

// JournalEntry composed message recorded by the order journal
type JournalEntry struct {
	ID        string
	UserID    int64
	UserName  string
	Kind      OrderKind
	Text      string
	Planned   float64
	Ordered   float64
	CreatedAt time.Time
}
