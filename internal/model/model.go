package model

import "time"

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// GroupOrder is a collective order one leader opens for a restaurant.
// Rows are never deleted; a close only flips Status and stamps ClosedAt.
type GroupOrder struct {
	ID         string     `json:"id"`
	Restaurant string     `json:"restaurant"`
	LeaderID   string     `json:"leader_id"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
	CloseTime  *time.Time `json:"close_time,omitempty"`
}

func (o GroupOrder) Open() bool { return o.Status == StatusOpen }

// UserOrderView pairs a group order with one user's item list in it.
type UserOrderView struct {
	Order GroupOrder `json:"order"`
	Items []string   `json:"items"`
}

// ItemCount is one item with its exact-string frequency.
type ItemCount struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// CountItems tallies items by exact string, preserving first-seen order.
func CountItems(items []string) []ItemCount {
	idx := make(map[string]int, len(items))
	out := make([]ItemCount, 0, len(items))
	for _, it := range items {
		if i, ok := idx[it]; ok {
			out[i].Count++
			continue
		}
		idx[it] = len(out)
		out = append(out, ItemCount{Item: it, Count: 1})
	}
	return out
}

// Summary is the aggregate produced when a group order closes.
type Summary struct {
	GroupOrderID string                 `json:"group_order_id"`
	Restaurant   string                 `json:"restaurant"`
	Total        []ItemCount            `json:"total"`
	PerUser      map[string][]ItemCount `json:"per_user"`
}
