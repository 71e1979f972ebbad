package domain

// AllLanguages is the language filter value that disables language filtering.
const AllLanguages = "All"

// SortKey selects the field search results are ordered by.
type SortKey string

const (
	SortStars   SortKey = "stars"
	SortForks   SortKey = "forks"
	SortUpdated SortKey = "updated"
)

// Order is the direction of the sort.
type Order string

const (
	OrderDesc Order = "desc"
	OrderAsc  Order = "asc"
)

// Period is the recency window for trending repositories.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Days returns the length of the window. Unknown periods fall back to a week.
func (p Period) Days() int {
	switch p {
	case PeriodDay:
		return 1
	case PeriodMonth:
		return 30
	default:
		return 7
	}
}

// SearchParams holds the user-facing search filters.
type SearchParams struct {
	Query    string   `json:"query"`
	Language string   `json:"language"`
	Topics   []string `json:"topics"`
	Sort     SortKey  `json:"sort"`
	Order    Order    `json:"order"`
	PerPage  int      `json:"per_page"`
	Page     int      `json:"page"`
}
