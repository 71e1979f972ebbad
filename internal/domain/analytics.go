package domain

// LanguageCount is the number of repositories written in one language.
type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// TopicCount is the number of repositories tagged with one topic.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// Analytics is the summary computed over the currently loaded page of results.
type Analytics struct {
	TotalStars    int             `json:"total_stars"`
	TotalForks    int             `json:"total_forks"`
	TotalWatchers int             `json:"total_watchers"`
	AverageStars  int             `json:"average_stars"`
	MedianStars   float64         `json:"median_stars"`
	Languages     []LanguageCount `json:"languages"`
	TopByStars    []*Repository   `json:"top_by_stars"`
}

// Dashboard bundles everything the explorer view shows for one query.
type Dashboard struct {
	Repositories []*Repository `json:"repositories"`
	Topics       []string      `json:"topics"`
	Analytics    Analytics     `json:"analytics"`
}
