// Package query builds GitHub repository search query strings from the explorer's filters.
package query

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/naka-gawa/repo-explorer/internal/domain"
)

const (
	githubDateLayout = "2006-01-02"

	// recentDays is the creation window applied when the user gave no free text.
	recentDays = 30

	DefaultPerPage = 30
	MaxPerPage     = 100
)

// ErrInvalidParams is returned by Normalize for values GitHub would reject.
var ErrInvalidParams = errors.New("invalid search parameters")

// Normalize fills in defaults and validates sort, order and paging.
func Normalize(p domain.SearchParams) (domain.SearchParams, error) {
	p.Query = strings.TrimSpace(p.Query)
	p.Language = strings.TrimSpace(p.Language)

	topics := make([]string, 0, len(p.Topics))
	for _, t := range p.Topics {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	p.Topics = topics

	switch p.Sort {
	case "":
		p.Sort = domain.SortStars
	case domain.SortStars, domain.SortForks, domain.SortUpdated:
	default:
		return p, fmt.Errorf("%w: unknown sort %q", ErrInvalidParams, p.Sort)
	}

	switch p.Order {
	case "":
		p.Order = domain.OrderDesc
	case domain.OrderDesc, domain.OrderAsc:
	default:
		return p, fmt.Errorf("%w: unknown order %q", ErrInvalidParams, p.Order)
	}

	if p.PerPage == 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage < 1 || p.PerPage > MaxPerPage {
		return p, fmt.Errorf("%w: per_page must be between 1 and %d", ErrInvalidParams, MaxPerPage)
	}
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Page < 1 {
		return p, fmt.Errorf("%w: page must be positive", ErrInvalidParams)
	}
	return p, nil
}

// Build assembles the search query for p.
// Topic clauses are merged into the free text first; the recency window is
// only applied when that merged text is empty.
func Build(p domain.SearchParams, now time.Time) string {
	base := mergeTopics(p.Query, p.Topics)

	var sb strings.Builder
	if base == "" {
		sb.WriteString("stars:>1")
	} else {
		sb.WriteString(base)
	}
	writeLanguage(&sb, p.Language)
	if base == "" {
		// Note: the leading space is important for concatenation.
		fmt.Fprintf(&sb, " created:>%s", daysAgo(now, recentDays))
	}
	return sb.String()
}

// Trending returns the query for repositories created within period that
// already have more than ten stars.
func Trending(language string, period domain.Period, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "created:>%s stars:>10", daysAgo(now, period.Days()))
	writeLanguage(&sb, language)
	return sb.String()
}

// TopicClauses renders topics as space separated topic: qualifiers.
func TopicClauses(topics []string) string {
	clauses := make([]string, 0, len(topics))
	for _, t := range topics {
		clauses = append(clauses, "topic:"+t)
	}
	return strings.Join(clauses, " ")
}

func mergeTopics(text string, topics []string) string {
	clauses := TopicClauses(topics)
	switch {
	case clauses == "":
		return text
	case text == "":
		return clauses
	default:
		return text + " " + clauses
	}
}

func writeLanguage(sb *strings.Builder, language string) {
	if language != "" && language != domain.AllLanguages {
		fmt.Fprintf(sb, " language:%s", language)
	}
}

func daysAgo(now time.Time, days int) string {
	return now.UTC().AddDate(0, 0, -days).Format(githubDateLayout)
}
