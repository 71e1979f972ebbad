package usecase

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/repo-explorer/internal/domain"
)

const (
	// PopularTopicLimit is how many topics the popular-topics ranking keeps.
	PopularTopicLimit = 20

	languageChartLimit = 6
	topReposLimit      = 10
)

// RankTopics counts topic occurrences across repos and returns the n most
// frequent, highest count first. Ties keep the order topics were first seen.
func RankTopics(repos []*domain.Repository, n int) []domain.TopicCount {
	index := make(map[string]int)
	ranked := make([]domain.TopicCount, 0)
	for _, repo := range repos {
		for _, topic := range repo.Topics {
			if i, ok := index[topic]; ok {
				ranked[i].Count++
				continue
			}
			index[topic] = len(ranked)
			ranked = append(ranked, domain.TopicCount{Topic: topic, Count: 1})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// TopicNames drops the counts from a ranking.
func TopicNames(counts []domain.TopicCount) []string {
	names := make([]string, 0, len(counts))
	for _, c := range counts {
		names = append(names, c.Topic)
	}
	return names
}

// LanguageDistribution counts repositories per language in first-seen order
// and keeps the first n languages. Repositories without a language are skipped.
func LanguageDistribution(repos []*domain.Repository, n int) []domain.LanguageCount {
	index := make(map[string]int)
	dist := make([]domain.LanguageCount, 0)
	for _, repo := range repos {
		if repo.Language == "" {
			continue
		}
		if i, ok := index[repo.Language]; ok {
			dist[i].Count++
			continue
		}
		index[repo.Language] = len(dist)
		dist = append(dist, domain.LanguageCount{Language: repo.Language, Count: 1})
	}
	if n >= 0 && len(dist) > n {
		dist = dist[:n]
	}
	return dist
}

// TopByStars returns the n most starred repositories without reordering repos.
func TopByStars(repos []*domain.Repository, n int) []*domain.Repository {
	sorted := make([]*domain.Repository, len(repos))
	copy(sorted, repos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Stars > sorted[j].Stars
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Analyze summarizes the currently loaded page of results.
func Analyze(repos []*domain.Repository) domain.Analytics {
	a := domain.Analytics{
		Languages:  LanguageDistribution(repos, languageChartLimit),
		TopByStars: TopByStars(repos, topReposLimit),
	}
	stars := make([]int, 0, len(repos))
	for _, repo := range repos {
		a.TotalStars += repo.Stars
		a.TotalForks += repo.Forks
		a.TotalWatchers += repo.Watchers
		stars = append(stars, repo.Stars)
	}

	data := stats.LoadRawData(stars)
	// Both return ErrEmptyInput for an empty page, which leaves the zero values.
	if mean, err := stats.Mean(data); err == nil {
		a.AverageStars = int(math.Round(mean))
	}
	if median, err := stats.Median(data); err == nil {
		a.MedianStars = median
	}
	return a
}
