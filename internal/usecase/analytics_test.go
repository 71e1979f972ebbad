package usecase

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/naka-gawa/repo-explorer/internal/domain"
)

func repoWithTopics(name string, topics ...string) *domain.Repository {
	return &domain.Repository{Name: name, Topics: topics}
}

func TestRankTopics(t *testing.T) {
	testCases := []struct {
		name     string
		repos    []*domain.Repository
		n        int
		expected []domain.TopicCount
	}{
		{
			name:     "empty input yields empty output",
			repos:    nil,
			n:        PopularTopicLimit,
			expected: []domain.TopicCount{},
		},
		{
			name: "sorted by descending count",
			repos: []*domain.Repository{
				repoWithTopics("a", "go", "cli"),
				repoWithTopics("b", "go", "web"),
				repoWithTopics("c", "web", "go"),
			},
			n: PopularTopicLimit,
			expected: []domain.TopicCount{
				{Topic: "go", Count: 3},
				{Topic: "web", Count: 2},
				{Topic: "cli", Count: 1},
			},
		},
		{
			name: "ties keep first-seen order",
			repos: []*domain.Repository{
				repoWithTopics("a", "zeta", "alpha"),
				repoWithTopics("b", "mid"),
			},
			n: PopularTopicLimit,
			expected: []domain.TopicCount{
				{Topic: "zeta", Count: 1},
				{Topic: "alpha", Count: 1},
				{Topic: "mid", Count: 1},
			},
		},
		{
			name: "repositories without topics are skipped",
			repos: []*domain.Repository{
				{Name: "nil-topics"},
				repoWithTopics("a", "go"),
			},
			n:        PopularTopicLimit,
			expected: []domain.TopicCount{{Topic: "go", Count: 1}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, RankTopics(tc.repos, tc.n))
		})
	}
}

func TestRankTopics_TruncatesToLimit(t *testing.T) {
	var repos []*domain.Repository
	for i := 0; i < 30; i++ {
		topics := make([]string, 0, i+1)
		// topic-i appears in repos i..29, so lower indexes are more frequent.
		for j := 0; j <= i; j++ {
			topics = append(topics, fmt.Sprintf("topic-%02d", j))
		}
		repos = append(repos, repoWithTopics(fmt.Sprintf("r%d", i), topics...))
	}

	ranked := RankTopics(repos, PopularTopicLimit)
	assert.Len(t, ranked, PopularTopicLimit)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Count, ranked[i].Count)
	}
	assert.Equal(t, "topic-00", ranked[0].Topic)
	assert.Equal(t, 30, ranked[0].Count)
	assert.Equal(t, "topic-19", ranked[19].Topic)
}

func TestTopicNames(t *testing.T) {
	assert.Equal(t, []string{"go", "web"}, TopicNames([]domain.TopicCount{{Topic: "go", Count: 2}, {Topic: "web", Count: 1}}))
	assert.Equal(t, []string{}, TopicNames(nil))
}

func TestLanguageDistribution(t *testing.T) {
	repos := []*domain.Repository{
		{Language: "Go"}, {Language: "Rust"}, {Language: ""}, {Language: "Go"},
		{Language: "Python"}, {Language: "C"}, {Language: "Java"}, {Language: "Ruby"}, {Language: "Zig"},
	}
	assert.Equal(t, []domain.LanguageCount{
		{Language: "Go", Count: 2},
		{Language: "Rust", Count: 1},
		{Language: "Python", Count: 1},
		{Language: "C", Count: 1},
		{Language: "Java", Count: 1},
		{Language: "Ruby", Count: 1},
	}, LanguageDistribution(repos, languageChartLimit))
}

func TestTopByStars(t *testing.T) {
	repos := []*domain.Repository{
		{Name: "low", Stars: 1},
		{Name: "high", Stars: 100},
		{Name: "mid", Stars: 50},
	}
	top := TopByStars(repos, 2)
	assert.Equal(t, "high", top[0].Name)
	assert.Equal(t, "mid", top[1].Name)
	assert.Len(t, top, 2)
	assert.Equal(t, "low", repos[0].Name, "input order is preserved")
}

func TestAnalyze(t *testing.T) {
	t.Run("empty page", func(t *testing.T) {
		a := Analyze(nil)
		assert.Equal(t, 0, a.TotalStars)
		assert.Equal(t, 0, a.AverageStars)
		assert.Equal(t, 0.0, a.MedianStars)
		assert.Empty(t, a.Languages)
		assert.Empty(t, a.TopByStars)
	})

	t.Run("sums and averages", func(t *testing.T) {
		repos := []*domain.Repository{
			{Name: "a", Stars: 10, Forks: 1, Watchers: 10, Language: "Go"},
			{Name: "b", Stars: 20, Forks: 2, Watchers: 20, Language: "Go"},
			{Name: "c", Stars: 35, Forks: 3, Watchers: 35},
		}
		a := Analyze(repos)
		assert.Equal(t, 65, a.TotalStars)
		assert.Equal(t, 6, a.TotalForks)
		assert.Equal(t, 65, a.TotalWatchers)
		assert.Equal(t, 22, a.AverageStars) // 21.67 rounds up
		assert.Equal(t, 20.0, a.MedianStars)
		assert.Equal(t, []domain.LanguageCount{{Language: "Go", Count: 2}}, a.Languages)
		assert.Equal(t, "c", a.TopByStars[0].Name)
	})
}
