package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/naka-gawa/repo-explorer/internal/domain"
)

func TestFormatCount(t *testing.T) {
	testCases := []struct {
		in       int
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0k"},
		{1250, "1.3k"},
		{1549, "1.5k"},
		{23400, "23.4k"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, FormatCount(tc.in), "FormatCount(%d)", tc.in)
	}
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "0", FormatThousands(0))
	assert.Equal(t, "999", FormatThousands(999))
	assert.Equal(t, "1,234,567", FormatThousands(1234567))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2026-01-02", FormatDate(time.Date(2026, 1, 2, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "unknown", FormatDate(time.Time{}))
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "short", TruncateName("short"))
	assert.Equal(t, "exactly-fifteen", TruncateName("exactly-fifteen"))
	assert.Equal(t, "a-much-longer-r...", TruncateName("a-much-longer-repository"))
	assert.Equal(t, "ééééééééééééééé...", TruncateName(strings.Repeat("é", 20)))
}

func TestTopicBadges(t *testing.T) {
	assert.Equal(t, "", TopicBadges(nil))
	assert.Equal(t, "#go #cli", TopicBadges([]string{"go", "cli"}))
	assert.Equal(t, "#a #b #c +2", TopicBadges([]string{"a", "b", "c", "d", "e"}))
}

func TestCard(t *testing.T) {
	repo := &domain.Repository{
		ID:       1,
		Name:     "hello",
		FullName: "octo/hello",
		HTMLURL:  "https://github.com/octo/hello",
		Stars:    1500,
		Forks:    12,
		Language: "Go",
		Topics:   []string{"a", "b", "c", "d"},
	}

	out := Card(repo, true)
	assert.Contains(t, out, "octo/hello")
	assert.Contains(t, out, noDescription)
	assert.Contains(t, out, "#a #b #c +1")
	assert.Contains(t, out, "1.5k")
	assert.Contains(t, out, "Go")
	assert.Contains(t, out, bookmarkedMark)

	assert.NotContains(t, Card(repo, false), bookmarkedMark)
}

func TestCards(t *testing.T) {
	repos := []*domain.Repository{
		{ID: 1, FullName: "a/one"},
		{ID: 2, FullName: "b/two"},
	}
	out := Cards(repos, map[int64]bool{2: true})
	assert.Contains(t, out, "a/one")
	assert.Contains(t, out, "b/two")
	assert.Equal(t, 1, strings.Count(out, bookmarkedMark))
}

func TestSummary(t *testing.T) {
	out := Summary(domain.Analytics{TotalStars: 12345, TotalForks: 10, TotalWatchers: 7, AverageStars: 4115, MedianStars: 3})
	assert.Contains(t, out, "Total Stars")
	assert.Contains(t, out, "12,345")
	assert.Contains(t, out, "4,115")
	assert.Contains(t, out, "3.0")
}

func TestCharts_EmptyData(t *testing.T) {
	assert.Contains(t, StarsChart(nil), "no data")
	assert.Contains(t, LanguageChart(nil), "no data")
}

func TestAnalytics_RendersSections(t *testing.T) {
	out := Analytics(domain.Analytics{
		TotalStars: 30,
		TopByStars: []*domain.Repository{{Name: "a", Stars: 20}, {Name: "b", Stars: 10}},
		Languages:  []domain.LanguageCount{{Language: "Go", Count: 2}},
	})
	assert.Contains(t, out, "Top Repositories by Stars")
	assert.Contains(t, out, "Language Distribution")
	assert.NotContains(t, out, "no data")
}
