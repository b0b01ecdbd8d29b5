package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/avolkau/daybook/internal/database/entries"
	"github.com/avolkau/daybook/internal/database/moods"
	"github.com/avolkau/daybook/internal/database/tags"
	"github.com/avolkau/daybook/internal/entities"
)

const (
	topMoodLimit = 3
	topTagLimit  = 6
)

// NamedCount pairs a display name with an occurrence count.
type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Dashboard aggregates the journal statistics shown on the dashboard view.
type Dashboard struct {
	StreakStats
	TotalEntries int `json:"total_entries"`

	// MoodPercent maps mood type (Positive/Neutral/Negative) to a share of
	// total entries, each independently rounded to the nearest whole number.
	// The values need not sum to exactly 100 after rounding.
	MoodPercent map[string]int `json:"mood_percent"`

	TopMoods []NamedCount `json:"top_moods"`
	TopTags  []NamedCount `json:"top_tags"`
}

// Service computes analytics from the repositories. It is stateless: every
// call re-reads the current stored state.
type Service struct {
	entries *entries.Repository
	moods   *moods.Repository
	tags    *tags.Repository
}

// NewService creates an analytics service over the given repositories.
func NewService(entriesRepo *entries.Repository, moodsRepo *moods.Repository, tagsRepo *tags.Repository) *Service {
	return &Service{
		entries: entriesRepo,
		moods:   moodsRepo,
		tags:    tagsRepo,
	}
}

// Streak recomputes streak statistics from all stored entry dates. The
// caller supplies "today" so the current-streak cutoff stays testable.
func (s *Service) Streak(today time.Time) (StreakStats, error) {
	all, err := s.entries.All()
	if err != nil {
		return StreakStats{}, err
	}
	return ComputeStreak(entryDates(all), today), nil
}

// Dashboard recomputes the full dashboard aggregate. With zero entries it
// short-circuits to an empty result without touching the mood or tag tables.
func (s *Service) Dashboard(today time.Time) (*Dashboard, error) {
	dashboard := &Dashboard{
		MoodPercent: map[string]int{},
		TopMoods:    []NamedCount{},
		TopTags:     []NamedCount{},
	}

	all, err := s.entries.All()
	if err != nil {
		return nil, err
	}
	dashboard.TotalEntries = len(all)
	if len(all) == 0 {
		return dashboard, nil
	}

	dashboard.StreakStats = ComputeStreak(entryDates(all), today)

	allMoods, err := s.moods.ListMoods()
	if err != nil {
		return nil, err
	}
	allTags, err := s.tags.ListTags()
	if err != nil {
		return nil, err
	}
	links, err := s.entries.AllLinks()
	if err != nil {
		return nil, err
	}

	moodByID := make(map[uint]entities.Mood, len(allMoods))
	for _, m := range allMoods {
		moodByID[m.ID] = m
	}
	tagByID := make(map[uint]entities.Tag, len(allTags))
	for _, t := range allTags {
		tagByID[t.ID] = t
	}

	// Mood-type distribution and top moods both resolve the primary mood
	// only. Entries whose primary mood id does not resolve still count
	// toward TotalEntries but contribute to neither aggregate.
	typeCounts := newCounter()
	moodCounts := newCounter()
	for _, entry := range all {
		mood, ok := moodByID[entry.PrimaryMoodID]
		if !ok {
			continue
		}
		typeCounts.add(string(mood.Type))
		moodCounts.add(mood.Name)
	}

	for _, tc := range typeCounts.ordered() {
		dashboard.MoodPercent[tc.Name] = int(math.Round(100.0 * float64(tc.Count) / float64(len(all))))
	}
	dashboard.TopMoods = topN(moodCounts.ordered(), topMoodLimit)

	// Top tags count link rows, not distinct entries: an entry linked twice
	// to the same tag counts twice.
	tagCounts := newCounter()
	for _, link := range links {
		name := fmt.Sprintf("Tag #%d", link.TagID)
		if tag, ok := tagByID[link.TagID]; ok {
			name = tag.Name
		}
		tagCounts.add(name)
	}
	dashboard.TopTags = topN(tagCounts.ordered(), topTagLimit)

	return dashboard, nil
}

func entryDates(all []entities.JournalEntry) []time.Time {
	dates := make([]time.Time, len(all))
	for i, entry := range all {
		dates[i] = entry.EntryDate
	}
	return dates
}

// counter counts occurrences by name while remembering first-seen order,
// giving the descending sort a deterministic, stable tie-break.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(name string) {
	if _, ok := c.counts[name]; !ok {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

// ordered returns counts sorted descending; names with equal counts keep
// their first-seen order.
func (c *counter) ordered() []NamedCount {
	result := make([]NamedCount, 0, len(c.order))
	for _, name := range c.order {
		result = append(result, NamedCount{Name: name, Count: c.counts[name]})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	return result
}

func topN(counts []NamedCount, n int) []NamedCount {
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
