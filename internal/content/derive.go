package content

import (
	"sort"
	"sync"

	"github.com/terra-clan/portfolio/internal/models"
)

const (
	// SummaryLimit is the number of characters kept in a home-page summary
	SummaryLimit = 100
	// TopSkillsCount is how many skills the home page shows
	TopSkillsCount = 4

	ellipsis = "..."
)

// Summarize truncates content to SummaryLimit characters, appending an
// ellipsis when something was cut.
func Summarize(content string) string {
	runes := []rune(content)
	if len(runes) <= SummaryLimit {
		return content
	}
	return string(runes[:SummaryLimit]) + ellipsis
}

// TopSkills returns up to n skills ordered by level descending. Equal levels
// keep their original relative order.
func TopSkills(skills []models.Skill, n int) []models.Skill {
	sorted := append([]models.Skill(nil), skills...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Level > sorted[j].Level
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// BuildHome derives the home-page view model from a snapshot
func BuildHome(snap models.ContentSnapshot) models.HomeViewModel {
	content := make([]models.HomeSection, 0, len(snap.Sections))
	for _, sec := range snap.Sections {
		if !sec.ShowInHome {
			continue
		}
		content = append(content, models.HomeSection{
			ID:          sec.ID,
			Title:       sec.Title,
			Summary:     Summarize(sec.Content),
			FullContent: sec.Content,
		})
	}

	return models.HomeViewModel{
		Content:   content,
		Skills:    TopSkills(snap.Skills, TopSkillsCount),
		BasicInfo: snap.BasicInfo,
	}
}

// GroupSkillsByCategory buckets skills by category in a single pass
func GroupSkillsByCategory(skills []models.Skill) models.SkillGroups {
	groups := models.SkillGroups{
		Categories: []string{},
		ByCategory: make(map[string][]models.Skill),
	}
	for _, sk := range skills {
		if _, ok := groups.ByCategory[sk.Category]; !ok {
			groups.Categories = append(groups.Categories, sk.Category)
		}
		groups.ByCategory[sk.Category] = append(groups.ByCategory[sk.Category], sk)
	}
	return groups
}

// Deriver serves derived views of a Store, caching the home view model
// against the store version.
type Deriver struct {
	store *Store

	mu      sync.Mutex
	cached  bool
	version uint64
	home    models.HomeViewModel
}

// NewDeriver creates a deriver over store
func NewDeriver(store *Store) *Deriver {
	return &Deriver{store: store}
}

// HomeWithVersion returns the home view model and the store version it was
// computed from.
func (d *Deriver) HomeWithVersion() (models.HomeViewModel, uint64) {
	snap := d.store.Snapshot()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cached && d.version == snap.Version {
		return d.home, d.version
	}

	d.home = BuildHome(snap)
	d.version = snap.Version
	d.cached = true
	return d.home, d.version
}

// About returns a snapshot together with its skills grouped by category
func (d *Deriver) About() (models.ContentSnapshot, models.SkillGroups) {
	snap := d.store.Snapshot()
	return snap, GroupSkillsByCategory(snap.Skills)
}
