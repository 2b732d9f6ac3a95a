// Package content holds the editable portfolio content tree and the view
// models derived from it.
package content

import (
	"sync"

	"github.com/terra-clan/portfolio/internal/models"
)

// Observer is called after every successful mutation with the new version
type Observer func(version uint64)

// Store is the in-memory source of truth for profile, sections and skills.
// Every mutation bumps Version and is visible to the next read.
type Store struct {
	mu        sync.RWMutex
	profile   models.Profile
	sections  []models.Section
	skills    []models.Skill
	nextID    int64
	version   uint64
	observers []Observer
}

// NewStore creates a store populated from seed
func NewStore(seed Seed) *Store {
	s := &Store{
		profile:  seed.BasicInfo,
		sections: append([]models.Section(nil), seed.Sections...),
		skills:   append([]models.Skill(nil), seed.Skills...),
		nextID:   1,
	}
	for _, sk := range s.skills {
		if sk.ID >= s.nextID {
			s.nextID = sk.ID + 1
		}
	}
	return s
}

// Subscribe registers an observer for content mutations
func (s *Store) Subscribe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Version returns the mutation counter
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Profile returns the current profile
func (s *Store) Profile() models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Sections returns a copy of the section sequence
func (s *Store) Sections() []models.Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Section(nil), s.sections...)
}

// Skills returns a copy of the skill sequence
func (s *Store) Skills() []models.Skill {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Skill(nil), s.skills...)
}

// Snapshot returns a consistent copy of the whole tree
func (s *Store) Snapshot() models.ContentSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.ContentSnapshot{
		Version:   s.version,
		BasicInfo: s.profile,
		Sections:  append([]models.Section(nil), s.sections...),
		Skills:    append([]models.Skill(nil), s.skills...),
	}
}

// UpdateBasicInfo merges patch into the profile. It always succeeds.
func (s *Store) UpdateBasicInfo(patch models.ProfilePatch) {
	s.mutate(func() bool {
		patch.Apply(&s.profile)
		return true
	})
}

// UpdateSection merges patch into the section with the given id.
// An unknown id is a no-op and reports false.
func (s *Store) UpdateSection(id string, patch models.SectionPatch) bool {
	return s.mutate(func() bool {
		for i := range s.sections {
			if s.sections[i].ID == id {
				patch.Apply(&s.sections[i])
				return true
			}
		}
		return false
	})
}

// UpdateSkill merges patch into the skill with the given id.
// An unknown id is a no-op and reports false.
func (s *Store) UpdateSkill(id int64, patch models.SkillPatch) bool {
	return s.mutate(func() bool {
		for i := range s.skills {
			if s.skills[i].ID == id {
				patch.Apply(&s.skills[i])
				return true
			}
		}
		return false
	})
}

// AddSkill appends a skill and returns it with its assigned id
func (s *Store) AddSkill(ns models.NewSkill) models.Skill {
	var added models.Skill
	s.mutate(func() bool {
		added = models.Skill{
			ID:       s.nextID,
			Name:     ns.Name,
			Level:    ns.Level,
			Category: ns.Category,
			IconRef:  ns.IconRef,
		}
		s.nextID++
		s.skills = append(s.skills, added)
		return true
	})
	return added
}

// RemoveSkill removes the first skill with the given id.
// An unknown id is a no-op and reports false.
func (s *Store) RemoveSkill(id int64) bool {
	return s.mutate(func() bool {
		for i := range s.skills {
			if s.skills[i].ID == id {
				s.skills = append(s.skills[:i:i], s.skills[i+1:]...)
				return true
			}
		}
		return false
	})
}

// mutate runs fn under the write lock and, if it changed something, bumps
// the version and notifies observers outside the lock.
func (s *Store) mutate(fn func() bool) bool {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return false
	}
	s.version++
	version := s.version
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	for _, obs := range observers {
		obs(version)
	}
	return true
}
