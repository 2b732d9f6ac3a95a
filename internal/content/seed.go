package content

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/terra-clan/portfolio/internal/models"
)

//go:embed default_seed.yaml
var defaultSeedYAML []byte

// Seed is the initial content tree
type Seed struct {
	BasicInfo models.Profile   `yaml:"basic_info"`
	Sections  []models.Section `yaml:"sections"`
	Skills    []models.Skill   `yaml:"skills"`
}

// DefaultSeed returns the built-in content
func DefaultSeed() Seed {
	seed, err := ParseSeed(defaultSeedYAML)
	if err != nil {
		// embedded file is covered by tests
		panic(fmt.Sprintf("invalid default seed: %v", err))
	}
	return seed
}

// LoadSeed reads a seed from a YAML file. An empty path yields the default seed.
func LoadSeed(path string) (Seed, error) {
	if path == "" {
		return DefaultSeed(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("failed to read seed file: %w", err)
	}

	seed, err := ParseSeed(data)
	if err != nil {
		return Seed{}, err
	}

	slog.Info("content seed loaded",
		"path", path,
		"sections", len(seed.Sections),
		"skills", len(seed.Skills),
	)
	return seed, nil
}

// ParseSeed decodes and validates a YAML seed document
func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := seed.validate(); err != nil {
		return Seed{}, err
	}
	return seed, nil
}

func (s *Seed) validate() error {
	sectionIDs := make(map[string]bool, len(s.Sections))
	for i, sec := range s.Sections {
		if sec.ID == "" {
			return fmt.Errorf("section %d: id is required", i)
		}
		if sectionIDs[sec.ID] {
			return fmt.Errorf("duplicate section id: %s", sec.ID)
		}
		sectionIDs[sec.ID] = true
	}

	// Skills without an id get one after the highest explicit id
	var maxID int64
	skillIDs := make(map[int64]bool, len(s.Skills))
	for _, sk := range s.Skills {
		if sk.ID == 0 {
			continue
		}
		if skillIDs[sk.ID] {
			return fmt.Errorf("duplicate skill id: %d", sk.ID)
		}
		skillIDs[sk.ID] = true
		if sk.ID > maxID {
			maxID = sk.ID
		}
	}
	for i := range s.Skills {
		if s.Skills[i].ID == 0 {
			maxID++
			s.Skills[i].ID = maxID
		}
	}

	return nil
}
