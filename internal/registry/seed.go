package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// SeedFile is the on-disk YAML shape for one year's template catalogue.
type SeedFile struct {
	Year      string         `yaml:"year"`
	Templates []SeedTemplate `yaml:"templates"`
}

type SeedTemplate struct {
	ID         string         `yaml:"id"`
	Title      string         `yaml:"title"`
	Activities []SeedActivity `yaml:"activities"`
}

type SeedActivity struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Indicator string `yaml:"indicator"`
	Defaults  []int  `yaml:"defaults"`
}

// LoadDir overlays every *.yml/*.yaml seed file in dir onto the registry.
// A seed year replaces the built-in definitions for that year entirely.
// Files that fail to parse are skipped with a warning.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No seed directory, built-ins stand
		}
		return fmt.Errorf("failed to read seed directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yml") && !strings.HasSuffix(name, ".yaml")) {
			continue
		}
		path := filepath.Join(dir, name)
		if err := r.loadFile(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Skipping unreadable template seed")
		}
	}
	return nil
}

func (r *Registry) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed: %w", err)
	}
	if seed.Year == "" {
		return fmt.Errorf("seed %s missing year", path)
	}

	templates := make([]Template, 0, len(seed.Templates))
	for _, st := range seed.Templates {
		tpl := Template{ID: st.ID, Title: st.Title}
		for i, sa := range st.Activities {
			id := sa.ID
			if id == "" {
				id = seedActivityID(st.ID, seed.Year, i+1)
			}
			activity := ActivityTemplate{ID: id, Name: sa.Name, Indicator: sa.Indicator}
			// Short default lists pad with zero; long ones truncate.
			for m := 0; m < len(activity.Defaults) && m < len(sa.Defaults); m++ {
				activity.Defaults[m] = sa.Defaults[m]
			}
			tpl.Activities = append(tpl.Activities, activity)
		}
		templates = append(templates, tpl)
	}

	r.SetYear(seed.Year, templates)
	log.Info().Str("year", seed.Year).Int("templates", len(templates)).Msg("Loaded template seed")
	return nil
}
