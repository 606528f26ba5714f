// Command seedgen emits a YAML template seed file for one reporting year,
// derived from the built-in catalogue. The output is meant as a starting
// point for deployments that customize their template set.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"pireport/internal/registry"
)

func main() {
	year := flag.String("year", "2026", "Reporting year to export")
	outDir := flag.String("out", "./seeds", "Output directory for seed files")
	flag.Parse()

	reg := registry.New()
	templates := reg.BaseTemplates(*year)
	if len(templates) == 0 {
		fmt.Printf("No templates known for year %s\n", *year)
		os.Exit(1)
	}

	seed := registry.SeedFile{Year: *year}
	for _, tpl := range templates {
		st := registry.SeedTemplate{ID: tpl.ID, Title: tpl.Title}
		for _, act := range tpl.Activities {
			st.Activities = append(st.Activities, registry.SeedActivity{
				ID:        act.ID,
				Name:      act.Name,
				Indicator: act.Indicator,
				Defaults:  act.Defaults[:],
			})
		}
		seed.Templates = append(seed.Templates, st)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Printf("Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	data, err := yaml.Marshal(seed)
	if err != nil {
		fmt.Printf("Failed to encode seed: %v\n", err)
		os.Exit(1)
	}

	path := filepath.Join(*outDir, fmt.Sprintf("templates-%s.yaml", *year))
	if err := os.WriteFile(path, data, 0644); err != nil {
		fmt.Printf("Failed to write %s: %v\n", path, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d templates for %s to %s\n", len(seed.Templates), *year, path)
}
