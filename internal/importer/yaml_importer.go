// Package importer bulk-loads applications from a YAML file, for moving an
// existing spreadsheet or another tracker into jobdeck.
package importer

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jobdeck/jobdeck/internal/models"
	"github.com/jobdeck/jobdeck/internal/repository"
)

type entry struct {
	Company   string `yaml:"company"`
	Position  string `yaml:"position"`
	Status    string `yaml:"status"`
	Applied   string `yaml:"applied"`
	Interview string `yaml:"interview"`
	SourceURL string `yaml:"source_url"`
	Notes     string `yaml:"notes"`
}

type file struct {
	Applications []entry `yaml:"applications"`
}

type Result struct {
	Imported int
	Skipped  int
}

// ImportFile reads the YAML file and creates one application per valid
// entry. Entries missing a company or position are counted as skipped, not
// treated as fatal.
func ImportFile(path string, userID int64, apps *repository.ApplicationRepo) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	result := &Result{}
	for _, e := range f.Applications {
		if e.Company == "" || e.Position == "" {
			result.Skipped++
			continue
		}

		appliedAt := time.Now()
		if e.Applied != "" {
			parsed, err := time.Parse("2006-01-02", e.Applied)
			if err != nil {
				result.Skipped++
				continue
			}
			appliedAt = parsed
		}

		app, err := apps.Create(userID, e.Company, e.Position, appliedAt, e.SourceURL)
		if err != nil {
			return result, err
		}

		if status := models.Status(e.Status); status != "" && status.Valid() && status != models.StatusApplied {
			if err := apps.SetStatus(userID, app.ID, status, appliedAt); err != nil {
				return result, err
			}
		}

		if e.Interview != "" {
			interview, err := time.Parse("2006-01-02 15:04", e.Interview)
			if err != nil {
				interview, err = time.Parse("2006-01-02", e.Interview)
			}
			if err == nil {
				if err := apps.SetInterviewDate(userID, app.ID, &interview); err != nil {
					return result, err
				}
			}
		}

		if e.Notes != "" {
			if err := apps.UpdateDetails(userID, app.ID, e.Company, e.Position, e.Notes, e.SourceURL); err != nil {
				return result, err
			}
		}

		result.Imported++
	}

	return result, nil
}
