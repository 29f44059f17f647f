package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gitlab.com/dirk.krummacker/contact-list/internal/model"
	"gitlab.com/dirk.krummacker/contact-list/internal/store"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Entry is a contact listed in a seed file.
type Entry struct {
	Name  string `yaml:"name"`
	Phone string `yaml:"phone"`
}

// File is the layout of a seed file:
//
//	contacts:
//	  - name: Erika Mustermann
//	    phone: "+49 0815 4711"
type File struct {
	Contacts []Entry `yaml:"contacts"`
}

// Store is the part of the contact store that seeding needs.
type Store interface {
	Add(ctx context.Context, name string, phone string) (model.Contact, error)
	All() []model.Contact
}

// Load reads a seed file.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path) // nosemgrep
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return file.Contacts, nil
}

// Apply enters the entries into the store in file order, so the last entry ends up first. If a
// contact with the same name is already present then it is not added again. Entries that fail
// validation are logged and skipped. It returns the number of added contacts.
func Apply(ctx context.Context, s Store, entries []Entry, logger *zap.Logger) (int, error) {
	present := make(map[string]bool)
	for _, c := range s.All() {
		present[c.Name] = true
	}
	added := 0
	for _, entry := range entries {
		if present[strings.TrimSpace(entry.Name)] {
			continue
		}
		contact, err := s.Add(ctx, entry.Name, entry.Phone)
		var validationErr *store.ValidationError
		if errors.As(err, &validationErr) {
			logger.Warn("skipping invalid seed contact", zap.String("name", entry.Name), zap.Error(err))
			continue
		}
		if err != nil {
			return added, err
		}
		present[contact.Name] = true
		added++
	}
	return added, nil
}
