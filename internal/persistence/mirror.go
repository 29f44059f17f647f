package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gitlab.com/dirk.krummacker/contact-list/internal/model"
	"go.uber.org/zap"
)

// Mirror keeps a copy of the whole contact collection in one slot.
type Mirror struct {
	slot   Slot
	key    string
	logger *zap.Logger
}

// NewMirror returns a mirror writing to key in slot. An empty key selects DefaultKey.
func NewMirror(slot Slot, key string, logger *zap.Logger) *Mirror {
	if key == "" {
		key = DefaultKey
	}
	return &Mirror{slot: slot, key: key, logger: logger}
}

// Load reads the collection from the slot. An absent slot yields an empty collection. Read
// failures and stored data that cannot be parsed are logged and also yield an empty collection.
func (m *Mirror) Load(ctx context.Context) []model.Contact {
	value, found, err := m.slot.Get(ctx, m.key)
	if err != nil {
		m.logger.Warn("could not read contacts, starting empty", zap.String("key", m.key), zap.Error(err))
		return []model.Contact{}
	}
	if !found {
		return []model.Contact{}
	}
	contacts, err := decode(value)
	if err != nil {
		m.logger.Warn("could not parse stored contacts, starting empty", zap.String("key", m.key), zap.Error(err))
		return []model.Contact{}
	}
	m.logger.Debug("contacts loaded", zap.String("key", m.key), zap.Int("count", len(contacts)))
	return contacts
}

// Save overwrites the slot with the full collection.
func (m *Mirror) Save(ctx context.Context, contacts []model.Contact) error {
	if contacts == nil {
		contacts = []model.Contact{}
	}
	data, err := json.Marshal(contacts)
	if err != nil {
		return fmt.Errorf("encode contacts: %w", err)
	}
	if err := m.slot.Set(ctx, m.key, string(data)); err != nil {
		return fmt.Errorf("write slot %s: %w", m.key, err)
	}
	return nil
}

// decode parses a stored collection. Every contact needs an id and ids must be unique.
func decode(value string) ([]model.Contact, error) {
	var contacts []model.Contact
	if err := json.Unmarshal([]byte(value), &contacts); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(contacts))
	for i, c := range contacts {
		if c.Id == "" {
			return nil, fmt.Errorf("contact %d has no id", i)
		}
		if seen[c.Id] {
			return nil, fmt.Errorf("duplicate contact id %s", c.Id)
		}
		seen[c.Id] = true
	}
	if contacts == nil {
		contacts = []model.Contact{}
	}
	return contacts, nil
}
