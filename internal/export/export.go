package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gitlab.com/dirk.krummacker/contact-list/internal/model"
)

// Filename is the name under which an export is delivered to the user.
const Filename = "tongxunlu_backup.sql"

// ContentType is the media type of an export.
const ContentType = "application/sql"

// TimestampLayout is the format of the export time in the header comment.
const TimestampLayout = "2006-01-02 15:04:05"

const tableName = "contacts"

// Exporter renders contact collections as SQL scripts.
type Exporter struct {
	// Now returns the export time. It defaults to time.Now.
	Now func() time.Time
}

// Generate renders contacts with the current export time.
func (e Exporter) Generate(contacts []model.Contact) string {
	now := e.Now
	if now == nil {
		now = time.Now
	}
	return Generate(contacts, now())
}

// WriteFile renders contacts and writes the script to Filename in dir. It returns the path of the
// written file.
func (e Exporter) WriteFile(dir string, contacts []model.Contact) (string, error) {
	path := filepath.Join(dir, Filename)
	if err := os.WriteFile(path, []byte(e.Generate(contacts)), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// Generate renders a SQL script consisting of a header comment, the table definition and, for a
// non-empty collection, one INSERT statement listing every contact in collection order. The
// output only depends on contacts and at.
func Generate(contacts []model.Contact, at time.Time) string {
	var b strings.Builder
	b.WriteString("-- Nexus contact list export\n")
	fmt.Fprintf(&b, "-- Exported at: %s\n\n", at.Format(TimestampLayout))

	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", tableName)
	b.WriteString("    id VARCHAR(36) PRIMARY KEY,\n")
	fmt.Fprintf(&b, "    name VARCHAR(%d) NOT NULL,\n", model.MaxNameLength+1)
	fmt.Fprintf(&b, "    phone VARCHAR(%d) NOT NULL,\n", model.MaxPhoneLength+1)
	b.WriteString("    created_at BIGINT\n")
	b.WriteString(");\n\n")

	if len(contacts) == 0 {
		return b.String()
	}
	fmt.Fprintf(&b, "INSERT INTO %s (id, name, phone, created_at) VALUES\n", tableName)
	for i, c := range contacts {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "(%s, %s, %s, %d)", Quote(c.Id), Quote(c.Name), Quote(c.Phone), c.CreatedAt)
	}
	b.WriteString(";\n")
	return b.String()
}

// Quote returns s as a SQL string literal, doubling every single quote.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
