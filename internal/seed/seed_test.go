package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/contact-list/internal/model"
	"gitlab.com/dirk.krummacker/contact-list/internal/store"
	"go.uber.org/zap"
)

const seedFile = `contacts:
  - name: Dirk Krummacker
    phone: "+420 123456789"
  - name: Pavla Krummackerova
    phone: "+420 023454244"
  - name: A name that is far too long for a contact
    phone: "+420 333 555 777"
  - name: 张三
    phone: "18971447533"
`

func writeSeedFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoad reads a seed file.
func TestLoad(t *testing.T) {
	entries, err := Load(writeSeedFile(t, seedFile))
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, Entry{Name: "张三", Phone: "18971447533"}, entries[3])
}

// TestLoadInvalid expects missing and malformed files to be reported.
func TestLoadInvalid(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	_, err = Load(writeSeedFile(t, "contacts: [unclosed"))
	assert.Error(t, err)
}

// TestApply seeds an empty store. It expects the valid entries in reverse file order.
func TestApply(t *testing.T) {
	entries, err := Load(writeSeedFile(t, seedFile))
	require.NoError(t, err)
	s := store.New(nil)

	added, err := Apply(context.Background(), s, entries, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 3, added)
	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, "张三", all[0].Name)
	assert.Equal(t, "Pavla Krummackerova", all[1].Name)
	assert.Equal(t, "Dirk Krummacker", all[2].Name)
}

// TestApplyTwice seeds the same store twice. It expects that no contact is added twice.
func TestApplyTwice(t *testing.T) {
	entries, err := Load(writeSeedFile(t, seedFile))
	require.NoError(t, err)
	s := store.New(nil)

	_, err = Apply(context.Background(), s, entries, zap.NewNop())
	require.NoError(t, err)
	added, err := Apply(context.Background(), s, entries, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Equal(t, 3, s.Len())
}

// failingMirror fails every save.
type failingMirror struct{}

func (failingMirror) Save(context.Context, []model.Contact) error {
	return errors.New("disk full")
}

// TestApplyWriteError expects a failing mirror to stop the seeding.
func TestApplyWriteError(t *testing.T) {
	s := store.New(failingMirror{})
	added, err := Apply(context.Background(), s, []Entry{{Name: "Aaron", Phone: "111"}, {Name: "Berta", Phone: "222"}}, zap.NewNop())
	var writeErr *store.WriteError
	assert.ErrorAs(t, err, &writeErr)
	assert.Zero(t, added)
}
