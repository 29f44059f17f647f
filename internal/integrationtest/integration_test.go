package integrationtest

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/contact-list/internal/export"
	"gitlab.com/dirk.krummacker/contact-list/internal/extract"
	"gitlab.com/dirk.krummacker/contact-list/internal/persistence"
	"gitlab.com/dirk.krummacker/contact-list/internal/service"
	"gitlab.com/dirk.krummacker/contact-list/internal/store"
	"gitlab.com/dirk.krummacker/contact-list/pkg/model"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// startService wires the contacts service on top of slot the same way cmd/service does, loading
// whatever the slot holds.
func startService(t *testing.T, slot persistence.Slot) *gin.Engine {
	mirror := persistence.NewMirror(slot, "", zap.NewNop())
	contacts := store.New(mirror)
	contacts.Load(context.Background(), mirror)
	gin.SetMode(gin.ReleaseMode)
	return service.New(contacts, extract.NewRunner(extract.Disabled{}, zap.NewNop()), export.Exporter{}, zap.NewNop()).
		SetupHttpRouter(false)
}

// serve executes a request against the router.
func serve(router *gin.Engine, method string, url string, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest(method, url, strings.NewReader(body))
	router.ServeHTTP(recorder, request)
	return recorder
}

// list returns the names of all contacts.
func list(t *testing.T, router *gin.Engine, url string) []string {
	recorder := serve(router, "GET", url, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var contacts []model.Contact
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &contacts))
	names := []string{}
	for _, c := range contacts {
		names = append(names, c.Name)
	}
	return names
}

// TestContactHappyPath walks through adding, searching, deleting and exporting contacts, and
// restarts the service in between.
func TestContactHappyPath(t *testing.T) {
	slot, err := persistence.NewFileSlot(t.TempDir())
	require.NoError(t, err)
	router := startService(t, slot)

	// add two contacts
	postRecorder := serve(router, "POST", "/contacts", `{"name": "张三", "phone": "18971447533"}`)
	assert.Equal(t, http.StatusCreated, postRecorder.Code)
	var zhang model.Contact
	require.NoError(t, json.Unmarshal(postRecorder.Body.Bytes(), &zhang))
	postRecorder = serve(router, "POST", "/contacts", `{"name": "李四", "phone": "10000000000"}`)
	assert.Equal(t, http.StatusCreated, postRecorder.Code)

	// the newest contact comes first, and search narrows the list
	assert.Equal(t, []string{"李四", "张三"}, list(t, router, "/contacts"))
	assert.Equal(t, []string{"张三"}, list(t, router, "/contacts?search=%E5%BC%A0"))

	// a restarted service sees the same contacts
	router = startService(t, slot)
	assert.Equal(t, []string{"李四", "张三"}, list(t, router, "/contacts"))

	// delete a contact, and deleting it again does not find it
	assert.Equal(t, http.StatusOK, serve(router, "DELETE", "/contacts/"+zhang.Id, "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, "DELETE", "/contacts/"+zhang.Id, "").Code)
	assert.Equal(t, []string{"李四"}, list(t, router, "/contacts"))

	// the deletion survives a restart as well
	router = startService(t, slot)
	assert.Equal(t, []string{"李四"}, list(t, router, "/contacts"))

	// the export contains exactly one value row
	exportRecorder := serve(router, "GET", "/contacts/export", "")
	assert.Equal(t, http.StatusOK, exportRecorder.Code)
	script := exportRecorder.Body.String()
	assert.Equal(t, 1, strings.Count(script, "INSERT INTO contacts"))
	assert.Equal(t, 1, strings.Count(script, "('"))
	assert.Contains(t, script, "'李四', '10000000000'")
}

// TestExportReplay exports contacts with quotes in their values, runs the script on SQLite and
// reads the values back.
func TestExportReplay(t *testing.T) {
	router := startService(t, persistence.NewMemorySlot())
	for _, body := range []string{
		`{"name": "O'Brien", "phone": "0815"}`,
		`{"name": "'); DROP TABLE x;--", "phone": "'1'"}`,
	} {
		require.Equal(t, http.StatusCreated, serve(router, "POST", "/contacts", body).Code, body)
	}
	script := serve(router, "GET", "/contacts/export", "").Body.String()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)
	for _, statement := range export.SplitStatements(script) {
		_, err := db.Exec(statement)
		require.NoError(t, err, statement)
	}

	rows, err := db.Query("SELECT name, phone FROM contacts ORDER BY rowid")
	require.NoError(t, err)
	defer rows.Close()
	var got []string
	for rows.Next() {
		var name, phone string
		require.NoError(t, rows.Scan(&name, &phone))
		got = append(got, name+"|"+phone)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"'); DROP TABLE x;--|'1'", "O'Brien|0815"}, got)
}

// TestCorruptSlot starts the service on a slot with garbage in it. It expects an empty list and
// that the next change overwrites the garbage.
func TestCorruptSlot(t *testing.T) {
	slot := persistence.NewMemorySlot()
	require.NoError(t, slot.Set(context.Background(), persistence.DefaultKey, "{garbage"))
	router := startService(t, slot)
	assert.Empty(t, list(t, router, "/contacts"))

	assert.Equal(t, http.StatusCreated, serve(router, "POST", "/contacts", `{"name": "Aaron", "phone": "111"}`).Code)
	router = startService(t, slot)
	assert.Equal(t, []string{"Aaron"}, list(t, router, "/contacts"))
}
