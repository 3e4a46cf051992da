package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/dmitrijs2005/datavault/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t)
	stubTerminal(t, "secret")

	out, errOut, code := h.run("", "login", "-u", "alice")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Logged in as alice")
	assert.Contains(t, errOut, "Password: ")

	sess := h.session()
	assert.Equal(t, h.url, sess.ServerURL)
	assert.Equal(t, "alice", sess.Username)
	assert.Equal(t, h.srv.access, sess.AccessToken)
	assert.Equal(t, h.srv.refresh, sess.RefreshToken)
	if runtime.GOOS != "windows" {
		fi, err := os.Stat(h.sessionFile)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	}

	out, errOut, code = h.run("", "whoami")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, h.url)

	out, errOut, code = h.run("", "logout")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Logged out")
	assert.True(t, h.srv.loggedOut)
	_, err := os.Stat(h.sessionFile)
	assert.True(t, os.IsNotExist(err), "session file should be removed")
}

func TestLogin_PromptsForUsername(t *testing.T) {
	h := newHarness(t)
	stubTerminal(t, "secret")

	out, errOut, code := h.run("alice\n", "login")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, errOut, "Username: ")
	assert.Contains(t, out, "Logged in as alice")
}

func TestLogin_BadPassword(t *testing.T) {
	h := newHarness(t)
	stubTerminal(t, "wrong")

	_, errOut, code := h.run("", "login", "-u", "alice")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Invalid credentials.")
	_, err := os.Stat(h.sessionFile)
	assert.True(t, os.IsNotExist(err))
}

func TestLogin_PipedPassword(t *testing.T) {
	h := newHarness(t)
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })
	isTerminal = func(int) bool { return false }

	out, errOut, code := h.run("secret\n", "login", "-u", "alice")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Logged in as alice")
}

func TestRegister(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		h := newHarness(t)
		stubTerminal(t, "pw123456", "pw123456")

		out, errOut, code := h.run("", "register", "-u", "bob")
		require.Equal(t, 0, code, errOut)
		assert.Contains(t, out, "Registered bob")
		assert.Contains(t, out, "vaultctl login")
		assert.Equal(t, "pw123456", h.srv.users["bob"])
	})

	t.Run("mismatch", func(t *testing.T) {
		h := newHarness(t)
		stubTerminal(t, "one", "two")

		_, errOut, code := h.run("", "register", "-u", "bob")
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, "passwords do not match")
		assert.NotContains(t, h.srv.users, "bob")
	})

	t.Run("taken", func(t *testing.T) {
		h := newHarness(t)
		stubTerminal(t, "x", "x")

		_, errOut, code := h.run("", "register", "-u", "alice")
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, "The given data was invalid.")
		assert.Contains(t, errOut, "- The username has already been taken.")
	})
}

func TestCommandsRequireLogin(t *testing.T) {
	h := newHarness(t)

	for _, args := range [][]string{
		{"whoami"},
		{"logout"},
		{"categories", "list"},
		{"records", "list"},
		{"search", "gmail"},
		{"export"},
		{"import", "nothing.json"},
	} {
		_, errOut, code := h.run("", args...)
		assert.Equal(t, 1, code, args)
		assert.Contains(t, errOut, "not logged in", args)
		assert.Contains(t, errOut, "vaultctl login", args)
	}
}

func TestSessionForAnotherServerIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.loggedIn()

	_, errOut, code := h.run("", "--server", "http://elsewhere.invalid", "whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not logged in")
}

func TestExpiredAccessTokenIsRefreshed(t *testing.T) {
	h := newHarness(t)
	h.loggedIn()
	validRefresh := h.srv.refresh
	h.saveSession("expired", validRefresh)

	out, errOut, code := h.run("", "categories", "list")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Work")

	assert.Equal(t, 1, h.srv.refreshes)
	sess := h.session()
	assert.Equal(t, h.srv.access, sess.AccessToken)
	assert.Equal(t, h.srv.refresh, sess.RefreshToken)
	assert.NotEqual(t, validRefresh, sess.RefreshToken)
}

func TestRevokedSession(t *testing.T) {
	h := newHarness(t)
	h.saveSession("expired", "revoked")

	_, errOut, code := h.run("", "records", "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "session has expired")
}

func TestCategories(t *testing.T) {
	h := newHarness(t)
	h.loggedIn()

	out, errOut, code := h.run("", "categories", "list")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Work")
	assert.Contains(t, out, "briefcase")

	out, errOut, code = h.run("", "cat", "add", "Travel", "--color", "#123456", "-d", "trips")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Created category Travel")
	require.Len(t, h.srv.createdCats, 1)
	got := h.srv.createdCats[0]
	assert.Equal(t, "Travel", got.Name)
	assert.Equal(t, "#123456", *got.Color)
	assert.Equal(t, "trips", *got.Description)
	assert.Nil(t, got.Icon, "unset flags are not sent")

	out, errOut, code = h.run("", "categories", "delete", "c2")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Deleted category c2")

	_, errOut, code = h.run("", "categories", "rm", "c1")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Cannot delete category with associated data")
}

func TestRecordsListAndGet(t *testing.T) {
	h := newHarness(t)
	h.loggedIn()

	out, errOut, code := h.run("", "records", "list")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Gmail")
	assert.Contains(t, out, "Bank PIN")
	assert.Contains(t, out, "Page 1 of 1 (2 records)")
	assert.NotContains(t, out, "hunter2", "listing never shows payloads")

	out, _, code = h.run("", "records", "list", "--favorites")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Gmail")
	assert.NotContains(t, out, "Bank PIN")

	out, errOut, code = h.run("", "rec", "get", "r1")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Gmail")
	assert.Contains(t, out, "Work")
	assert.Contains(t, out, "hunter2")

	_, errOut, code = h.run("", "records", "get", "missing")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Not found.")
}

func TestRecordsAdd(t *testing.T) {
	t.Run("secret from terminal", func(t *testing.T) {
		h := newHarness(t)
		h.loggedIn()
		stubTerminal(t, "s3cr3t")

		out, errOut, code := h.run("", "records", "add", "-t", "Gmail", "--tag", "mail,web", "--favorite", "--category", "c1")
		require.Equal(t, 0, code, errOut)
		assert.Contains(t, out, "Stored Gmail")
		assert.Contains(t, errOut, "Secret data: ")

		require.Len(t, h.srv.created, 1)
		in := h.srv.created[0]
		assert.Equal(t, "s3cr3t", in.Data)
		assert.Equal(t, models.DataTypePassword, in.DataType)
		assert.Equal(t, []string{"mail", "web"}, in.Tags)
		assert.Equal(t, "c1", *in.CategoryID)
		assert.True(t, *in.IsFavorite)
		assert.Nil(t, in.Description)
	})

	t.Run("data from stdin", func(t *testing.T) {
		h := newHarness(t)
		h.loggedIn()

		_, errOut, code := h.run("line one\nline two\n", "records", "add", "-t", "Note", "--type", "note", "--data-file", "-")
		require.Equal(t, 0, code, errOut)
		require.Len(t, h.srv.created, 1)
		assert.Equal(t, "line one\nline two", h.srv.created[0].Data)
		assert.Nil(t, h.srv.created[0].IsFavorite)
	})

	t.Run("data from file", func(t *testing.T) {
		h := newHarness(t)
		h.loggedIn()
		path := filepath.Join(t.TempDir(), "key.pem")
		require.NoError(t, os.WriteFile(path, []byte("-----BEGIN KEY-----\n"), 0o600))

		_, errOut, code := h.run("", "records", "add", "-t", "Key", "--type", "other", "--data-file", path)
		require.Equal(t, 0, code, errOut)
		assert.Equal(t, "-----BEGIN KEY-----", h.srv.created[0].Data)
	})

	t.Run("validation error", func(t *testing.T) {
		h := newHarness(t)
		h.loggedIn()
		stubTerminal(t, "x")

		_, errOut, code := h.run("", "records", "add", "-t", "Bad", "--type", "bogus")
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, "The given data was invalid.")
		assert.Contains(t, errOut, "- The selected data type is invalid.")
	})
}

func TestRecordsDelete(t *testing.T) {
	h := newHarness(t)
	h.loggedIn()

	out, errOut, code := h.run("", "records", "delete", "r2")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Deleted record r2")

	_, errOut, code = h.run("", "records", "rm", "foreign")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Unauthorized")
}

func TestRecordsReset(t *testing.T) {
	h := newHarness(t)
	h.loggedIn()

	out, errOut, code := h.run("no\n", "records", "reset")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Aborted.")
	assert.Equal(t, 0, h.srv.resets)

	out, errOut, code = h.run("yes\n", "records", "reset")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "2 records deleted")
	assert.Equal(t, 1, h.srv.resets)

	_, errOut, code = h.run("", "records", "reset", "-y")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, 2, h.srv.resets)
}

func TestSearch(t *testing.T) {
	h := newHarness(t)
	h.loggedIn()

	out, errOut, code := h.run("", "search", "gmail")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Gmail")
	assert.NotContains(t, out, "Bank PIN")

	out, _, code = h.run("", "search", "nothing here")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "No records.")
}

func TestExportImport(t *testing.T) {
	h := newHarness(t)
	h.loggedIn()
	path := filepath.Join(t.TempDir(), "out", "vault.json")

	out, errOut, code := h.run("", "export", "-o", path)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Exported 1 records")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var bundle models.ExportBundle
	require.NoError(t, json.Unmarshal(raw, &bundle))
	require.Len(t, bundle.Data, 1)
	assert.Equal(t, "hunter2", bundle.Data[0].Data)

	out, errOut, code = h.run("", "import", path)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Imported 1 items successfully")
	require.Len(t, h.srv.imported.Data, 1)
	assert.Equal(t, "Work", *h.srv.imported.Data[0].Category)
}

func TestExport_Stdout(t *testing.T) {
	h := newHarness(t)
	h.loggedIn()

	out, errOut, code := h.run("", "export")
	require.Equal(t, 0, code, errOut)

	var bundle models.ExportBundle
	require.NoError(t, json.Unmarshal([]byte(out), &bundle))
	assert.Len(t, bundle.Data, 1)
}

func TestImport_RowErrors(t *testing.T) {
	h := newHarness(t)
	h.loggedIn()
	path := filepath.Join(t.TempDir(), "rows.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"title": "ok", "data_type": "note", "data": "x"},
		{"title": "", "data_type": "note", "data": "y"}
	]`), 0o600))

	out, errOut, code := h.run("", "import", path)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Imported 1 items successfully")
	assert.Contains(t, out, "Row 1: The title field is required.")
}

func TestExportSnapshot(t *testing.T) {
	h := newHarness(t)
	h.loggedIn()
	path := filepath.Join(t.TempDir(), "snap.json")

	out, errOut, code := h.run("", "export", "--snapshot", "-o", path)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "exports/u1/2025/01/01/s.json")
	assert.Contains(t, out, h.url+"/snapshots/s.json")
	assert.Contains(t, out, "Saved snapshot to")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[],"exported_at":"2025-01-01T00:00:00Z"}`, string(raw))
}

func TestExportSnapshot_Disabled(t *testing.T) {
	h := newHarness(t)
	h.loggedIn()
	h.srv.snapshotDisabled = true

	_, errOut, code := h.run("", "export", "--snapshot")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Export snapshots are not configured.")
	assert.Contains(t, errOut, "without --snapshot")
}

func TestParseImport(t *testing.T) {
	req, err := parseImport([]byte(`{"data":[{"title":"a"}],"exported_at":"2025-01-01T00:00:00Z"}`))
	require.NoError(t, err)
	require.Len(t, req.Data, 1)
	assert.Equal(t, "a", req.Data[0].Title)

	req, err = parseImport([]byte("  \n[{\"title\":\"b\"},{\"title\":\"c\"}]"))
	require.NoError(t, err)
	assert.Len(t, req.Data, 2)

	_, err = parseImport([]byte(`{"data": "nope"}`))
	require.Error(t, err)
}
