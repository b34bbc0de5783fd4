package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibeboxing/internal/app/apptest"
	"vibeboxing/internal/client"
)

type harness struct {
	t      *testing.T
	server string
	cache  string
}

func newHarness(t *testing.T) *harness {
	srv := apptest.New(t)
	return &harness{t: t, server: srv.URL, cache: filepath.Join(t.TempDir(), "credentials.json")}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", h.server, "--cache", h.cache}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

var idPattern = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

func TestAccountFlow(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("whoami")
	assert.Contains(t, out, "Not signed in.")

	h.mustRun("register", "--name", "Ana", "--email", "ana@example.com", "--password", "segredo1")
	out = h.mustRun("whoami")
	assert.Contains(t, out, "Ana <ana@example.com>")

	out = h.mustRun("profile", "set", "--city", "Recife", "--state", "PE", "--weight", "61,5")
	assert.Contains(t, out, "Recife, PE")
	assert.Contains(t, out, "61.5 kg")

	h.mustRun("password", "change", "--current", "segredo1", "--new", "segredo2")
	out = h.mustRun("whoami")
	assert.Contains(t, out, "ana@example.com")

	h.mustRun("logout")
	out = h.mustRun("whoami")
	assert.Contains(t, out, "Not signed in.")

	_, err := h.run("login", "--email", "ana@example.com", "--password", "segredo1")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)

	h.mustRun("login", "--email", "ana@example.com", "--password", "segredo2")

	_, err = h.run("account", "delete")
	assert.ErrorContains(t, err, "--yes")

	h.mustRun("account", "delete", "--yes")
	_, err = h.run("login", "--email", "ana@example.com", "--password", "segredo2")
	assert.Error(t, err)
}

func TestCombosRequireSignIn(t *testing.T) {
	h := newHarness(t)

	for _, args := range [][]string{
		{"combos", "list"},
		{"combos", "stats"},
		{"combos", "add", "--name", "x", "--step", "Jab D ↑"},
	} {
		_, err := h.run(args...)
		assert.ErrorIs(t, err, client.ErrNotAuthenticated, args)
	}
}

func TestComboFlow(t *testing.T) {
	h := newHarness(t)
	h.mustRun("register", "--name", "Bia", "--email", "bia@example.com", "--password", "segredo1")

	out := h.mustRun("combos", "list")
	assert.Contains(t, out, "No combos yet")

	out = h.mustRun("combos", "add", "--name", "1-2 slip",
		"--step", "jab d ↑, Direto E ↑", "--step", "", "--step", "Slip E")
	id := idPattern.FindString(out)
	require.NotEmpty(t, id, out)
	assert.Contains(t, out, "1. Jab D ↑ + Direto E ↑")
	assert.Contains(t, out, "2. Slip E")

	out = h.mustRun("combos", "show", id, "--mirror")
	assert.Contains(t, out, "(canhoto, tradicional)")
	assert.Contains(t, out, "1. Jab E ↑ + Direto D ↑")
	assert.Contains(t, out, "2. Slip D")

	out = h.mustRun("combos", "edit", id, "--name", "Um-dois", "--guard", "philly")
	assert.Contains(t, out, "Um-dois (destro, philly)")
	assert.Contains(t, out, "2. Slip E")

	out = h.mustRun("combos", "list")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Um-dois")

	out = h.mustRun("combos", "stats")
	assert.Contains(t, out, "Combos:           1")
	assert.Contains(t, out, "Total moves:      3")

	h.mustRun("combos", "rm", id)
	out = h.mustRun("combos", "list")
	assert.Contains(t, out, "No combos yet")

	_, err := h.run("combos", "show", id)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestComboAddRejects(t *testing.T) {
	h := newHarness(t)
	h.mustRun("register", "--name", "Caio", "--email", "caio@example.com", "--password", "segredo1")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown move", []string{"--step", "Gancho voador"}, "unknown move"},
		{"no moves", []string{"--step", " , "}, "at least one step"},
		{"bad stance", []string{"--base", "ambidestro", "--step", "Jab D ↑"}, "invalid base"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.run(append([]string{"combos", "add", "--name", "x"}, tt.args...)...)
			assert.ErrorContains(t, err, tt.want)
		})
	}

	out := h.mustRun("combos", "list")
	assert.Contains(t, out, "No combos yet")
}

func TestMovesCmd(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("moves", "--base", "canhoto", "--categoria", "clinch")
	assert.Contains(t, out, "Clinch (grappling)")
	assert.NotContains(t, out, "Jab")

	out = h.mustRun("moves", "--guards")
	assert.Contains(t, out, "peekaboo")
}

func TestInvalidComboID(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("combos", "show", "not-a-uuid")
	assert.ErrorContains(t, err, "invalid combo id")
}
