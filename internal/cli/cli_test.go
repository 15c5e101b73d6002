package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-mannequin/pkg/posture"
	"github.com/teslashibe/go-mannequin/pkg/rig"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func standing() posture.Posture {
	return posture.Capture(rig.New(rig.Male))
}

func raised() posture.Posture {
	r := rig.New(rig.Male)
	r.Get("l_arm").ApplyDelta(rig.AxisZ, 60)
	return posture.Capture(r)
}

// version6 folds the finger entries of p into the per-hand layout of
// version 6.
func version6(p posture.Posture) posture.Posture {
	data := append([]posture.Entry{}, p.Data[:13]...)
	data = append(data, posture.Entry{0, 20})
	data = append(data, p.Data[18:21]...)
	data = append(data, posture.Entry{0, 20})
	return posture.Posture{Version: 6, Data: data}
}

func TestRootRejectsBadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"format", []string{"--format", "yaml", "show", "x.json"}},
		{"kind", []string{"--kind", "robot", "show", "x.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, ExitCode(err))
		})
	}
}

func TestValidate(t *testing.T) {
	good := writeFile(t, "good.json", standing().String())
	old := writeFile(t, "old.json", version6(standing()).String())

	out, err := run(t, "", "validate", good, old)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ "+good)
	assert.Contains(t, out, "needs migration")
}

func TestValidateInvalid(t *testing.T) {
	good := writeFile(t, "good.json", standing().String())
	bad := writeFile(t, "bad.json", `{"version":7,"data":[[0,1,2]]}`)
	future := writeFile(t, "future.json", `{"version":99,"data":[]}`)

	out, err := run(t, "", "--format", "json", "validate", good, bad, future)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, ExitCode(err))

	var resp struct {
		Status string       `json:"status"`
		Data   []FileResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.Len(t, resp.Data, 3)
	assert.True(t, resp.Data[0].Valid)
	assert.False(t, resp.Data[1].Valid)
	assert.Equal(t, "The provided posture was either invalid or impossible to understand.", resp.Data[1].Message)
	assert.False(t, resp.Data[2].Valid)
	assert.Contains(t, resp.Data[2].Message, "99")
}

func TestValidateStdin(t *testing.T) {
	out, err := run(t, standing().String(), "validate", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ -")
}

func TestMigrate(t *testing.T) {
	old := writeFile(t, "old.json", version6(standing()).String())
	dst := filepath.Join(t.TempDir(), "new.json")

	_, err := run(t, "", "migrate", old, "-o", dst)
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	p, err := posture.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, posture.Version, p.Version)
	assert.Len(t, p.Data, len(posture.Names))
	assert.Equal(t, posture.Entry{0, 0, 0, 10, 0, 10}, p.Entry("l_finger_2"))
}

func TestMigrateUnknownVersion(t *testing.T) {
	future := writeFile(t, "future.json", `{"version":99,"data":[]}`)
	_, err := run(t, "", "migrate", future)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, ExitCode(err))
}

func TestBlend(t *testing.T) {
	a := writeFile(t, "a.json", standing().String())
	b := writeFile(t, "b.json", raised().String())

	tests := []struct {
		t    string
		want posture.Posture
	}{
		{"0", standing()},
		{"1", raised()},
	}
	for _, tt := range tests {
		t.Run(tt.t, func(t *testing.T) {
			out, err := run(t, "", "blend", a, b, "--t", tt.t)
			require.NoError(t, err)
			p, err := posture.Parse([]byte(out))
			require.NoError(t, err)
			assert.Empty(t, posture.Diff(tt.want, p, 0))
		})
	}

	out, err := run(t, "", "blend", a, b)
	require.NoError(t, err)
	mid, err := posture.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, []string{"l_arm"}, posture.Diff(standing(), mid, 0.05))

	_, err = run(t, "", "blend", a, b, "--t", "1.5")
	assert.Equal(t, ExitCommandError, ExitCode(err))
}

func TestShow(t *testing.T) {
	file := writeFile(t, "p.json", standing().String())

	out, err := run(t, "", "show", file)
	require.NoError(t, err)
	assert.Contains(t, out, "version 7")
	assert.Contains(t, out, "r_finger_4")

	out, err = run(t, "", "--format", "json", "show", file)
	require.NoError(t, err)
	var resp struct {
		Data []JointValues `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, len(posture.Names))
	assert.Equal(t, "body", resp.Data[1].Joint)
	assert.Equal(t, -90.0, resp.Data[1].Values[1])
}

func TestDiff(t *testing.T) {
	a := writeFile(t, "a.json", standing().String())
	b := writeFile(t, "b.json", raised().String())

	out, err := run(t, "", "diff", a, a)
	require.NoError(t, err)
	assert.Contains(t, out, "postures match")

	out, err = run(t, "", "diff", a, b)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, ExitCode(err))
	assert.Equal(t, "l_arm\n", out)

	_, err = run(t, "", "diff", a, b, "--tol", "400")
	assert.NoError(t, err)
}

func TestMissingFile(t *testing.T) {
	_, err := run(t, "", "show", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, ExitCode(err))
}

// editor fakes the posture endpoints of a running server.
type editor struct {
	posture string
	pushed  []byte
}

func (e *editor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/models":
		io.WriteString(w, `[{"id":"a","kind":"male","active":false},{"id":"b","kind":"male","active":true}]`)
	case r.URL.Path == "/api/models/b/posture" && r.Method == http.MethodGet:
		io.WriteString(w, e.posture)
	case r.URL.Path == "/api/models/b/posture" && r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		if _, err := posture.Parse(body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"error":"The provided posture was either invalid or impossible to understand."}`)
			return
		}
		e.pushed = body
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func TestPullPush(t *testing.T) {
	ed := &editor{posture: raised().String()}
	srv := httptest.NewServer(ed)
	defer srv.Close()

	out, err := run(t, "", "pull", "--server", srv.URL)
	require.NoError(t, err)
	p, err := posture.Parse([]byte(out))
	require.NoError(t, err)
	assert.Empty(t, posture.Diff(raised(), p, 0))

	file := writeFile(t, "p.json", standing().String())
	_, err = run(t, "", "push", file, "--server", srv.URL, "--model", "b")
	require.NoError(t, err)
	assert.JSONEq(t, standing().String(), string(ed.pushed))

	garbage := writeFile(t, "garbage.json", "not json")
	_, err = run(t, "", "push", garbage, "--server", srv.URL)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, ExitCode(err))
	assert.Contains(t, err.Error(), "impossible to understand")
}

func TestPullUnknownModel(t *testing.T) {
	srv := httptest.NewServer(&editor{})
	defer srv.Close()

	_, err := run(t, "", "pull", "--server", srv.URL, "--model", "zzz")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, ExitCode(err))
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestGoldenOutput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"show_json", []string{"--format", "json", "show", "testdata/standing.json"}},
		{"migrate", []string{"migrate", "testdata/version6.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "", tt.args...)
			require.NoError(t, err)
			golden(t).Assert(t, tt.name, []byte(out))
		})
	}
}
