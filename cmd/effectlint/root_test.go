package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/effectlint/report"
)

const formSource = `function Form({ first, last }) {
  const [name, setName] = useState('');
  useEffect(() => {
    setName(first + ' ' + last);
  }, [first, last]);
}`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCmd(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "Form.jsx")
	require.NoError(t, os.WriteFile(source, []byte(formSource), 0o644))
	missingConfig := filepath.Join(dir, "none.yaml")

	tests := []struct {
		description string
		args        []string
		expectOut   []string
		expectErr   bool
	}{
		{
			description: "text report",
			args:        []string{"--config", missingConfig, dir},
			expectOut:   []string{"Form.jsx:4:5:", `Compute "name"`, "1 problem"},
		},
		{
			description: "single file",
			args:        []string{"--config", missingConfig, "-f", "sarif", source},
			expectOut:   []string{`"ruleId": "no-derived-state"`},
		},
		{
			description: "disabled rule",
			args:        []string{"--config", missingConfig, "--disable", "no-derived-state", dir},
		},
		{
			description: "unknown disabled rule",
			args:        []string{"--config", missingConfig, "--disable", "no-such-rule", dir},
			expectErr:   true,
		},
		{
			description: "custom effect hook skips useEffect",
			args:        []string{"--config", missingConfig, "--effect-hook", "useMountEffect", dir},
		},
		{
			description: "fail on findings",
			args:        []string{"--config", missingConfig, "--fail-on-findings", dir},
			expectOut:   []string{"1 problem"},
			expectErr:   true,
		},
		{
			description: "unknown format",
			args:        []string{"--config", missingConfig, "-f", "xml", dir},
			expectErr:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			out, _, err := execute(t, tc.args...)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			for _, expect := range tc.expectOut {
				assert.Contains(t, out, expect)
			}
			if len(tc.expectOut) == 0 && !tc.expectErr {
				assert.Empty(t, out)
			}
		})
	}
}

func TestRootCmd_ConfigAndOutput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Form.jsx"), []byte(formSource), 0o644))
	configFile := filepath.Join(dir, "lint.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("rules:\n  no-manage-parent: false\n"), 0o644))
	outFile := filepath.Join(dir, "report.json")

	out, _, err := execute(t, "--config", configFile, "-f", "json", "-o", outFile, dir)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	var diags []*report.Diagnostic
	require.NoError(t, json.Unmarshal(data, &diags))
	require.Len(t, diags, 1)
	assert.Equal(t, "name", diags[0].Data["state"])
	assert.Equal(t, "Form.jsx", filepath.Base(diags[0].File))
}

func TestRootCmd_BadConfig(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "lint.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("rules:\n  no-everything: true\n"), 0o644))
	_, stderr, err := execute(t, "--config", configFile, dir)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, errFindings))
	assert.Contains(t, stderr, "unknown rule")
}

func TestRootCmd_LocatesProjectConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".effectlint.yaml"), []byte("rules:\n  no-derived-state: false\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "Form.jsx"), []byte(formSource), 0o644))

	out, _, err := execute(t, "--fail-on-findings", filepath.Join(dir, "src"))
	require.NoError(t, err)
	assert.Empty(t, out)
}
