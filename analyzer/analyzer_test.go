package analyzer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/effectlint/analyzer/linage"
	"gopkg.in/yaml.v3"
)

type testCase struct {
	description string
	code        string
	path        string
	options     []Option
	expectYaml  string
	expect      []*linage.Finding
}

func TestAnalyzer_AnalyzeSource(t *testing.T) {
	tests := []testCase{
		{
			description: "both rules in one file",
			path:        "Form.jsx",
			code: `import { useEffect, useState } from 'react';

export function Form({ firstName, lastName }) {
  const [fullName, setFullName] = useState('');
  useEffect(() => {
    setFullName(firstName + ' ' + lastName);
  }, [firstName, lastName]);
  return <span>{fullName}</span>;
}

export const Child = ({ isOpen, onClose }) => {
  useEffect(() => {
    if (!isOpen) onClose();
  }, [isOpen, onClose]);
  return null;
};`,
			expectYaml: `
- rule: no-derived-state
  state: fullName
  component: Form
  site:
    filePath: Form.jsx
    lineNumber: 6
    columnStart: 5
    lineEnd: 6
    columnEnd: 44
- rule: no-manage-parent
  component: Child
  site:
    filePath: Form.jsx
    lineNumber: 12
    columnStart: 3
    lineEnd: 14
    columnEnd: 24`,
		},
		{
			description: "disabled rule",
			path:        "Child.jsx",
			options:     []Option{WithRules(linage.DerivedState)},
			code: `function Child({ isOpen, onClose }) {
  useEffect(() => {
    if (!isOpen) onClose();
  }, [isOpen, onClose]);
}`,
			expectYaml: `[]`,
		},
		{
			description: "custom effect and state hooks",
			path:        "Form.jsx",
			options:     []Option{WithEffectHooks("useMountEffect"), WithStateHooks("useSignal")},
			code: `function Form({ first }) {
  const [label, setLabel] = useSignal('');
  useMountEffect(() => {
    setLabel(first.trim());
  }, [first]);
  useEffect(() => {
    setLabel(first);
  }, [first]);
}`,
			expectYaml: `
- rule: no-derived-state
  state: label
  component: Form
  site:
    filePath: Form.jsx
    lineNumber: 4
    columnStart: 5
    lineEnd: 4
    columnEnd: 27`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			findings, err := New(tc.options...).AnalyzeSource(tc.path, []byte(tc.code))
			assert.NoError(t, err)
			if err = yaml.Unmarshal([]byte(tc.expectYaml), &tc.expect); !assert.Nil(t, err) {
				return
			}
			adjustFindings(findings)
			if len(tc.expect) == 0 {
				assert.Empty(t, findings)
				return
			}
			if !assert.EqualValues(t, tc.expect, findings) {
				data, _ := yaml.Marshal(findings)
				fmt.Println("ACTUAL:", string(data))
			}
		})
	}
}

// adjustFindings drops fields that are not part of the yaml form
func adjustFindings(findings []*linage.Finding) {
	for _, finding := range findings {
		finding.Binding = nil
		finding.Site.StartByte, finding.Site.EndByte = 0, 0
	}
}

func TestAnalyzer_Cache(t *testing.T) {
	code := []byte(`function Form({ a }) {
  const [b, setB] = useState();
  useEffect(() => { setB(a); }, [a]);
}`)
	a := New(WithCacheSize(4))
	first, err := a.AnalyzeSource("Form.jsx", code)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, a.cache.Len())

	second, err := a.AnalyzeSource("Form.jsx", code)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, a.cache.Len())

	_, err = a.AnalyzeSource("Other.jsx", code)
	require.NoError(t, err)
	assert.Equal(t, 2, a.cache.Len())

	assert.Nil(t, New(WithCacheSize(0)).cache)
}

func TestAnalyzer_SyntaxErrorsAreRecovered(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	code := `function Form({ a }) {
  const [b, setB] = useState();
  useEffect(() => { setB(a); }, [a]);
}

const broken = ;`
	findings, err := New(WithLogger(logger)).AnalyzeSource("Form.jsx", []byte(code))
	require.NoError(t, err)
	assert.Len(t, findings, 1)
	assert.Contains(t, logs.String(), "syntax errors")
}

func TestAnalyzer_AnalyzeDir(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"src/Form.jsx": `function Form({ a }) {
  const [b, setB] = useState();
  useEffect(() => { setB(a); }, [a]);
}`,
		"src/components/Child.tsx": `export const Child = ({ value, onChange }: Props) => {
  useEffect(() => {
    onChange(value);
  }, [value, onChange]);
  return null;
};`,
		"src/clean.js":                      `export function clean() { return 1; }`,
		"src/types.d.ts":                    `declare function useEffect(fn: () => void): void;`,
		"README.md":                         `# not source`,
		"node_modules/lib/index.js":         `function Lib({ a }) { const [b, setB] = useState(); useEffect(() => { setB(a); }, [a]); }`,
		"dist/bundle.js":                    `function Dist({ a }) { const [b, setB] = useState(); useEffect(() => { setB(a); }, [a]); }`,
		"src/components/nested/Counter.jsx": `function Counter({ step }) { const [n, setN] = useState(0); useEffect(() => { setN((v) => v + step); }, [step]); }`,
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	findings, err := New(WithConcurrency(2)).AnalyzeDir(context.Background(), root)
	require.NoError(t, err)

	var actual []string
	for _, finding := range findings {
		actual = append(actual, filepath.Base(finding.Site.FilePath)+":"+finding.Component+":"+string(finding.Rule))
	}
	assert.ElementsMatch(t, []string{
		"Form.jsx:Form:no-derived-state",
		"Child.tsx:Child:no-manage-parent",
		"Counter.jsx:Counter:no-derived-state",
	}, actual)
}

func TestAnalyzer_AnalyzeFile_Missing(t *testing.T) {
	_, err := New().AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "missing.jsx"))
	assert.Error(t, err)
}

func TestJSXFiles(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.jsx", "b.ts", "c.d.ts", "d.css", "e.mjs"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), nil, 0o644))
	}
	for _, name := range []string{"node_modules", "src", ".git"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, name), 0o755))
	}
	expect := map[string]bool{
		"a.jsx": true, "b.ts": true, "c.d.ts": false, "d.css": false, "e.mjs": true,
		"node_modules": false, "src": true, ".git": false,
	}
	for name, want := range expect {
		info, err := os.Stat(filepath.Join(root, name))
		require.NoError(t, err)
		assert.Equal(t, want, JSXFiles(info), name)
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	root := t.TempDir()
	code := `function Form({ a }) {
  const [b, setB] = useState();
  useEffect(() => { setB(a); }, [a]);
}`
	file := filepath.Join(root, "Form.jsx")
	require.NoError(t, os.WriteFile(file, []byte(code), 0o644))

	a := New()
	fromDir, err := a.Analyze(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, fromDir, 1)

	fromFile, err := a.Analyze(context.Background(), file)
	require.NoError(t, err)
	require.Len(t, fromFile, 1)
	assert.Equal(t, "b", fromFile[0].State)
	assert.Equal(t, file, fromFile[0].Site.FilePath)

	_, err = a.Analyze(context.Background(), filepath.Join(root, "missing"))
	assert.Error(t, err)
}

func TestAnalyzer_CachedFindingsAreCopies(t *testing.T) {
	code := []byte(`function Form({ a }) {
  const [b, setB] = useState();
  useEffect(() => { setB(a); }, [a]);
}`)
	a := New(WithCacheSize(4))
	first, err := a.AnalyzeSource("Form.jsx", code)
	require.NoError(t, err)
	require.Len(t, first, 1)
	first[0].Site.FilePath = "rewritten.jsx"
	first[0].State = "changed"

	second, err := a.AnalyzeSource("Form.jsx", code)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "Form.jsx", second[0].Site.FilePath)
	assert.Equal(t, "b", second[0].State)
	second[0].Site.LineNumber = 100

	third, err := a.AnalyzeSource("Form.jsx", code)
	require.NoError(t, err)
	assert.Equal(t, 3, third[0].Site.LineNumber)
}

func TestAnalyzer_DerivedChains(t *testing.T) {
	const links = 40
	guardChain := func() string {
		var sb strings.Builder
		sb.WriteString("function C({ node }) {\n  const [x, setX] = useState(null);\n  const a0 = node;\n")
		for i := 1; i <= links; i++ {
			fmt.Fprintf(&sb, "  const a%d = a%d && a%d.next;\n", i, i-1, i-1)
		}
		fmt.Fprintf(&sb, "  const pick = () => a%d;\n", links)
		sb.WriteString("  useEffect(() => {\n    setX(pick());\n  }, [node]);\n}\n")
		return sb.String()
	}
	doublingLocals := func() string {
		var sb strings.Builder
		sb.WriteString("function C() {\n  const [count] = useState(0);\n  const [x, setX] = useState(0);\n  function f(p) {\n    const b0 = p;\n")
		for i := 1; i <= links; i++ {
			fmt.Fprintf(&sb, "    const b%d = b%d + b%d;\n", i, i-1, i-1)
		}
		fmt.Fprintf(&sb, "    return b%d;\n  }\n", links)
		sb.WriteString("  useEffect(() => {\n    setX(f(count));\n  }, [count]);\n}\n")
		return sb.String()
	}
	updaterChain := func() string {
		var sb strings.Builder
		sb.WriteString("function C({ step }) {\n  const [x, setX] = useState(0);\n  useEffect(() => {\n    setX((v) => {\n      const c0 = v;\n")
		for i := 1; i <= links; i++ {
			fmt.Fprintf(&sb, "      const c%d = c%d + c%d;\n", i, i-1, i-1)
		}
		fmt.Fprintf(&sb, "      return c%d + step;\n    });\n  }, [step]);\n}\n", links)
		return sb.String()
	}

	tests := []struct {
		description string
		code        string
	}{
		{description: "guard chain read through local function", code: guardChain()},
		{description: "doubling locals in called function", code: doublingLocals()},
		{description: "doubling locals in updater", code: updaterChain()},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			started := time.Now()
			findings, err := New(WithCacheSize(0)).AnalyzeSource("C.jsx", []byte(tc.code))
			require.NoError(t, err)
			assert.Less(t, time.Since(started), 2*time.Second)
			require.Len(t, findings, 1)
			assert.Equal(t, linage.DerivedState, findings[0].Rule)
			assert.Equal(t, "x", findings[0].State)
		})
	}
}

func TestMatchesHook(t *testing.T) {
	tests := []struct {
		name   string
		expect bool
	}{
		{name: "useEffect", expect: true},
		{name: "React.useEffect", expect: true},
		{name: "store.useEffect", expect: false},
		{name: "a.React.useEffect", expect: false},
		{name: "useEffectOnce", expect: false},
		{name: "", expect: false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expect, matchesHook(tc.name, []string{"useEffect"}), tc.name)
	}

	code := `function C({ a }) {
  const [b, setB] = store.useState();
  const [c, setC] = useState();
  store.useEffect(() => { setC(a); }, [a]);
  useEffect(() => { setB(a); }, [a]);
}`
	findings, err := New().AnalyzeSource("C.jsx", []byte(code))
	require.NoError(t, err)
	assert.Empty(t, findings)
}
