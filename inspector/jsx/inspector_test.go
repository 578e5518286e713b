package jsx_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/effectlint/inspector/graph"
	"github.com/viant/effectlint/inspector/jsx"
)

func TestInspector_InspectSource(t *testing.T) {
	tests := []struct {
		name           string
		source         string
		wantComponents []string
		wantExported   []string
		wantImports    []graph.Import
	}{
		{
			name: "Function Component",
			source: `import React from 'react';

function Greeting(props) {
  return <h1>Hello, {props.name}!</h1>;
}

export default Greeting;`,
			wantComponents: []string{"Greeting"},
			wantImports:    []graph.Import{{Name: "React", Path: "react"}},
		},
		{
			name: "Arrow Function Component",
			source: `import React, { useState, useEffect as useMountEffect } from 'react';

const Welcome = (props) => {
  return <h1>Welcome, {props.name}!</h1>;
};`,
			wantComponents: []string{"Welcome"},
			wantImports: []graph.Import{
				{Name: "React", Path: "react"},
				{Name: "useState", Path: "react"},
				{Name: "useMountEffect", Path: "react"},
			},
		},
		{
			name: "Exported hook and component",
			source: `import * as api from "./api";

export const useKeyboard = () => {
  return api.keys();
};

export function Form({ name }) {
  return <input value={name} />;
}

export default function () {
  return null;
}`,
			wantComponents: []string{"useKeyboard", "Form", "default"},
			wantExported:   []string{"useKeyboard", "Form", "default"},
			wantImports:    []graph.Import{{Name: "api", Path: "./api"}},
		},
		{
			name: "Class and HOC components are skipped",
			source: `class Counter extends React.Component {
  render() {
    return <div>Count: {this.state.count}</div>;
  }
}

const Wrapped = withRouter(function Inner() {
  return null;
});

const limit = 10;`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inspector := jsx.NewInspector()
			file, err := inspector.InspectSource([]byte(tt.source))
			require.NoError(t, err)
			require.NotNil(t, file)
			assert.Equal(t, "source.jsx", file.Path)
			assert.Equal(t, "javascript", file.Language)
			assert.False(t, file.HasErrors)

			var names, exported []string
			for _, component := range file.Components {
				names = append(names, component.Name)
				if component.Exported {
					exported = append(exported, component.Name)
				}
			}
			assert.Equal(t, tt.wantComponents, names)
			assert.Equal(t, tt.wantExported, exported)
			assert.Equal(t, tt.wantImports, file.Imports)
		})
	}
}

func TestInspector_Inspect(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		source       string
		wantLanguage string
		wantKind     string
	}{
		{
			name:     "tsx",
			filename: "Form.tsx",
			source: `export const Form = ({ value }: { value: string }): JSX.Element => {
  return <span>{value}</span>;
};`,
			wantLanguage: "tsx",
			wantKind:     "arrow",
		},
		{
			name:     "typescript",
			filename: "useList.ts",
			source: `export function useList(items: string[]) {
  return items.length;
}`,
			wantLanguage: "typescript",
			wantKind:     "function",
		},
		{
			name:         "javascript expression",
			filename:     "Legacy.js",
			source:       `var Legacy = function (props) { return props.children; };`,
			wantLanguage: "javascript",
			wantKind:     "expression",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := jsx.NewInspector().Inspect(context.Background(), tt.filename, []byte(tt.source))
			require.NoError(t, err)
			assert.Equal(t, tt.wantLanguage, file.Language)
			assert.False(t, file.HasErrors)
			require.Len(t, file.Components, 1)
			assert.Equal(t, tt.wantKind, file.Components[0].Kind)
			assert.NotNil(t, file.LookupComponent(file.Components[0].Name))
			assert.Equal(t, 1, file.Components[0].Location.Line)
			assert.NotZero(t, file.Hash)
		})
	}
}

func TestLanguage(t *testing.T) {
	assert.Equal(t, "tsx", jsx.Language("a/B.TSX"))
	assert.Equal(t, "typescript", jsx.Language("a/b.ts"))
	assert.Equal(t, "javascript", jsx.Language("a/b.jsx"))
	assert.Equal(t, "javascript", jsx.Language("a/b.mjs"))
}
