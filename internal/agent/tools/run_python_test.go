package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPythonTool_CheckImports(t *testing.T) {
	tool := NewRunPythonTool(t.TempDir(), "")

	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{
			name: "allowed analysis imports",
			code: "import polars as pl\nimport numpy as np\nfrom datetime import date\n",
		},
		{
			name: "matplotlib submodule",
			code: "import matplotlib.pyplot as plt\n",
		},
		{
			name:    "os is not authorized",
			code:    "import os\nprint(os.environ)\n",
			wantErr: true,
		},
		{
			name:    "subprocess is not authorized",
			code:    "from subprocess import run\n",
			wantErr: true,
		},
		{
			name:    "requests is not authorized",
			code:    "import requests\n",
			wantErr: true,
		},
		{
			name: "indented import inside function",
			code: "def f():\n    import polars\n",
		},
		{
			name: "no imports at all",
			code: "print(1 + 1)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tool.CheckImports(tt.code)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "not authorized")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRunPythonTool_Execute_Rejections(t *testing.T) {
	ctx := context.Background()
	tool := NewRunPythonTool(t.TempDir(), "")

	t.Run("empty code", func(t *testing.T) {
		_, err := tool.Execute(ctx, &RunPythonParams{Code: "   "})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "code is required")
	})

	t.Run("nil params", func(t *testing.T) {
		_, err := tool.Execute(ctx, nil)
		assert.Error(t, err)
	})

	t.Run("unauthorized import blocked before execution", func(t *testing.T) {
		_, err := tool.Execute(ctx, &RunPythonParams{Code: "import socket\n"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"socket"`)
	})
}

func TestRunPythonTool_Metadata(t *testing.T) {
	tool := NewRunPythonTool("", "")

	assert.Equal(t, "run_python", tool.Name())
	assert.Contains(t, tool.Description(), "allow-list")
}
