package errors_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/catmatch/pkg/errors"
)

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("format", "xml", "unsupported")
		assert.Equal(t, "validation failed for field format: unsupported", err.Error())
		assert.Equal(t, "xml", err.Value)
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "bad input"}
		assert.Equal(t, "validation failed: bad input", err.Error())
	})
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name string
		err  *pkgerrors.ParseError
		want string
	}{
		{
			name: "file and line",
			err:  &pkgerrors.ParseError{Format: "csv", File: "a.csv", Line: 3, Column: 2, Message: "bare quote"},
			want: "parse error in csv at a.csv:3:2: bare quote",
		},
		{
			name: "file only",
			err:  &pkgerrors.ParseError{Format: "yaml", File: "map.yaml", Message: "bad indent"},
			want: "parse error in yaml file map.yaml: bad indent",
		},
		{
			name: "offset only",
			err:  &pkgerrors.ParseError{Format: "literal", Column: 7, Message: "unexpected '}'"},
			want: "literal parse error at offset 7: unexpected '}'",
		},
		{
			name: "message only",
			err:  &pkgerrors.ParseError{Format: "literal", Message: "empty input"},
			want: "literal parse error: empty input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestIOError(t *testing.T) {
	err := pkgerrors.WrapIO("save", "/tmp/report.xlsx", fs.ErrPermission)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save")
	assert.Contains(t, err.Error(), "/tmp/report.xlsx")
	assert.True(t, errors.Is(err, fs.ErrPermission))

	var ioErr *pkgerrors.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "save", ioErr.Operation)
}

func TestWrapResourceAndParse(t *testing.T) {
	base := errors.New("disk full")

	err := pkgerrors.WrapResource("write", "report", "summary", base)
	assert.Equal(t, "failed to write report summary: disk full", err.Error())
	assert.ErrorIs(t, err, base)

	err = pkgerrors.WrapParse("yaml", "map.yaml", base)
	assert.Equal(t, "parse error in yaml file map.yaml: disk full", err.Error())
	var parseErr *pkgerrors.ParseError
	require.True(t, pkgerrors.As(err, &parseErr))
	assert.Equal(t, "map.yaml", parseErr.File)
}

func TestWrapHelpers_Nil(t *testing.T) {
	assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
	assert.NoError(t, pkgerrors.WrapResource("load", "config", "", nil))
	assert.NoError(t, pkgerrors.WrapParse("yaml", "x", nil))
}

func TestConfigError(t *testing.T) {
	base := errors.New("boom")
	err := pkgerrors.NewConfigError("mapping", "cannot read overlay", base)
	assert.Equal(t, "configuration error in mapping: cannot read overlay", err.Error())
	assert.ErrorIs(t, err, base)
}

func TestSentinels(t *testing.T) {
	err := fmt.Errorf("discover: %w", pkgerrors.ErrNoInputs)
	assert.True(t, pkgerrors.IsNoInputs(err))
	assert.False(t, pkgerrors.IsNoInputs(pkgerrors.ErrWorkbookUnavailable))
	assert.True(t, pkgerrors.Is(fmt.Errorf("x: %w", pkgerrors.ErrMissingColumns), pkgerrors.ErrMissingColumns))
}
