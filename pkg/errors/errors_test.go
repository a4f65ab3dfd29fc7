package errors_test

import (
	"errors"
	"io/fs"
	"testing"

	pkgerrors "github.com/agentstation/parcelmerge/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "field",
			ID:       "EMV_TOTAL",
		}
		assert.Equal(t, "field EMV_TOTAL not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("source", "dakota")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("limit", -1, "must be positive")
		assert.Equal(t, "validation failed for limit: must be positive", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "empty schema"}
		assert.Equal(t, "validation failed: empty schema", err.Error())
	})

	t.Run("wrap helper", func(t *testing.T) {
		assert.Nil(t, pkgerrors.WrapValidation("order", nil))
		err := pkgerrors.WrapValidation("order", errors.New("duplicate ramsey"))
		assert.Contains(t, err.Error(), "order")
		assert.Contains(t, err.Error(), "duplicate ramsey")
	})
}

func TestConfigError(t *testing.T) {
	base := errors.New("missing key")
	err := pkgerrors.NewConfigError("merge", "reference source not configured", base)
	assert.Contains(t, err.Error(), "merge")
	assert.Contains(t, err.Error(), "reference source")
	assert.Equal(t, base, err.Unwrap())
	assert.True(t, pkgerrors.IsValidationError(err))
}

func TestSourceUnavailableError(t *testing.T) {
	ioErr := pkgerrors.NewIOError("open", "data/ramsey.shp", fs.ErrNotExist)
	err := pkgerrors.NewSourceUnavailableError("ramsey", "data/ramsey.shp", ioErr)

	assert.Contains(t, err.Error(), "ramsey")
	assert.Contains(t, err.Error(), "data/ramsey.shp")
	assert.True(t, pkgerrors.IsSourceUnavailable(err))
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	var target *pkgerrors.IOError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "open", target.Operation)
}

func TestMergeError(t *testing.T) {
	t.Run("with index", func(t *testing.T) {
		err := pkgerrors.NewMergeError("hennepin", 12, errors.New("disk full"))
		assert.Equal(t, "merge error for hennepin at feature 12: disk full", err.Error())
	})

	t.Run("without index", func(t *testing.T) {
		err := pkgerrors.NewMergeError("anoka", -1, pkgerrors.ErrCanceled)
		assert.Equal(t, "merge error for anoka: operation canceled", err.Error())
		assert.True(t, pkgerrors.IsCanceled(err))
	})
}

func TestParseError(t *testing.T) {
	t.Run("with file and line", func(t *testing.T) {
		err := &pkgerrors.ParseError{
			Format:  "geojson",
			File:    "combined.geojsons",
			Line:    10,
			Message: "unexpected token",
		}
		assert.Equal(t, "parse error in geojson at combined.geojsons:10: unexpected token", err.Error())
	})

	t.Run("with file only", func(t *testing.T) {
		err := pkgerrors.WrapParse("yaml", "combined.schema.yaml", errors.New("invalid indentation"))
		assert.Equal(t, "parse error in yaml file combined.schema.yaml: invalid indentation", err.Error())
	})

	t.Run("format only", func(t *testing.T) {
		err := &pkgerrors.ParseError{Format: "dbf", Message: "bad header"}
		assert.Equal(t, "dbf parse error: bad header", err.Error())
	})
}

func TestIOError(t *testing.T) {
	t.Run("unwrap", func(t *testing.T) {
		baseErr := errors.New("disk full")
		err := pkgerrors.NewIOError("write", "/data/output.geojsons", baseErr)
		assert.Equal(t, baseErr, err.Unwrap())
	})

	t.Run("wrap helper", func(t *testing.T) {
		assert.Nil(t, pkgerrors.WrapIO("read", "x", nil))
		err := pkgerrors.WrapIO("delete", "/data/old.geojsons", errors.New("busy"))
		ioErr, ok := err.(*pkgerrors.IOError)
		require.True(t, ok)
		assert.Equal(t, "delete", ioErr.Operation)
		assert.Equal(t, "/data/old.geojsons", ioErr.Path)
	})
}
