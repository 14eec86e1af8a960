package filtergen

import (
	"errors"
	"io"
	"testing"

	"github.com/hupe1980/filtergen/model"
	"github.com/stretchr/testify/assert"
)

func TestIOError(t *testing.T) {
	err := ioError("write", "a.csv", io.ErrShortWrite)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.NotErrorIs(t, err, ErrInvalidParameter)
	assert.Equal(t, "write a.csv: short write", err.Error())

	assert.NoError(t, ioError("write", "a.csv", nil))
}

func TestCorpusError(t *testing.T) {
	err := &CorpusError{Corpus: "x", Err: model.NewParameterError("records", -1, "must be positive")}
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), "corpus x")

	var pe *ParameterError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, "records", pe.Field)
}
