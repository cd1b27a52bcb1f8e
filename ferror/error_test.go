package ferror_test

import (
	"errors"
	"testing"

	"github.com/arloliu/scda/ferror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeInvariant(t *testing.T) {
	assert.True(t, ferror.SuccessCode.Valid())
	assert.True(t, ferror.New(ferror.Format).Valid())
	assert.True(t, ferror.NewMPI(ferror.MPIErrIO).Valid())

	bad := ferror.Code{Scda: ferror.Success, MPI: ferror.MPIErrIO}
	assert.False(t, bad.Valid())
}

func TestNewPanicsOnMPI(t *testing.T) {
	assert.Panics(t, func() { ferror.New(ferror.MPI) })
}

func TestErrorIsAndAs(t *testing.T) {
	err := ferror.NewError("fopen", ferror.Usage, nil)

	var code ferror.Code
	require.True(t, errors.As(err, &code))
	assert.Equal(t, ferror.Usage, code.Scda)

	var scda ferror.ScdaCode
	require.True(t, errors.As(err, &scda))
	assert.Equal(t, ferror.Usage, scda)

	other := ferror.NewError("fopen", ferror.Usage, nil)
	assert.True(t, errors.Is(err, other))

	different := ferror.NewMPIError("fopen", ferror.MPIErrIO, nil)
	assert.False(t, errors.Is(err, different))
}

func TestFuzzyInjectorDeterministic(t *testing.T) {
	cfg := ferror.FuzzyConfig{Enabled: true, Seed: 42, Freq: 3}
	a := ferror.NewInjector(cfg)
	b := ferror.NewInjector(cfg)

	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Sample(), b.Sample())
	}
}

func TestFuzzyInjectorDisabled(t *testing.T) {
	inj := ferror.NewInjector(ferror.FuzzyConfig{Enabled: false, Freq: 1})
	for i := 0; i < 10; i++ {
		assert.Equal(t, ferror.SuccessCode, inj.Sample())
	}
}
