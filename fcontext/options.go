package fcontext

import (
	"github.com/arloliu/scda/internal/options"
)

// FopenOptions is the configuration struct passed into OpenWrite and
// OpenRead (format §6). Its zero value is always valid — no fuzzy
// injection and a nil MPI info — matching
// the original's "may be extended" comment on its single-field options
// struct (SPEC_FULL.md supplemented feature 2).
type FopenOptions struct {
	// MPIInfo records MPI info hints; nil means "no hints". It is not
	// passed to the Opener, whose Open takes no hints argument.
	MPIInfo map[string]string

	// FuzzyEnabled turns on the fuzzy error injector for every collective
	// call made through this context.
	FuzzyEnabled bool

	// FuzzySeed seeds the injector. A negative value is replaced at open
	// by rank 0's wall-clock reading, broadcast to every rank; a
	// non-negative value is used as given and must match on every rank.
	FuzzySeed int64

	// FuzzyFreq is the injection frequency (error probability 1/FuzzyFreq).
	// FuzzyFreq <= 0 means the default of 3.
	FuzzyFreq int
}

// Option configures a FopenOptions.
type Option = options.Func[*FopenOptions]

func defaultOptions() *FopenOptions {
	return &FopenOptions{FuzzyFreq: 3}
}

// WithMPIInfo records MPI info hints in FopenOptions.MPIInfo; they are
// not passed to the Opener.
func WithMPIInfo(info map[string]string) *Option {
	return options.NoError(func(o *FopenOptions) { o.MPIInfo = info })
}

// WithFuzzyErrors enables the fuzzy injector at the given frequency. A
// non-negative seed must be the same value on every rank; a negative
// seed is resolved at open from rank 0's clock and broadcast.
func WithFuzzyErrors(seed int64, freq int) *Option {
	return options.NoError(func(o *FopenOptions) {
		o.FuzzyEnabled = true
		o.FuzzySeed = seed
		if freq > 0 {
			o.FuzzyFreq = freq
		}
	})
}

func resolveOptions(opts ...*Option) (*FopenOptions, error) {
	o := defaultOptions()
	generic := make([]options.Option[*FopenOptions], len(opts))
	for i, opt := range opts {
		generic[i] = opt
	}

	if err := options.Apply(o, generic...); err != nil {
		return nil, err
	}

	return o, nil
}
