package elf

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Option sets option for resolution
type Option func(opts *Options)

// Options saves options for resolution
type Options struct {
	Fs          afero.Fs
	Logger      zerolog.Logger
	SharedLock  bool
	Demangle    bool
	FileOffset  bool
	Concurrency int
}

// NewDefaultOptions create a default options.
func NewDefaultOptions() *Options {
	return &Options{
		Fs:          afero.NewOsFs(),
		Logger:      zerolog.Nop(),
		Concurrency: 4,
	}
}

func newOptions(options []Option) *Options {
	opts := NewDefaultOptions()
	for _, opt := range options {
		opt(opts)
	}
	return opts
}

// WithFs sets the filesystem the target is opened from
func WithFs(fs afero.Fs) Option {
	return func(opts *Options) {
		opts.Fs = fs
	}
}

// WithLogger sets Logger
func WithLogger(logger zerolog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithSharedLock holds a shared flock on the target while it is read.
// Only meaningful with an OS-backed filesystem.
func WithSharedLock(enable bool) Option {
	return func(opts *Options) {
		opts.SharedLock = enable
	}
}

// WithDemangle also matches queries against demangled symbol names
func WithDemangle(enable bool) Option {
	return func(opts *Options) {
		opts.Demangle = enable
	}
}

// WithFileOffset translates resolved values into file offsets
func WithFileOffset(enable bool) Option {
	return func(opts *Options) {
		opts.FileOffset = enable
	}
}

// WithConcurrency sets the number of files ResolveAll reads at once
func WithConcurrency(n int) Option {
	return func(opts *Options) {
		if n > 0 {
			opts.Concurrency = n
		}
	}
}
