package genfair

import (
	"github.com/datar-psa/genfair/dataset"
	"github.com/datar-psa/genfair/perspective"
	"github.com/datar-psa/genfair/runner"
)

var (
	// ErrMissingColumn is returned when an input table lacks a required column
	ErrMissingColumn = dataset.ErrMissingColumn
	// ErrEmptyTable is returned when an input table has no usable rows
	ErrEmptyTable = dataset.ErrEmptyTable
	// ErrExhaustedRetries is returned when the Perspective retry budget is spent
	ErrExhaustedRetries = perspective.ErrExhaustedRetries
	// ErrUnsupportedProvider is returned when no generator exists for a model name
	ErrUnsupportedProvider = runner.ErrUnsupportedProvider
)
