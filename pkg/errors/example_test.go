// Package errors provides examples of structured error handling in typeinfer.
package errors_test

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/typeinfer/pkg/errors"
)

// Example demonstrates basic error creation.
func Example() {
	err := errors.New(errors.ErrorTypeFormat, "unsupported file extension").
		WithDetail("extension", "parquet")

	fmt.Println(err.Error())

	// Output:
	// format: unsupported file extension
}

// ExampleWrap shows how a reader error becomes a load error.
func ExampleWrap() {
	err := errors.Wrap(io.ErrUnexpectedEOF, errors.ErrorTypeParse, "failed to parse CSV").
		WithDetail("file", "data.csv").
		WithDetail("delimiter", ";")

	if errors.IsType(err, errors.ErrorTypeParse) {
		fmt.Println("This is a parse error")
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		fmt.Println("Cause is preserved")
	}

	// Output:
	// This is a parse error
	// Cause is preserved
}

// Example_errorChain shows how nested contexts render.
func Example_errorChain() {
	err := errors.New(errors.ErrorTypeConversion, `cannot cast "abc" to int64`)
	err = errors.Wrap(err, errors.ErrorTypeConversion, "column age")

	fmt.Println(err)

	// Output:
	// conversion: column age: conversion: cannot cast "abc" to int64
}

// ExampleIsType demonstrates checking error types.
func ExampleIsType() {
	fileErr := errors.New(errors.ErrorTypeFile, "permission denied")
	wrapped := errors.Wrap(fileErr, errors.ErrorTypeInternal, "process failed")

	fmt.Printf("Is file error: %v\n", errors.IsType(fileErr, errors.ErrorTypeFile))
	fmt.Printf("Wrapped error is internal: %v\n", errors.IsType(wrapped, errors.ErrorTypeInternal))
	fmt.Printf("Wrapped error is file: %v\n", errors.IsType(wrapped, errors.ErrorTypeFile))

	// Output:
	// Is file error: true
	// Wrapped error is internal: true
	// Wrapped error is file: false
}
