package tabula

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrExtraction indicates a rule failed while reading an element.
	// A conversion that hits it produces no table.
	ErrExtraction = errors.New("extraction failed")

	// ErrNoEligibleMembers indicates derivation found no usable accessor.
	ErrNoEligibleMembers = errors.New("no eligible members")

	// ErrSource indicates the input iterator reported an error.
	ErrSource = errors.New("source failed")

	// ErrInvalidOption indicates a converter or parallel option is out of range.
	ErrInvalidOption = errors.New("invalid option")

	// errNilExtractor is the cause recorded for a rule built without a function.
	errNilExtractor = errors.New("nil extractor")

	// errNilReceiver is the cause recorded when a derived rule meets a nil element.
	errNilReceiver = errors.New("nil receiver")
)

// ExtractionError reports which rule failed and on which element.
type ExtractionError struct {
	Label string // Label of the failing rule
	Index int    // Position of the element in traversal order, -1 when unknown
	Cause error  // Error returned or panic raised by the extractor
}

func (e *ExtractionError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: rule %q at element %d: %v", ErrExtraction.Error(), e.Label, e.Index, e.Cause)
	}
	return fmt.Sprintf("%s: rule %q: %v", ErrExtraction.Error(), e.Label, e.Cause)
}

// Unwrap exposes both ErrExtraction and the original cause.
func (e *ExtractionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrExtraction}
	}
	return []error{ErrExtraction, e.Cause}
}

// DerivationError reports a type with nothing to derive rules from.
type DerivationError struct {
	Err      error  // Underlying sentinel error (ErrNoEligibleMembers)
	TypeName string // Type that was inspected
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("%s on type %s", e.Err.Error(), e.TypeName)
}

func (e *DerivationError) Unwrap() error {
	return e.Err
}

// OptionError reports an invalid configuration value.
type OptionError struct {
	Err    error  // Underlying sentinel error (ErrInvalidOption)
	Option string // Option name
	Reason string // What is wrong with it
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Err.Error(), e.Option, e.Reason)
}

func (e *OptionError) Unwrap() error {
	return e.Err
}

// newExtractionError creates an ExtractionError whose position is not yet known.
func newExtractionError(label string, cause error) *ExtractionError {
	return &ExtractionError{
		Label: label,
		Index: -1,
		Cause: cause,
	}
}

// newOptionError creates an OptionError for an out-of-range option.
func newOptionError(option, reason string) error {
	return &OptionError{
		Err:    ErrInvalidOption,
		Option: option,
		Reason: reason,
	}
}

// newSourceError wraps an iterator failure.
func newSourceError(cause error) error {
	return fmt.Errorf("%w: %w", ErrSource, cause)
}

// atIndex records the traversal position on an extraction error that does
// not carry one yet.
func atIndex(err error, index int) error {
	var ee *ExtractionError
	if errors.As(err, &ee) && ee.Index < 0 {
		ee.Index = index
	}
	return err
}
