package domain

import "fmt"

// DetectionStatus is the tag of a Detection.
type DetectionStatus int

// Detection outcomes. The zero value is deliberately not a valid status.
const (
	DetectionDetected DetectionStatus = iota + 1
	DetectionNotFound
	DetectionFailed
)

// String returns the string representation.
func (s DetectionStatus) String() string {
	switch s {
	case DetectionDetected:
		return "detected"
	case DetectionNotFound:
		return "not_found"
	case DetectionFailed:
		return "failed"
	default:
		return fmt.Sprintf("DetectionStatus(%d)", int(s))
	}
}

// Detection is the tagged result of a detector call: something was
// detected, nothing was found (an expected outcome), or the call failed.
// Detectors return NotFound instead of an error for empty images so that
// callers can branch on the result without inspecting errors.
type Detection[T any] struct {
	status DetectionStatus
	value  T
	err    error
}

// Detected wraps a successful detection.
func Detected[T any](v T) Detection[T] {
	return Detection[T]{status: DetectionDetected, value: v}
}

// NotFound reports that the detector ran and found nothing.
func NotFound[T any]() Detection[T] {
	return Detection[T]{status: DetectionNotFound}
}

// Failed reports that the detector could not run.
// A nil cause is replaced with ErrInference.
func Failed[T any](err error) Detection[T] {
	if err == nil {
		err = ErrInference
	}
	return Detection[T]{status: DetectionFailed, err: err}
}

// Status returns the detection tag.
func (d Detection[T]) Status() DetectionStatus {
	return d.status
}

// Value returns the detected value and true for Detected results.
func (d Detection[T]) Value() (T, bool) {
	return d.value, d.status == DetectionDetected
}

// Err returns the failure cause for Failed results, nil otherwise.
func (d Detection[T]) Err() error {
	return d.err
}

// IsDetected returns true if something was detected.
func (d Detection[T]) IsDetected() bool {
	return d.status == DetectionDetected
}

// IsNotFound returns true if the detector found nothing.
func (d Detection[T]) IsNotFound() bool {
	return d.status == DetectionNotFound
}
