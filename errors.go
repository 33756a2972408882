package arbor

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned (usually wrapped) by backend setters for
// capabilities the backend cannot express. The registry logs and skips
// unsupported fields; it never propagates them to the caller that mutated
// the model.
var ErrUnsupported = errors.New("capability not supported by backend")

// ValidationError rejects an invalid field value before mutation.
// The model is left unchanged and no notification fires.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value %v for field %q: %s", e.Value, e.Field, e.Reason)
}

// StructuralError reports an illegal tree operation: reparenting that would
// create a cycle, or a path/transform query between nodes in disjoint trees.
type StructuralError struct {
	Op     string
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// SingularTransformError reports an attempt to invert a non-invertible
// transform.
type SingularTransformError struct {
	Det float64
}

func (e *SingularTransformError) Error() string {
	return fmt.Sprintf("transform is singular (det = %g)", e.Det)
}

// AdaptorNotFoundError reports a registry lookup with create=false for a
// model object that has no cached adaptor.
type AdaptorNotFoundError struct {
	ModelID uint32
}

func (e *AdaptorNotFoundError) Error() string {
	return fmt.Sprintf("no adaptor registered for model %d", e.ModelID)
}

// MissingCapabilityError reports a backend adaptor that does not implement
// the capability interface required for the model kind it was created for.
// It is raised at construction time, never during event dispatch.
type MissingCapabilityError struct {
	Model      string
	Capability string
}

func (e *MissingCapabilityError) Error() string {
	return fmt.Sprintf("adaptor for %s does not implement %s", e.Model, e.Capability)
}
