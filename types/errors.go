package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrEmptyInput is returned when a document or batch produced no usable
	// content to index.
	ErrEmptyInput = errors.New("no usable content to index")

	// ErrInvalidScope is returned when an operation is requested with no
	// documents or session selected.
	ErrInvalidScope = errors.New("no documents selected")
)

// ConfigError indicates a missing credential or configuration value. The
// operation that needed it is halted; nothing else is affected.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s not set in environment", e.Key)
}

// ServiceError wraps a failed call to an upstream embedding or language model
// service (network, auth, rate limit).
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: upstream service call failed: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// PartialIngestError reports the sources of a batch that failed to load.
// The batch as a whole still succeeded for every source not listed here.
type PartialIngestError struct {
	Failed map[string]error
}

func (e *PartialIngestError) Error() string {
	sources := make([]string, 0, len(e.Failed))
	for src := range e.Failed {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	return fmt.Sprintf("%d source(s) failed to load: %s", len(sources), strings.Join(sources, ", "))
}
