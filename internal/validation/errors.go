package validation

import (
	"errors"
	"strings"
)

// ErrMissingField means a record was handed over without one of the
// structural fields every tower needs. It is a caller bug, not a validation
// outcome, and is never part of an Errors list.
var ErrMissingField = errors.New("missing required field")

// FieldFormatError is a single field value that fails its format rule.
// TooLong marks a value that does not fit the column it is stored in.
type FieldFormatError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
	TooLong bool   `json:"-"`
}

func (e *FieldFormatError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func formatError(message string) *FieldFormatError {
	return &FieldFormatError{Message: message}
}

// ConsistencyError is a violated cross-field rule.
type ConsistencyError struct {
	Rule    Rule     `json:"rule"`
	Fields  []string `json:"fields"`
	Message string   `json:"message"`
}

func (e *ConsistencyError) Error() string {
	return e.Message
}

// Errors is the ordered list of everything wrong with a record: field errors
// first, then consistency errors. An empty list means the record is valid.
type Errors []error

func (e Errors) Error() string {
	return strings.Join(e.Messages(), "; ")
}

func (e Errors) Unwrap() []error {
	return e
}

// Messages returns the human readable message of each error, in order.
func (e Errors) Messages() []string {
	messages := make([]string, 0, len(e))
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return messages
}

// Err returns nil for an empty list so callers can use the usual err != nil.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) FieldErrors() []*FieldFormatError {
	var out []*FieldFormatError
	for _, err := range e {
		var fieldErr *FieldFormatError
		if errors.As(err, &fieldErr) {
			out = append(out, fieldErr)
		}
	}
	return out
}

func (e Errors) ConsistencyErrors() []*ConsistencyError {
	var out []*ConsistencyError
	for _, err := range e {
		var consistencyErr *ConsistencyError
		if errors.As(err, &consistencyErr) {
			out = append(out, consistencyErr)
		}
	}
	return out
}

// Unstorable lists the field errors whose values the database would reject.
func (e Errors) Unstorable() []*FieldFormatError {
	var out []*FieldFormatError
	for _, err := range e.FieldErrors() {
		if err.TooLong {
			out = append(out, err)
		}
	}
	return out
}
