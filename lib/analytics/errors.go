package analytics

import (
	"github.com/pkg/errors"
)

var (
	ErrNotFound    = errors.New("registro não encontrado")
	ErrUnavailable = errors.New("análise indisponível")
)

// unavailableError keeps the retrieval failure as cause while matching ErrUnavailable.
type unavailableError struct {
	cause error
}

func (e unavailableError) Error() string {
	return ErrUnavailable.Error() + ": " + e.cause.Error()
}

func (e unavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

func (e unavailableError) Unwrap() error {
	return e.cause
}

func unavailable(err error, msg string) error {
	return unavailableError{cause: errors.Wrap(err, msg)}
}

type notFoundError struct {
	msg string
}

func (e notFoundError) Error() string {
	return e.msg
}

func (e notFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(msg string) error {
	return notFoundError{msg: msg}
}
