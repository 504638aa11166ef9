package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Kind clasifica un fallo de forma estable para las capas de transporte.
type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindNotFound   Kind = "NOT_FOUND"
	KindForbidden  Kind = "FORBIDDEN"
	KindConflict   Kind = "CONFLICT"
	KindUnexpected Kind = "UNEXPECTED"
)

// ErrRecordNotFound lo devuelven los repositorios cuando no existe la fila.
var ErrRecordNotFound = errors.New("record not found")

// Violation es una regla incumplida con código legible por máquina.
type Violation struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (v Violation) Error() string {
	return v.Code + ": " + v.Message
}

// Error es el error tipado que devuelven dominio y pipeline.
type Error struct {
	Kind       Kind
	Violations []Violation
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Error())
	}
	msg := string(e.Kind)
	if len(parts) > 0 {
		msg += ": " + strings.Join(parts, "; ")
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// HasCode indica si alguna violación lleva el código dado.
func (e *Error) HasCode(code string) bool {
	if e == nil {
		return false
	}
	for _, v := range e.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

func Validation(vs ...Violation) *Error {
	return &Error{Kind: KindValidation, Violations: vs}
}

func NotFound(v Violation) *Error {
	return &Error{Kind: KindNotFound, Violations: []Violation{v}}
}

func Forbidden(v Violation) *Error {
	return &Error{Kind: KindForbidden, Violations: []Violation{v}}
}

func Conflict(v Violation, err error) *Error {
	return &Error{Kind: KindConflict, Violations: []Violation{v}, Err: err}
}

// Unexpected envuelve fallos de infraestructura. El detalle queda en Err
// y nunca se expone hacia fuera.
func Unexpected(err error) *Error {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr
	}
	return &Error{Kind: KindUnexpected, Err: err}
}

// KindOf devuelve la clasificación de err. Un error ajeno al dominio es Unexpected.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Kind
	}
	return KindUnexpected
}

// IsKind ayuda a comprobar la clasificación.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Violations acumula reglas incumplidas sin cortar en la primera.
type Violations []Violation

func (vs *Violations) Add(v ...Violation) {
	*vs = append(*vs, v...)
}

// Merge incorpora las violaciones de un error de validación. Cualquier otro
// tipo de error se ignora y se devuelve false.
func (vs *Violations) Merge(err error) bool {
	if err == nil {
		return true
	}
	var dErr *Error
	if errors.As(err, &dErr) && dErr.Kind == KindValidation {
		vs.Add(dErr.Violations...)
		return true
	}
	return false
}

// Err devuelve nil si no hay nada acumulado.
func (vs Violations) Err() error {
	if len(vs) == 0 {
		return nil
	}
	out := make([]Violation, len(vs))
	copy(out, vs)
	return Validation(out...)
}
