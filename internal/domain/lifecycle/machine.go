// Package lifecycle implementa la máquina de estados genérica (tabla de
// transiciones permitidas) que consultan los documentos que afectan stock
// antes de invocar al orquestador. Una sola implementación, parametrizada por
// el enum de estados, reutilizada por todos los tipos de documento.
package lifecycle

import "github.com/jhoicas/kardex-api/internal/domain"

// Machine valida transiciones contra una tabla cerrada estado -> estados destino.
type Machine[S ~string] struct {
	document    string
	transitions map[S][]S
}

// NewMachine construye la máquina para un tipo de documento.
// Los estados sin entrada en la tabla (o con lista vacía) son terminales.
func NewMachine[S ~string](document string, transitions map[S][]S) *Machine[S] {
	return &Machine[S]{document: document, transitions: transitions}
}

// Can indica si la transición from -> to está permitida.
func (m *Machine[S]) Can(from, to S) bool {
	for _, s := range m.transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition valida la transición; retorna InvalidTransitionError si no está en la tabla.
func (m *Machine[S]) Transition(from, to S) error {
	if !m.Can(from, to) {
		return &domain.InvalidTransitionError{
			Document: m.document,
			From:     string(from),
			To:       string(to),
		}
	}
	return nil
}

// IsTerminal indica si el estado no tiene transiciones de salida.
func (m *Machine[S]) IsTerminal(s S) bool {
	return len(m.transitions[s]) == 0
}
