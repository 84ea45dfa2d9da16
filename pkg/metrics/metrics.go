package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contadores Prometheus del motor de inventario.
type Metrics struct {
	TransactionsTotal  *prometheus.CounterVec
	LedgerEntriesTotal prometheus.Counter
	InsufficientStock  prometheus.Counter
	InvalidTransitions prometheus.Counter
}

// New registra los contadores en el registry por defecto.
func New() *Metrics {
	return &Metrics{
		TransactionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kardex_transactions_total",
			Help: "Eventos de inventario orquestados, por tipo y resultado.",
		}, []string{"type", "status"}),
		LedgerEntriesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kardex_ledger_entries_total",
			Help: "Asientos agregados al kardex (stock_ledger).",
		}),
		InsufficientStock: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kardex_insufficient_stock_total",
			Help: "Operaciones rechazadas por stock insuficiente.",
		}),
		InvalidTransitions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kardex_invalid_transitions_total",
			Help: "Transiciones de estado rechazadas en documentos.",
		}),
	}
}

// Nop devuelve métricas sin registrar (tests).
func Nop() *Metrics {
	return &Metrics{
		TransactionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kardex_transactions_total_nop",
		}, []string{"type", "status"}),
		LedgerEntriesTotal: prometheus.NewCounter(prometheus.CounterOpts{Name: "kardex_ledger_entries_total_nop"}),
		InsufficientStock:  prometheus.NewCounter(prometheus.CounterOpts{Name: "kardex_insufficient_stock_total_nop"}),
		InvalidTransitions: prometheus.NewCounter(prometheus.CounterOpts{Name: "kardex_invalid_transitions_total_nop"}),
	}
}
