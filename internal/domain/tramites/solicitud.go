// Package tramites contiene las tablas de transición de solicitudes y
// pedidos: qué estados existen, qué subestados admite cada estado y qué
// datos adicionales exige una transición. Es lógica pura; la persistencia,
// el historial y las notificaciones las orquesta la capa de aplicación.
package tramites

import (
	"fmt"

	"github.com/jmm-1987/taller-pedidos/internal/domain"
	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
)

// estadosSolicitud conjunto de estados legales de una solicitud.
var estadosSolicitud = map[entity.EstadoSolicitud]struct{}{
	entity.EstadoPresupuesto:      {},
	entity.EstadoRechazado:        {},
	entity.EstadoAceptado:         {},
	entity.EstadoMockup:           {},
	entity.EstadoEnPreparacion:    {},
	entity.EstadoTerminado:        {},
	entity.EstadoEntregadoCliente: {},
}

// subestadosPorEstado dominio de subestados por estado. Los estados que no
// aparecen no admiten subestado.
var subestadosPorEstado = map[entity.EstadoSolicitud][]string{
	entity.EstadoMockup: {
		entity.SubestadoEncargadoA,
		entity.SubestadoRevisionCliente,
		entity.SubestadoCambios1,
		entity.SubestadoCambios2,
		entity.SubestadoMockupRechazado,
		entity.SubestadoMockupAceptado,
	},
	entity.EstadoEnPreparacion: {
		entity.SubestadoHacerMarcada,
		entity.SubestadoImprimir,
		entity.SubestadoCalandra,
		entity.SubestadoCorte,
		entity.SubestadoConfeccion,
		entity.SubestadoSublimacion,
		entity.SubestadoBordado,
	},
}

// EstadoSolicitudValido indica si el estado destino existe.
func EstadoSolicitudValido(e entity.EstadoSolicitud) bool {
	_, ok := estadosSolicitud[e]
	return ok
}

// SubestadoValido indica si el subestado pertenece al dominio del estado.
// El subestado vacío siempre es válido (estado sin subestado).
func SubestadoValido(e entity.EstadoSolicitud, sub string) bool {
	if sub == "" {
		return true
	}
	for _, s := range subestadosPorEstado[e] {
		if s == sub {
			return true
		}
	}
	return false
}

// PeticionSolicitud transición solicitada sobre una solicitud.
type PeticionSolicitud struct {
	Estado     entity.EstadoSolicitud
	Subestado  string
	EncargadoA string // obligatorio cuando Subestado = "encargado a"
}

// ValidarSolicitud comprueba la legalidad de la transición sin mutar nada.
// Devuelve un error de dominio identificando la restricción incumplida.
func ValidarSolicitud(p PeticionSolicitud) error {
	if !EstadoSolicitudValido(p.Estado) {
		return fmt.Errorf("%w: estado %q desconocido", domain.ErrTransicionInvalida, p.Estado)
	}
	if !SubestadoValido(p.Estado, p.Subestado) {
		return fmt.Errorf("%w: %q no admite subestado %q", domain.ErrSubestadoInvalido, p.Estado, p.Subestado)
	}
	if p.Subestado == entity.SubestadoEncargadoA && p.EncargadoA == "" {
		return domain.ErrEncargadoRequerido
	}
	return nil
}

// Aplicar muta estado y subestado de la solicitud según la regla de reinicio:
// cambiar de estado vacía siempre el subestado, y solo después se aplica el
// subestado pedido en la misma llamada, si lo hay.
func Aplicar(s *entity.Solicitud, p PeticionSolicitud) {
	if s.Estado != p.Estado {
		s.Subestado = ""
		s.EncargadoA = ""
	}
	s.Estado = p.Estado
	if p.Subestado != "" {
		s.Subestado = p.Subestado
	}
	if p.Subestado == entity.SubestadoEncargadoA {
		s.EncargadoA = p.EncargadoA
	}
}
