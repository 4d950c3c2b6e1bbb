package tramitacion

import (
	"context"

	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
)

// Aislar ejecuta fn como subtransacción dentro de la transacción en curso.
// Si fn falla, solo sus escrituras se revierten y la transacción exterior
// sigue siendo utilizable. En PostgreSQL un INSERT fallido aborta la
// transacción entera; el savepoint es lo que permite tolerar el fallo y
// seguir escribiendo.
type Aislar func(ctx context.Context, fn func() error) error

// TxRunner ejecuta una función con los repositorios de tramitación atados a
// una misma transacción. El commit solo ocurre si fn devuelve nil.
type TxRunner interface {
	RunTramite(ctx context.Context, fn func(
		solRepo repository.SolicitudRepository,
		pedRepo repository.PedidoRepository,
		histRepo repository.HistorialRepository,
		aislar Aislar,
	) error) error
}

// CambioEstado datos que recibe el colaborador de notificaciones.
type CambioEstado struct {
	Documento         string // "solicitud N" legible para el asunto
	ClienteID         int64
	EstadoNuevo       string
	SubestadoNuevo    string
	EstadoAnterior    string
	SubestadoAnterior string
}

// Notificador puerto del colaborador de avisos por email. Se invoca tras el
// commit; un fallo se registra y nunca se propaga como fallo de la transición.
type Notificador interface {
	NotificarCambioEstado(ctx context.Context, cambio CambioEstado) (ok bool, mensaje string)
}

// Plazos días laborables de los plazos derivados del ciclo de la solicitud.
type Plazos struct {
	DiasMockup   int // fecha límite de mockup desde su primera entrada
	DiasObjetivo int // fecha objetivo de entrega desde la aceptación
}

// PlazosPorDefecto valores del taller: 3 días para mockup, 20 para entrega.
func PlazosPorDefecto() Plazos {
	return Plazos{DiasMockup: 3, DiasObjetivo: 20}
}

// historialDe construye una entrada de historial lista para añadir.
func historialDe(tipo entity.TipoCambio, parentID int64, lineaID, prevEstado, nuevoEstado, prevSub, nuevoSub string, actorID int64) *entity.HistorialCambio {
	return &entity.HistorialCambio{
		ParentID:          parentID,
		LineaID:           lineaID,
		Tipo:              tipo,
		EstadoAnterior:    prevEstado,
		EstadoNuevo:       nuevoEstado,
		SubestadoAnterior: prevSub,
		SubestadoNuevo:    nuevoSub,
		ActorID:           actorID,
	}
}
