package entity

import "time"

// EstadoSolicitud estado principal del ciclo de vida de una solicitud/presupuesto.
type EstadoSolicitud string

const (
	EstadoPresupuesto       EstadoSolicitud = "presupuesto"
	EstadoRechazado         EstadoSolicitud = "rechazado"
	EstadoAceptado          EstadoSolicitud = "aceptado"
	EstadoMockup            EstadoSolicitud = "mockup"
	EstadoEnPreparacion     EstadoSolicitud = "en_preparacion"
	EstadoTerminado         EstadoSolicitud = "terminado"
	EstadoEntregadoCliente  EstadoSolicitud = "entregado_al_cliente"
)

// Subestados del estado mockup.
const (
	SubestadoEncargadoA      = "encargado a"
	SubestadoRevisionCliente = "REVISIÓN CLIENTE"
	SubestadoCambios1        = "CAMBIOS 1"
	SubestadoCambios2        = "CAMBIOS 2"
	SubestadoMockupRechazado = "RECHAZADO"
	SubestadoMockupAceptado  = "aceptado"
)

// Subestados del estado en_preparacion (fases de taller).
const (
	SubestadoHacerMarcada = "hacer marcada"
	SubestadoImprimir     = "imprimir"
	SubestadoCalandra     = "calandra"
	SubestadoCorte        = "corte"
	SubestadoConfeccion   = "confeccion"
	SubestadoSublimacion  = "sublimacion"
	SubestadoBordado      = "bordado"
)

// Solicitud representa un presupuesto de personalización pendiente de tramitar.
// Cada estado del pipeline principal tiene su fecha propia, que se escribe una
// sola vez en la primera entrada al estado y nunca se sobreescribe.
type Solicitud struct {
	ID              int64
	NumeroSolicitud string // formato YYMM_NN, secuencia mensual
	ClienteID       int64
	ComercialID     int64
	Tipo            string // tipo de trabajo (equipación, ropa laboral, ...)
	Estado          EstadoSolicitud
	Subestado       string // vacío salvo en mockup / en_preparacion
	EncargadoA      string // responsable cuando subestado = "encargado a"
	ImagenesDiseno  []string

	FechaPresupuesto      *time.Time
	FechaRespuesta        *time.Time // rechazado usa este campo (alias heredado)
	FechaAceptado         *time.Time
	FechaMockup           *time.Time
	FechaEnPreparacion    *time.Time
	FechaTerminado        *time.Time
	FechaEntregadoCliente *time.Time

	FechaLimiteMockup *time.Time // entrada a mockup + 3 días laborables
	FechaObjetivo     *time.Time // entrada a aceptado + 20 días laborables

	Lineas []*LineaSolicitud

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MarcarFecha estampa la fecha del estado indicado si aún no está escrita.
// El switch por estado sustituye la búsqueda dinámica de campos por nombre:
// añadir un estado sin su rama no compila en los tests de exhaustividad.
func (s *Solicitud) MarcarFecha(estado EstadoSolicitud, hoy time.Time) {
	campo := s.campoFecha(estado)
	if campo != nil && *campo == nil {
		t := hoy
		*campo = &t
	}
}

// FechaDe devuelve la fecha estampada para el estado (nil si no se ha entrado).
func (s *Solicitud) FechaDe(estado EstadoSolicitud) *time.Time {
	campo := s.campoFecha(estado)
	if campo == nil {
		return nil
	}
	return *campo
}

func (s *Solicitud) campoFecha(estado EstadoSolicitud) **time.Time {
	switch estado {
	case EstadoPresupuesto:
		return &s.FechaPresupuesto
	case EstadoRechazado:
		return &s.FechaRespuesta
	case EstadoAceptado:
		return &s.FechaAceptado
	case EstadoMockup:
		return &s.FechaMockup
	case EstadoEnPreparacion:
		return &s.FechaEnPreparacion
	case EstadoTerminado:
		return &s.FechaTerminado
	case EstadoEntregadoCliente:
		return &s.FechaEntregadoCliente
	}
	return nil
}
