package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNoEncontrado          = errors.New("recurso no encontrado")
	ErrEntradaInvalida       = errors.New("entrada inválida")
	ErrDuplicado             = errors.New("recurso duplicado")
	ErrNoAutorizado          = errors.New("no autorizado")
	ErrAccesoDenegado        = errors.New("acceso denegado")
	ErrConflicto             = errors.New("conflicto con el estado actual")
	ErrTransicionInvalida    = errors.New("transición de estado no permitida")
	ErrSubestadoInvalido     = errors.New("subestado no válido para el estado")
	ErrEncargadoRequerido    = errors.New("el subestado 'encargado a' requiere indicar responsable")
	ErrLineaAjena            = errors.New("la línea no pertenece al pedido indicado")
	ErrEmailYaRegistrado     = errors.New("el email ya está registrado")
	ErrCredencialesInvalidas = errors.New("credenciales inválidas")
	ErrFacturaYaFormalizada  = errors.New("la factura ya está formalizada")
)
