package repository

import (
	"context"

	"github.com/jmm-1987/taller-pedidos/internal/domain/numeracion"
)

// ContadorRepository puerto del contador atómico de numeración. Sustituye al
// escaneo de números existentes: una fila por clase y periodo, incrementada
// con UPDATE ... RETURNING, de modo que dos peticiones concurrentes nunca
// reciben el mismo valor.
type ContadorRepository interface {
	numeracion.Contador
	// Sembrar fija el contador de la clase/periodo si el valor propuesto es
	// mayor que el actual. Se usa al migrar documentos con números ya asignados.
	Sembrar(ctx context.Context, clase numeracion.Clase, periodo string, valor int64) error
}
