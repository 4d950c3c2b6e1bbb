// Package numeracion genera los números legibles de documento: facturas,
// tickets, albaranes y solicitudes. Cada clase tiene su prefijo y su ámbito
// temporal (año, o año+mes con reinicio mensual).
//
// La secuencia la mantiene un contador dedicado por clase y periodo con
// incremento atómico en almacenamiento; este paquete solo decide prefijos,
// ámbitos y formato. Los números son únicos y monótonos dentro del periodo.
package numeracion

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clase de documento numerable.
type Clase string

const (
	ClaseFactura   Clase = "factura"
	ClaseTicket    Clase = "ticket"
	ClaseAlbaran   Clase = "albaran"
	ClaseSolicitud Clase = "solicitud"
)

// Valida indica si la clase es conocida.
func (c Clase) Valida() bool {
	switch c {
	case ClaseFactura, ClaseTicket, ClaseAlbaran, ClaseSolicitud:
		return true
	}
	return false
}

// Periodo devuelve la clave de periodo de la clase en la fecha ancla:
// facturas y tickets van por año ("25"), albaranes y solicitudes por
// año+mes ("2508") con reinicio mensual de la secuencia.
func (c Clase) Periodo(ancla time.Time) string {
	switch c {
	case ClaseFactura, ClaseTicket:
		return ancla.Format("06")
	default:
		return ancla.Format("0601")
	}
}

// Prefijo devuelve el prefijo textual completo del número, separador incluido.
func (c Clase) Prefijo(periodo string) string {
	switch c {
	case ClaseFactura:
		return "F" + periodo
	case ClaseTicket:
		return "T" + periodo
	case ClaseAlbaran:
		return "A" + periodo + "_"
	case ClaseSolicitud:
		return periodo + "_"
	}
	return ""
}

// Formatear compone el número completo para la secuencia n del periodo.
// Facturas y tickets sin relleno; albaranes a 3 dígitos; solicitudes a 2.
func (c Clase) Formatear(periodo string, n int64) string {
	switch c {
	case ClaseFactura, ClaseTicket:
		return c.Prefijo(periodo) + strconv.FormatInt(n, 10)
	case ClaseAlbaran:
		return fmt.Sprintf("%s%03d", c.Prefijo(periodo), n)
	case ClaseSolicitud:
		return fmt.Sprintf("%s%02d", c.Prefijo(periodo), n)
	}
	return ""
}

// MaxSufijo devuelve el mayor sufijo numérico entre los números que empiezan
// exactamente por el prefijo (0 si ninguno casa). Se usa para sembrar los
// contadores a partir de documentos ya existentes.
func MaxSufijo(numeros []string, prefijo string) int64 {
	var max int64
	for _, num := range numeros {
		if !strings.HasPrefix(num, prefijo) {
			continue
		}
		sufijo := num[len(prefijo):]
		n, err := strconv.ParseInt(sufijo, 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max
}

// Contador puerto de incremento atómico de la secuencia por clase y periodo.
// La implementación debe garantizar que dos llamadas concurrentes nunca
// devuelven el mismo valor.
type Contador interface {
	Incrementar(ctx context.Context, clase Clase, periodo string) (int64, error)
}

// Servicio emite números de documento sobre un Contador.
type Servicio struct {
	contador Contador
	ahora    func() time.Time
}

// NuevoServicio construye el servicio de numeración.
func NuevoServicio(contador Contador) *Servicio {
	return &Servicio{contador: contador, ahora: time.Now}
}

// ConReloj fija el reloj (tests).
func (s *Servicio) ConReloj(ahora func() time.Time) *Servicio {
	s.ahora = ahora
	return s
}

// Siguiente devuelve el siguiente número de la clase. Si ancla es el valor
// cero se usa la fecha actual. Una clase sin documentos previos en el
// periodo arranca en 1.
func (s *Servicio) Siguiente(ctx context.Context, clase Clase, ancla time.Time) (string, error) {
	if !clase.Valida() {
		return "", fmt.Errorf("clase de documento desconocida: %q", clase)
	}
	if ancla.IsZero() {
		ancla = s.ahora()
	}
	periodo := clase.Periodo(ancla)
	n, err := s.contador.Incrementar(ctx, clase, periodo)
	if err != nil {
		return "", fmt.Errorf("incrementar contador %s/%s: %w", clase, periodo, err)
	}
	return clase.Formatear(periodo, n), nil
}
