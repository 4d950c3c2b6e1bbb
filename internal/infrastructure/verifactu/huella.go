package verifactu

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// DatosHuella campos del registro de alta que entran en el cálculo de la
// huella. La huella anterior vacía marca el primer registro de la cadena.
type DatosHuella struct {
	NIFEmisor       string
	NumSerieFactura string
	FechaExpedicion time.Time // se serializa como dd-mm-aaaa
	TipoFactura     string    // F1, F2, R1...
	CuotaTotal      string    // importe ya formateado con dos decimales
	ImporteTotal    string
	HuellaAnterior  string
	FechaHoraGen    time.Time // ISO 8601 con huso, segundo exacto
}

// FormatoFechaHora formato ISO 8601 con huso horario exigido en
// FechaHoraHusoGenRegistro.
const FormatoFechaHora = "2006-01-02T15:04:05-07:00"

// CalcularHuella calcula la huella SHA-256 del registro de alta: se concatenan
// los campos en orden fijo como pares campo=valor separados por "&", se aplica
// SHA-256 sobre la cadena UTF-8 y se devuelve el resultado en hexadecimal
// mayúsculas. Los valores entran recortados de espacios.
func CalcularHuella(d DatosHuella) string {
	campos := []string{
		"IDEmisorFactura=" + strings.TrimSpace(d.NIFEmisor),
		"NumSerieFactura=" + strings.TrimSpace(d.NumSerieFactura),
		"FechaExpedicionFactura=" + d.FechaExpedicion.Format("02-01-2006"),
		"TipoFactura=" + strings.TrimSpace(d.TipoFactura),
		"CuotaTotal=" + strings.TrimSpace(d.CuotaTotal),
		"ImporteTotal=" + strings.TrimSpace(d.ImporteTotal),
		"Huella=" + strings.TrimSpace(d.HuellaAnterior),
		"FechaHoraHusoGenRegistro=" + d.FechaHoraGen.Format(FormatoFechaHora),
	}
	suma := sha256.Sum256([]byte(strings.Join(campos, "&")))
	return strings.ToUpper(hex.EncodeToString(suma[:]))
}
