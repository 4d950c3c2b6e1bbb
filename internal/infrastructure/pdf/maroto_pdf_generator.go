// Package pdf implementa la representación gráfica de los documentos del
// taller: facturas, albaranes y tickets formalizados, y presupuestos para
// enviar al cliente.
//
// Layout de la página A4 (factura):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor + NIF  │  Tipo + Número + Fecha             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + NIF + contacto                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Concepto | P.Unit | IVA | Base               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Base / Cuota IVA / TOTAL                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER VERIFACTU: QR de cotejo AEAT + leyenda              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jmm-1987/taller-pedidos/internal/application/facturacion"
	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/infrastructure/verifactu"
)

// URL de cotejo de facturas Verifactu publicada por la AEAT.
const urlCotejoQR = "https://www2.agenciatributaria.gob.es/wlpl/TIKE-CONT/ValidarQR"

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa facturacion.GeneradorPDF usando Maroto v2.
type MarotoPDFGenerator struct {
	emisor verifactu.Emisor
}

var _ facturacion.GeneradorPDF = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador con los datos del emisor que
// encabezan todos los documentos.
func NewMarotoPDFGenerator(emisor verifactu.Emisor) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{emisor: emisor}
}

// GenerarFacturaPDF genera el PDF de una factura, albarán o ticket formalizado.
func (g *MarotoPDFGenerator) GenerarFacturaPDF(
	_ context.Context,
	f *entity.Factura,
	cliente *entity.Cliente,
	lineas []*entity.LineaFactura,
) ([]byte, error) {
	titulo := tituloDocumento(f.Tipo)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(titulo, true).
		WithAuthor(g.emisor.Nombre, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(titulo, f.Numero, f.Fecha.Format("02/01/2006")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clienteRow(cliente))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tablaCabeceraRow())
	for _, l := range lineas {
		m.AddRows(lineaFacturaRow(l))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalesRow(f))

	// El pie Verifactu solo aplica a documentos con trascendencia fiscal;
	// los albaranes no se remiten a la AEAT.
	if f.Tipo != entity.DocAlbaran {
		m.AddRows(line.NewRow(3))
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		for _, r := range g.verifactuFooterRows(f) {
			m.AddRows(r)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// GenerarPresupuestoPDF genera el PDF de una solicitud para enviar al cliente.
// Las líneas muestran el precio unitario ya con el descuento aplicado.
func (g *MarotoPDFGenerator) GenerarPresupuestoPDF(
	_ context.Context,
	s *entity.Solicitud,
	cliente *entity.Cliente,
) ([]byte, error) {
	fecha := ""
	if s.FechaPresupuesto != nil {
		fecha = s.FechaPresupuesto.Format("02/01/2006")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Presupuesto "+s.NumeroSolicitud, true).
		WithAuthor(g.emisor.Nombre, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow("PRESUPUESTO", s.NumeroSolicitud, fecha))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clienteRow(cliente))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tablaPresupuestoCabeceraRow())
	total := decimal.Zero
	for _, l := range s.Lineas {
		m.AddRows(lineaPresupuestoRow(l))
		total = total.Add(l.PrecioFinal().Mul(decimal.NewFromInt(int64(l.Cantidad))))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalPresupuestoRow(total))

	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(
			"Presupuesto sin compromiso. Los importes no incluyen IVA. "+
				"Validez: 30 días desde la fecha de emisión.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor + NIF (izq) y tipo de documento + número + fecha (der).
func (g *MarotoPDFGenerator) headerRow(titulo, numero, fecha string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.emisor.Nombre, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIF: "+g.emisor.NIF, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(strings.ToUpper(titulo), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(numero, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// clienteRow: datos del cliente destinatario.
func clienteRow(cliente *entity.Cliente) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(cliente.Nombre, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("NIF: %s   |   Email: %s   |   Tel: %s",
				nonEmpty(cliente.NIF, "—"),
				nonEmpty(cliente.Email, "—"),
				nonEmpty(cliente.Telefono, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tablaCabeceraRow: cabecera de la tabla de líneas de factura.
func tablaCabeceraRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Concepto", 5, align.Left),
		h("P. Unit.", 2, align.Right),
		h("IVA", 1, align.Center),
		h("Base", 3, align.Right),
	)
}

// lineaFacturaRow: una fila por línea de factura.
func lineaFacturaRow(l *entity.LineaFactura) core.Row {
	return row.New(7).Add(
		col.New(1).Add(text.New(
			l.Cantidad.StringFixed(0),
			props.Text{Size: 8, Align: align.Center, Top: 1},
		)),
		col.New(5).Add(text.New(
			l.Concepto,
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
		)),
		col.New(2).Add(text.New(
			formatEuros(l.PrecioUnit),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
		col.New(1).Add(text.New(
			l.TipoIVA.Mul(decimal.NewFromInt(100)).StringFixed(0)+"%",
			props.Text{Size: 8, Align: align.Center, Top: 1},
		)),
		col.New(3).Add(text.New(
			formatEuros(l.Base),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
	)
}

// totalesRow: bloque de totales alineado a la derecha.
func totalesRow(f *entity.Factura) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Base imponible:"),
			label("Cuota IVA:"),
			grandLabel("TOTAL:"),
		),
		col.New(3).Add(
			value(formatEuros(f.BaseTotal)),
			value(formatEuros(f.CuotaTotal)),
			grandValue(formatEuros(f.Total)),
		),
		col.New(3),
	)
}

// verifactuFooterRows: QR de cotejo + huella + leyenda legal.
func (g *MarotoPDFGenerator) verifactuFooterRows(f *entity.Factura) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("FACTURA VERIFICABLE EN LA SEDE ELECTRÓNICA DE LA AEAT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	rows = append(rows, row.New(40).Add(
		col.New(4).Add(code.NewQr(g.datosQR(f), props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(8).Add(
			text.New("Escanee el código QR para cotejar\nesta factura en la sede de la AEAT.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("VERI*FACTU", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 20,
				Left: 3, Color: colorPrimary,
			}),
		),
	))

	if f.Huella != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Huella: "+f.Huella, props.Text{
				Size: 6.5, Color: colorGray, Top: 1,
			}),
		)))
	}
	if f.CSV != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("CSV: "+f.CSV, props.Text{
				Size: 6.5, Color: colorGray, Top: 1,
			}),
		)))
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Factura expedida por un sistema informático de facturación conforme "+
				"al Real Decreto 1007/2023. Conserve este documento como soporte fiscal.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	return rows
}

// datosQR compone la URL de cotejo con NIF, serie, fecha e importe.
func (g *MarotoPDFGenerator) datosQR(f *entity.Factura) string {
	q := url.Values{}
	q.Set("nif", g.emisor.NIF)
	q.Set("numserie", f.Numero)
	q.Set("fecha", f.Fecha.Format("02-01-2006"))
	q.Set("importe", f.Total.StringFixed(2))
	return urlCotejoQR + "?" + q.Encode()
}

// ── Presupuesto ───────────────────────────────────────────────────────────────

func tablaPresupuestoCabeceraRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Prenda", 4, align.Left),
		h("Detalle", 3, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Importe", 2, align.Right),
	)
}

func lineaPresupuestoRow(l *entity.LineaSolicitud) core.Row {
	precio := l.PrecioFinal()
	importe := precio.Mul(decimal.NewFromInt(int64(l.Cantidad)))
	detalle := detalleLinea(l)

	return row.New(7).Add(
		col.New(1).Add(text.New(
			fmt.Sprintf("%d", l.Cantidad),
			props.Text{Size: 8, Align: align.Center, Top: 1},
		)),
		col.New(4).Add(text.New(
			l.Nombre,
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
		)),
		col.New(3).Add(text.New(
			detalle,
			props.Text{Size: 7, Align: align.Left, Top: 1, Left: 1, Color: colorGray},
		)),
		col.New(2).Add(text.New(
			formatEuros(precio),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
		col.New(2).Add(text.New(
			formatEuros(importe),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
	)
}

func totalPresupuestoRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL PRESUPUESTO:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(formatEuros(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// detalleLinea concatena color, forma y tallas presentes.
func detalleLinea(l *entity.LineaSolicitud) string {
	var partes []string
	if l.Color != "" {
		partes = append(partes, l.Color)
	}
	if l.Forma != "" {
		partes = append(partes, l.Forma)
	}
	if l.Tallas != "" {
		partes = append(partes, "tallas "+l.Tallas)
	}
	return strings.Join(partes, " / ")
}

// ── helpers ───────────────────────────────────────────────────────────────────

func tituloDocumento(tipo entity.TipoDocumento) string {
	switch tipo {
	case entity.DocAlbaran:
		return "Albarán"
	case entity.DocTicket:
		return "Factura simplificada"
	default:
		return "Factura"
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatEuros formatea un importe con coma decimal y puntos de miles.
// Ej: 1234.5 → "1.234,50 €"
func formatEuros(d decimal.Decimal) string {
	s := d.StringFixed(2) // "-1234.50"
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	entero, dec, _ := strings.Cut(s, ".")
	n := len(entero)
	buf := make([]byte, 0, n+n/3)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, entero[i])
	}

	out := string(buf) + "," + dec + " €"
	if neg {
		out = "-" + out
	}
	return out
}
