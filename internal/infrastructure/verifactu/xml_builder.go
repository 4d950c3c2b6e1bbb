package verifactu

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
)

// RegistroBuildContext datos necesarios para construir un registro de alta.
type RegistroBuildContext struct {
	Factura        *entity.Factura
	Cliente        *entity.Cliente
	Emisor         Emisor
	Software       Software
	HuellaAnterior string    // vacía para el primer registro de la cadena
	FechaHoraGen   time.Time // instante de generación, con huso
}

// RegistroBuilder construye el XML del registro de alta Verifactu
// (RegistroAlta del esquema SuministroLR) y calcula su huella encadenada.
type RegistroBuilder struct{}

// NewRegistroBuilder crea el servicio.
func NewRegistroBuilder() *RegistroBuilder {
	return &RegistroBuilder{}
}

// RegistroGenerado resultado de la construcción: XML canónico y huella.
type RegistroGenerado struct {
	XML    []byte
	Huella string
}

// Build genera el registro de alta con la huella ya incrustada. El XML
// resultante se canonicaliza (C14N) para que la representación persistida y
// la enviada sean byte a byte la misma.
func (b *RegistroBuilder) Build(ctx *RegistroBuildContext) (*RegistroGenerado, error) {
	if ctx == nil || ctx.Factura == nil || ctx.Cliente == nil {
		return nil, fmt.Errorf("verifactu: faltan factura o cliente en el contexto")
	}
	f := ctx.Factura
	if f.Numero == "" {
		return nil, fmt.Errorf("verifactu: la factura %s no tiene número asignado", f.ID)
	}

	tipoFactura := "F1"
	if f.Tipo == entity.DocTicket {
		tipoFactura = "F2" // factura simplificada
	}

	cuota := f.CuotaTotal.Round(2).StringFixed(2)
	total := f.Total.Round(2).StringFixed(2)

	huella := CalcularHuella(DatosHuella{
		NIFEmisor:       ctx.Emisor.NIF,
		NumSerieFactura: f.Numero,
		FechaExpedicion: f.Fecha,
		TipoFactura:     tipoFactura,
		CuotaTotal:      cuota,
		ImporteTotal:    total,
		HuellaAnterior:  ctx.HuellaAnterior,
		FechaHoraGen:    ctx.FechaHoraGen,
	})

	doc := etree.NewDocument()
	reg := doc.CreateElement("sum:RegistroAlta")
	reg.CreateAttr("xmlns:sum", sumNS)
	reg.CreateAttr("xmlns:sf", sfNS)

	reg.CreateElement("sf:IDVersion").SetText("1.0")

	idFactura := reg.CreateElement("sf:IDFactura")
	idFactura.CreateElement("sf:IDEmisorFactura").SetText(ctx.Emisor.NIF)
	idFactura.CreateElement("sf:NumSerieFactura").SetText(f.Numero)
	idFactura.CreateElement("sf:FechaExpedicionFactura").SetText(f.Fecha.Format("02-01-2006"))

	reg.CreateElement("sf:NombreRazonEmisor").SetText(ctx.Emisor.Nombre)
	reg.CreateElement("sf:TipoFactura").SetText(tipoFactura)
	reg.CreateElement("sf:DescripcionOperacion").SetText(descripcionOperacion(f))

	// Las facturas completas identifican al destinatario; las simplificadas no.
	if tipoFactura == "F1" {
		dest := reg.CreateElement("sf:Destinatarios").CreateElement("sf:IDDestinatario")
		dest.CreateElement("sf:NombreRazon").SetText(ctx.Cliente.Nombre)
		dest.CreateElement("sf:NIF").SetText(ctx.Cliente.NIF)
	}

	b.writeDesglose(reg, f)

	reg.CreateElement("sf:CuotaTotal").SetText(cuota)
	reg.CreateElement("sf:ImporteTotal").SetText(total)

	enc := reg.CreateElement("sf:Encadenamiento")
	if ctx.HuellaAnterior == "" {
		enc.CreateElement("sf:PrimerRegistro").SetText("S")
	} else {
		anterior := enc.CreateElement("sf:RegistroAnterior")
		anterior.CreateElement("sf:Huella").SetText(ctx.HuellaAnterior)
	}

	b.writeSistemaInformatico(reg, ctx.Software)

	reg.CreateElement("sf:FechaHoraHusoGenRegistro").SetText(ctx.FechaHoraGen.Format(FormatoFechaHora))
	reg.CreateElement("sf:TipoHuella").SetText("01") // 01 = SHA-256
	reg.CreateElement("sf:Huella").SetText(huella)

	raw, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("verifactu: serializar registro: %w", err)
	}
	canonical, err := c14n.Canonicalize(xml.NewDecoder(bytes.NewReader(raw)))
	if err != nil {
		return nil, fmt.Errorf("verifactu: canonicalizar registro: %w", err)
	}
	return &RegistroGenerado{XML: canonical, Huella: huella}, nil
}

// writeDesglose agrupa las líneas por tipo impositivo y emite un
// DetalleDesglose por cada tipo, con base y cuota redondeadas a dos decimales.
func (b *RegistroBuilder) writeDesglose(reg *etree.Element, f *entity.Factura) {
	type acumulado struct {
		base  decimal.Decimal
		cuota decimal.Decimal
	}
	porTipo := map[string]*acumulado{}
	orden := []string{}
	for _, l := range f.Lineas {
		clave := l.TipoIVA.Mul(decimal.NewFromInt(100)).Round(2).StringFixed(2)
		acc, ok := porTipo[clave]
		if !ok {
			acc = &acumulado{}
			porTipo[clave] = acc
			orden = append(orden, clave)
		}
		acc.base = acc.base.Add(l.Base)
		acc.cuota = acc.cuota.Add(l.Base.Mul(l.TipoIVA))
	}

	desglose := reg.CreateElement("sf:Desglose")
	for _, clave := range orden {
		acc := porTipo[clave]
		det := desglose.CreateElement("sf:DetalleDesglose")
		det.CreateElement("sf:Impuesto").SetText("01") // 01 = IVA
		det.CreateElement("sf:ClaveRegimen").SetText("01")
		det.CreateElement("sf:CalificacionOperacion").SetText("S1")
		det.CreateElement("sf:TipoImpositivo").SetText(clave)
		det.CreateElement("sf:BaseImponibleOimporteNoSujeto").SetText(acc.base.Round(2).StringFixed(2))
		det.CreateElement("sf:CuotaRepercutida").SetText(acc.cuota.Round(2).StringFixed(2))
	}
}

func (b *RegistroBuilder) writeSistemaInformatico(reg *etree.Element, sw Software) {
	si := reg.CreateElement("sf:SistemaInformatico")
	si.CreateElement("sf:NombreRazon").SetText(sw.NombreRazon)
	si.CreateElement("sf:NIF").SetText(sw.NIF)
	si.CreateElement("sf:NombreSistemaInformatico").SetText(sw.Nombre)
	si.CreateElement("sf:IdSistemaInformatico").SetText(sw.ID)
	si.CreateElement("sf:Version").SetText(sw.Version)
	si.CreateElement("sf:NumeroInstalacion").SetText(sw.NumeroInstalacion)
	si.CreateElement("sf:TipoUsoPosibleSoloVerifactu").SetText(valorSN(sw.SoloVerifactu))
	si.CreateElement("sf:TipoUsoPosibleMultiOT").SetText(valorSN(sw.MultiOT))
}

func valorSN(v string) string {
	if v == "" {
		return "N"
	}
	return v
}

// descripcionOperacion resume las líneas en una descripción corta (máx. 500
// caracteres según esquema; aquí truncamos muy por debajo).
func descripcionOperacion(f *entity.Factura) string {
	if len(f.Lineas) == 0 {
		return "Venta de productos personalizados"
	}
	desc := f.Lineas[0].Concepto
	if len(f.Lineas) > 1 {
		desc = fmt.Sprintf("%s y %d conceptos más", desc, len(f.Lineas)-1)
	}
	if len(desc) > 250 {
		desc = desc[:250]
	}
	return desc
}
