package verifactu

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// SOAPClient implementa Submitter usando el WS SOAP RegFactuSistemaFacturacion
// de la AEAT. La autenticación con certificado de sello se configura en el
// http.Client inyectado (TLS mutuo).
type SOAPClient struct {
	httpClient *http.Client
	emisor     Emisor
}

// NewSOAPClient construye el cliente con un timeout de red generoso (60 s)
// ya que el WS de la AEAT puede tardar varios segundos en responder.
func NewSOAPClient(emisor Emisor, httpClient *http.Client) *SOAPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &SOAPClient{httpClient: httpClient, emisor: emisor}
}

// EnviarRegistro envía el registro de alta dentro de un sobre
// RegFactuSistemaFacturacion y extrae CSV y estado de la respuesta.
func (c *SOAPClient) EnviarRegistro(ctx context.Context, registroXML []byte, env string) (*SubmitResult, error) {
	var soapURL string
	switch env {
	case AppEnvProd:
		soapURL = soapURLProd
	case AppEnvTest:
		soapURL = soapURLTest
	default:
		return nil, fmt.Errorf("verifactu: entorno desconocido %q (usar 'test' o 'prod')", env)
	}

	payload, err := c.buildEnvelope(registroXML)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, soapURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("verifactu: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("verifactu: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("verifactu: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // max 1 MB
	if err != nil {
		return nil, fmt.Errorf("verifactu: leer respuesta: %w", err)
	}

	return c.parseResponse(rawBody)
}

// buildEnvelope envuelve el registro de alta en el sobre SOAP con la cabecera
// del obligado de emisión.
func (c *SOAPClient) buildEnvelope(registroXML []byte) ([]byte, error) {
	registro := etree.NewDocument()
	if err := registro.ReadFromBytes(registroXML); err != nil {
		return nil, fmt.Errorf("verifactu: registro de alta ilegible: %w", err)
	}

	doc := etree.NewDocument()
	envelope := doc.CreateElement("soapenv:Envelope")
	envelope.CreateAttr("xmlns:soapenv", soapNS)
	envelope.CreateAttr("xmlns:sum", sumNS)
	envelope.CreateAttr("xmlns:sf", sfNS)
	envelope.CreateElement("soapenv:Header")
	body := envelope.CreateElement("soapenv:Body")

	regFactu := body.CreateElement("sum:RegFactuSistemaFacturacion")
	cabecera := regFactu.CreateElement("sum:Cabecera")
	obligado := cabecera.CreateElement("sf:ObligadoEmision")
	obligado.CreateElement("sf:NombreRazon").SetText(c.emisor.Nombre)
	obligado.CreateElement("sf:NIF").SetText(c.emisor.NIF)

	registroFactura := regFactu.CreateElement("sum:RegistroFactura")
	registroFactura.AddChild(registro.Root().Copy())

	return doc.WriteToBytes()
}

// parseResponse extrae CSV, estado de envío y errores de línea de la
// RespuestaRegFactuSistemaFacturacion. Un fallo de parseo no aborta: se
// devuelve el cuerpo crudo como error para diagnóstico.
func (c *SOAPClient) parseResponse(rawBody []byte) (*SubmitResult, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return &SubmitResult{
			Aceptada: false,
			Errores:  "no se pudo parsear respuesta SOAP: " + string(rawBody),
		}, nil
	}

	// SOAP Fault (error de protocolo, autenticación, etc.)
	if fault := doc.FindElement("//Fault"); fault != nil {
		code := textoDe(fault, "faultcode")
		msg := textoDe(fault, "faultstring")
		return &SubmitResult{
			Aceptada: false,
			Errores:  fmt.Sprintf("SOAP Fault [%s]: %s", code, msg),
		}, nil
	}

	result := &SubmitResult{}
	if csv := doc.FindElement("//CSV"); csv != nil {
		result.CSV = strings.TrimSpace(csv.Text())
	}

	var errores []string
	estado := ""
	if e := doc.FindElement("//EstadoRegistro"); e != nil {
		estado = strings.TrimSpace(e.Text())
	}
	for _, e := range doc.FindElements("//DescripcionErrorRegistro") {
		if t := strings.TrimSpace(e.Text()); t != "" {
			errores = append(errores, t)
		}
	}

	switch estado {
	case "Correcto", "AceptadoConErrores":
		result.Aceptada = true
	case "":
		result.Errores = "respuesta SOAP vacía o inesperada: " + string(rawBody)
		return result, nil
	}
	result.Errores = strings.Join(errores, "; ")
	return result, nil
}

func textoDe(parent *etree.Element, tag string) string {
	if el := parent.FindElement(".//" + tag); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}
