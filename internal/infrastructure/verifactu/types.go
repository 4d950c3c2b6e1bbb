package verifactu

import "context"

// ── Constantes de entorno ──────────────────────────────────────────────────────

const (
	// AppEnvTest es el identificador del entorno de pruebas de la AEAT.
	AppEnvTest = "test"
	// AppEnvProd es el identificador del entorno de producción de la AEAT.
	AppEnvProd = "prod"
	// AppEnvDev es el identificador local: no envía al WS de la AEAT.
	AppEnvDev = "dev"

	soapURLTest = "https://prewww1.aeat.es/wlpl/TIKE-CONT/ws/SistemaFacturacion/VerifactuSOAP"
	soapURLProd = "https://www1.agenciatributaria.gob.es/wlpl/TIKE-CONT/ws/SistemaFacturacion/VerifactuSOAP"

	soapNS = "http://schemas.xmlsoap.org/soap/envelope/"
	sumNS  = "https://www2.agenciatributaria.gob.es/static_files/common/internet/dep/aplicaciones/es/aeat/tike/cont/ws/SuministroLR.xsd"
	sfNS   = "https://www2.agenciatributaria.gob.es/static_files/common/internet/dep/aplicaciones/es/aeat/tike/cont/ws/SuministroInformacion.xsd"
)

// Emisor datos del obligado a expedir factura que firma los registros.
type Emisor struct {
	NIF    string
	Nombre string
}

// Software identificación del sistema informático de facturación, tal como
// exige el registro de alta (bloque SistemaInformatico).
type Software struct {
	NombreRazon       string
	NIF               string
	Nombre            string
	ID                string // dos caracteres asignados por el productor
	Version           string
	NumeroInstalacion string
	SoloVerifactu     string // "S" o "N" (TipoUsoPosibleSoloVerifactu)
	MultiOT           string // "S" o "N" (TipoUsoPosibleMultiOT)
}

// SubmitResult resultado de la entrega de un registro de alta al WS de la AEAT.
type SubmitResult struct {
	CSV      string // código seguro de verificación devuelto en la respuesta
	Aceptada bool   // true si EstadoRegistro == "Correcto"
	Errores  string // descripción de errores de registro o de envío
}

// Submitter define el puerto de salida para la entrega de registros Verifactu.
// La implementación concreta usa SOAP; para tests se puede inyectar un mock.
type Submitter interface {
	// EnviarRegistro envía el XML del registro de alta al WS de la AEAT.
	// env debe ser "test" o "prod"; determina la URL del endpoint.
	EnviarRegistro(ctx context.Context, registroXML []byte, env string) (*SubmitResult, error)
}
