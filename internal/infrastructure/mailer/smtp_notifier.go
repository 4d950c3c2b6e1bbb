package mailer

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/jmm-1987/taller-pedidos/internal/application/tramitacion"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
	"github.com/jmm-1987/taller-pedidos/pkg/config"
	"github.com/jmm-1987/taller-pedidos/pkg/logger"
)

// SMTPNotifier envía avisos de cambio de estado al cliente por correo.
// Implementa tramitacion.Notificador; el resultado (ok, mensaje) se anota en
// la respuesta de la transición sin afectar nunca al cambio ya confirmado.
type SMTPNotifier struct {
	cfg      config.SMTPConfig
	clientes repository.ClienteRepository
	log      *logger.Logger
	enviar   func(m *gomail.Message) error
}

var _ tramitacion.Notificador = (*SMTPNotifier)(nil)

// NewSMTPNotifier construye el notificador. Si cfg.Host está vacío los avisos
// quedan deshabilitados y cada llamada devuelve (false, "avisos deshabilitados").
func NewSMTPNotifier(cfg config.SMTPConfig, clientes repository.ClienteRepository, log *logger.Logger) *SMTPNotifier {
	n := &SMTPNotifier{cfg: cfg, clientes: clientes, log: log}
	if cfg.Host != "" {
		dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
		n.enviar = func(m *gomail.Message) error { return dialer.DialAndSend(m) }
	}
	return n
}

// NotificarCambioEstado busca el email del cliente y envía el aviso.
func (n *SMTPNotifier) NotificarCambioEstado(ctx context.Context, cambio tramitacion.CambioEstado) (bool, string) {
	if n.enviar == nil {
		return false, "avisos deshabilitados"
	}

	cliente, err := n.clientes.ObtenerPorID(ctx, cambio.ClienteID)
	if err != nil {
		n.log.Error().Err(err).Int64("cliente_id", cambio.ClienteID).Msg("aviso: error al buscar cliente")
		return false, "no se pudo recuperar el cliente"
	}
	if cliente == nil || cliente.Email == "" {
		return false, "el cliente no tiene email"
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", cliente.Email)
	m.SetHeader("Subject", fmt.Sprintf("Actualización de su %s", cambio.Documento))
	m.SetBody("text/plain", cuerpoAviso(cliente.Nombre, cambio))

	if err := n.enviar(m); err != nil {
		n.log.Error().Err(err).Str("documento", cambio.Documento).Msg("aviso: fallo al enviar email")
		return false, "fallo al enviar el email"
	}

	n.log.Info().Str("documento", cambio.Documento).Str("email", cliente.Email).Msg("aviso enviado")
	return true, ""
}

func cuerpoAviso(nombre string, c tramitacion.CambioEstado) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hola %s,\n\n", nombre)
	fmt.Fprintf(&b, "Su %s ha pasado a estado %s", c.Documento, legible(c.EstadoNuevo))
	if c.SubestadoNuevo != "" {
		fmt.Fprintf(&b, " (%s)", legible(c.SubestadoNuevo))
	}
	b.WriteString(".\n\n")
	if c.EstadoAnterior != "" {
		fmt.Fprintf(&b, "Estado anterior: %s", legible(c.EstadoAnterior))
		if c.SubestadoAnterior != "" {
			fmt.Fprintf(&b, " (%s)", legible(c.SubestadoAnterior))
		}
		b.WriteString(".\n\n")
	}
	b.WriteString("Gracias por confiar en nosotros.\n")
	return b.String()
}

// legible convierte un estado interno ("en_preparacion") en texto para el correo.
func legible(estado string) string {
	return strings.ReplaceAll(estado, "_", " ")
}
