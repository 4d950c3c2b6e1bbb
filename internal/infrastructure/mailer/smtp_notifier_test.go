package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jmm-1987/taller-pedidos/internal/application/tramitacion"
	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/pkg/config"
	"github.com/jmm-1987/taller-pedidos/pkg/logger"
)

type clienteRepoFake struct {
	clientes map[int64]*entity.Cliente
}

func (r *clienteRepoFake) Crear(_ context.Context, c *entity.Cliente) error      { return nil }
func (r *clienteRepoFake) Actualizar(_ context.Context, c *entity.Cliente) error { return nil }
func (r *clienteRepoFake) ObtenerPorID(_ context.Context, id int64) (*entity.Cliente, error) {
	return r.clientes[id], nil
}
func (r *clienteRepoFake) Buscar(_ context.Context, _ string, _, _ int) ([]*entity.Cliente, error) {
	return nil, nil
}

func nuevoNotificador(t *testing.T, clientes map[int64]*entity.Cliente) (*SMTPNotifier, *[]*gomail.Message) {
	t.Helper()
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	n := NewSMTPNotifier(config.SMTPConfig{Host: "smtp.local", Port: 587, From: "Taller <taller@ejemplo.es>"},
		&clienteRepoFake{clientes: clientes}, log)
	enviados := &[]*gomail.Message{}
	n.enviar = func(m *gomail.Message) error {
		*enviados = append(*enviados, m)
		return nil
	}
	return n, enviados
}

func TestNotificarCambioEstado_EnviaAlEmailDelCliente(t *testing.T) {
	n, enviados := nuevoNotificador(t, map[int64]*entity.Cliente{
		7: {ID: 7, Nombre: "Peña Los Amigos", Email: "pena@ejemplo.es"},
	})

	ok, msg := n.NotificarCambioEstado(context.Background(), tramitacion.CambioEstado{
		Documento:      "solicitud 2508_01",
		ClienteID:      7,
		EstadoNuevo:    "en_preparacion",
		SubestadoNuevo: "taller_textil",
		EstadoAnterior: "aceptada",
	})

	require.True(t, ok)
	assert.Empty(t, msg)
	require.Len(t, *enviados, 1)
	m := (*enviados)[0]
	assert.Equal(t, []string{"pena@ejemplo.es"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Actualización de su solicitud 2508_01"}, m.GetHeader("Subject"))
}

func TestNotificarCambioEstado_ClienteSinEmail(t *testing.T) {
	n, enviados := nuevoNotificador(t, map[int64]*entity.Cliente{
		7: {ID: 7, Nombre: "Sin Correo"},
	})

	ok, msg := n.NotificarCambioEstado(context.Background(), tramitacion.CambioEstado{ClienteID: 7})

	assert.False(t, ok)
	assert.Equal(t, "el cliente no tiene email", msg)
	assert.Empty(t, *enviados)
}

func TestNotificarCambioEstado_FalloSMTPNoPropagaError(t *testing.T) {
	n, _ := nuevoNotificador(t, map[int64]*entity.Cliente{
		7: {ID: 7, Nombre: "Peña", Email: "pena@ejemplo.es"},
	})
	n.enviar = func(*gomail.Message) error { return errors.New("conexión rechazada") }

	ok, msg := n.NotificarCambioEstado(context.Background(), tramitacion.CambioEstado{
		Documento: "pedido P1", ClienteID: 7,
	})

	assert.False(t, ok)
	assert.Equal(t, "fallo al enviar el email", msg)
}

func TestNotificarCambioEstado_Deshabilitado(t *testing.T) {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	n := NewSMTPNotifier(config.SMTPConfig{}, &clienteRepoFake{}, log)

	ok, msg := n.NotificarCambioEstado(context.Background(), tramitacion.CambioEstado{ClienteID: 1})

	assert.False(t, ok)
	assert.Equal(t, "avisos deshabilitados", msg)
}
