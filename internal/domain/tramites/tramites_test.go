package tramites_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmm-1987/taller-pedidos/internal/domain"
	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/tramites"
)

func TestValidarSolicitud_EstadoDesconocido(t *testing.T) {
	err := tramites.ValidarSolicitud(tramites.PeticionSolicitud{Estado: "enviado_a_marte"})
	require.ErrorIs(t, err, domain.ErrTransicionInvalida)
}

func TestValidarSolicitud_SubestadoFueraDeDominio(t *testing.T) {
	// "CAMBIOS 1" es de mockup, no de en_preparacion.
	err := tramites.ValidarSolicitud(tramites.PeticionSolicitud{
		Estado:    entity.EstadoEnPreparacion,
		Subestado: entity.SubestadoCambios1,
	})
	require.ErrorIs(t, err, domain.ErrSubestadoInvalido)

	// Un estado sin dominio de subestados no admite ninguno.
	err = tramites.ValidarSolicitud(tramites.PeticionSolicitud{
		Estado:    entity.EstadoTerminado,
		Subestado: entity.SubestadoCorte,
	})
	require.ErrorIs(t, err, domain.ErrSubestadoInvalido)
}

func TestValidarSolicitud_EncargadoObligatorio(t *testing.T) {
	err := tramites.ValidarSolicitud(tramites.PeticionSolicitud{
		Estado:    entity.EstadoMockup,
		Subestado: entity.SubestadoEncargadoA,
	})
	require.ErrorIs(t, err, domain.ErrEncargadoRequerido)

	err = tramites.ValidarSolicitud(tramites.PeticionSolicitud{
		Estado:     entity.EstadoMockup,
		Subestado:  entity.SubestadoEncargadoA,
		EncargadoA: "lucía",
	})
	require.NoError(t, err)
}

func TestValidarSolicitud_SubestadosLegales(t *testing.T) {
	for _, sub := range []string{
		entity.SubestadoRevisionCliente, entity.SubestadoCambios1,
		entity.SubestadoCambios2, entity.SubestadoMockupRechazado, entity.SubestadoMockupAceptado,
	} {
		err := tramites.ValidarSolicitud(tramites.PeticionSolicitud{Estado: entity.EstadoMockup, Subestado: sub})
		assert.NoError(t, err, "mockup debe admitir %q", sub)
	}
	for _, sub := range []string{
		entity.SubestadoHacerMarcada, entity.SubestadoImprimir, entity.SubestadoCalandra,
		entity.SubestadoCorte, entity.SubestadoConfeccion, entity.SubestadoSublimacion, entity.SubestadoBordado,
	} {
		err := tramites.ValidarSolicitud(tramites.PeticionSolicitud{Estado: entity.EstadoEnPreparacion, Subestado: sub})
		assert.NoError(t, err, "en_preparacion debe admitir %q", sub)
	}
}

// TestAplicar_ReinicioDeSubestado cambiar de estado sin subestado explícito
// deja el subestado vacío, no arrastra el anterior.
func TestAplicar_ReinicioDeSubestado(t *testing.T) {
	s := &entity.Solicitud{Estado: entity.EstadoMockup, Subestado: entity.SubestadoCambios1}

	tramites.Aplicar(s, tramites.PeticionSolicitud{Estado: entity.EstadoEnPreparacion})

	assert.Equal(t, entity.EstadoEnPreparacion, s.Estado)
	assert.Empty(t, s.Subestado)
}

// TestAplicar_SubestadoEnMismaLlamada el reinicio se aplica primero y después
// el subestado pedido.
func TestAplicar_SubestadoEnMismaLlamada(t *testing.T) {
	s := &entity.Solicitud{Estado: entity.EstadoMockup, Subestado: entity.SubestadoCambios1}

	tramites.Aplicar(s, tramites.PeticionSolicitud{
		Estado:    entity.EstadoEnPreparacion,
		Subestado: entity.SubestadoCorte,
	})

	assert.Equal(t, entity.EstadoEnPreparacion, s.Estado)
	assert.Equal(t, entity.SubestadoCorte, s.Subestado)
}

// TestAplicar_MismoEstadoConservaSubestadoSiNoSePide dentro del mismo estado
// no hay reinicio implícito.
func TestAplicar_MismoEstadoConservaSubestadoSiNoSePide(t *testing.T) {
	s := &entity.Solicitud{Estado: entity.EstadoMockup, Subestado: entity.SubestadoCambios1}

	tramites.Aplicar(s, tramites.PeticionSolicitud{Estado: entity.EstadoMockup})

	assert.Equal(t, entity.SubestadoCambios1, s.Subestado)
}

func TestAplicar_EncargadoA(t *testing.T) {
	s := &entity.Solicitud{Estado: entity.EstadoAceptado}
	tramites.Aplicar(s, tramites.PeticionSolicitud{
		Estado:     entity.EstadoMockup,
		Subestado:  entity.SubestadoEncargadoA,
		EncargadoA: "marta",
	})
	assert.Equal(t, "marta", s.EncargadoA)

	// Salir de mockup limpia también el responsable.
	tramites.Aplicar(s, tramites.PeticionSolicitud{Estado: entity.EstadoEnPreparacion})
	assert.Empty(t, s.EncargadoA)
}

func TestValidarPedido(t *testing.T) {
	require.NoError(t, tramites.ValidarPedido(entity.PedidoEnviado))
	err := tramites.ValidarPedido("Perdido")
	require.ErrorIs(t, err, domain.ErrTransicionInvalida)
}

func TestValidarLinea_Propiedad(t *testing.T) {
	pedido := &entity.Pedido{ID: 7}
	ajena := &entity.LineaPedido{ID: "l-1", PedidoID: 9}

	err := tramites.ValidarLinea(pedido, ajena, entity.LineaLista)
	require.ErrorIs(t, err, domain.ErrLineaAjena)

	propia := &entity.LineaPedido{ID: "l-2", PedidoID: 7}
	require.NoError(t, tramites.ValidarLinea(pedido, propia, entity.LineaEnBordado))

	err = tramites.ValidarLinea(pedido, propia, "planchado")
	require.ErrorIs(t, err, domain.ErrTransicionInvalida)
}
