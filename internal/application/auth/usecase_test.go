package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmm-1987/taller-pedidos/internal/application/auth"
	"github.com/jmm-1987/taller-pedidos/internal/application/dto"
	"github.com/jmm-1987/taller-pedidos/internal/domain"
	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/pkg/jwt"
)

type empleadoRepoMem struct {
	seq  int64
	data map[string]*entity.Empleado // por email
}

func (r *empleadoRepoMem) Crear(_ context.Context, e *entity.Empleado) error {
	r.seq++
	e.ID = r.seq
	copia := *e
	r.data[e.Email] = &copia
	return nil
}

func (r *empleadoRepoMem) ObtenerPorID(_ context.Context, id int64) (*entity.Empleado, error) {
	for _, e := range r.data {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (r *empleadoRepoMem) ObtenerPorEmail(_ context.Context, email string) (*entity.Empleado, error) {
	return r.data[email], nil
}

func (r *empleadoRepoMem) Listar(context.Context) ([]*entity.Empleado, error) {
	return nil, nil
}

func nuevoAuth() (*auth.AuthUseCase, *empleadoRepoMem) {
	repo := &empleadoRepoMem{data: map[string]*entity.Empleado{}}
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: "secreto-test", ExpMinutes: 60, Issuer: "backoffice"})
	return uc, repo
}

func altaEmpleado(t *testing.T, uc *auth.AuthUseCase) {
	t.Helper()
	_, err := uc.RegistrarEmpleado(context.Background(), dto.CrearEmpleadoRequest{
		Nombre: "Marta", Email: "marta@taller.es", Password: "contraseña-larga", Rol: entity.RolComercial,
	})
	require.NoError(t, err)
}

// TestRegistrar_HasheaYDetectaDuplicados el hash nunca es la contraseña en
// claro y el email es único.
func TestRegistrar_HasheaYDetectaDuplicados(t *testing.T) {
	uc, repo := nuevoAuth()
	altaEmpleado(t, uc)

	guardado := repo.data["marta@taller.es"]
	assert.NotEqual(t, "contraseña-larga", guardado.PasswordHash)
	assert.True(t, guardado.Activo)

	_, err := uc.RegistrarEmpleado(context.Background(), dto.CrearEmpleadoRequest{
		Nombre: "Otra", Email: "marta@taller.es", Password: "otra-contraseña",
	})
	require.ErrorIs(t, err, domain.ErrEmailYaRegistrado)
}

// TestLogin_TokenConClaims el token incluye id, nombre y rol del empleado.
func TestLogin_TokenConClaims(t *testing.T) {
	uc, _ := nuevoAuth()
	altaEmpleado(t, uc)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "marta@taller.es", Password: "contraseña-larga",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	id, nombre, rol, err := jwt.Parse("secreto-test", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Empleado.ID, id)
	assert.Equal(t, "Marta", nombre)
	assert.Equal(t, entity.RolComercial, rol)
}

// TestLogin_Rechazos credencial incorrecta, usuario inexistente e inactivo.
func TestLogin_Rechazos(t *testing.T) {
	uc, repo := nuevoAuth()
	altaEmpleado(t, uc)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "marta@taller.es", Password: "mala"})
	require.ErrorIs(t, err, domain.ErrCredencialesInvalidas)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@taller.es", Password: "x"})
	require.ErrorIs(t, err, domain.ErrCredencialesInvalidas)

	repo.data["marta@taller.es"].Activo = false
	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "marta@taller.es", Password: "contraseña-larga"})
	require.ErrorIs(t, err, domain.ErrAccesoDenegado)
}
