package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jmm-1987/taller-pedidos/internal/application/dto"
	"github.com/jmm-1987/taller-pedidos/internal/domain"
	"github.com/jmm-1987/taller-pedidos/internal/domain/entity"
	"github.com/jmm-1987/taller-pedidos/internal/domain/repository"
	"github.com/jmm-1987/taller-pedidos/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: alta de empleados y login.
type AuthUseCase struct {
	empleadoRepo repository.EmpleadoRepository
	jwtCfg       JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(empleadoRepo repository.EmpleadoRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{empleadoRepo: empleadoRepo, jwtCfg: jwtCfg}
}

// RegistrarEmpleado crea un empleado: hashea la contraseña con bcrypt y
// persiste. Devuelve ErrEmailYaRegistrado si el email ya existe.
func (uc *AuthUseCase) RegistrarEmpleado(ctx context.Context, in dto.CrearEmpleadoRequest) (*entity.Empleado, error) {
	existente, _ := uc.empleadoRepo.ObtenerPorEmail(ctx, in.Email)
	if existente != nil {
		return nil, domain.ErrEmailYaRegistrado
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	rol := in.Rol
	if rol == "" {
		rol = entity.RolComercial
	}
	now := time.Now()
	emp := &entity.Empleado{
		Nombre:       in.Nombre,
		Email:        in.Email,
		PasswordHash: string(hash),
		Rol:          rol,
		Activo:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.empleadoRepo.Crear(ctx, emp); err != nil {
		return nil, err
	}
	emp.PasswordHash = ""
	return emp, nil
}

// Login verifica email/password, genera JWT y retorna token + empleado.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	emp, err := uc.empleadoRepo.ObtenerPorEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, domain.ErrCredencialesInvalidas
	}
	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrCredencialesInvalidas
	}
	if !emp.Activo {
		return nil, domain.ErrAccesoDenegado
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, emp.ID, emp.Nombre, emp.Rol, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	resp := &dto.LoginResponse{Token: token}
	resp.Empleado.ID = emp.ID
	resp.Empleado.Nombre = emp.Nombre
	resp.Empleado.Rol = emp.Rol
	return resp, nil
}
