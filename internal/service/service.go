// Package service contiene la lógica de negocio del servicio RapidoExpress.
package service

import (
	"context"
	"strings"

	"github.com/eduardovg09/RapidoExpressAPI/internal/model"
)

// marcadorExito es la palabra que los procedimientos almacenados incluyen en
// su mensaje cuando la operación se completó. Cualquier otro mensaje es un
// rechazo de regla de negocio. El convenio viene de la BD y debe cambiarse
// junto con los procedimientos.
const marcadorExito = "correctamente"

// Repository describe el contrato de acceso a datos usado por el servicio.
type Repository interface {
	Close() error
	ListarEstados(ctx context.Context) ([]model.Estado, error)
	ListarClientes(ctx context.Context) ([]model.Cliente, error)
	CiudadesPorEstado(ctx context.Context, idEstado int) ([]model.Ciudad, error)
	RegistrarCliente(ctx context.Context, nuevo model.NuevoCliente) (string, error)
	RegistrarEnvio(ctx context.Context, nuevo model.NuevoEnvio) (string, error)
	EliminarCliente(ctx context.Context, idCliente int) (string, error)
	ActualizarEstatus(ctx context.Context, idEnvio int, estatus string) (string, error)
	DetalleEnvio(ctx context.Context, idEnvio int) (*model.DetalleEnvio, error)
	EnviosPorCliente(ctx context.Context, idCliente int) ([]model.EnvioCliente, error)
}

// Service contiene la lógica de negocio del servicio RapidoExpress.
type Service struct {
	repo Repository
}

// NewService crea un servicio con el repositorio indicado.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Close cierra los recursos del servicio.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// clasificar convierte el mensaje libre del procedimiento almacenado en un
// resultado con bandera de éxito explícita.
func clasificar(mensaje string) model.Resultado {
	return model.Resultado{
		Exito:   strings.Contains(mensaje, marcadorExito),
		Mensaje: mensaje,
	}
}

// ListarEstados devuelve el catálogo de estados.
func (s *Service) ListarEstados(ctx context.Context) ([]model.Estado, error) {
	return s.repo.ListarEstados(ctx)
}

// ListarClientes devuelve todos los clientes registrados.
func (s *Service) ListarClientes(ctx context.Context) ([]model.Cliente, error) {
	return s.repo.ListarClientes(ctx)
}

// CiudadesPorEstado devuelve las ciudades del estado indicado.
func (s *Service) CiudadesPorEstado(ctx context.Context, idEstado int) ([]model.Ciudad, error) {
	return s.repo.CiudadesPorEstado(ctx, idEstado)
}

// RegistrarCliente da de alta un cliente y clasifica el desenlace.
func (s *Service) RegistrarCliente(ctx context.Context, nuevo model.NuevoCliente) (model.Resultado, error) {
	mensaje, err := s.repo.RegistrarCliente(ctx, nuevo)
	if err != nil {
		return model.Resultado{}, err
	}
	return clasificar(mensaje), nil
}

// RegistrarEnvio da de alta un envío y clasifica el desenlace.
func (s *Service) RegistrarEnvio(ctx context.Context, nuevo model.NuevoEnvio) (model.Resultado, error) {
	mensaje, err := s.repo.RegistrarEnvio(ctx, nuevo)
	if err != nil {
		return model.Resultado{}, err
	}
	return clasificar(mensaje), nil
}

// EliminarCliente da de baja un cliente y clasifica el desenlace.
func (s *Service) EliminarCliente(ctx context.Context, idCliente int) (model.Resultado, error) {
	mensaje, err := s.repo.EliminarCliente(ctx, idCliente)
	if err != nil {
		return model.Resultado{}, err
	}
	return clasificar(mensaje), nil
}

// ActualizarEstatus cambia el estatus de un envío y clasifica el desenlace.
// No se valida ninguna transición entre estatus: el procedimiento acepta
// cualquier valor para un envío existente.
func (s *Service) ActualizarEstatus(ctx context.Context, idEnvio int, estatus string) (model.Resultado, error) {
	mensaje, err := s.repo.ActualizarEstatus(ctx, idEnvio, estatus)
	if err != nil {
		return model.Resultado{}, err
	}
	return clasificar(mensaje), nil
}

// DetalleEnvio devuelve el detalle de un envío.
func (s *Service) DetalleEnvio(ctx context.Context, idEnvio int) (*model.DetalleEnvio, error) {
	return s.repo.DetalleEnvio(ctx, idEnvio)
}

// EnviosPorCliente devuelve los envíos de un cliente.
func (s *Service) EnviosPorCliente(ctx context.Context, idCliente int) ([]model.EnvioCliente, error) {
	return s.repo.EnviosPorCliente(ctx, idCliente)
}
