package service

import (
	"context"
	"errors"
	"testing"

	"github.com/eduardovg09/RapidoExpressAPI/internal/model"
	"github.com/eduardovg09/RapidoExpressAPI/internal/repository"
)

type stubRepo struct {
	mensaje string
	err     error

	estados  []model.Estado
	clientes []model.Cliente
	ciudades []model.Ciudad
	detalle  *model.DetalleEnvio
	envios   []model.EnvioCliente
}

func (r *stubRepo) Close() error { return nil }

func (r *stubRepo) ListarEstados(ctx context.Context) ([]model.Estado, error) {
	return r.estados, r.err
}

func (r *stubRepo) ListarClientes(ctx context.Context) ([]model.Cliente, error) {
	return r.clientes, r.err
}

func (r *stubRepo) CiudadesPorEstado(ctx context.Context, idEstado int) ([]model.Ciudad, error) {
	return r.ciudades, r.err
}

func (r *stubRepo) RegistrarCliente(ctx context.Context, nuevo model.NuevoCliente) (string, error) {
	return r.mensaje, r.err
}

func (r *stubRepo) RegistrarEnvio(ctx context.Context, nuevo model.NuevoEnvio) (string, error) {
	return r.mensaje, r.err
}

func (r *stubRepo) EliminarCliente(ctx context.Context, idCliente int) (string, error) {
	return r.mensaje, r.err
}

func (r *stubRepo) ActualizarEstatus(ctx context.Context, idEnvio int, estatus string) (string, error) {
	return r.mensaje, r.err
}

func (r *stubRepo) DetalleEnvio(ctx context.Context, idEnvio int) (*model.DetalleEnvio, error) {
	return r.detalle, r.err
}

func (r *stubRepo) EnviosPorCliente(ctx context.Context, idCliente int) ([]model.EnvioCliente, error) {
	return r.envios, r.err
}

func TestClasificar(t *testing.T) {
	tests := []struct {
		name    string
		mensaje string
		exito   bool
	}{
		{
			name:    "alta de cliente",
			mensaje: "Cliente registrado correctamente",
			exito:   true,
		},
		{
			name:    "baja de cliente",
			mensaje: "Cliente eliminado correctamente",
			exito:   true,
		},
		{
			name:    "correo duplicado",
			mensaje: "Error: El correo ya está registrado",
			exito:   false,
		},
		{
			name:    "cliente con envios",
			mensaje: "Error: El cliente tiene envíos registrados",
			exito:   false,
		},
		{
			name:    "mensaje vacio",
			mensaje: "",
			exito:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := clasificar(tt.mensaje)
			if res.Exito != tt.exito {
				t.Fatalf("clasificar(%q).Exito = %v, want %v", tt.mensaje, res.Exito, tt.exito)
			}
			if res.Mensaje != tt.mensaje {
				t.Fatalf("clasificar(%q).Mensaje = %q, el mensaje debe pasar íntegro", tt.mensaje, res.Mensaje)
			}
		})
	}
}

func TestRegistrarCliente_Clasificacion(t *testing.T) {
	repo := &stubRepo{mensaje: "Cliente registrado correctamente"}
	svc := NewService(repo)

	res, err := svc.RegistrarCliente(context.Background(), model.NuevoCliente{Nombre: "Ana", Correo: "ana@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Exito {
		t.Fatalf("res.Exito = false, want true")
	}

	repo.mensaje = "Error: El correo ya está registrado"
	res, err = svc.RegistrarCliente(context.Background(), model.NuevoCliente{Nombre: "Ana", Correo: "ana@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Exito {
		t.Fatalf("res.Exito = true, want false")
	}
	if res.Mensaje != repo.mensaje {
		t.Fatalf("res.Mensaje = %q, want %q", res.Mensaje, repo.mensaje)
	}
}

func TestRegistrarEnvio_ErrorPropagado(t *testing.T) {
	repoErr := errors.New("connection refused")
	svc := NewService(&stubRepo{err: repoErr})

	_, err := svc.RegistrarEnvio(context.Background(), model.NuevoEnvio{IDCliente: 1, IDCiudad: 2, Descripcion: "Caja"})
	if !errors.Is(err, repoErr) {
		t.Fatalf("err = %v, want %v", err, repoErr)
	}
}

func TestDetalleEnvio_NoEncontrado(t *testing.T) {
	svc := NewService(&stubRepo{err: repository.ErrEnvioNoEncontrado})

	_, err := svc.DetalleEnvio(context.Background(), 99)
	if !errors.Is(err, repository.ErrEnvioNoEncontrado) {
		t.Fatalf("err = %v, want ErrEnvioNoEncontrado", err)
	}
}
