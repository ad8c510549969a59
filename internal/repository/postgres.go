// Package repository contiene la implementación de acceso a datos en PostgreSQL.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"

	"github.com/eduardovg09/RapidoExpressAPI/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrEnvioNoEncontrado se devuelve cuando el envío consultado no existe.
var ErrEnvioNoEncontrado = errors.New("envio no encontrado")

// PostgresRepository da acceso al almacenamiento de datos en PostgreSQL.
// Las reglas de negocio (correo duplicado, llaves foráneas, cliente con
// envíos) viven en los procedimientos almacenados instalados por las
// migraciones; cada método ejecuta exactamente una consulta o llamada.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository crea el repositorio e inicializa el esquema de la BD
// mediante migraciones.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(1*time.Second))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func (r *PostgresRepository) withRetry(ctx context.Context, fn func() error) error {
	var err error
	delays := []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second}

	for i := 0; i <= len(delays); i++ {
		err = fn()
		if err == nil {
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if esErrorReintentable(err) {
			if i < len(delays) {
				time.Sleep(delays[i])
				continue
			}
		}

		break
	}
	return err
}

// esErrorReintentable indica si la llamada puede repetirse sin riesgo de
// duplicar la escritura: solo fallos de serialización y deadlocks, donde la
// transacción quedó revertida. Un error de conexión no es reintentable aquí:
// el servidor pudo haber recibido y confirmado la llamada antes del corte.
func esErrorReintentable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return false
}

// Close cierra el pool de conexiones con la BD.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// ListarEstados devuelve todos los estados ordenados por nombre.
func (r *PostgresRepository) ListarEstados(ctx context.Context) ([]model.Estado, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id_estado, nombre_estado FROM estados ORDER BY nombre_estado`,
	)
	if err != nil {
		return nil, fmt.Errorf("select estados: %w", err)
	}
	defer rows.Close()

	var estados []model.Estado
	for rows.Next() {
		var e model.Estado
		if err := rows.Scan(&e.ID, &e.Nombre); err != nil {
			return nil, fmt.Errorf("scan estado: %w", err)
		}
		estados = append(estados, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return estados, nil
}

// ListarClientes devuelve todos los clientes ordenados por nombre.
func (r *PostgresRepository) ListarClientes(ctx context.Context) ([]model.Cliente, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id_cliente, nombre, correo FROM clientes ORDER BY nombre`,
	)
	if err != nil {
		return nil, fmt.Errorf("select clientes: %w", err)
	}
	defer rows.Close()

	var clientes []model.Cliente
	for rows.Next() {
		var c model.Cliente
		if err := rows.Scan(&c.ID, &c.Nombre, &c.Correo); err != nil {
			return nil, fmt.Errorf("scan cliente: %w", err)
		}
		clientes = append(clientes, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return clientes, nil
}

// CiudadesPorEstado devuelve las ciudades del estado indicado mediante el
// procedimiento almacenado. Un estado desconocido produce una lista vacía.
func (r *PostgresRepository) CiudadesPorEstado(ctx context.Context, idEstado int) ([]model.Ciudad, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id_ciudad, nombre_ciudad, id_estado FROM sp_obtener_ciudades_por_estado($1)`,
		idEstado,
	)
	if err != nil {
		return nil, fmt.Errorf("call sp_obtener_ciudades_por_estado: %w", err)
	}
	defer rows.Close()

	var ciudades []model.Ciudad
	for rows.Next() {
		var c model.Ciudad
		if err := rows.Scan(&c.ID, &c.Nombre, &c.IDEstado); err != nil {
			return nil, fmt.Errorf("scan ciudad: %w", err)
		}
		ciudades = append(ciudades, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return ciudades, nil
}

// RegistrarCliente llama al procedimiento almacenado de alta de cliente y
// devuelve su mensaje de resultado sin interpretar.
func (r *PostgresRepository) RegistrarCliente(ctx context.Context, nuevo model.NuevoCliente) (string, error) {
	var mensaje string
	err := r.withRetry(ctx, func() error {
		return r.pool.QueryRow(ctx,
			`SELECT sp_registrar_cliente($1, $2)`,
			nuevo.Nombre, nuevo.Correo,
		).Scan(&mensaje)
	})
	if err != nil {
		return "", fmt.Errorf("call sp_registrar_cliente: %w", err)
	}
	return mensaje, nil
}

// RegistrarEnvio llama al procedimiento almacenado de alta de envío y
// devuelve su mensaje de resultado sin interpretar.
func (r *PostgresRepository) RegistrarEnvio(ctx context.Context, nuevo model.NuevoEnvio) (string, error) {
	var mensaje string
	err := r.withRetry(ctx, func() error {
		return r.pool.QueryRow(ctx,
			`SELECT sp_registrar_envio($1, $2, $3)`,
			nuevo.IDCliente, nuevo.IDCiudad, nuevo.Descripcion,
		).Scan(&mensaje)
	})
	if err != nil {
		return "", fmt.Errorf("call sp_registrar_envio: %w", err)
	}
	return mensaje, nil
}

// EliminarCliente llama al procedimiento almacenado de baja de cliente y
// devuelve su mensaje de resultado sin interpretar.
func (r *PostgresRepository) EliminarCliente(ctx context.Context, idCliente int) (string, error) {
	var mensaje string
	err := r.withRetry(ctx, func() error {
		return r.pool.QueryRow(ctx,
			`SELECT sp_eliminar_cliente($1)`,
			idCliente,
		).Scan(&mensaje)
	})
	if err != nil {
		return "", fmt.Errorf("call sp_eliminar_cliente: %w", err)
	}
	return mensaje, nil
}

// ActualizarEstatus llama al procedimiento almacenado de cambio de estatus y
// devuelve su mensaje de resultado sin interpretar.
func (r *PostgresRepository) ActualizarEstatus(ctx context.Context, idEnvio int, estatus string) (string, error) {
	var mensaje string
	err := r.withRetry(ctx, func() error {
		return r.pool.QueryRow(ctx,
			`SELECT sp_actualizar_estatus_envio($1, $2)`,
			idEnvio, estatus,
		).Scan(&mensaje)
	})
	if err != nil {
		return "", fmt.Errorf("call sp_actualizar_estatus_envio: %w", err)
	}
	return mensaje, nil
}

// DetalleEnvio devuelve el detalle de un envío con los datos del cliente y
// del destino.
func (r *PostgresRepository) DetalleEnvio(ctx context.Context, idEnvio int) (*model.DetalleEnvio, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT e.id_envio, e.descripcion, e.fecha_envio, e.estatus,
		        c.nombre AS nombre_cliente, c.correo,
		        ci.nombre_ciudad AS ciudad_destino,
		        est.nombre_estado AS estado_destino
		 FROM envios e
		 JOIN clientes c ON e.id_cliente = c.id_cliente
		 JOIN ciudades ci ON e.id_ciudad_destino = ci.id_ciudad
		 JOIN estados est ON ci.id_estado = est.id_estado
		 WHERE e.id_envio = $1`,
		idEnvio,
	)

	var d model.DetalleEnvio
	err := row.Scan(&d.ID, &d.Descripcion, &d.FechaEnvio, &d.Estatus,
		&d.NombreCliente, &d.Correo, &d.CiudadDestino, &d.EstadoDestino)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEnvioNoEncontrado
		}
		return nil, fmt.Errorf("select detalle envio: %w", err)
	}

	return &d, nil
}

// EnviosPorCliente devuelve los envíos de un cliente, del más reciente al
// más antiguo.
func (r *PostgresRepository) EnviosPorCliente(ctx context.Context, idCliente int) ([]model.EnvioCliente, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id_envio, e.descripcion, e.fecha_envio, e.estatus,
		        ci.nombre_ciudad AS ciudad_destino
		 FROM envios e
		 JOIN ciudades ci ON e.id_ciudad_destino = ci.id_ciudad
		 WHERE e.id_cliente = $1
		 ORDER BY e.fecha_envio DESC`,
		idCliente,
	)
	if err != nil {
		return nil, fmt.Errorf("select envios por cliente: %w", err)
	}
	defer rows.Close()

	var envios []model.EnvioCliente
	for rows.Next() {
		var e model.EnvioCliente
		if err := rows.Scan(&e.ID, &e.Descripcion, &e.FechaEnvio, &e.Estatus, &e.CiudadDestino); err != nil {
			return nil, fmt.Errorf("scan envio: %w", err)
		}
		envios = append(envios, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return envios, nil
}
