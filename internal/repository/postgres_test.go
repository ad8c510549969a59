package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestEsErrorReintentable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "serialization failure",
			err:  &pgconn.PgError{Code: pgerrcode.SerializationFailure},
			want: true,
		},
		{
			name: "deadlock detected",
			err:  &pgconn.PgError{Code: pgerrcode.DeadlockDetected},
			want: true,
		},
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: pgerrcode.UniqueViolation},
			want: false,
		},
		{
			name: "connection refused no es reintentable",
			err:  errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
			want: false,
		},
		{
			name: "broken pipe no es reintentable",
			err:  errors.New("write: broken pipe"),
			want: false,
		},
		{
			name: "arbitrary error",
			err:  errors.New("something else"),
			want: false,
		},
		{
			name: "wrapped pg error",
			err:  errors.Join(errors.New("query"), &pgconn.PgError{Code: pgerrcode.DeadlockDetected}),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := esErrorReintentable(tt.err); got != tt.want {
				t.Fatalf("esErrorReintentable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// Un corte de conexión durante una escritura no debe repetir la llamada: el
// procedimiento pudo haberse ejecutado antes del corte y repetirlo duplicaría
// el registro.
func TestWithRetry_ErrorDeConexionEjecutaUnaVez(t *testing.T) {
	r := &PostgresRepository{}

	llamadas := 0
	errConexion := errors.New("write: broken pipe")

	err := r.withRetry(context.Background(), func() error {
		llamadas++
		return errConexion
	})

	if !errors.Is(err, errConexion) {
		t.Fatalf("err = %v, want %v", err, errConexion)
	}
	if llamadas != 1 {
		t.Fatalf("fn ejecutada %d veces, want 1", llamadas)
	}
}

func TestWithRetry_DeadlockReintenta(t *testing.T) {
	r := &PostgresRepository{}

	llamadas := 0
	err := r.withRetry(context.Background(), func() error {
		llamadas++
		if llamadas == 1 {
			return &pgconn.PgError{Code: pgerrcode.DeadlockDetected}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if llamadas != 2 {
		t.Fatalf("fn ejecutada %d veces, want 2", llamadas)
	}
}
