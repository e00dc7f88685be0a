package database

import (
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "no rows",
			err:  pgx.ErrNoRows,
			want: ErrNotFound,
		},
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: "23505", Message: "duplicate key"},
			want: ErrAlreadyExists,
		},
		{
			name: "check violation",
			err:  &pgconn.PgError{Code: "23514", Message: "check failed"},
			want: ErrInvalidInput,
		},
		{
			name: "connection exception",
			err:  &pgconn.PgError{Code: "08006", Message: "connection failure"},
			want: ErrConnection,
		},
		{
			name: "other pg error",
			err:  &pgconn.PgError{Code: "42703", Message: "undefined column"},
			want: ErrDatabase,
		},
		{
			name: "connection refused",
			err:  &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED},
			want: ErrConnection,
		},
		{
			name: "wrapped dial failure",
			err:  fmt.Errorf("failed to connect: %w", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}),
			want: ErrConnection,
		},
		{
			name: "dns failure",
			err:  &net.DNSError{Err: "no such host", Name: "db.invalid"},
			want: ErrConnection,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyError(tc.err)
			assert.ErrorIs(t, got, tc.want)
		})
	}
}

func TestClassifyErrorPassesThroughUnknown(t *testing.T) {
	plain := errors.New("something unrelated")
	assert.Equal(t, plain, classifyError(plain))
	assert.NoError(t, classifyError(nil))
}
