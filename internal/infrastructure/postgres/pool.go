package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventory-core/pkg/config"
)

// PoolOptions tamaño del pool; cero usa los valores por defecto.
type PoolOptions struct {
	MaxConns int32
	MinConns int32
}

// NewPool abre el pool descrito por la configuración. Con ForceIPv4 el host se reemplaza por
// su dirección IPv4 (contenedores sin IPv6).
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	dsn := cfg.ConnectionString()
	if cfg.ForceIPv4 {
		dsn = withIPv4Host(dsn)
	}
	return NewPoolFromDSN(ctx, dsn, PoolOptions{MaxConns: cfg.MaxConns, MinConns: cfg.MinConns})
}

// NewPoolFromDSN pool con el codec NUMERIC <-> decimal registrado en cada conexión.
// Falla con ErrStorageUnavailable si la base no responde al ping inicial.
func NewPoolFromDSN(ctx context.Context, dsn string, opts PoolOptions) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	pc.MaxConns = 25
	if opts.MaxConns > 0 {
		pc.MaxConns = opts.MaxConns
	}
	pc.MinConns = min(2, pc.MaxConns)
	if opts.MinConns > 0 {
		pc.MinConns = min(opts.MinConns, pc.MaxConns)
	}
	pc.MaxConnLifetime = time.Hour
	pc.MaxConnIdleTime = 30 * time.Minute
	pc.HealthCheckPeriod = time.Minute
	pc.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", classify(err))
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", classify(err))
	}
	return pool, nil
}

// withIPv4Host devuelve dsn sin cambios si no es una URL o el host no tiene IPv4.
func withIPv4Host(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Host == "" {
		return dsn
	}
	ip, err := lookupIPv4(u.Hostname())
	if err != nil {
		return dsn
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	u.Host = net.JoinHostPort(ip, port)
	return u.String()
}

func lookupIPv4(host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			return "", errors.New("dirección IPv6")
		}
		return host, nil
	}
	ips, err := net.LookupIP(host)
	if err != nil {
		return "", err
	}
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4.String(), nil
		}
	}
	return "", fmt.Errorf("%s sin IPv4", host)
}
