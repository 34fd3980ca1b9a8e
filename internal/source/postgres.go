package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"hotspots/internal/models"
)

// DefaultQuery is the placemark query used when the caller configures none.
// Any query works as long as it yields (id, lat, lng, name, description)
// columns in that order.
const DefaultQuery = `SELECT id, lat, lng, name, description FROM placemarks ORDER BY id`

// PostgresSource streams placemarks from a Postgres query.
type PostgresSource struct {
	conn  *pgx.Conn
	query string
	log   *logrus.Logger
}

func NewPostgresSource(ctx context.Context, dsn, query string, log *logrus.Logger) (*PostgresSource, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if query == "" {
		query = DefaultQuery
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PostgresSource{conn: conn, query: query, log: log}, nil
}

func (s *PostgresSource) Placemarks(ctx context.Context) <-chan *models.Placemark {
	out := make(chan *models.Placemark)
	go func() {
		defer close(out)

		rows, err := s.conn.Query(ctx, s.query)
		if err != nil {
			s.log.Errorf("placemark query failed: %v", err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var p models.Placemark
			if err := rows.Scan(&p.ID, &p.Lat, &p.Lng, &p.Name, &p.Description); err != nil {
				s.log.Warnf("skipping unreadable placemark row: %v", err)
				continue
			}
			select {
			case out <- &p:
			case <-ctx.Done():
				return
			}
		}
		if err := rows.Err(); err != nil {
			s.log.Errorf("placemark rows ended early: %v", err)
		}
	}()
	return out
}

func (s *PostgresSource) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}
