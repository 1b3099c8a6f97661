package store

import (
	"database/sql"
	"fmt"
	"time"

	"tomgalvin.uk/msxsprite/internal/brush"
	"tomgalvin.uk/msxsprite/internal/codec"
)

func (s *Store) seedBrushes() error {
	var count int
	if err := s.Db.QueryRow(`SELECT COUNT(*) FROM brush`).Scan(&count); err != nil {
		return fmt.Errorf("Couldn't count brushes:\n%w", err)
	}
	if count > 0 {
		return nil
	}

	return s.Transact(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO brush(name, record, created_at, user_defined)
			VALUES (?, ?, ?, 0)`)
		if err != nil {
			return fmt.Errorf("Failed to prepare statement to insert brush:\n%w", err)
		}
		defer stmt.Close()

		now := time.Now().Unix()
		for _, b := range brush.Defaults() {
			record, err := codec.EncodeBrush(b.Record())
			if err != nil {
				return err
			}
			if _, err := stmt.Exec(b.Name, record, now); err != nil {
				return fmt.Errorf("Failed to insert default brush %q:\n%w", b.Name, err)
			}
		}
		s.logger.Info("Created default brushes", "count", len(brush.Defaults()))
		return nil
	})
}

// ListBrushes returns the stored brushes, defaults first. A brush whose
// record can't be decoded is logged and left out.
func (s *Store) ListBrushes() ([]*brush.Brush, error) {
	type stored struct {
		id          int
		name        string
		record      []byte
		userDefined bool
	}
	rows, err := QueryAndScanRows(s.Db, `
		SELECT id, name, record, user_defined
		FROM brush
		ORDER BY user_defined, id`, nil, func(r *sql.Rows, x *stored) error {
		return r.Scan(&x.id, &x.name, &x.record, &x.userDefined)
	})
	if err != nil {
		return nil, fmt.Errorf("Couldn't list brushes:\n%w", err)
	}

	brushes := make([]*brush.Brush, 0, len(rows))
	for _, row := range rows {
		record, err := codec.DecodeBrush(row.record)
		if err != nil {
			s.logger.Warn("Skipping unreadable brush", "brush", row.name, "err", err)
			continue
		}
		b := brush.FromRecord(record)
		b.Id = row.id
		b.Name = row.name
		b.UserDefined = row.userDefined
		brushes = append(brushes, b)
	}
	return brushes, nil
}

// SaveBrush stores a user brush, replacing any brush of the same name.
func (s *Store) SaveBrush(b *brush.Brush) error {
	if err := b.Validate(); err != nil {
		return err
	}
	record, err := codec.EncodeBrush(b.Record())
	if err != nil {
		return err
	}

	row := s.Db.QueryRow(`
		INSERT INTO brush(name, record, created_at, user_defined)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(name) DO UPDATE SET record = excluded.record, user_defined = 1
		RETURNING id`, b.Name, record, time.Now().Unix())
	if err := row.Scan(&b.Id); err != nil {
		return fmt.Errorf("Couldn't save brush %q:\n%w", b.Name, err)
	}
	b.UserDefined = true
	return nil
}
