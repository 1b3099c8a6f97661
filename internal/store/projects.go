package store

import (
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"tomgalvin.uk/msxsprite/internal/bitmap"
	"tomgalvin.uk/msxsprite/internal/codec"
	"tomgalvin.uk/msxsprite/internal/project"
)

// LoadReport lists the problems found while loading a project. Sprites that
// couldn't be loaded are replaced with empty ones.
type LoadReport struct {
	// Malformed holds the decoding error of each bad sprite record.
	Malformed map[int]error
	// Missing counts grid positions with no stored sprite.
	Missing int
	// Dropped counts stored sprites beyond the end of the grid.
	Dropped int
}

func (r *LoadReport) OK() bool {
	return len(r.Malformed) == 0 && r.Missing == 0 && r.Dropped == 0
}

func scanProject(row interface{ Scan(...any) error }, p *project.Project) error {
	var uuidString string
	var createdAt int64
	if err := row.Scan(&p.Id, &uuidString, &p.Name, &p.SpriteSize, &createdAt); err != nil {
		return err
	}
	u, err := uuid.Parse(uuidString)
	if err != nil {
		return fmt.Errorf("Project %q has a bad UUID:\n%w", p.Name, err)
	}
	p.Uuid = u
	p.CreatedAt = time.Unix(createdAt, 0)
	p.Cols, p.Rows = project.GridDims(p.SpriteSize)
	return nil
}

// ListProjects returns every project ordered by name, without sprites.
func (s *Store) ListProjects() ([]project.Project, error) {
	return QueryAndScanRows(s.Db, `
		SELECT id, uuid, name, sprite_size, created_at
		FROM project
		ORDER BY name`, nil, func(r *sql.Rows, p *project.Project) error {
		return scanProject(r, p)
	})
}

// GetProjectByName returns a project without its sprites, or nil if there is
// no project with that name.
func (s *Store) GetProjectByName(name string) (*project.Project, error) {
	row := s.Db.QueryRow(`
		SELECT id, uuid, name, sprite_size, created_at
		FROM project
		WHERE name = ?`, name)

	var p project.Project
	if err := scanProject(row, &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("Failed to read project:\n%w", err)
	}
	return &p, nil
}

// LoadProject reads a project and all of its sprites. Bad sprite records
// don't stop the load; they are logged, left empty and listed in the report.
// It returns nil if there is no project with that name.
func (s *Store) LoadProject(name string) (*project.Project, *LoadReport, error) {
	header, err := s.GetProjectByName(name)
	if err != nil || header == nil {
		return nil, nil, err
	}

	type stored struct {
		index  int
		record []byte
	}
	rows, err := QueryAndScanRows(s.Db, `
		SELECT sprite_index, record
		FROM sprite
		WHERE project_id = ?`, []any{header.Id}, func(r *sql.Rows, x *stored) error {
		return r.Scan(&x.index, &x.record)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("Failed to read sprites of project %q:\n%w", name, err)
	}

	p, err := project.New(header.Name, header.SpriteSize)
	if err != nil {
		return nil, nil, err
	}
	p.Id, p.Uuid, p.CreatedAt = header.Id, header.Uuid, header.CreatedAt

	report := &LoadReport{Malformed: make(map[int]error)}
	records := make(map[int][]byte, len(rows))
	for _, r := range rows {
		if r.index < 0 || r.index >= p.Len() {
			report.Dropped++
			continue
		}
		records[r.index] = r.record
	}
	report.Missing = p.Len() - len(records)

	decoded, failed := codec.DecodeAll(records, func(record []byte) (*bitmap.Bitmap, error) {
		b, err := codec.DecodeSprite(record)
		if err != nil {
			return nil, err
		}
		if b.Size() != p.SpriteSize {
			return nil, fmt.Errorf("%w: %dx%d sprite in a %dx%d project", codec.ErrMalformedRecord, b.Size(), b.Size(), p.SpriteSize, p.SpriteSize)
		}
		return b, nil
	})
	for idx, b := range decoded {
		p.Sprites[idx].Bitmap = b
	}
	for idx, err := range failed {
		report.Malformed[idx] = err
		s.logger.Warn("Couldn't load sprite, leaving it empty", "project", name, "sprite", idx, "err", err)
	}
	if report.Dropped > 0 {
		s.logger.Warn("Ignored sprites beyond the end of the grid", "project", name, "count", report.Dropped)
	}

	return p, report, nil
}

// SaveProject writes a project and all its sprites in one transaction,
// replacing any project of the same name. Id, Uuid and CreatedAt are filled
// in from the stored row.
func (s *Store) SaveProject(p *project.Project) error {
	if p.Uuid == uuid.Nil {
		p.Uuid = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	err := s.Transact(func(tx *sql.Tx) error {
		row := tx.QueryRow(`
			INSERT INTO project(uuid, name, sprite_size, created_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET sprite_size = excluded.sprite_size
			RETURNING id, uuid, name, sprite_size, created_at`,
			p.Uuid.String(), p.Name, p.SpriteSize, p.CreatedAt.Unix())
		if err := scanProject(row, p); err != nil {
			return fmt.Errorf("Failed to insert into project:\n%w", err)
		}

		if _, err := tx.Exec(`DELETE FROM sprite WHERE project_id = ?`, p.Id); err != nil {
			return fmt.Errorf("Couldn't clear old sprites:\n%w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO sprite(project_id, sprite_index, record)
			VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("Failed to prepare statement to insert sprite:\n%w", err)
		}
		defer stmt.Close()
		for i, sp := range p.Sprites {
			if _, err := stmt.Exec(p.Id, i, codec.EncodeSprite(sp.Bitmap)); err != nil {
				return fmt.Errorf("Failed to insert sprite %v of project:\n%w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("Couldn't save project %q:\n%w", p.Name, err)
	}
	s.logger.Info("Saved project", "project", p.Name, "sprites", len(p.Sprites))
	return nil
}

// DeleteProject removes a project and its sprites. It reports whether there
// was a project to remove.
func (s *Store) DeleteProject(name string) (bool, error) {
	var deleted bool
	err := s.Transact(func(tx *sql.Tx) error {
		var id int
		if err := tx.QueryRow(`SELECT id FROM project WHERE name = ?`, name).Scan(&id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return err
		}
		if _, err := tx.Exec(`DELETE FROM sprite WHERE project_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM project WHERE id = ?`, id); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("Couldn't delete project %q:\n%w", name, err)
	}
	return deleted, nil
}

// PutSprite stores one sprite record under (projectId, index).
func (s *Store) PutSprite(projectId int, index int, b *bitmap.Bitmap) error {
	_, err := s.Db.Exec(`
		INSERT INTO sprite(project_id, sprite_index, record)
		VALUES (?, ?, ?)
		ON CONFLICT(project_id, sprite_index) DO UPDATE SET record = excluded.record`,
		projectId, index, codec.EncodeSprite(b))
	if err != nil {
		return fmt.Errorf("Couldn't store sprite %d:\n%w", index, err)
	}
	return nil
}

// GetSprite reads one sprite, or nil if it isn't stored.
func (s *Store) GetSprite(projectId int, index int) (*bitmap.Bitmap, error) {
	var record []byte
	row := s.Db.QueryRow(`
		SELECT record
		FROM sprite
		WHERE project_id = ? AND sprite_index = ?`, projectId, index)
	if err := row.Scan(&record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("Failed to read sprite:\n%w", err)
	}
	b, err := codec.DecodeSprite(record)
	if err != nil {
		return nil, fmt.Errorf("Sprite %d of project %d:\n%w", index, projectId, err)
	}
	return b, nil
}

// MalformedIndices returns the indices of the malformed sprites in order.
func (r *LoadReport) MalformedIndices() []int {
	return slices.Sorted(maps.Keys(r.Malformed))
}
