package store

import (
	"errors"
	"fmt"
	"strings"
)

// ListFavourites returns all favourites in storage order.
func (s *Store) ListFavourites() ([]Favourite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id, name, duration_seconds FROM favourites ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list favourites: %w", err)
	}
	defer rows.Close()

	favs := []Favourite{}
	for rows.Next() {
		var f Favourite
		if err := rows.Scan(&f.ID, &f.Name, &f.DurationSeconds); err != nil {
			return nil, err
		}
		favs = append(favs, f)
	}
	return favs, rows.Err()
}

// CreateFavourite inserts a preset and returns its id.
func (s *Store) CreateFavourite(name string, durationSeconds int64) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, errors.New("create favourite: name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`INSERT INTO favourites (name, duration_seconds) VALUES (?, ?)`,
		name, durationSeconds,
	)
	if err != nil {
		return 0, fmt.Errorf("create favourite: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create favourite: %w", err)
	}
	return id, nil
}

// DeleteFavourite removes a preset. A missing id is not an error.
func (s *Store) DeleteFavourite(id int64) error {
	return s.exec("delete favourite", `DELETE FROM favourites WHERE id = ?`, id)
}
