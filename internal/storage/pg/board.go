package pg

import (
	"context"

	"github.com/lib/pq"

	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/domain"
)

// GetBoards returns the boards matching the given ids in one lookup.
// Missing ids are simply absent from the result.
func (s *Storage) GetBoards(ctx context.Context, ids []string) ([]domain.Board, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, owner_id, name, is_public, created
	FROM boards
	WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []domain.Board
	for rows.Next() {
		var b domain.Board
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Name, &b.IsPublic, &b.CreatedAt); err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}
