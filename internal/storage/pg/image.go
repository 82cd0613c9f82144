package pg

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/domain"
)

const imageColumns = `id, board_id, storage_path, position, mime_type, width, height, size_bytes, original_filename, source_url, caption, created`

func scanImage(rows *sql.Rows) (domain.Image, error) {
	var img domain.Image
	var mimeType, originalFilename, sourceURL, caption sql.NullString
	var width, height sql.NullInt64
	var sizeBytes sql.NullInt64
	err := rows.Scan(&img.ID, &img.BoardID, &img.StoragePath, &img.Position,
		&mimeType, &width, &height, &sizeBytes, &originalFilename, &sourceURL, &caption, &img.CreatedAt)
	if err != nil {
		return img, err
	}
	img.MimeType = mimeType.String
	img.Width = int(width.Int64)
	img.Height = int(height.Int64)
	img.SizeBytes = sizeBytes.Int64
	img.OriginalFilename = originalFilename.String
	img.SourceURL = sourceURL.String
	img.Caption = caption.String
	return img, nil
}

// GetBoardImages returns images that belong to the given board AND appear
// in imageIDs. The board scope is part of the query on purpose: a valid
// image id from another board must not resolve.
func (s *Storage) GetBoardImages(ctx context.Context, boardID string, imageIDs []string) ([]domain.Image, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
	SELECT %s
	FROM images
	WHERE board_id = $1 AND id = ANY($2)
	ORDER BY position
	`, imageColumns), boardID, pq.Array(imageIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []domain.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// MaxPosition returns the largest position in a board, 0 when empty.
func (s *Storage) MaxPosition(ctx context.Context, boardID string) (int64, error) {
	var maxPos int64
	err := s.db.QueryRowContext(ctx, `
	SELECT COALESCE(MAX(position), 0) FROM images WHERE board_id = $1
	`, boardID).Scan(&maxPos)
	return maxPos, err
}

// CreateImages persists all records in a single multi-row insert so the
// commit is one outcome, not len(images) independent ones.
func (s *Storage) CreateImages(ctx context.Context, images []domain.Image) ([]domain.Image, error) {
	if len(images) == 0 {
		return nil, nil
	}

	const fieldsPerRow = 11
	valueRows := make([]string, 0, len(images))
	args := make([]any, 0, len(images)*fieldsPerRow)
	for i, img := range images {
		base := i * fieldsPerRow
		placeholders := make([]string, fieldsPerRow)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueRows = append(valueRows, "("+strings.Join(placeholders, ", ")+")")
		args = append(args, img.ID, img.BoardID, img.StoragePath, img.Position,
			nullString(img.MimeType), nullInt(int64(img.Width)), nullInt(int64(img.Height)), nullInt(img.SizeBytes),
			nullString(img.OriginalFilename), nullString(img.SourceURL), nullString(img.Caption))
	}

	query := fmt.Sprintf(`
	INSERT INTO images (id, board_id, storage_path, position, mime_type, width, height, size_bytes, original_filename, source_url, caption)
	VALUES %s
	RETURNING %s
	`, strings.Join(valueRows, ", "), imageColumns)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var created []domain.Image
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		created = append(created, img)
	}
	return created, rows.Err()
}

// DeleteImages removes the given image records, scoped to one board.
func (s *Storage) DeleteImages(ctx context.Context, boardID string, imageIDs []string) error {
	_, err := s.db.ExecContext(ctx, `
	DELETE FROM images WHERE board_id = $1 AND id = ANY($2)
	`, boardID, pq.Array(imageIDs))
	return err
}

// AllStoragePaths lists every referenced object path, for the orphan sweep.
func (s *Storage) AllStoragePaths(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT storage_path FROM images`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i int64) sql.NullInt64 {
	return sql.NullInt64{Int64: i, Valid: i != 0}
}
