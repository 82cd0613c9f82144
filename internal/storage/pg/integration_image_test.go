package pg

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/domain"
)

func createTestUser(t *testing.T) string {
	t.Helper()
	id := uuid.NewString()
	_, err := storage.db.Exec(`INSERT INTO users (id, email) VALUES ($1, $2)`, id, id+"@example.com")
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = storage.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	})
	return id
}

func createTestBoard(t *testing.T, ownerID, name string) domain.Board {
	t.Helper()
	board := domain.Board{ID: uuid.NewString(), OwnerID: ownerID, Name: name}
	_, err := storage.db.Exec(`INSERT INTO boards (id, owner_id, name) VALUES ($1, $2, $3)`,
		board.ID, board.OwnerID, board.Name)
	require.NoError(t, err)
	return board
}

func createTestImage(t *testing.T, boardID string, position int64) domain.Image {
	t.Helper()
	img := domain.Image{
		ID:          uuid.NewString(),
		BoardID:     boardID,
		Position:    position,
		MimeType:    "image/jpeg",
		Caption:     "test image",
	}
	img.StoragePath = boardID + "/" + img.ID + ".jpg"
	_, err := storage.db.Exec(`
	INSERT INTO images (id, board_id, storage_path, position, mime_type, caption)
	VALUES ($1, $2, $3, $4, $5, $6)`,
		img.ID, img.BoardID, img.StoragePath, img.Position, img.MimeType, img.Caption)
	require.NoError(t, err)
	return img
}

func TestGetBoards(t *testing.T) {
	ctx := context.Background()
	owner := createTestUser(t)
	boardA := createTestBoard(t, owner, "a")
	boardB := createTestBoard(t, owner, "b")

	t.Run("both found", func(t *testing.T) {
		boards, err := storage.GetBoards(ctx, []string{boardA.ID, boardB.ID})
		require.NoError(t, err)
		require.Len(t, boards, 2)
	})

	t.Run("missing id is absent", func(t *testing.T) {
		boards, err := storage.GetBoards(ctx, []string{boardA.ID, uuid.NewString()})
		require.NoError(t, err)
		require.Len(t, boards, 1)
		assert.Equal(t, boardA.ID, boards[0].ID)
		assert.Equal(t, owner, boards[0].OwnerID)
	})
}

func TestGetBoardImages(t *testing.T) {
	ctx := context.Background()
	owner := createTestUser(t)
	board := createTestBoard(t, owner, "src")
	other := createTestBoard(t, owner, "other")
	img1 := createTestImage(t, board.ID, 1)
	img2 := createTestImage(t, board.ID, 2)
	foreign := createTestImage(t, other.ID, 1)

	t.Run("scoped to the board", func(t *testing.T) {
		images, err := storage.GetBoardImages(ctx, board.ID, []string{img1.ID, img2.ID, foreign.ID})
		require.NoError(t, err)
		require.Len(t, images, 2, "an image from another board must not resolve")
		assert.Equal(t, img1.ID, images[0].ID)
		assert.Equal(t, img2.ID, images[1].ID)
	})

	t.Run("ordered by position", func(t *testing.T) {
		images, err := storage.GetBoardImages(ctx, board.ID, []string{img2.ID, img1.ID})
		require.NoError(t, err)
		require.Len(t, images, 2)
		assert.Equal(t, int64(1), images[0].Position)
		assert.Equal(t, int64(2), images[1].Position)
	})
}

func TestMaxPosition(t *testing.T) {
	ctx := context.Background()
	owner := createTestUser(t)

	t.Run("empty board is zero", func(t *testing.T) {
		board := createTestBoard(t, owner, "empty")
		maxPos, err := storage.MaxPosition(ctx, board.ID)
		require.NoError(t, err)
		assert.Zero(t, maxPos)
	})

	t.Run("gaps do not matter", func(t *testing.T) {
		board := createTestBoard(t, owner, "gappy")
		createTestImage(t, board.ID, 2)
		createTestImage(t, board.ID, 7)
		maxPos, err := storage.MaxPosition(ctx, board.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(7), maxPos)
	})
}

func TestCreateImages(t *testing.T) {
	ctx := context.Background()
	owner := createTestUser(t)
	board := createTestBoard(t, owner, "dest")

	t.Run("bulk insert returns all rows", func(t *testing.T) {
		batch := []domain.Image{
			{ID: uuid.NewString(), BoardID: board.ID, StoragePath: board.ID + "/a.jpg", Position: 1, MimeType: "image/jpeg", Caption: "a"},
			{ID: uuid.NewString(), BoardID: board.ID, StoragePath: board.ID + "/b.png", Position: 2, SizeBytes: 1234},
		}

		created, err := storage.CreateImages(ctx, batch)
		require.NoError(t, err)
		require.Len(t, created, 2)
		assert.Equal(t, batch[0].ID, created[0].ID)
		assert.Equal(t, "a", created[0].Caption)
		assert.Equal(t, int64(1234), created[1].SizeBytes)
		assert.False(t, created[0].CreatedAt.IsZero())
	})

	t.Run("position collision fails the whole batch", func(t *testing.T) {
		batch := []domain.Image{
			{ID: uuid.NewString(), BoardID: board.ID, StoragePath: board.ID + "/c.jpg", Position: 10},
			{ID: uuid.NewString(), BoardID: board.ID, StoragePath: board.ID + "/d.jpg", Position: 10},
		}

		_, err := storage.CreateImages(ctx, batch)
		require.Error(t, err)

		images, err := storage.GetBoardImages(ctx, board.ID, []string{batch[0].ID, batch[1].ID})
		require.NoError(t, err)
		assert.Empty(t, images, "a failed bulk insert must not leave partial rows")
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		created, err := storage.CreateImages(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, created)
	})
}

func TestDeleteImages(t *testing.T) {
	ctx := context.Background()
	owner := createTestUser(t)
	board := createTestBoard(t, owner, "src")
	other := createTestBoard(t, owner, "other")
	img := createTestImage(t, board.ID, 1)
	foreign := createTestImage(t, other.ID, 1)

	require.NoError(t, storage.DeleteImages(ctx, board.ID, []string{img.ID, foreign.ID}))

	remaining, err := storage.GetBoardImages(ctx, board.ID, []string{img.ID})
	require.NoError(t, err)
	assert.Empty(t, remaining)

	kept, err := storage.GetBoardImages(ctx, other.ID, []string{foreign.ID})
	require.NoError(t, err)
	assert.Len(t, kept, 1, "delete is scoped to the named board")
}

func TestAllStoragePaths(t *testing.T) {
	ctx := context.Background()
	owner := createTestUser(t)
	board := createTestBoard(t, owner, "paths")
	img := createTestImage(t, board.ID, 1)

	paths, err := storage.AllStoragePaths(ctx)
	require.NoError(t, err)
	assert.Contains(t, paths, img.StoragePath)
}
