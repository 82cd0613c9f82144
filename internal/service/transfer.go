package service

import (
	"context"
	"log/slog"
	"net/http"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/api"
	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/domain"
	apperrors "github.com/LadislavMokry/A11-Moodboard-sub000/internal/errors"
)

const (
	// DefaultMaxBatchSize caps how many images one request may transfer.
	DefaultMaxBatchSize = 20

	// maxConcurrentCopies bounds in-flight download+upload pairs. The
	// limit exists for outstanding network I/O, not CPU.
	maxConcurrentCopies = 5
)

// to mock service in tests
type TransferService interface {
	Transfer(ctx context.Context, caller domain.User, req *api.TransferImagesRequest) (*api.TransferImagesResponse, error)
}

type TransferStorage interface {
	GetBoards(ctx context.Context, ids []string) ([]domain.Board, error)
	GetBoardImages(ctx context.Context, boardID string, imageIDs []string) ([]domain.Image, error)
	MaxPosition(ctx context.Context, boardID string) (int64, error)
	CreateImages(ctx context.Context, images []domain.Image) ([]domain.Image, error)
	DeleteImages(ctx context.Context, boardID string, imageIDs []string) error
}

type ObjectStorage interface {
	Download(ctx context.Context, path string) (data []byte, contentType string, err error)
	// Upload must not overwrite an existing object.
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	Delete(ctx context.Context, paths []string) error
}

type Transfer struct {
	records      TransferStorage
	objects      ObjectStorage
	maxBatchSize int
}

func NewTransfer(records TransferStorage, objects ObjectStorage, maxBatchSize int) TransferService {
	if maxBatchSize <= 0 {
		maxBatchSize = DefaultMaxBatchSize
	}
	return &Transfer{records: records, objects: objects, maxBatchSize: maxBatchSize}
}

// transferRequest is the validated, immutable form of the wire request.
type transferRequest struct {
	op            domain.TransferOp
	sourceBoardID string
	destBoardID   string
	imageIDs      []string
}

// Transfer copies or moves a batch of images between two boards owned by
// the caller. Until the destination records are committed, any failure
// rolls back every object uploaded in this attempt; after commit, a move's
// origin cleanup is best effort and never fails the operation.
func (t *Transfer) Transfer(ctx context.Context, caller domain.User, raw *api.TransferImagesRequest) (*api.TransferImagesResponse, error) {
	req, err := t.validate(raw)
	if err != nil {
		return nil, err
	}

	if err := t.authorize(ctx, caller, req); err != nil {
		return nil, err
	}

	// Items outside the source board are silently excluded even when the
	// id format is valid, so a caller can never pull images out of a
	// board it did not name.
	images, err := t.records.GetBoardImages(ctx, req.sourceBoardID, req.imageIDs)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, apperrors.New(apperrors.CodeNoMatchingItems, "No images matched the requested ids in the source board", http.StatusNotFound)
	}
	// The store returns images in source display order; the caller's id
	// list decides the order copies are appended to the destination.
	images = orderByRequest(req.imageIDs, images)

	basePos, err := t.records.MaxPosition(ctx, req.destBoardID)
	if err != nil {
		return nil, err
	}

	staged, err := t.copyObjects(ctx, req.destBoardID, images, basePos)
	if err != nil {
		transfersTotal.WithLabelValues(string(req.op), "rolled_back").Inc()
		return nil, err
	}

	created, err := t.records.CreateImages(ctx, staged)
	if err != nil {
		// The bulk insert is all-or-nothing, so every uploaded object is
		// now an orphan. Remove them before surfacing the failure.
		t.deleteObjects(ctx, stagedPaths(staged), "commit rollback")
		transfersTotal.WithLabelValues(string(req.op), "rolled_back").Inc()
		return nil, apperrors.New(apperrors.CodeRecordCommitFailed, "Persisting transferred image records failed", http.StatusInternalServerError).WithCause(err)
	}

	if req.op == domain.OpMove {
		t.cleanupOrigin(ctx, req.sourceBoardID, images)
	}

	transfersTotal.WithLabelValues(string(req.op), "ok").Inc()
	imagesTransferred.Add(float64(len(created)))

	return &api.TransferImagesResponse{
		Operation:   string(req.op),
		Transferred: len(created),
		Images:      created,
	}, nil
}

func (t *Transfer) validate(raw *api.TransferImagesRequest) (*transferRequest, error) {
	op, ok := domain.ParseTransferOp(raw.Operation)
	if !ok {
		return nil, apperrors.New(apperrors.CodeInvalidOperation, "Operation must be \"copy\" or \"move\"", http.StatusBadRequest).
			WithDetail("operation", raw.Operation)
	}

	for field, id := range map[string]string{
		"sourceCollectionId": raw.SourceCollectionID,
		"destCollectionId":   raw.DestCollectionID,
	} {
		if !validID(id) {
			return nil, apperrors.New(apperrors.CodeInvalidIdentifierFormat, "Collection id is not a valid identifier", http.StatusBadRequest).
				WithDetail("field", field).
				WithDetail("value", id)
		}
	}

	if len(raw.ItemIDs) == 0 {
		return nil, apperrors.New(apperrors.CodeEmptyBatch, "At least one item id is required", http.StatusBadRequest)
	}
	if len(raw.ItemIDs) > t.maxBatchSize {
		return nil, apperrors.New(apperrors.CodeBatchTooLarge, "Too many items in one transfer", http.StatusBadRequest).
			WithDetail("received", len(raw.ItemIDs)).
			WithDetail("maxBatchSize", t.maxBatchSize)
	}
	for _, id := range raw.ItemIDs {
		if !validID(id) {
			return nil, apperrors.New(apperrors.CodeInvalidIdentifierFormat, "Item id is not a valid identifier", http.StatusBadRequest).
				WithDetail("field", "itemIds").
				WithDetail("value", id)
		}
	}

	return &transferRequest{
		op:            op,
		sourceBoardID: raw.SourceCollectionID,
		destBoardID:   raw.DestCollectionID,
		imageIDs:      raw.ItemIDs,
	}, nil
}

// orderByRequest arranges resolved images in the request's id order.
// Ids that resolved to nothing are skipped; a repeated id counts once.
func orderByRequest(ids []string, images []domain.Image) []domain.Image {
	byID := make(map[string]domain.Image, len(images))
	for _, img := range images {
		byID[img.ID] = img
	}

	ordered := make([]domain.Image, 0, len(images))
	for _, id := range ids {
		if img, ok := byID[id]; ok {
			ordered = append(ordered, img)
			delete(byID, id)
		}
	}
	return ordered
}

// validID accepts the 36-character canonical UUID form only.
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// authorize confirms both boards exist and belong to the caller. This is
// the last gate before any data movement.
func (t *Transfer) authorize(ctx context.Context, caller domain.User, req *transferRequest) error {
	boards, err := t.records.GetBoards(ctx, []string{req.sourceBoardID, req.destBoardID})
	if err != nil {
		return err
	}
	if len(boards) < 2 {
		return apperrors.New(apperrors.CodeCollectionNotFound, "Source or destination board not found", http.StatusNotFound)
	}

	var unauthorized []string
	for _, board := range boards {
		if board.OwnerID != caller.ID {
			unauthorized = append(unauthorized, board.ID)
		}
	}
	if len(unauthorized) > 0 {
		return apperrors.New(apperrors.CodeOwnershipViolation, "Caller does not own every involved board", http.StatusForbidden).
			WithDetail("unauthorizedCollectionIds", unauthorized)
	}
	return nil
}

// uploadLedger records object paths uploaded in this attempt so a failure
// can delete exactly what this attempt created. It is the only state
// shared between concurrent copy workers.
type uploadLedger struct {
	mu    sync.Mutex
	paths []string
}

func (l *uploadLedger) add(p string) {
	l.mu.Lock()
	l.paths = append(l.paths, p)
	l.mu.Unlock()
}

func (l *uploadLedger) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.paths...)
}

// copyObjects duplicates each image's payload under a fresh path in the
// destination board's namespace and stages the new records. At most
// maxConcurrentCopies run at once. The first failure stops new launches,
// waits for in-flight copies to settle, then deletes everything uploaded
// so far and reports that failure.
//
// Position assignment follows input order, not completion order: the i-th
// resolved image gets basePos+i+1.
func (t *Transfer) copyObjects(ctx context.Context, destBoardID string, images []domain.Image, basePos int64) ([]domain.Image, error) {
	staged := make([]domain.Image, len(images))
	ledger := &uploadLedger{}
	sem := make(chan struct{}, maxConcurrentCopies)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i, img := range images {
		mu.Lock()
		failed := firstErr != nil
		mu.Unlock()
		if failed {
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(i int, src domain.Image) {
			defer wg.Done()
			defer func() { <-sem }()

			copied, err := t.copyOne(ctx, destBoardID, src, basePos+int64(i)+1, ledger)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			staged[i] = *copied
		}(i, img)
	}

	// Full barrier: nothing commits until every in-flight copy settled.
	wg.Wait()

	if firstErr != nil {
		t.deleteObjects(ctx, ledger.snapshot(), "transfer rollback")
		return nil, firstErr
	}
	return staged, nil
}

// copyOne downloads one payload and uploads it under a new identity.
// The successful upload is appended to the ledger before returning.
func (t *Transfer) copyOne(ctx context.Context, destBoardID string, src domain.Image, position int64, ledger *uploadLedger) (*domain.Image, error) {
	data, contentType, err := t.objects.Download(ctx, src.StoragePath)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeSourceObjectUnavailable, "Downloading a source image failed", http.StatusBadGateway).
			WithDetail("imageId", src.ID).
			WithCause(err)
	}

	newID := uuid.NewString()
	newPath := destBoardID + "/" + newID + path.Ext(src.StoragePath)
	if contentType == "" {
		contentType = src.MimeType
	}

	if err := t.objects.Upload(ctx, newPath, data, contentType); err != nil {
		return nil, apperrors.New(apperrors.CodeDestinationUploadFailed, "Uploading an image copy failed", http.StatusBadGateway).
			WithDetail("imageId", src.ID).
			WithCause(err)
	}
	ledger.add(newPath)

	copied := src
	copied.ID = newID
	copied.BoardID = destBoardID
	copied.StoragePath = newPath
	copied.Position = position
	copied.CreatedAt = time.Now().UTC()
	return &copied, nil
}

// cleanupOrigin removes the source records and objects after a move's
// commit. Failures leave a harmless duplicate for the orphan collector
// and must never mask the committed result.
func (t *Transfer) cleanupOrigin(ctx context.Context, sourceBoardID string, images []domain.Image) {
	ctx = context.WithoutCancel(ctx)

	ids := make([]string, len(images))
	paths := make([]string, len(images))
	for i, img := range images {
		ids[i] = img.ID
		paths[i] = img.StoragePath
	}

	if err := t.records.DeleteImages(ctx, sourceBoardID, ids); err != nil {
		cleanupFailures.Inc()
		slog.Error("move cleanup: deleting source image records", "board", sourceBoardID, "err", err)
	}
	t.deleteObjects(ctx, paths, "move cleanup")
}

func (t *Transfer) deleteObjects(ctx context.Context, paths []string, stage string) {
	if len(paths) == 0 {
		return
	}
	// Compensation still has to run when the request context is already
	// cancelled, e.g. the client disconnected mid-transfer.
	ctx = context.WithoutCancel(ctx)
	if err := t.objects.Delete(ctx, paths); err != nil {
		cleanupFailures.Inc()
		slog.Error("deleting objects failed", "stage", stage, "count", len(paths), "err", err)
	}
}

func stagedPaths(staged []domain.Image) []string {
	paths := make([]string, len(staged))
	for i, img := range staged {
		paths[i] = img.StoragePath
	}
	return paths
}
