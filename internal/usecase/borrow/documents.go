package borrow

import (
	"context"
	"log/slog"
	"strings"

	domain "p2p-lending-backend/internal/domain/borrow"
	"p2p-lending-backend/internal/domain/storage"
	"p2p-lending-backend/internal/domain/uow"
	"p2p-lending-backend/internal/shared/apperr"
	"p2p-lending-backend/pkg/id"
)

// DocumentUsecase issues upload slots for borrow request documents and
// confirms them once uploaded.
type DocumentUsecase struct {
	requests  domain.Repository
	uow       uow.UnitOfWork
	presigner storage.Presigner
	keyPrefix string
	log       *slog.Logger
}

func NewDocumentUsecase(requests domain.Repository, tx uow.UnitOfWork, presigner storage.Presigner, keyPrefix string) *DocumentUsecase {
	return &DocumentUsecase{requests: requests, uow: tx, presigner: presigner, keyPrefix: keyPrefix, log: slog.Default()}
}

func (u *DocumentUsecase) SetLogger(l *slog.Logger) {
	if l != nil {
		u.log = l
	}
}

func (u *DocumentUsecase) Presign(ctx context.Context, requesterID, ref string, files []FileSpec) ([]UploadDTO, error) {
	brID, err := parseBorrowRequestRef(ref)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, apperr.FieldErr("files", "at least one file is required")
	}
	for _, f := range files {
		name := strings.TrimSpace(f.FileName)
		if name == "" {
			return nil, apperr.FieldErr("files", "fileName is required")
		}
		if strings.ContainsAny(name, `/\`) {
			return nil, apperr.FieldErr("files", "fileName must not contain path separators")
		}
	}

	br, err := u.requests.GetOwned(ctx, brID, requesterID)
	if err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(files))
	for _, f := range files {
		name := strings.TrimSpace(f.FileName)
		docs = append(docs, domain.Document{
			ID:              id.New(),
			BorrowRequestID: br.ID,
			FileName:        name,
			ContentType:     f.ContentType,
			StorageKey:      storage.DocumentKey(u.keyPrefix, br.ID, name),
			Status:          domain.DocumentPendingUpload,
		})
	}
	if err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Documents.CreateBatch(ctx, docs)
	}); err != nil {
		return nil, err
	}

	out := make([]UploadDTO, 0, len(docs))
	for _, d := range docs {
		url, err := u.presigner.PresignUpload(ctx, d.StorageKey, d.ContentType)
		if err != nil {
			u.log.Error("presign failed", "borrow_request_id", br.ID, "storage_key", d.StorageKey, "err", err)
			return nil, apperr.ExternalErr("storage unavailable", err)
		}
		out = append(out, UploadDTO{
			DocumentID: id.Prefixed(id.PrefixDocument, d.ID),
			UploadURL:  url,
			FileName:   d.FileName,
			StorageKey: d.StorageKey,
		})
	}
	if u.presigner.Placeholder() {
		u.log.Warn("placeholder presign url issued",
			"presigner", u.presigner.Name(), "borrow_request_id", br.ID, "count", len(out))
	}
	return out, nil
}

// Confirm marks the given documents CONFIRMED. Every id must belong to the
// borrow request or nothing is changed.
func (u *DocumentUsecase) Confirm(ctx context.Context, requesterID, ref string, documentRefs []string) (int64, error) {
	brID, err := parseBorrowRequestRef(ref)
	if err != nil {
		return 0, err
	}
	if len(documentRefs) == 0 {
		return 0, apperr.FieldErr("documentIds", "at least one document id is required")
	}
	ids := make([]string, 0, len(documentRefs))
	for _, ref := range documentRefs {
		docID, ok := id.ParseRef(id.PrefixDocument, ref)
		if !ok {
			return 0, apperr.FieldErr("documentIds", "malformed document id")
		}
		ids = append(ids, docID)
	}

	br, err := u.requests.GetOwned(ctx, brID, requesterID)
	if err != nil {
		return 0, err
	}

	var n int64
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		found, err := r.Documents.ListByIDs(ctx, br.ID, ids)
		if err != nil {
			return err
		}
		if len(found) != len(ids) {
			return domain.ErrInvalidDocuments
		}
		n, err = r.Documents.MarkConfirmed(ctx, br.ID, ids)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
