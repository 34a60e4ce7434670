package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sakaylink/pkg/cloudinary"
)

// ErrUploadFailed wraps a per-file media upload error.
var ErrUploadFailed = errors.New("upload failed")

// DocumentUpload is one file queued for upload, keyed by its document field
// (driver_license, background_check).
type DocumentUpload struct {
	Field string
	File  io.Reader
}

// UploadResult is the aggregate of a multi-file upload: URLs for the files
// that made it, one error per file that did not. Complete only when every
// file succeeded.
type UploadResult struct {
	URLs     map[string]string
	Failures map[string]error
}

func (r UploadResult) Complete() bool {
	return len(r.Failures) == 0
}

// CredentialStore persists uploaded document URLs onto the driver profile.
type CredentialStore interface {
	UpdateCredentialURLs(ctx context.Context, uid string, urls map[string]string) error
}

// DocumentService runs driver document uploads as a structured concurrent
// join: every file is its own task, all are awaited, and one failure never
// cancels a sibling in flight.
type DocumentService struct {
	drivers  CredentialStore
	uploader cloudinary.Client
	folder   string
	log      *zap.Logger
}

func NewDocumentService(drivers CredentialStore, uploader cloudinary.Client, folder string, log *zap.Logger) *DocumentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DocumentService{drivers: drivers, uploader: uploader, folder: folder, log: log}
}

type outcome struct {
	field string
	url   string
	err   error
}

// UploadDriverDocuments uploads the given files concurrently and merges the
// successful URLs into the driver's credentials. Failures are collected into
// the result, exactly one per failing file; they do not abort the siblings.
func (s *DocumentService) UploadDriverDocuments(ctx context.Context, uid string, files []DocumentUpload) (UploadResult, error) {
	result := UploadResult{
		URLs:     make(map[string]string, len(files)),
		Failures: make(map[string]error),
	}
	if len(files) == 0 {
		return result, nil
	}

	outcomes := make(chan outcome, len(files))
	var wg sync.WaitGroup
	for _, f := range files {
		wg.Add(1)
		go func(f DocumentUpload) {
			defer wg.Done()
			publicID := f.Field + "_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
			url, err := s.uploader.UploadImage(ctx, f.File, s.folder+"/"+uid, publicID)
			if err != nil {
				outcomes <- outcome{field: f.Field, err: fmt.Errorf("%w: %s: %v", ErrUploadFailed, f.Field, err)}
				return
			}
			outcomes <- outcome{field: f.Field, url: url}
		}(f)
	}
	wg.Wait()
	close(outcomes)

	for o := range outcomes {
		if o.err != nil {
			result.Failures[o.field] = o.err
			continue
		}
		result.URLs[o.field] = o.url
	}

	if len(result.URLs) > 0 {
		if err := s.drivers.UpdateCredentialURLs(ctx, uid, result.URLs); err != nil {
			return result, err
		}
	}
	if !result.Complete() {
		s.log.Warn("document upload incomplete",
			zap.String("uid", uid),
			zap.Int("uploaded", len(result.URLs)),
			zap.Int("failed", len(result.Failures)))
	}
	return result, nil
}
