package file

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/publication-admin/internal/domain"
)

// sniffLen is how many leading bytes are inspected to confirm the file type.
const sniffLen = 3072

type UploadInput struct {
	Reader      io.Reader
	ContentType string
	Size        int64
}

type Service interface {
	UploadImage(ctx context.Context, input UploadInput) (*domain.UploadedFile, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	URL(key string) string
}

type service struct {
	store     objectStore
	sizeLimit int64
	newKey    func() string
}

func NewService(store objectStore, sizeLimit int64) Service {
	return &service{store: store, sizeLimit: sizeLimit, newKey: imageKey}
}

func imageKey() string {
	return fmt.Sprintf("pubadmin/user-content/%s.jpeg", uuid.New())
}

// UploadImage stores a JPEG under a fresh key. The declared type, the
// declared size and the actual leading bytes are all checked first.
func (s *service) UploadImage(ctx context.Context, input UploadInput) (*domain.UploadedFile, error) {
	if input.ContentType != domain.ImageContentType {
		return nil, domain.NewError(domain.ErrValidation,
			fmt.Sprintf("Invalid content type, only %s is allowed", domain.ImageContentType))
	}
	if input.Size > s.sizeLimit {
		return nil, domain.NewError(domain.ErrValidation,
			fmt.Sprintf("Too large file, limit is %d, actual size is %d", s.sizeLimit, input.Size))
	}

	br := bufio.NewReaderSize(input.Reader, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if !mimetype.Detect(head).Is(domain.ImageContentType) {
		return nil, domain.NewError(domain.ErrValidation,
			fmt.Sprintf("Invalid content type, only %s is allowed", domain.ImageContentType))
	}

	key := s.newKey()
	if err := s.store.Upload(ctx, key, br, domain.ImageContentType); err != nil {
		return nil, domain.NewError(domain.ErrUpload, fmt.Sprintf("File upload error, details: %v", err))
	}
	return &domain.UploadedFile{FileID: key, URL: s.store.URL(key)}, nil
}
