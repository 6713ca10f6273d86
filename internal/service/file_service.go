package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"jobboard/api/internal/ids"
	"jobboard/api/internal/media/sniffer"
)

var ErrFileTooLarge = errors.New("file too large")

var folderPattern = regexp.MustCompile(`^[a-z0-9-]{1,32}$`)

type UploadInput struct {
	// Folder groups objects, e.g. "resume" or "company".
	Folder string
	// DeclaredType is the client's Content-Type for the part, if any.
	DeclaredType string
	Body         io.Reader
}

type UploadResult struct {
	FileName string `json:"fileName"`
	URL      string `json:"url"`
}

type FileService struct {
	store   ObjectStore
	maxSize int64
	log     zerolog.Logger
	now     func() time.Time
}

func NewFileService(store ObjectStore, maxSize int64, log zerolog.Logger) *FileService {
	return &FileService{store: store, maxSize: maxSize, log: log, now: time.Now}
}

// Upload sniffs the content, rejects anything but PDF, Word documents and
// PNG/JPEG images, and stores it under folder/date/id.ext.
func (s *FileService) Upload(ctx context.Context, input UploadInput) (UploadResult, error) {
	if input.Body == nil {
		return UploadResult{}, fmt.Errorf("%w: missing file", ErrInvalidInput)
	}
	folder := strings.ToLower(strings.TrimSpace(input.Folder))
	if folder == "" {
		folder = "default"
	}
	if !folderPattern.MatchString(folder) {
		return UploadResult{}, fmt.Errorf("%w: bad folder name", ErrInvalidInput)
	}

	data, err := io.ReadAll(io.LimitReader(input.Body, s.maxSize+1))
	if err != nil {
		return UploadResult{}, fmt.Errorf("read file: %w", err)
	}
	if len(data) == 0 {
		return UploadResult{}, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	if int64(len(data)) > s.maxSize {
		return UploadResult{}, ErrFileTooLarge
	}

	head := data
	if len(head) > sniffer.HeadSize {
		head = head[:sniffer.HeadSize]
	}
	detected, err := sniffer.DetectHead(head)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: unsupported file type", ErrInvalidInput)
	}
	if !sniffer.Compatible(input.DeclaredType, detected) {
		return UploadResult{}, fmt.Errorf("%w: content type mismatch: declared %s, actual %s",
			ErrInvalidInput, input.DeclaredType, detected.MIME)
	}

	fileName := fmt.Sprintf("%s.%s", ids.New(), detected.Type)
	key := path.Join(folder, s.now().UTC().Format("2006/01/02"), fileName)

	if _, err := s.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), detected.MIME); err != nil {
		return UploadResult{}, err
	}

	s.log.Info().Str("key", key).Int("bytes", len(data)).Msg("file stored")
	return UploadResult{FileName: key, URL: s.store.PublicURL(key)}, nil
}
