package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/wmsclient/internal/client/client"
	"github.com/dmitrijs2005/wmsclient/internal/client/mirror"
	"github.com/dmitrijs2005/wmsclient/internal/client/models"
	"github.com/dmitrijs2005/wmsclient/internal/logging"
	"github.com/google/uuid"
)

const (
	uploadPath        = "/files/upload"
	uploadField       = "file"
	uploadIDPrefix    = "upload_"
	defaultMimeType   = "application/octet-stream"
	defaultFileName   = "file"
	dataURLPrefix     = "data:"
	base64DataURLFlag = ";base64"
)

var ErrInvalidFileData = errors.New("invalid file data")

// FallbackError is returned when an upload failed remotely and could not be
// stored locally either.
type FallbackError struct {
	Remote   error
	Fallback error
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("local upload fallback failed: %v (remote error: %v)", e.Fallback, e.Remote)
}

func (e *FallbackError) Unwrap() []error {
	return []error{e.Fallback, e.Remote}
}

// FileInput is either raw bytes or a string holding a data URL or plain
// base64 content. Build it with BytesInput or StringInput.
type FileInput struct {
	raw    []byte
	text   string
	isText bool
}

func BytesInput(b []byte) FileInput { return FileInput{raw: b} }

func StringInput(s string) FileInput { return FileInput{text: s, isText: true} }

type preparedFile struct {
	data     []byte
	name     string
	mimeType string
	dataURL  string
}

type UploadService struct {
	transport client.Transport
	uploads   *mirror.Uploads
	log       logging.Logger
	newID     func() (uuid.UUID, error)
}

func NewUploadService(transport client.Transport, uploads *mirror.Uploads, log logging.Logger) *UploadService {
	if log == nil {
		log = logging.NewNop()
	}
	return &UploadService{
		transport: transport,
		uploads:   uploads,
		log:       log.With("component", "uploads"),
		newID:     uuid.NewRandom,
	}
}

// Upload sends the file to the backend. When that fails the content is kept
// in the local uploads map and a result with StoredLocally set is returned.
// Only undecodable string input and a failing local fallback are errors.
func (s *UploadService) Upload(ctx context.Context, in FileInput, fileName, mimeType string) (*models.UploadResult, error) {
	f, err := prepareFile(in, fileName, mimeType)
	if err != nil {
		return nil, err
	}

	payload, remoteErr := s.transport.Upload(ctx, uploadPath, uploadField, f.name, f.mimeType, f.data)
	if remoteErr == nil {
		return remoteResult(payload, f), nil
	}

	s.log.Warn(ctx, "upload failed, storing locally", "op", "upload", "file", f.name, "error", remoteErr)

	id, err := s.newID()
	if err != nil {
		return nil, &FallbackError{Remote: remoteErr, Fallback: err}
	}

	stored := s.uploads.Put(ctx, models.Upload{
		ID:       uploadIDPrefix + id.String(),
		FileName: f.name,
		MimeType: f.mimeType,
		DataURL:  f.encodedDataURL(),
	})

	return &models.UploadResult{
		FileURL:       stored.DataURL,
		FileID:        stored.ID,
		FileName:      stored.FileName,
		MimeType:      stored.MimeType,
		StoredLocally: true,
	}, nil
}

// Local returns an upload kept in the local uploads map.
func (s *UploadService) Local(ctx context.Context, id string) (models.Upload, bool) {
	return s.uploads.Get(ctx, id)
}

func remoteResult(payload any, f *preparedFile) *models.UploadResult {
	res := &models.UploadResult{FileName: f.name, MimeType: f.mimeType}
	rec, ok := models.AsRecord(payload)
	if !ok {
		return res
	}
	if v, ok := rec["file_url"].(string); ok {
		res.FileURL = v
	} else if v, ok := rec["url"].(string); ok {
		res.FileURL = v
	}
	if v := models.IDString(rec["file_id"]); v != "" {
		res.FileID = v
	} else {
		res.FileID = rec.ID()
	}
	if v, ok := rec["file_name"].(string); ok && v != "" {
		res.FileName = v
	}
	if v, ok := rec["mime_type"].(string); ok && v != "" {
		res.MimeType = v
	}
	return res
}

func prepareFile(in FileInput, fileName, mimeType string) (*preparedFile, error) {
	f := &preparedFile{mimeType: strings.TrimSpace(mimeType)}

	if in.isText {
		data, urlMime, dataURL, err := decodeStringInput(in.text)
		if err != nil {
			return nil, err
		}
		f.data = data
		f.dataURL = dataURL
		if urlMime != "" {
			f.mimeType = urlMime
		}
	} else {
		f.data = in.raw
	}

	if f.mimeType == "" {
		f.mimeType = defaultMimeType
	}
	f.name = inferFileName(fileName, f.mimeType)
	return f, nil
}

// encodedDataURL reuses the caller's data URL when there was one.
func (f *preparedFile) encodedDataURL() string {
	if f.dataURL != "" {
		return f.dataURL
	}
	return dataURLPrefix + f.mimeType + base64DataURLFlag + "," + base64.StdEncoding.EncodeToString(f.data)
}

func decodeStringInput(s string) (data []byte, mimeType, dataURL string, err error) {
	s = strings.TrimSpace(s)

	if !strings.HasPrefix(strings.ToLower(s), dataURLPrefix) {
		data, err = decodeBase64(s)
		return data, "", "", err
	}

	comma := strings.IndexByte(s, ',')
	if comma < 0 {
		return nil, "", "", ErrInvalidFileData
	}
	header, body := s[len(dataURLPrefix):comma], s[comma+1:]

	isBase64 := strings.HasSuffix(strings.ToLower(header), base64DataURLFlag)
	if isBase64 {
		header = header[:len(header)-len(base64DataURLFlag)]
	}
	if mt, _, perr := mime.ParseMediaType(header); perr == nil {
		mimeType = mt
	}

	if isBase64 {
		data, err = decodeBase64(body)
	} else {
		var text string
		text, err = url.PathUnescape(body)
		if err != nil {
			err = ErrInvalidFileData
		}
		data = []byte(text)
	}
	if err != nil {
		return nil, "", "", err
	}
	return data, mimeType, s, nil
}

var base64Encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return nil, ErrInvalidFileData
	}
	for _, enc := range base64Encodings {
		if b, err := enc.DecodeString(s); err == nil {
			return b, nil
		}
	}
	return nil, ErrInvalidFileData
}

var preferredExtensions = map[string]string{
	"image/png":        ".png",
	"image/jpeg":       ".jpg",
	"image/gif":        ".gif",
	"image/webp":       ".webp",
	"image/svg+xml":    ".svg",
	"application/pdf":  ".pdf",
	"application/json": ".json",
	"text/plain":       ".txt",
	"text/csv":         ".csv",
}

// inferFileName appends an extension derived from mimeType when name has none.
func inferFileName(name, mimeType string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultFileName
	}
	if filepath.Ext(name) != "" {
		return name
	}
	if ext, ok := preferredExtensions[mimeType]; ok {
		return name + ext
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return name + exts[0]
	}
	return name
}
