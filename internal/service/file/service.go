package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"math"
	"path"
	"strings"
	"time"

	"github.com/gilponto/ponto-backend-go/internal/domain/timelog"
	"github.com/gilponto/ponto-backend-go/internal/pkg/storage"
	"github.com/gilponto/ponto-backend-go/internal/pkg/utils"
	"golang.org/x/image/draw"
)

const (
	snapshotMaxSize = 150 * 1024
	snapshotMinSize = 20 * 1024
	minWidth        = 320
	minHeight       = 240
)

type FileService interface {
	// UploadPunchPhoto archives a kiosk snapshot as JPEG and returns its storage path.
	UploadPunchPhoto(ctx context.Context, l timelog.TimeLog) (string, error)
	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
	loc     *time.Location
}

func NewFileService(storage storage.FileStorage, loc *time.Location) FileService {
	return &fileServiceImpl{
		storage: storage,
		loc:     loc,
	}
}

// UploadPunchPhoto stores the snapshot under punches/{date}/{employeeID}-{type}-{logID}.jpg,
// compressed to between 20KB and 150KB.
func (s *fileServiceImpl) UploadPunchPhoto(ctx context.Context, l timelog.TimeLog) (string, error) {
	_, raw, err := utils.DecodeImage(l.PhotoBase64)
	if err != nil {
		return "", err
	}

	compressed, err := compressImage(raw, snapshotMaxSize, snapshotMinSize)
	if err != nil {
		return "", fmt.Errorf("failed to compress image: %w", err)
	}

	dateStr := l.LocalDate(s.loc)
	newFilename := fmt.Sprintf("%s-%s-%s.jpg", sanitize(l.EmployeeID), strings.ToLower(string(l.Type)), sanitize(l.ID))
	p := path.Join("punches", dateStr, newFilename)

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(compressed), p, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload punch photo: %w", err)
	}

	return uploadedPath, nil
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// GetFileURL generates URL to access file
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' {
			return r
		}
		return '_'
	}, s)
}

// ==================== HELPER FUNCTIONS ====================

// compressImage re-encodes an image as JPEG within [minSize, maxSize] where possible,
// lowering quality first and then scaling down.
func compressImage(buffer []byte, maxSize int, minSize int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	// Already a JPEG of acceptable size
	if format == "jpeg" && len(buffer) <= maxSize {
		return buffer, nil
	}

	bounds := img.Bounds()
	originalWidth := bounds.Dx()
	originalHeight := bounds.Dy()

	quality := 85
	var compressed []byte

	for quality >= 50 {
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		compressed = buf.Bytes()

		if len(compressed) <= maxSize {
			return compressed, nil
		}
		quality -= 5
	}

	// Still too large: scale towards the middle of the range
	targetSize := (maxSize + minSize) / 2
	ratio := math.Sqrt(float64(targetSize) / float64(len(compressed)))
	newWidth := max(int(float64(originalWidth)*ratio), minWidth)
	newHeight := max(int(float64(originalHeight)*ratio), minHeight)

	resized := resizeImage(img, newWidth, newHeight)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: 70}); err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}

	return buf.Bytes(), nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// Use CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
