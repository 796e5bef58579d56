// Package media validates and previews images before they are attached to
// a post or profile, and builds the multipart payload for post create/edit.
package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pretheevi/skillswap/pkg/api"
	"github.com/pretheevi/skillswap/pkg/config"
	clierrors "github.com/pretheevi/skillswap/pkg/errors"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	defaultMaxBytes = 5 * 1024 * 1024
	thumbnailSize   = 128

	MsgBadType = "Only JPG, PNG, WEBP allowed"
)

var defaultAllowedTypes = []string{"image/jpeg", "image/png", "image/webp"}

// Image is a validated file ready for upload
type Image struct {
	Name string
	Type string
	Data []byte
}

// Upload converts the image to a multipart part
func (i *Image) Upload() *api.Upload {
	if i == nil {
		return nil
	}
	return &api.Upload{Name: i.Name, ContentType: i.Type, Data: i.Data}
}

func maxBytes() int64 {
	if n := config.GetInt64("upload.max_bytes"); n > 0 {
		return n
	}
	return defaultMaxBytes
}

func allowedTypes() []string {
	if types := config.GetStringSlice("upload.allowed_types"); len(types) > 0 {
		return types
	}
	return defaultAllowedTypes
}

// SizeMessage is the error shown for oversized files
func SizeMessage() string {
	return fmt.Sprintf("Image size should be less than %dMB", maxBytes()/(1024*1024))
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if mediaType == "image/jpg" {
		return "image/jpeg"
	}
	return mediaType
}

// Validate checks a file's declared type and size
func Validate(name string, size int64, contentType string) error {
	ct := normalizeContentType(contentType)
	allowed := false
	for _, t := range allowedTypes() {
		if ct == t {
			allowed = true
			break
		}
	}
	if !allowed {
		return clierrors.ValidationError("media", MsgBadType).
			WithSuggestion(fmt.Sprintf("%s has type %q", filepath.Base(name), ct))
	}
	if size > maxBytes() {
		return clierrors.ValidationError("media", SizeMessage())
	}
	return nil
}

// DetectType sniffs the content type from the data, falling back to the
// file extension
func DetectType(name string, data []byte) string {
	ct := normalizeContentType(http.DetectContentType(data))
	if strings.HasPrefix(ct, "image/") {
		return ct
	}
	if len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return "image/webp"
	}
	if byExt := normalizeContentType(mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))); byExt != "" {
		return byExt
	}
	return ct
}

// FromBytes validates in-memory data as an upload
func FromBytes(name string, data []byte) (*Image, error) {
	ct := DetectType(name, data)
	if err := Validate(name, int64(len(data)), ct); err != nil {
		return nil, err
	}
	return &Image{Name: filepath.Base(name), Type: ct, Data: data}, nil
}

// Open reads and validates an image file. The size is checked before the
// file is read.
func Open(path string) (*Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("failed to open image: %s is a directory", path)
	}
	if info.Size() > maxBytes() {
		return nil, clierrors.ValidationError("media", SizeMessage())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return FromBytes(path, data)
}

// PreviewInfo describes a decoded image
type PreviewInfo struct {
	Width     int
	Height    int
	Format    string
	Thumbnail []byte // PNG, longest side at most 128px
}

// Preview decodes the image locally and renders a thumbnail
func Preview(img *Image) (*PreviewInfo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	buf := bytes.NewBuffer(nil)
	if err := png.Encode(buf, resizeToFit(src, thumbnailSize)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return &PreviewInfo{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Format:    format,
		Thumbnail: buf.Bytes(),
	}, nil
}

func resizeToFit(src image.Image, max int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= max && h <= max {
		return src
	}

	scale := float64(max) / float64(w)
	if s := float64(max) / float64(h); s < scale {
		scale = s
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}
