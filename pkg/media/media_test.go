package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pretheevi/skillswap/pkg/api"
	"github.com/pretheevi/skillswap/pkg/config"
	clierrors "github.com/pretheevi/skillswap/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	buf := bytes.NewBuffer(nil)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	buf := bytes.NewBuffer(nil)
	require.NoError(t, jpeg.Encode(buf, image.NewGray(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

// minimal RIFF/WEBP header; enough for sniffing, not for decoding
var webpHeader = []byte("RIFF\x24\x00\x00\x00WEBPVP8 \x18\x00\x00\x00")

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		size        int64
		contentType string
		wantMsg     string
	}{
		{"png", "a.png", 1024, "image/png", ""},
		{"jpeg", "a.jpg", 1024, "image/jpeg", ""},
		{"jpg alias", "a.jpg", 1024, "image/jpg", ""},
		{"webp", "a.webp", 1024, "image/webp", ""},
		{"gif rejected", "a.gif", 1024, "image/gif", MsgBadType},
		{"pdf rejected", "a.pdf", 1024, "application/pdf", MsgBadType},
		{"exactly 5MB", "a.png", 5 * 1024 * 1024, "image/png", ""},
		{"over 5MB", "a.png", 5*1024*1024 + 1, "image/png", "Image size should be less than 5MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.file, tt.size, tt.contentType)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.True(t, clierrors.Is(err, clierrors.ErrorTypeValidation))
		})
	}
}

func TestValidateUsesConfiguredLimit(t *testing.T) {
	config.Set("upload.max_bytes", 10)
	t.Cleanup(func() { config.Set("upload.max_bytes", nil) })

	assert.NoError(t, Validate("a.png", 10, "image/png"))
	assert.Error(t, Validate("a.png", 11, "image/png"))
}

func TestDetectType(t *testing.T) {
	assert.Equal(t, "image/png", DetectType("x.bin", pngBytes(t, 2, 2)))
	assert.Equal(t, "image/jpeg", DetectType("x.bin", jpegBytes(t, 2, 2)))
	assert.Equal(t, "image/webp", DetectType("x.bin", webpHeader))
	assert.Equal(t, "text/plain", DetectType("notes", []byte("hello")))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "pic.png")
	require.NoError(t, os.WriteFile(good, pngBytes(t, 4, 4), 0600))
	img, err := Open(good)
	require.NoError(t, err)
	assert.Equal(t, "pic.png", img.Name)
	assert.Equal(t, "image/png", img.Type)

	renamed := filepath.Join(dir, "pic.txt")
	require.NoError(t, os.WriteFile(renamed, jpegBytes(t, 4, 4), 0600))
	img, err = Open(renamed)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.Type)

	bad := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(bad, []byte("plain text"), 0600))
	_, err = Open(bad)
	require.Error(t, err)
	assert.Equal(t, MsgBadType, err.Error())

	_, err = Open(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestPreviewThumbnail(t *testing.T) {
	img, err := FromBytes("wide.png", pngBytes(t, 512, 256))
	require.NoError(t, err)

	info, err := Preview(img)
	require.NoError(t, err)
	assert.Equal(t, 512, info.Width)
	assert.Equal(t, 256, info.Height)
	assert.Equal(t, "png", info.Format)

	thumb, err := png.DecodeConfig(bytes.NewReader(info.Thumbnail))
	require.NoError(t, err)
	assert.Equal(t, 128, thumb.Width)
	assert.Equal(t, 64, thumb.Height)
}

func TestPreviewSmallImageKeepsSize(t *testing.T) {
	img, err := FromBytes("small.jpg", jpegBytes(t, 40, 30))
	require.NoError(t, err)

	info, err := Preview(img)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", info.Format)

	thumb, err := png.DecodeConfig(bytes.NewReader(info.Thumbnail))
	require.NoError(t, err)
	assert.Equal(t, 40, thumb.Width)
	assert.Equal(t, 30, thumb.Height)
}

func TestPreviewRejectsGarbage(t *testing.T) {
	_, err := Preview(&Image{Name: "x.webp", Type: "image/webp", Data: webpHeader})
	assert.Error(t, err)
}

func TestDraftPayload(t *testing.T) {
	fields := Fields{Title: "Go", Category: api.CategoryWeb, Level: api.LevelBeginner, Description: "chan"}
	pic := &Image{Name: "new.png", Type: "image/png", Data: []byte("x")}

	t.Run("create without image", func(t *testing.T) {
		_, err := NewDraft().Payload(fields)
		require.Error(t, err)
		assert.Equal(t, MsgImageRequired, err.Error())
	})

	t.Run("create with image", func(t *testing.T) {
		d := NewDraft()
		d.Select(pic)
		p, err := d.Payload(fields)
		require.NoError(t, err)
		require.NotNil(t, p.Media)
		assert.Equal(t, "new.png", p.Media.Name)
		assert.Equal(t, "Go", p.Title)
	})

	t.Run("edit untouched", func(t *testing.T) {
		d := EditDraft("/uploads/old.png")
		p, err := d.Payload(fields)
		require.NoError(t, err)
		assert.Nil(t, p.Media)
		assert.False(t, p.RemoveMedia)
		assert.NotContains(t, p.FormFields(), "media")
		assert.Equal(t, "/uploads/old.png", d.Current())
	})

	t.Run("edit removed", func(t *testing.T) {
		d := EditDraft("/uploads/old.png")
		d.Remove()
		p, err := d.Payload(fields)
		require.NoError(t, err)
		assert.True(t, p.RemoveMedia)
		assert.Equal(t, "", p.FormFields()["media"])
		assert.Equal(t, "true", p.FormFields()["remove_media"])
		assert.Empty(t, d.Current())
	})

	t.Run("edit replaced after remove", func(t *testing.T) {
		d := EditDraft("/uploads/old.png")
		d.Remove()
		d.Select(pic)
		p, err := d.Payload(fields)
		require.NoError(t, err)
		assert.False(t, p.RemoveMedia)
		require.NotNil(t, p.Media)
		assert.Equal(t, "new.png", d.Current())
	})
}
