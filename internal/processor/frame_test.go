package processor

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/genricoloni/framed/internal/config"
	"go.uber.org/zap"
)

func TestFrameProcessor_Prepare(t *testing.T) {
	tests := []struct {
		name          string
		mode          string
		imageData     []byte
		expectedType  string
		expectedError string
		validateFunc  func(t *testing.T, result []byte)
	}{
		{
			name:         "Fill - Square JPEG to 320x180",
			mode:         ModeFill,
			imageData:    createTestJPEG(100, 100, color.RGBA{R: 255, A: 255}),
			expectedType: "JPEG",
			validateFunc: expectSize(320, 180),
		},
		{
			name:         "Blur - Portrait PNG keeps frame size",
			mode:         ModeBlur,
			imageData:    createTestPNG(90, 160, color.RGBA{G: 255, A: 255}),
			expectedType: "JPEG",
			validateFunc: expectSize(320, 180),
		},
		{
			name:         "None - JPEG passes through untouched",
			mode:         ModeNone,
			imageData:    createTestJPEG(50, 40, color.RGBA{B: 255, A: 255}),
			expectedType: "JPEG",
			validateFunc: expectSize(50, 40),
		},
		{
			name:         "None - PNG passes through untouched",
			mode:         ModeNone,
			imageData:    createTestPNG(30, 20, color.RGBA{B: 255, A: 255}),
			expectedType: "PNG",
			validateFunc: expectSize(30, 20),
		},
		{
			name:          "Error - Invalid Image Data",
			mode:          ModeFill,
			imageData:     []byte("not-an-image"),
			expectedError: "failed to decode image",
		},
		{
			name:          "Error - Empty Data",
			mode:          ModeBlur,
			imageData:     []byte{},
			expectedError: "failed to decode image",
		},
		{
			name:          "Error - Corrupted JPEG",
			mode:          ModeFill,
			imageData:     []byte{0xFF, 0xD8, 0xFF, 0x00, 0x00},
			expectedError: "failed to decode image",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewFrameProcessor(zap.NewNop(), testConfig(tt.mode))
			result, fileType, err := p.Prepare(context.Background(), tt.imageData)

			if tt.expectedError != "" {
				if err == nil {
					t.Fatalf("expected error containing '%s', got nil", tt.expectedError)
				}
				if !strings.Contains(err.Error(), tt.expectedError) {
					t.Errorf("expected error '%s' to contain '%s'", err.Error(), tt.expectedError)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if fileType != tt.expectedType {
				t.Errorf("expected file type %s, got %s", tt.expectedType, fileType)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, result)
			}
		})
	}
}

func testConfig(mode string) *config.AppConfig {
	return &config.AppConfig{
		Processing: config.ProcessingConfig{
			Mode:       mode,
			Width:      320,
			Height:     180,
			Quality:    80,
			BlurRadius: 4,
		},
	}
}

func expectSize(w, h int) func(t *testing.T, result []byte) {
	return func(t *testing.T, result []byte) {
		t.Helper()
		img, _, err := image.Decode(bytes.NewReader(result))
		if err != nil {
			t.Fatalf("result is not a valid image: %v", err)
		}
		bounds := img.Bounds()
		if bounds.Dx() != w || bounds.Dy() != h {
			t.Errorf("expected %dx%d, got %dx%d", w, h, bounds.Dx(), bounds.Dy())
		}
	}
}

// createTestJPEG generates a simple JPEG image for testing
func createTestJPEG(width, height int, col color.Color) []byte {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, solid(width, height, col), &jpeg.Options{Quality: 80}); err != nil {
		panic("failed to create test JPEG: " + err.Error())
	}
	return buf.Bytes()
}

func createTestPNG(width, height int, col color.Color) []byte {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, solid(width, height, col)); err != nil {
		panic("failed to create test PNG: " + err.Error())
	}
	return buf.Bytes()
}

func solid(width, height int, col color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, col)
		}
	}
	return img
}
