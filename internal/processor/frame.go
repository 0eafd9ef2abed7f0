package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG format support
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/genricoloni/framed/internal/config"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // WebP format support
)

const (
	// ModeFill crops the artwork to cover the whole frame
	ModeFill = "fill"
	// ModeBlur fits the artwork over a blurred copy of itself
	ModeBlur = "blur"
	// ModeNone uploads the original bytes when the display accepts them
	ModeNone = "none"

	fileTypeJPEG = "JPEG"
	fileTypePNG  = "PNG"
)

// FrameProcessor prepares artwork for upload to a frame display
type FrameProcessor struct {
	logger *zap.Logger
	cfg    config.ProcessingConfig
}

// NewFrameProcessor creates a new image processor for the configured frame resolution
func NewFrameProcessor(logger *zap.Logger, cfg *config.AppConfig) *FrameProcessor {
	return &FrameProcessor{
		logger: logger.Named("processor"),
		cfg:    cfg.Processing,
	}
}

// Prepare transforms image data to the frame resolution and returns the
// encoded bytes together with the upload file type
func (p *FrameProcessor) Prepare(ctx context.Context, data []byte) ([]byte, string, error) {
	if p.cfg.Mode == ModeNone {
		switch http.DetectContentType(data) {
		case "image/jpeg":
			return data, fileTypeJPEG, nil
		case "image/png":
			return data, fileTypePNG, nil
		}
		// Anything else (WebP, ...) still has to be re-encoded
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dy() == 0 || bounds.Dx() == 0 {
		return nil, "", fmt.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	var result image.Image
	switch p.cfg.Mode {
	case ModeFill:
		result = imaging.Fill(img, p.cfg.Width, p.cfg.Height, imaging.Center, imaging.Lanczos)
	case ModeBlur:
		result = p.blurComposite(img)
	default:
		result = img
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, result, &jpeg.Options{Quality: p.cfg.Quality}); err != nil {
		return nil, "", fmt.Errorf("failed to encode result: %w", err)
	}

	p.logger.Debug("Artwork prepared",
		zap.String("mode", p.cfg.Mode),
		zap.Int("srcW", bounds.Dx()),
		zap.Int("srcH", bounds.Dy()),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), fileTypeJPEG, nil
}

// blurComposite pastes the whole artwork, fitted to the frame, over a
// blurred full-frame copy so nothing is cropped
func (p *FrameProcessor) blurComposite(img image.Image) image.Image {
	w, h := p.cfg.Width, p.cfg.Height

	background := imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
	background = imaging.Blur(background, p.cfg.BlurRadius)

	fitted := imaging.Fit(img, w, h, imaging.Lanczos)
	fb := fitted.Bounds()

	return imaging.Paste(background, fitted, image.Pt((w-fb.Dx())/2, (h-fb.Dy())/2))
}
