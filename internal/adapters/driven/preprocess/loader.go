package preprocess

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io/fs"
	"os"

	"github.com/zeebo/blake3"

	"github.com/custodia-labs/schemex/internal/core/domain"
)

// load reads and decodes the image at path.
func load(ctx context.Context, path string) (domain.SourceImage, image.Image, error) {
	if err := ctx.Err(); err != nil {
		return domain.SourceImage{}, nil, err
	}

	format, ok := domain.FormatForPath(path)
	if !ok {
		return domain.SourceImage{}, nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.SourceImage{}, nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return domain.SourceImage{}, nil, fmt.Errorf("%w: %s: %v", domain.ErrUnreadable, path, err)
	}

	img, decoded, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return domain.SourceImage{}, nil, fmt.Errorf("%w: %s: %v", domain.ErrDecode, path, err)
	}
	if decoded != string(format) {
		// The content decides; a .jpg holding PNG data still loads.
		format = domain.ImageFormat(decoded)
	}

	sum := blake3.Sum256(data)
	b := img.Bounds()
	src := domain.SourceImage{
		Path:   path,
		Format: format,
		Width:  b.Dx(),
		Height: b.Dy(),
		Digest: hex.EncodeToString(sum[:]),
	}
	return src, img, nil
}
