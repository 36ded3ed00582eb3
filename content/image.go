package content

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// probeImage fills in the pixel size of img. The file name is resolved
// against the content root; a leading slash is ignored. Failures are
// logged and leave the size at zero.
func (l *Loader) probeImage(ctx context.Context, img *Image) {
	if img.FileName == "" || strings.Contains(img.FileName, "://") {
		return
	}
	if ctx.Err() != nil {
		return
	}
	name := path.Clean(strings.TrimPrefix(img.FileName, "/"))

	f, err := l.FS.Open(name)
	if err != nil {
		l.Logger.Warn("content image not found", "file", img.FileName, "err", err)
		return
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		l.Logger.Warn("content image not decodable", "file", img.FileName, "err", err)
		return
	}
	img.Width, img.Height = cfg.Width, cfg.Height
	l.Logger.Debug("probed content image", "file", img.FileName, "format", format, "width", cfg.Width, "height", cfg.Height)
}
