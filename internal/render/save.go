package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"gonum.org/v1/plot"
)

// Save writes p as name.<format> for every configured format and returns
// the path of the first one.
func (r *Renderer) Save(p *plot.Plot, name string) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", r.outputDir, err)
	}

	base := filepath.Join(r.outputDir, name)
	var first string
	for _, format := range r.formats {
		path := base + "." + format
		if err := p.Save(r.style.Width, r.style.Height, path); err != nil {
			return "", fmt.Errorf("save %s: %w", path, err)
		}
		if first == "" {
			first = path
		}
	}

	if r.thumbnailPx > 0 {
		if err := writeThumbnail(first, base+"_thumb.png", r.thumbnailPx); err != nil {
			return "", err
		}
	}
	return first, nil
}

func writeThumbnail(src, dst string, width int) error {
	img, err := imaging.Open(src)
	if err != nil {
		return fmt.Errorf("open %s for thumbnail: %w", src, err)
	}
	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, dst); err != nil {
		return fmt.Errorf("save thumbnail %s: %w", dst, err)
	}
	return nil
}
