package folio

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/folio/content"
)

const (
	jpegQuality   = 80
	coversURLPath = "/covers/"
	publicURLPath = "/public/"
)

// makeThumbnail decodes an image from src, scales it down to width if it is
// wider, and encodes it to dst as JPEG.
func makeThumbnail(src io.Reader, dst io.Writer, width int) error {
	img, _, err := image.Decode(src)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > width {
		newH := h * width / w
		if newH < 1 {
			newH = 1
		}
		scaled := image.NewRGBA(image.Rect(0, 0, width, newH))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)
		img = scaled
	}

	if err := jpeg.Encode(dst, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return nil
}

// coverSource maps a cover URL to a raster file under staticDir. Remote
// covers, SVGs and anything outside /public/ are left alone.
func coverSource(staticDir, cover string) (string, bool) {
	if !strings.HasPrefix(cover, publicURLPath) {
		return "", false
	}
	switch strings.ToLower(filepath.Ext(cover)) {
	case ".jpg", ".jpeg", ".png", ".gif":
	default:
		return "", false
	}
	rel := filepath.FromSlash(strings.TrimPrefix(cover, publicURLPath))
	if rel == "" || strings.HasPrefix(filepath.Clean(rel), "..") {
		return "", false
	}
	return filepath.Join(staticDir, rel), true
}

// coverName names the thumbnail of p's cover at width. The hash changes
// with the cover URL and the width, so a reused file always matches both.
func coverName(p content.Post, width int) string {
	sum := sha256.Sum256([]byte(p.CoverImage + "\x00" + strconv.Itoa(width)))
	return p.Lang + "-" + p.Slug + "-" + hex.EncodeToString(sum[:4]) + ".jpg"
}

// processCovers writes a thumbnail for every local raster cover into outDir
// and points the post at /covers/<name> (see coverName). A thumbnail newer
// than its source is reused. Covers that fail to decode are logged and kept
// as they were.
func processCovers(ctx context.Context, staticDir, outDir string, posts []content.Post, width, workers int, logger Logger) ([]content.Post, int, error) {
	out := make([]content.Post, len(posts))
	copy(out, posts)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, 0, fmt.Errorf("create covers dir: %w", err)
	}

	made := make([]bool, len(out))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range out {
		src, ok := coverSource(staticDir, out[i].CoverImage)
		if !ok {
			continue
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			name := coverName(out[i], width)
			dst := filepath.Join(outDir, name)
			if err := writeThumbnail(src, dst, width); err != nil {
				logger.Warnf("cover for %s: %v", out[i].SourcePath, err)
				return nil
			}
			out[i].CoverImage = coversURLPath + name
			made[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	n := 0
	for _, ok := range made {
		if ok {
			n++
		}
	}
	return out, n, nil
}

func writeThumbnail(src, dst string, width int) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if dstInfo, err := os.Stat(dst); err == nil && !dstInfo.ModTime().Before(srcInfo.ModTime()) {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".cover-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := makeThumbnail(in, tmp, width); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
