package loader

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime"
)

const userAgent = "https://github.com/richinsley/glkit"

type headerTransport struct {
	Transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", userAgent)
	return t.Transport.RoundTrip(req)
}

// HTTPLoader downloads images, keeping a copy in CacheDir when it is set.
type HTTPLoader struct {
	Client   *http.Client
	CacheDir string
}

// NewHTTPLoader returns a loader using a client that identifies itself
// with the glkit User-Agent.
func NewHTTPLoader(cacheDir string) *HTTPLoader {
	return &HTTPLoader{
		Client: &http.Client{
			Transport: &headerTransport{Transport: http.DefaultTransport},
		},
		CacheDir: cacheDir,
	}
}

func (l *HTTPLoader) cachePath(src string) string {
	if l.CacheDir == "" {
		return ""
	}
	u, err := url.Parse(src)
	if err != nil {
		return ""
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return ""
	}
	return filepath.Join(l.CacheDir, name)
}

func (l *HTTPLoader) Load(ctx context.Context, src string) (image.Image, error) {
	cachePath := l.cachePath(src)
	if cachePath != "" {
		if data, err := os.ReadFile(cachePath); err == nil {
			img, _, err := image.Decode(bytes.NewReader(data))
			if err == nil {
				return img, nil
			}
			log.Printf("Warning: could not decode cached image %s: %v. Redownloading...", cachePath, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download media %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to load media %s, status code: %d", src, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read media data from %s: %w", src, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode downloaded image from %s: %w", src, err)
	}

	if cachePath != "" {
		if err := os.WriteFile(cachePath, data, 0644); err != nil {
			log.Printf("Warning: failed to save media to cache at %s: %v", cachePath, err)
		}
	}
	return img, nil
}

// DefaultCacheDir returns the per-user cache directory for downloaded
// media, creating it if needed.
func DefaultCacheDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("LOCALAPPDATA")
		if base == "" {
			return "", fmt.Errorf("LOCALAPPDATA environment variable not set")
		}
	case "darwin":
		home := os.Getenv("HOME")
		if home == "" {
			return "", fmt.Errorf("HOME environment variable not set")
		}
		base = filepath.Join(home, "Library", "Caches")
	default:
		base = os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home := os.Getenv("HOME")
			if home == "" {
				return "", fmt.Errorf("HOME environment variable not set")
			}
			base = filepath.Join(home, ".cache")
		}
	}

	dir := filepath.Join(base, "glkit", "media")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory at %s: %w", dir, err)
	}
	return dir, nil
}
