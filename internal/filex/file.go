package filex

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
)

var ErrTooLarge = errors.New("file too large")

// ReadLimited reads the whole file at path, failing with ErrTooLarge when it
// holds more than limit bytes. The detected MIME type is returned alongside.
func ReadLimited(path string, limit int64) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(data)) > limit {
		return nil, "", fmt.Errorf("%s: %w (max %d bytes)", path, ErrTooLarge, limit)
	}

	return data, http.DetectContentType(data), nil
}
