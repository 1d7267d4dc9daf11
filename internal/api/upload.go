package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/webdevsint/coffee-lab-api/pkg/assets"
)

// imagesField is the multipart field carrying uploaded files. Its stored
// names also live under the same key in the documents.
const imagesField = "images"

// maxUploadMemory bounds the in-memory portion of multipart parsing;
// larger uploads spill to temp files.
const maxUploadMemory = 32 << 20

// formFields flattens the text fields of a parsed multipart form into a
// raw field bag. Repeated keys become sequences, matching how a JSON body
// would carry them.
func formFields(form *multipart.Form) map[string]interface{} {
	fields := make(map[string]interface{}, len(form.Value))
	for key, values := range form.Value {
		switch len(values) {
		case 0:
		case 1:
			fields[key] = values[0]
		default:
			seq := make([]interface{}, len(values))
			for i, v := range values {
				seq[i] = v
			}
			fields[key] = seq
		}
	}
	return fields
}

// storeImages persists every uploaded file of the images field under a
// fresh unique name and returns the stored names in field order. A file
// whose content does not sniff as an image rejects the whole batch.
func (h *CatalogHandler) storeImages(ctx context.Context, form *multipart.Form) ([]string, error) {
	headers := form.File[imagesField]
	if len(headers) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(headers))
	for _, header := range headers {
		name, err := h.storeImage(ctx, header)
		if err != nil {
			h.discardImages(ctx, names)
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

func (h *CatalogHandler) storeImage(ctx context.Context, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload %q: %w", header.Filename, err)
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading upload %q: %w", header.Filename, err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("upload %q is %s, only images are accepted", header.Filename, contentType)
	}

	name := uuid.New().String() + sanitizeExt(header.Filename)
	if err := h.assets.Save(ctx, name, io.MultiReader(bytes.NewReader(head), file)); err != nil {
		return "", fmt.Errorf("storing upload %q: %w", header.Filename, err)
	}
	return name, nil
}

// discardImages removes stored uploads whose document never materialized.
// Best effort: a leftover file is only log noise.
func (h *CatalogHandler) discardImages(ctx context.Context, names []string) {
	for _, name := range names {
		if err := h.assets.Delete(ctx, name); err != nil && !errors.Is(err, assets.ErrNotFound) {
			slog.Warn("failed to discard stored upload", "image", name, "error", err)
		}
	}
}

// sanitizeExt extracts a safe lowercase extension from an uploaded
// filename. Stored names are the generated id plus this suffix, so the
// client-supplied name never reaches the storage layer.
func sanitizeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	var b strings.Builder
	b.Grow(len(ext))
	for _, r := range ext {
		if r == '.' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() <= 1 {
		return ""
	}
	return b.String()
}
