package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"shortsmaker/config"
	"shortsmaker/types"
)

// ObjectStore is the slice of the S3 client the archiver uses.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType, cacheControl string) error
	Exists(ctx context.Context, bucket, key string) (bool, error)
}

// metadataCacheControl keeps archived metadata briefly cacheable downstream.
const metadataCacheControl = "public, max-age=300"

// Archiver mirrors finished projects into an S3 bucket so renders survive
// local cleanup. A nil *Archiver is valid and archives nothing.
type Archiver struct {
	store  ObjectStore
	bucket string
	prefix string
}

// NewArchiver wraps store for uploads under bucket/prefix.
func NewArchiver(store ObjectStore, bucket, prefix string) *Archiver {
	return &Archiver{store: store, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// NewArchiverFromEnv builds an archiver from S3_BUCKET/S3_PREFIX. Returns
// nil without error when S3_BUCKET is unset; archiving is opt-in.
func NewArchiverFromEnv(ctx context.Context) (*Archiver, error) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		return nil, nil
	}
	client, err := NewS3(ctx, S3Config{
		Region:  os.Getenv("AWS_REGION"),
		Profile: os.Getenv("AWS_PROFILE"),
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 archive client: %w", err)
	}
	return NewArchiver(client, bucket, config.GetEnvOrDefault("S3_PREFIX", "shorts")), nil
}

// ArchiveProject uploads the metadata blob plus the project's media files.
// The metadata object is always rewritten; media objects already present in
// the bucket are skipped. Returns the keys written this call.
func (a *Archiver) ArchiveProject(ctx context.Context, meta *types.ProjectMetadata) ([]string, error) {
	if a == nil {
		return nil, nil
	}

	blob, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal project %s: %w", meta.BaseName, err)
	}

	metaKey := a.key(meta.BaseName, meta.BaseName+".json")
	if err := a.store.Put(ctx, a.bucket, metaKey, bytes.NewReader(blob), "application/json", metadataCacheControl); err != nil {
		return nil, fmt.Errorf("upload %s: %w", metaKey, err)
	}
	written := []string{metaKey}

	for _, local := range []string{meta.VideoPath, meta.AudioPath, meta.SubtitlesPath, meta.ScriptPath} {
		if local == "" {
			continue
		}
		key := a.key(meta.BaseName, filepath.Base(local))

		present, err := a.store.Exists(ctx, a.bucket, key)
		if err != nil {
			return written, fmt.Errorf("check %s: %w", key, err)
		}
		if present {
			continue
		}

		file, err := os.Open(local)
		if err != nil {
			log.Printf("Warning: skipping archive of %s: %v", local, err)
			continue
		}
		err = a.store.Put(ctx, a.bucket, key, file, contentTypeFor(local), "")
		file.Close()
		if err != nil {
			return written, fmt.Errorf("upload %s: %w", key, err)
		}
		written = append(written, key)
	}

	return written, nil
}

func (a *Archiver) key(baseName, name string) string {
	if a.prefix == "" {
		return path.Join(baseName, name)
	}
	return path.Join(a.prefix, baseName, name)
}

func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp4":
		return "video/mp4"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".srt":
		return "application/x-subrip"
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain"
	}
	return "application/octet-stream"
}
