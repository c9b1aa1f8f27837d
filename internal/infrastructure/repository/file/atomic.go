package file

import (
	"os"
	"path/filepath"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/google/renameio/v2"
	"github.com/valyala/bytebufferpool"
)

// encodeIndented renders v as two-space indented JSON with a trailing newline.
// ConfigStd sorts map keys, so equal values always produce equal bytes.
func encodeIndented(buf *bytebufferpool.ByteBuffer, v any) error {
	enc := sonic.ConfigStd.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// stageJSON writes the encoded value to a pending file beside path. Nothing
// is visible at path until the caller runs CloseAtomicallyReplace; Cleanup
// discards it.
func stageJSON(path string, v any) (*renameio.PendingFile, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := encodeIndented(buf, v); err != nil {
		return nil, crerr.Wrapf(err, "encode %s", filepath.Base(path))
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, crerr.Wrapf(err, "create dir=%s", dir)
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithTempDir(dir), renameio.WithPermissions(0o644))
	if err != nil {
		return nil, crerr.Wrapf(err, "create pending file for %s", filepath.Base(path))
	}
	if _, err := buf.WriteTo(pending); err != nil {
		_ = pending.Cleanup()
		return nil, crerr.Wrapf(err, "write pending %s", filepath.Base(path))
	}
	return pending, nil
}

// writeJSONAtomic replaces path with the encoded value in one rename.
func writeJSONAtomic(path string, v any) error {
	pending, err := stageJSON(path, v)
	if err != nil {
		return err
	}
	defer pending.Cleanup()

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return crerr.Wrapf(err, "replace %s", filepath.Base(path))
	}
	return nil
}
