package ldindex

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// MaybeOpenFromGoogleStorage opens path for reading. Paths prefixed with
// gs:// are opened as Google Storage objects using the provided client;
// anything else is treated as a local file. A nil client with a gs:// path is
// an error.
func MaybeOpenFromGoogleStorage(path string, client *storage.Client) (io.ReadCloser, error) {
	if !strings.HasPrefix(path, "gs://") {
		return os.Open(path)
	}

	if client == nil {
		return nil, fmt.Errorf("%s: no storage client available for gs:// paths", path)
	}

	pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
	if len(pathParts) != 2 {
		return nil, fmt.Errorf("expected gs://bucket/path, but got: %s", path)
	}

	handle := client.Bucket(pathParts[0]).Object(pathParts[1])

	rdr, err := handle.NewReader(context.Background())
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %s", path, err))
	}

	return rdr, nil
}

// ReadAllMaybeCompressed opens a local or gs:// path, transparently
// decompresses it, and slurps the contents. Intended for tabular inputs that
// are parsed in one shot.
func ReadAllMaybeCompressed(path string, client *storage.Client) ([]byte, error) {
	f, err := MaybeOpenFromGoogleStorage(path, client)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := MaybeDecompress(f)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return io.ReadAll(r)
}
