package host

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/weberc2/scratchfs/pkg/vdisk"
)

type objectStoreFake map[[2]string][]byte

func (osf objectStoreFake) PutObject(
	bucket string,
	key string,
	data io.ReadSeeker,
) error {
	var b bytes.Buffer
	if _, err := io.Copy(&b, data); err != nil {
		return err
	}
	osf[[2]string{bucket, key}] = b.Bytes()
	return nil
}

func (osf objectStoreFake) GetObject(
	bucket string,
	key string,
) (io.ReadCloser, error) {
	data, found := osf[[2]string{bucket, key}]
	if !found {
		return nil, &ObjectNotFoundErr{Bucket: bucket, Key: key}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func TestBucket(t *testing.T) {
	// Given an object under the bucket prefix
	store := objectStoreFake{
		{"scratch", "imports/notes"}: []byte("take out the trash"),
	}
	bridge := newTestBridge(t, &Bucket{
		Store:  store,
		Name:   "scratch",
		Prefix: "imports",
	})

	// When it is imported and exported under the same name
	if err := bridge.Import("notes", vdisk.RootSession()); err != nil {
		t.Fatalf("Import(): unexpected err: %v", err)
	}
	delete(store, [2]string{"scratch", "imports/notes"})
	if err := bridge.Export("notes"); err != nil {
		t.Fatalf("Export(): unexpected err: %v", err)
	}

	// Then the object is uploaded again
	found, ok := store[[2]string{"scratch", "imports/notes"}]
	if !ok {
		t.Fatal("Export(): wanted object uploaded; found nothing")
	}
	if wanted := []byte("take out the trash"); !bytes.Equal(wanted, found) {
		t.Fatalf("Export(): wanted `%s`; found `%s`", wanted, found)
	}
}

func TestBucket_ObjectNotFound(t *testing.T) {
	bridge := newTestBridge(t, &Bucket{Store: objectStoreFake{}, Name: "scratch"})
	err := bridge.Import("missing", vdisk.RootSession())
	if !HostIOErr.Has(err) {
		t.Fatalf("Import(): wanted `HostIOErr`; found `%v`", err)
	}
	var notFound *ObjectNotFoundErr
	if !errors.As(err, &notFound) {
		t.Fatalf("Import(): wanted `*ObjectNotFoundErr`; found `%v`", err)
	}
}
