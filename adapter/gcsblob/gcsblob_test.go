package gcsblob_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sboussekeyt/spring-batch-rs/adapter/gcsblob"
)

func TestLocalStore_WriterThenReaderRoundTrip(t *testing.T) {
	store, err := gcsblob.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	w := gcsblob.NewWriter(store, "bucket", "records/item-%04d.bin")
	require.NoError(t, w.Write(context.Background(), [][]byte{[]byte("a"), []byte("b")}))
	require.NoError(t, w.Close(context.Background()))

	r := gcsblob.NewReader(store, "bucket", "records/")
	var got [][]byte
	for {
		item, ok, err := r.Read(context.Background())
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, item)
	}
	require.Len(t, got, 2)
	assert.ElementsMatch(t, [][]byte{[]byte("a"), []byte("b")}, got)
}
