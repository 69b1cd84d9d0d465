package csv_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sboussekeyt/spring-batch-rs/adapter/csv"
)

func TestReader_ReadsUntilEOF(t *testing.T) {
	r := csv.NewReader(bytes.NewBufferString("a,b\n1,2\n3,4\n"))

	row, ok, err := r.Read(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, row)

	row, ok, err = r.Read(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"1", "2"}, row)

	_, ok, err = r.Read(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = r.Read(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = r.Read(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriter_WritesAndFlushes(t *testing.T) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	require.NoError(t, w.Write(context.Background(), [][]string{{"a", "b"}, {"1", "2"}}))
	require.NoError(t, w.Flush(context.Background()))

	assert.Equal(t, "a,b\n1,2\n", buf.String())
}
