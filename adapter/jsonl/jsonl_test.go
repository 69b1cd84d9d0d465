package jsonl_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sboussekeyt/spring-batch-rs/adapter/jsonl"
)

func TestReader_SkipsBlankLinesAndStopsAtEOF(t *testing.T) {
	input := "{\"id\":1}\n\n{\"id\":2}\n"
	r := jsonl.NewReader(strings.NewReader(input))

	var got []string
	for {
		item, ok, err := r.Read(context.Background())
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, string(item))
	}
	assert.Equal(t, []string{`{"id":1}`, `{"id":2}`}, got)

	_, ok, err := r.Read(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}
