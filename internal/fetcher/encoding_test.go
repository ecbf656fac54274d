package fetcher

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/traditionalchinese"
)

func readAll(t *testing.T, r io.Reader, charset string) string {
	t.Helper()
	dr, err := DecodeReader(r, charset)
	require.NoError(t, err)
	b, err := io.ReadAll(dr)
	require.NoError(t, err)
	return string(b)
}

func TestDecodeReader_UTF8Default(t *testing.T) {
	assert.Equal(t, "name,信義", readAll(t, strings.NewReader("name,信義"), ""))
}

func TestDecodeReader_StripsBOM(t *testing.T) {
	assert.Equal(t, "name", readAll(t, strings.NewReader("\ufeffname"), "utf-8"))
}

func TestDecodeReader_BOMOverridesCharset(t *testing.T) {
	assert.Equal(t, "停車", readAll(t, strings.NewReader("\ufeff停車"), "big5"))
}

func TestDecodeReader_Big5(t *testing.T) {
	encoded, err := traditionalchinese.Big5.NewEncoder().Bytes([]byte("臺北市,停車場"))
	require.NoError(t, err)
	assert.Equal(t, "臺北市,停車場", readAll(t, bytes.NewReader(encoded), "big5"))
}

func TestDecodeReader_UnknownCharset(t *testing.T) {
	_, err := DecodeReader(strings.NewReader(""), "klingon")
	assert.Error(t, err)
}
