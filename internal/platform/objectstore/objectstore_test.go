package objectstore

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndServe(t *testing.T) {
	st, err := New(t.TempDir())
	require.NoError(t, err)

	url, err := st.Save(BucketPetPhotos, "milo.jpg", []byte("fake-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/files/pet-photos/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	ts := httptest.NewServer(st.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + url)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "fake-bytes", string(body))
}

func TestSave_UnknownBucket(t *testing.T) {
	st, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = st.Save("random-bucket", "a.png", []byte("x"))
	assert.ErrorIs(t, err, ErrUnknownBucket)
}

func TestSave_EmptyFile(t *testing.T) {
	st, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = st.Save(BucketAvatars, "a.png", nil)
	assert.ErrorIs(t, err, ErrEmptyFile)
}
