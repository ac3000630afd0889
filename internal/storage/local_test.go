package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_PutDelete(t *testing.T) {
	s, err := NewLocal(t.TempDir(), "/storage/")
	require.NoError(t, err)

	rel, err := s.Put("payment_proofs", "my receipt.pdf", strings.NewReader("pdf"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "payment_proofs/"))
	assert.True(t, strings.HasSuffix(rel, "_my_receipt.pdf"))
	assert.Equal(t, "/storage/"+rel, s.URL(rel))

	b, err := os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "pdf", string(b))

	require.NoError(t, s.Delete(rel))
	require.NoError(t, s.Delete(rel))
	_, err = os.Stat(filepath.Join(s.Root, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))
}

func TestLocal_RejectsTraversal(t *testing.T) {
	s, err := NewLocal(t.TempDir(), "/storage")
	require.NoError(t, err)
	assert.ErrorIs(t, s.Delete("../etc/passwd"), ErrInvalidPath)
}
