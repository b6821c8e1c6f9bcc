package uploads

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loeylei-cell/my-fullstack-system/models"
)

func proofFile(name string, content string) File {
	return File{Name: name, Size: int64(len(content)), Reader: strings.NewReader(content)}
}

func TestValidate(t *testing.T) {
	var vErr *models.ValidationError

	err := Validate(proofFile("", ""))
	require.ErrorAs(t, err, &vErr)

	err = Validate(proofFile("proof.pdf", "content"))
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Reason, "invalid file type")

	err = Validate(File{Name: "huge.png", Size: MaxProofSize + 1, Reader: strings.NewReader("x")})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Reason, "too large")

	assert.NoError(t, Validate(proofFile("proof.PNG", "content"))) // extension is case-insensitive
	assert.NoError(t, Validate(proofFile("proof.webp", "content")))
}

func TestSavePaymentProof(t *testing.T) {
	s := NewStorage(t.TempDir())

	publicPath, err := s.SavePaymentProof("order-1", proofFile("gcash.jpg", "fake image bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(publicPath, "/uploads/payment_proofs/payment_proof_order-1_"))
	assert.True(t, strings.HasSuffix(publicPath, ".jpg"))

	onDisk := filepath.Join(s.Root, strings.TrimPrefix(publicPath, "/uploads/"))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))
}

func TestSaveRejectsInvalidWithoutWriting(t *testing.T) {
	s := NewStorage(t.TempDir())

	_, err := s.SavePaymentProof("order-1", proofFile("proof.exe", "nope"))
	var vErr *models.ValidationError
	require.ErrorAs(t, err, &vErr)

	// nothing persisted for a rejected proof
	_, statErr := os.Stat(filepath.Join(s.Root, "payment_proofs"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRemove(t *testing.T) {
	s := NewStorage(t.TempDir())

	publicPath, err := s.SaveReceiptProof("order-2", proofFile("door.jpeg", "bytes"))
	require.NoError(t, err)
	require.NoError(t, s.Remove(publicPath))

	onDisk := filepath.Join(s.Root, strings.TrimPrefix(publicPath, "/uploads/"))
	_, statErr := os.Stat(onDisk)
	assert.True(t, os.IsNotExist(statErr))

	assert.Error(t, s.Remove("/etc/passwd"))
	assert.Error(t, s.Remove("/uploads/../../etc/passwd"))
}
