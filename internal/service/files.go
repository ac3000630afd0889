package service

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

type FileStore interface {
	Put(dir, name string, r io.Reader) (string, error)
	Delete(rel string) error
}

// Upload is a file received with a request.
type Upload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

const (
	PaymentProofDir     = "payment_proofs"
	ProductImageDir     = "products"
	MaxPaymentProofSize = 5 * 1024 * 1024
	MaxProductImageSize = 2 * 1024 * 1024
)

var (
	paymentProofExts = []string{"jpg", "jpeg", "png", "pdf"}
	productImageExts = []string{"jpg", "jpeg", "png", "gif", "webp"}
)

func checkUpload(ve *ValidationError, field string, u *Upload, maxSize int64, exts []string) {
	if u == nil {
		return
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(u.Filename), "."))
	ok := false
	for _, e := range exts {
		if e == ext {
			ok = true
			break
		}
	}
	if !ok {
		ve.Add(field, "The "+field+" field must be a file of type: "+strings.Join(exts, ", ")+".")
	}
	if u.Size > maxSize {
		ve.Add(field, "The "+field+" field must not be greater than "+strconv.FormatInt(maxSize/1024, 10)+" kilobytes.")
	}
}
