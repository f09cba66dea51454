package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// CalculateFileSHA256 computes the SHA-256 digest of a file's content, e.g. a downloaded archive.
func CalculateFileSHA256(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return readerSHA256(file)
}

// CalculateStringSHA256 computes the SHA-256 digest of a string.
func CalculateStringSHA256(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// RequestKey builds the stable digest identifying a request in the response cache.
// Method is upper-cased by the caller; the URL is used verbatim.
func RequestKey(method, rawURL string) string {
	return CalculateStringSHA256(fmt.Sprintf("%s %s", method, rawURL))
}

func readerSHA256(r io.Reader) (string, error) {
	hash := sha256.New()
	if _, err := io.Copy(hash, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
