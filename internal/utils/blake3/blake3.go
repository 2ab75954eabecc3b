package blake3

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

func Compute(data io.Reader) (string, error) {
	hash := blake3.New()
	if _, err := io.Copy(hash, data); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// ComputeFile streams a file through the hasher without loading it into memory.
func ComputeFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return Compute(f)
}
