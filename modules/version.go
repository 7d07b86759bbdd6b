package modules

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"sync"
)

// Application info - centralized
const (
	AppName        = "coursedesk"
	AppVersion     = "0.3.0"
	AppDescription = "Course client navigation shell"
)

var (
	buildHash     string
	buildHashOnce sync.Once
)

// BuildHash identifies the running binary as YYMMDD-xxxxxxxx: its
// modification date and the first 8 hex digits of its SHA-256.
func BuildHash() string {
	buildHashOnce.Do(func() {
		buildHash = hashExecutable()
	})
	return buildHash
}

func hashExecutable() string {
	executable, err := os.Executable()
	if err != nil {
		return "000000-unknown"
	}

	f, err := os.Open(executable)
	if err != nil {
		return "000000-unknown"
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "000000-unknown"
	}
	datePart := info.ModTime().Format("060102")

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return datePart + "-unknown"
	}
	return datePart + "-" + fmt.Sprintf("%x", h.Sum(nil))[:8]
}
