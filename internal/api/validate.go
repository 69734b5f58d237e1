package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultAllowedExtensions mirrors the backend's upload allow-list.
var DefaultAllowedExtensions = []string{".pdf", ".docx", ".doc", ".txt"}

// DefaultMaxUploadBytes is the default size ceiling for uploads.
const DefaultMaxUploadBytes int64 = 50 << 20 // 50 MB

// UploadPolicy is the client-side gate in front of the upload
// endpoint. A file that fails the policy never reaches the network.
type UploadPolicy struct {
	AllowedExtensions []string // lowercase, dot-prefixed; empty means default
	MaxBytes          int64    // 0 means default
}

func (p UploadPolicy) extensions() []string {
	if len(p.AllowedExtensions) == 0 {
		return DefaultAllowedExtensions
	}
	return p.AllowedExtensions
}

func (p UploadPolicy) maxBytes() int64 {
	if p.MaxBytes <= 0 {
		return DefaultMaxUploadBytes
	}
	return p.MaxBytes
}

// CheckName validates the filename's extension against the allow-list.
func (p UploadPolicy) CheckName(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return &ValidationError{Filename: name, Reason: "missing file extension"}
	}
	for _, allowed := range p.extensions() {
		if ext == allowed {
			return nil
		}
	}
	return &ValidationError{
		Filename: name,
		Reason:   fmt.Sprintf("file type %s not supported, allowed: %s", ext, strings.Join(p.extensions(), ", ")),
	}
}

// CheckSize validates a byte size against the ceiling.
func (p UploadPolicy) CheckSize(name string, size int64) error {
	if max := p.maxBytes(); size > max {
		return &ValidationError{
			Filename: name,
			Reason:   fmt.Sprintf("file is %d bytes, limit is %d bytes", size, max),
		}
	}
	return nil
}

// CheckFile validates a file on disk: extension first, then size.
func (p UploadPolicy) CheckFile(path string) error {
	if err := p.CheckName(path); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return &ValidationError{Filename: path, Reason: "is a directory"}
	}
	return p.CheckSize(path, info.Size())
}
