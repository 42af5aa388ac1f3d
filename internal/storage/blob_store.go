package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	Logger "marciaknow-http-service/pkg/logger"
)

// ErrBlobNotFound 表示存储中不存在该文件
var ErrBlobNotFound = errors.New("blob not found")

// ErrInvalidBlobName 表示文件名含有路径成分，拒绝存取
var ErrInvalidBlobName = errors.New("invalid blob name")

// BlobStore 基于本地文件系统的图片二进制存储。
// 文件按名称前两个字符散列到子目录，避免单目录文件过多。
type BlobStore struct {
	dir string
	mu  sync.RWMutex
}

// NewBlobStore 创建并初始化存储目录
func NewBlobStore(dir string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &BlobStore{dir: dir}, nil
}

// validName 只接受不带任何路径成分的普通文件名。
// 以点开头的名称同样拒绝，避免 ".." 前缀被散列进上级目录。
func validName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return false
	}
	return true
}

// blobPath 计算文件的实际存储路径
func (s *BlobStore) blobPath(name string) string {
	sub := "00"
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if len(base) >= 2 {
		sub = base[:2]
	}
	return filepath.Join(s.dir, sub, name)
}

// Save 写入文件内容
func (s *BlobStore) Save(name string, data []byte) error {
	if !validName(name) {
		return ErrInvalidBlobName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.blobPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Read 读取文件内容。非法名称不可能存在于存储中，按不存在处理。
func (s *BlobStore) Read(name string) ([]byte, error) {
	if !validName(name) {
		return nil, ErrBlobNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.blobPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	return data, nil
}

// Exists 判断文件是否存在
func (s *BlobStore) Exists(name string) bool {
	if !validName(name) {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.blobPath(name))
	return err == nil
}

// Delete 删除文件，文件不存在时不视为错误
func (s *BlobStore) Delete(name string) error {
	if !validName(name) {
		return ErrInvalidBlobName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.blobPath(name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// DeleteAll 批量删除，逐个尽力而为，失败只记录日志
func (s *BlobStore) DeleteAll(names []string) {
	for _, name := range names {
		if name == "" {
			continue
		}
		if err := s.Delete(name); err != nil {
			Logger.Warning("删除图片文件失败 %s: %v", name, err)
		}
	}
}
