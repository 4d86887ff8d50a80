package pkg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode 新建文件时使用的权限
const DefaultFileMode os.FileMode = 0o644

// CheckFileExist 检查文件是否存在
func CheckFileExist(filePath string) (bool, error) {
	_, err := os.Lstat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReadInput 读取输入文件，文件不存在时返回明确的错误
func ReadInput(filePath string) (string, error) {
	if len(filePath) == 0 {
		return "", fmt.Errorf("no input file path")
	}
	exist, err := CheckFileExist(filePath)
	if err != nil {
		return "", fmt.Errorf("check file exist: %w", err)
	}
	if !exist {
		return "", fmt.Errorf("input file not exist: %s", filePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

// WriteFileAtomic 先写入同目录下的临时文件再重命名，失败时原文件保持不变。
// 目标文件已存在时沿用其权限，内容未变化时不写入，返回值表示是否写入。
func WriteFileAtomic(ctx context.Context, filePath string, content string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("write %s: %w", filePath, err)
	}

	mode := DefaultFileMode
	if info, err := os.Stat(filePath); err == nil {
		mode = info.Mode().Perm()
		existing, err := os.ReadFile(filePath)
		if err != nil {
			return false, fmt.Errorf("read existing: %w", err)
		}
		if string(existing) == content {
			return false, nil
		}
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat %s: %w", filePath, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(filePath), filepath.Base(filePath)+".tmp.*")
	if err != nil {
		return false, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.WriteString(content); err != nil {
		return false, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return false, fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return false, fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		return false, fmt.Errorf("rename temp file: %w", err)
	}
	success = true
	return true, nil
}
