package file

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/proxyforge/proxyforge/common"
)

// PathExists checks if a path exists.
// It distinguishes between "not exist" and other errors. If an error other
// than "not exist" occurs, it returns false and the error.
func PathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// IsDir checks if the given path is a directory.
func IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// IsEmptyDir reports whether path is a directory with no entries at all
// (including hidden ones). It is an error if path is not a directory.
func IsEmptyDir(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, errors.Wrapf(err, "failed to open directory %s", path)
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if err == io.EOF {
		return true, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to read directory %s", path)
	}
	return false, nil
}

// CreateDir creates a directory and all its parents if they don't exist.
// It uses common.FileMode0755 for directory permissions.
func CreateDir(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return nil
		}
		return errors.Errorf("path %s exists but is not a directory", path)
	}
	if os.IsNotExist(err) {
		return os.MkdirAll(path, common.FileMode0755)
	}
	return errors.Wrapf(err, "failed to check directory %s", path)
}

// CreateFileDir creates the full directory path for a given file name if it
// doesn't exist. e.g., for "./aa/bb/xxx.txt", it ensures "./aa/bb" exists.
func CreateFileDir(filePath string) error {
	dir := filepath.Dir(filePath)
	if dir == "." || dir == "" {
		return nil
	}
	return CreateDir(dir)
}

// WriteFileAtomic writes content to filePath via a temporary file in the same
// directory followed by a rename. Either the full content ends up at filePath
// or the destination is left untouched; no partial file is ever visible.
func WriteFileAtomic(filePath string, content []byte, perm fs.FileMode) error {
	if err := CreateFileDir(filePath); err != nil {
		return errors.Wrapf(err, "failed to create directory for file %s", filePath)
	}

	dir := filepath.Dir(filePath)
	tmp, err := os.CreateTemp(dir, filepath.Base(filePath)+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp file in %s", dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "failed to write temp file for %s", filePath)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "failed to set permissions on temp file for %s", filePath)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "failed to close temp file for %s", filePath)
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "failed to rename temp file to %s", filePath)
	}
	return nil
}

// CopyFile copies a regular file from src to dst, creating parent directories
// for dst if necessary. The destination receives the given permissions.
func CopyFile(src, dst string, perm fs.FileMode) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "failed to open source file %s", src)
	}
	defer sourceFile.Close()

	if err := CreateFileDir(dst); err != nil {
		return errors.Wrapf(err, "failed to create directory for destination file %s", dst)
	}

	destFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return errors.Wrapf(err, "failed to create destination file %s", dst)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return errors.Wrapf(err, "failed to copy data from %s to %s", src, dst)
	}
	return destFile.Chmod(perm)
}

// CountDirFiles recursively counts the number of regular files in a directory.
func CountDirFiles(dirName string) (int, error) {
	isDir, err := IsDir(dirName)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to check if %s is a directory", dirName)
	}
	if !isDir {
		return 0, errors.Errorf("%s is not a directory", dirName)
	}

	var count int
	walkErr := filepath.WalkDir(dirName, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Type().IsRegular() {
			count++
		}
		return nil
	})
	if walkErr != nil {
		return 0, errors.Wrapf(walkErr, "error walking directory %s", dirName)
	}
	return count, nil
}
