package util

import (
	"errors"
	"io"
	"net/http"
	"strings"
)

// xlsx 实际是 zip 容器，http.DetectContentType 报 application/zip
var spreadsheetMimeTypes = []string{
	"application/zip",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/octet-stream",
}

// ValidateMimeType 深度校验文件 MIME 类型
// allowedTypes: 允许的 MIME 前缀或完整类型
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, nil
		}
	}

	return mimeType, errors.New("invalid file type: " + mimeType)
}

// IsSpreadsheet 检测是否为可接受的表格文件
func IsSpreadsheet(reader io.Reader) bool {
	_, err := ValidateMimeType(reader, spreadsheetMimeTypes)
	return err == nil
}
