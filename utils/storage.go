package utils

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

const uploadsDir = "uploads"

// GenerateThumbnailName sinh tên file duy nhất: thumbnail-<epoch-ms>-<6 ký tự>.<ext>
func GenerateThumbnailName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".jpg"
	}
	random := strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
	return fmt.Sprintf("thumbnail-%d-%s%s", time.Now().UnixMilli(), random, ext)
}

// SaveThumbnail lưu ảnh thumbnail và trả về URL công khai.
// Nếu có cấu hình Supabase thì upload lên bucket, không thì lưu đĩa cục bộ.
func SaveThumbnail(fileHeader *multipart.FileHeader) (string, error) {
	name := GenerateThumbnailName(fileHeader.Filename)

	if os.Getenv("SUPABASE_URL") != "" {
		return uploadThumbnailToSupabase(fileHeader, name)
	}
	return saveThumbnailToDisk(fileHeader, name)
}

// Lưu vào ./uploads, serve tĩnh tại /uploads
func saveThumbnailToDisk(fileHeader *multipart.FileHeader, name string) (string, error) {
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		return "", err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(uploadsDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return "/uploads/" + name, nil
}

// Upload lên bucket 'uploads', path: thumbnails/<name>
func uploadThumbnailToSupabase(fileHeader *multipart.FileHeader, name string) (string, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")

	storageClient := storage.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil)

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", err
	}

	objectPath := "thumbnails/" + name
	contentType := fileHeader.Header.Get("Content-Type")
	options := storage.FileOptions{
		ContentType: &contentType,
	}

	if _, err := storageClient.UploadFile("uploads", objectPath, &buf, options); err != nil {
		return "", err
	}

	// Public URL: uploads/thumbnails/<name>
	publicURL := fmt.Sprintf("%s/storage/v1/object/public/uploads/%s", supabaseURL, objectPath)
	return publicURL, nil
}
