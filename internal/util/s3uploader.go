package util

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// S3Uploader : фоновая отправка содержимого файла по pre-signed PUT URL.
// Метаданные при этом уже закоммичены в БД, поэтому загрузка не держит
// ни транзакций, ни блокировок
type S3Uploader struct {
	client *http.Client
	wg     sync.WaitGroup
	errors chan error
}

func NewS3Uploader() *S3Uploader {
	return &S3Uploader{
		client: &http.Client{
			Timeout: 60 * time.Minute, // для очень больших файлов
		},
		errors: make(chan error, 10),
	}
}

// UploadFileAsync : асинхронная загрузка файла
func (u *S3Uploader) UploadFileAsync(presignedURL string, filePath string, mimeType string) {
	u.wg.Add(1)

	go func() {
		defer u.wg.Done()

		if err := u.uploadFile(presignedURL, filePath, mimeType); err != nil {
			u.errors <- fmt.Errorf("ошибка загрузки %s: %w", filepath.Base(filePath), err)
		}
	}()
}

// uploadFile : синхронная реализация загрузки, временный файл удаляется после отправки
func (u *S3Uploader) uploadFile(presignedURL string, filePath string, mimeType string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()
	defer os.Remove(filePath)

	fileInfo, err := file.Stat()
	if err != nil {
		return fmt.Errorf("ошибка получения информации о файле: %w", err)
	}

	req, err := http.NewRequest(http.MethodPut, presignedURL, file)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.ContentLength = fileInfo.Size()
	req.Header.Set("Content-Type", mimeType)

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ошибка загрузки: статус %d, ответ: %s", resp.StatusCode, string(body))
	}

	return nil
}

// Wait : ожидание завершения всех загрузок
func (u *S3Uploader) Wait() error {
	u.wg.Wait()
	close(u.errors)

	if len(u.errors) > 0 {
		return <-u.errors
	}
	return nil
}

// Errors : канал с ошибками загрузок
func (u *S3Uploader) Errors() <-chan error {
	return u.errors
}
