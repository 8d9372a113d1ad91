package service

import (
	"context"
	"log"
	"time"

	"file-storage-server/internal/ports"
	"file-storage-server/internal/util"
)

// PurgeSweeper : фоновый обход очереди blob_purge_backlog. Разовая
// попытка удаления сразу после purge могла не пройти — sweeper гарантирует,
// что блоб рано или поздно будет удалён из S3. Метаданные при этом
// источник истины: запись уходит из очереди только после успешного
// удаления объекта
type PurgeSweeper struct {
	fileRepository    ports.FileRepository
	backlogRepository ports.PurgeBacklogRepository
	storageInterface  ports.S3Storage
	interval          time.Duration
	batchSize         int
}

func NewPurgeSweeper(
	fileRepository ports.FileRepository,
	backlogRepository ports.PurgeBacklogRepository,
	storageInterface ports.S3Storage,
	interval time.Duration,
	batchSize int,
) *PurgeSweeper {
	return &PurgeSweeper{
		fileRepository:    fileRepository,
		backlogRepository: backlogRepository,
		storageInterface:  storageInterface,
		interval:          interval,
		batchSize:         batchSize,
	}
}

// Run : блокируется до отмены ctx, обходя очередь каждые interval
func (s *PurgeSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("[PurgeSweeper] запущен, интервал %s, размер пакета %d", s.interval, s.batchSize)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[PurgeSweeper] остановлен")
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				log.Printf("[PurgeSweeper] цикл завершился с ошибкой: %v", err)
			}
		}
	}
}

// Sweep : один цикл обхода. Ошибка удаления отдельного блоба не прерывает
// пакет — запись остаётся в очереди до следующего цикла
func (s *PurgeSweeper) Sweep(ctx context.Context) error {
	exec, rollback, commit, err := s.fileRepository.BeginTX(ctx)
	if err != nil {
		return util.LogError("[PurgeSweeper] не удалось начать транзакцию", err)
	}
	defer rollback()

	entries, err := s.backlogRepository.List(ctx, exec, s.batchSize)
	if err != nil {
		return util.LogError("[PurgeSweeper] не удалось прочитать очередь", err)
	}
	if len(entries) == 0 {
		return commit()
	}

	removed := 0
	for _, entry := range entries {
		if err := s.storageInterface.DeleteObject(ctx, entry.StoragePath); err != nil {
			log.Printf("[PurgeSweeper] блоб %s не удалён, останется в очереди: %v", entry.StoragePath, err)
			continue
		}
		if err := s.backlogRepository.Remove(ctx, exec, entry.StoragePath); err != nil {
			log.Printf("[PurgeSweeper] не удалось убрать блоб %s из очереди: %v", entry.StoragePath, err)
			continue
		}
		removed++
	}

	if err := commit(); err != nil {
		return util.LogError("[PurgeSweeper] не удалось закоммитить транзакцию", err)
	}

	if removed > 0 {
		log.Printf("[PurgeSweeper] удалено блобов: %d из %d", removed, len(entries))
	}
	return nil
}
