package service

import (
	"context"
	"edulearn_backend/internal/config"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/logger"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider 定义通用存储接口，课时视频/文档统一走这里
type StorageProvider interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
	GetURL(filename string) string
}

// LocalStorageProvider 本地存储实现
type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, filename)
	dir := filepath.Dir(dst)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	_, err = io.Copy(out, reader)
	if err != nil {
		return "", err
	}

	return p.GetURL(filename), nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, filename string) error {
	dst := filepath.Join(p.Config.LocalPath, filename)
	return os.Remove(dst)
}

func (p *LocalStorageProvider) GetURL(filename string) string {
	return "/uploads/" + filename
}

// MinioStorageProvider MinIO存储实现
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, filename, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(filename), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, filename string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, filename, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) GetURL(filename string) string {
	return "/" + p.Config.MinioBucket + "/" + filename
}

// StorageService 存储服务
type StorageService struct {
	Provider StorageProvider
}

func NewStorageService(cfg *config.Config) *StorageService {
	var provider StorageProvider
	if cfg.Storage.Type == util.StorageMinio {
		p, err := NewMinioStorageProvider(&cfg.Storage)
		if err == nil {
			provider = p
		}
	}

	if provider == nil {
		provider = &LocalStorageProvider{Config: &cfg.Storage}
	}

	return &StorageService{Provider: provider}
}

func (s *StorageService) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	return s.Provider.Upload(ctx, filename, reader, size, contentType)
}

func (s *StorageService) Delete(ctx context.Context, filename string) error {
	return s.Provider.Delete(ctx, filename)
}

func (s *StorageService) GetURL(filename string) string {
	return s.Provider.GetURL(filename)
}

// AllowedLessonUpload 校验课时素材的扩展名是否受支持
func AllowedLessonUpload(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if isVideoExt(ext) {
		return true
	}
	for _, allowed := range util.AllowedDocumentExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func isVideoExt(ext string) bool {
	for _, allowed := range util.AllowedVideoExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// LessonUploadContentType 按扩展名推断素材的Content-Type，
// 客户端没带Content-Type头时兜底
func LessonUploadContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".pdf" {
		return util.MimePDF
	}
	if isVideoExt(ext) {
		return util.MimeVideo + strings.TrimPrefix(ext, ".")
	}
	return util.MimeOctetStream
}

// LessonMediaResult 课时素材上传结果
type LessonMediaResult struct {
	URL             string `json:"url"`
	ThumbnailURL    string `json:"thumbnailUrl,omitempty"`
	DurationSeconds int    `json:"duration,omitempty"`
}

// UploadLessonMedia 上传课时素材。视频先落盘探测时长并截取封面图，
// 探测或截图失败只降级为缺省值，不阻断上传本身。
func (s *StorageService) UploadLessonMedia(ctx context.Context, objectName, originalName string, reader io.Reader, size int64, contentType string) (*LessonMediaResult, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !isVideoExt(ext) {
		url, err := s.Upload(ctx, objectName, reader, size, contentType)
		if err != nil {
			return nil, err
		}
		return &LessonMediaResult{URL: url}, nil
	}

	tmp, err := os.CreateTemp("", "lesson-*"+ext)
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	result := &LessonMediaResult{}
	if info, err := util.ProbeVideo(tmpPath); err != nil {
		logger.Log.Warn("video probe failed", zap.String("object", objectName), zap.Error(err))
	} else {
		result.DurationSeconds = int(info.Duration + 0.5)
	}

	thumbPath := tmpPath + ".jpg"
	if err := util.GenerateThumbnail(tmpPath, thumbPath, "00:00:01"); err != nil {
		logger.Log.Warn("thumbnail generation failed", zap.String("object", objectName), zap.Error(err))
	} else {
		defer os.Remove(thumbPath)
		if thumb, err := os.Open(thumbPath); err == nil {
			if stat, statErr := thumb.Stat(); statErr == nil {
				if thumbURL, uploadErr := s.Upload(ctx, objectName+".jpg", thumb, stat.Size(), util.MimeImage+"jpeg"); uploadErr == nil {
					result.ThumbnailURL = thumbURL
				}
			}
			thumb.Close()
		}
	}

	src, err := os.Open(tmpPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	stat, err := src.Stat()
	if err != nil {
		return nil, err
	}

	url, err := s.Upload(ctx, objectName, src, stat.Size(), contentType)
	if err != nil {
		return nil, err
	}
	result.URL = url
	return result, nil
}
