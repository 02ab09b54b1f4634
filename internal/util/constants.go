package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 课时完成奖励策略
const (
	LessonXPAward = 25 // 每个课时首次完成发放的经验值
)

// 文件上传相关常量
const (
	MimeVideo       = "video/"
	MimeImage       = "image/"
	MimePDF         = "application/pdf"
	MimeOctetStream = "application/octet-stream"
)

var (
	AllowedVideoExtensions    = []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm"}
	AllowedDocumentExtensions = []string{".pdf"}
)
