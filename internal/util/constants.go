package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

const (
	MimeJSON = "application/json"
)

// 出题数量上下限
const (
	MinQuestionCount     = 1
	MaxQuestionCount     = 20
	DefaultQuestionCount = 10
)
