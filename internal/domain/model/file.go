package model

// アップロードされたファイルの記録。
// StoredFileNameは生成したランダム名（元のファイル名とは無関係）。
type FileDetails struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	FileName       string `gorm:"type:varchar(255);not null" json:"file_name"`
	StoredFileName string `gorm:"type:varchar(255);not null;uniqueIndex" json:"stored_file_name"`
	Path           string `gorm:"type:varchar(1024);not null" json:"-"`
	ContentType    string `gorm:"type:varchar(100);not null" json:"content_type"`
}
