package common

import (
	"encoding/json"
	"fmt"
	"time"
)

// PublicationStep 为一次发布尝试所处的阶段
type PublicationStep int

const (
	// Started 表示尚未完成任何步骤
	Started PublicationStep = iota
	// ContentStored 表示内容已写入账本文件
	ContentStored
	// Tokenized 表示代币已创建
	Tokenized
	// Persisted 表示资源记录已写入数据库
	Persisted
)

var publicationStepToStringMap = map[PublicationStep]string{
	Started:       "Started",
	ContentStored: "ContentStored",
	Tokenized:     "Tokenized",
	Persisted:     "Persisted",
}

var publicationStepFromStringMap = map[string]PublicationStep{
	"Started":       Started,
	"ContentStored": ContentStored,
	"Tokenized":     Tokenized,
	"Persisted":     Persisted,
}

func (s PublicationStep) String() string {
	str, ok := publicationStepToStringMap[s]
	if ok {
		return str
	}

	return fmt.Sprintf("%d", int(s))
}

// NewPublicationStepFromString 从 enum 名称获得 PublicationStep enum。
func NewPublicationStepFromString(enumString string) (ret PublicationStep, err error) {
	ret, ok := publicationStepFromStringMap[enumString]
	if !ok {
		err = fmt.Errorf("不正确的 enum 字符串")
		return
	}

	return
}

// MarshalJSON marshals the enum as a quoted JSON string
func (s PublicationStep) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON unmarshals a quoted JSON string to the enum value
func (s *PublicationStep) UnmarshalJSON(b []byte) error {
	var jsonStr string
	err := json.Unmarshal(b, &jsonStr)
	if err != nil {
		return err
	}

	enum, err := NewPublicationStepFromString(jsonStr)
	if err != nil {
		return err
	}

	*s = enum
	return nil
}

// OrphanedArtifact 记录一次中途失败的发布在账本上留下的文件或代币，供运维人员核对
type OrphanedArtifact struct {
	ID         string          `json:"id"`
	FileID     string          `json:"fileId,omitempty"`
	TokenID    string          `json:"tokenId,omitempty"`
	FailedStep PublicationStep `json:"failedStep"` // 失败时正在尝试进入的阶段
	Reason     string          `json:"reason"`
	OwnerID    string          `json:"ownerId"`
	Title      string          `json:"title"`
	Timestamp  time.Time       `json:"timestamp"`
}
