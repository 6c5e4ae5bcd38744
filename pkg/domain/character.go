package domain

import (
	"fmt"
	"time"
)

// Character はギャラリーに保持される再利用可能な登場人物です。
// ID は生成順に単調増加し、重複しません。
type Character struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	DataURL   string    `json:"image_url"` // 参照画像（data URL 形式）
	MIMEType  string    `json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
}

// ReferenceImage はキャラクターの画像を生成リクエスト用の参照画像に変換します。
func (c Character) ReferenceImage() *ReferenceImage {
	return &ReferenceImage{DataURL: c.DataURL, MIMEType: c.MIMEType}
}

// DownloadFileName は生成動画の保存名です。
func DownloadFileName(t time.Time) string {
	return fmt.Sprintf("video-veo-%d.mp4", t.UnixMilli())
}
