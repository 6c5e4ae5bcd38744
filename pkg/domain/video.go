package domain

import "time"

// AspectRatio は生成する動画の縦横比です。
type AspectRatio string

const (
	AspectSquare    AspectRatio = "1:1"
	AspectLandscape AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "9:16"
	AspectClassic   AspectRatio = "4:3"
	AspectVertical  AspectRatio = "3:4"
)

// AspectRatioOption は UI に提示する縦横比とその表示名の組です。
type AspectRatioOption struct {
	Value AspectRatio `json:"value"`
	Label string      `json:"label"`
}

// AspectRatioOptions は選択可能な縦横比の一覧です（表示順）。
var AspectRatioOptions = []AspectRatioOption{
	{Value: AspectLandscape, Label: "横長"},
	{Value: AspectPortrait, Label: "縦長"},
	{Value: AspectSquare, Label: "正方形"},
	{Value: AspectClassic, Label: "クラシック"},
	{Value: AspectVertical, Label: "縦型"},
}

// Valid は列挙された縦横比のいずれかであるかを返します。
func (a AspectRatio) Valid() bool {
	switch a {
	case AspectSquare, AspectLandscape, AspectPortrait, AspectClassic, AspectVertical:
		return true
	}
	return false
}

// ReferenceImage は data URL 形式でエンコードされた参照画像です。
// MIMEType が空の場合は data URL のヘッダーから補完されます。
type ReferenceImage struct {
	DataURL  string
	MIMEType string
}

// GenerationRequest は単一の動画生成要求です。
type GenerationRequest struct {
	Prompt         string
	AspectRatio    AspectRatio
	ReferenceImage *ReferenceImage
	// DurationSeconds は nil の場合プロバイダーの既定値に任せます。
	DurationSeconds *int32
}

// GeneratedMedia は生成された動画と、それを参照するローカルハンドルです。
// LocalHandle の解放（Revoke）は呼び出し元の責務です。
type GeneratedMedia struct {
	SourceURI   string    `json:"source_uri"`
	LocalHandle string    `json:"local_handle"`
	MIMEType    string    `json:"mime_type"`
	Size        int       `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// DownloadFileName はダウンロード時のファイル名を返します。
func (m *GeneratedMedia) DownloadFileName() string {
	return DownloadFileName(m.CreatedAt)
}
