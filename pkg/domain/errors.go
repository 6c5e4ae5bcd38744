package domain

import (
	"errors"
	"fmt"
)

// ErrorKind は生成処理の失敗を利用者向けに分類したものです。
// ErrorKind 自体も error を実装しているため errors.Is(err, domain.KindQuota) のように判定できます。
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindConfiguration ErrorKind = "configuration"
	KindAuth          ErrorKind = "auth"
	KindQuota         ErrorKind = "quota"
	KindProvider      ErrorKind = "provider"
	KindResultMissing ErrorKind = "result_missing"
	KindFetch         ErrorKind = "fetch"
	KindContentPolicy ErrorKind = "content_policy"
	KindTimeout       ErrorKind = "timeout"
	KindCanceled      ErrorKind = "canceled"
)

func (k ErrorKind) Error() string {
	return "generation error: " + string(k)
}

// ErrInvalidAspectRatio は列挙外の縦横比が渡されたことを示します。UI からは発生しない呼び出し側のバグです。
var ErrInvalidAspectRatio = errors.New("unsupported aspect ratio")

// GenerationError は分類済みの失敗です。Message はそのまま利用者に表示できます。
type GenerationError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// NewError は GenerationError を生成します。
func NewError(kind ErrorKind, message string, cause error) *GenerationError {
	return &GenerationError{Kind: kind, Message: message, Err: cause}
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.Message, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Kind)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is は同じ種別の ErrorKind と一致します。
func (e *GenerationError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && e.Kind == k
}

// AsGenerationError は err から *GenerationError を取り出します。
func AsGenerationError(err error) (*GenerationError, bool) {
	var e *GenerationError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf は err の種別を返します。分類されていない場合は空文字です。
func KindOf(err error) ErrorKind {
	if e, ok := AsGenerationError(err); ok {
		return e.Kind
	}
	return ""
}

// UserMessage は利用者に表示するメッセージを返します。
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := AsGenerationError(err); ok {
		return e.Message
	}
	return "予期しないエラーが発生しました。"
}
