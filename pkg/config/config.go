package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/shouni/gemini-video-kit/pkg/domain"
	"github.com/shouni/gemini-video-kit/pkg/generator"
)

const (
	envPrefix          = "VEO"
	DefaultListenAddr  = ":8080"
	DefaultJPEGQuality = 85
)

// Config はアプリケーション全体の設定です。
type Config struct {
	APIKey            string
	Model             string
	PollInterval      time.Duration
	PollTimeout       time.Duration
	PollMaxAttempts   int
	ListenAddr        string
	CompressReference bool
	JPEGQuality       int
}

// Load は .env、設定ファイル、環境変数の順に設定を読み込みます。
// configFile が空の場合は設定ファイルを読みません。.env が存在しなくてもエラーにはなりません。
// APIキーが見つからない場合は configuration エラーを返します。
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api_key", envPrefix+"_API_KEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", configFile, err)
		}
	}

	cfg := &Config{
		APIKey:            strings.TrimSpace(v.GetString("api_key")),
		Model:             v.GetString("model"),
		PollInterval:      v.GetDuration("poll_interval"),
		PollTimeout:       v.GetDuration("poll_timeout"),
		PollMaxAttempts:   v.GetInt("poll_max_attempts"),
		ListenAddr:        v.GetString("listen_addr"),
		CompressReference: v.GetBool("compress_reference"),
		JPEGQuality:       v.GetInt("jpeg_quality"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("model", generator.DefaultModel)
	v.SetDefault("poll_interval", generator.DefaultPollInterval)
	v.SetDefault("poll_timeout", time.Duration(0))
	v.SetDefault("poll_max_attempts", 0)
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("compress_reference", true)
	v.SetDefault("jpeg_quality", DefaultJPEGQuality)
}

func (c *Config) validate() error {
	if c.APIKey == "" {
		return domain.NewError(domain.KindConfiguration,
			"APIキーが設定されていません。GEMINI_API_KEY を設定してください。", nil)
	}
	if c.PollInterval <= 0 {
		return domain.NewError(domain.KindConfiguration,
			fmt.Sprintf("poll_interval は正の値である必要があります: %s", c.PollInterval), nil)
	}
	if c.PollTimeout < 0 || c.PollMaxAttempts < 0 {
		return domain.NewError(domain.KindConfiguration, "poll_timeout と poll_max_attempts は 0 以上である必要があります。", nil)
	}
	if c.CompressReference && (c.JPEGQuality < 1 || c.JPEGQuality > 100) {
		return domain.NewError(domain.KindConfiguration,
			fmt.Sprintf("jpeg_quality は 1 から 100 の範囲で指定してください: %d", c.JPEGQuality), nil)
	}
	return nil
}

// PollPolicy は設定からポーリングのポリシーを組み立てます。
func (c *Config) PollPolicy() generator.PollPolicy {
	return generator.PollPolicy{
		Interval:    c.PollInterval,
		MaxAttempts: c.PollMaxAttempts,
		Timeout:     c.PollTimeout,
	}
}

// ReferenceQuality は参照画像を圧縮する JPEG 品質です。圧縮しない場合は 0 です。
func (c *Config) ReferenceQuality() int {
	if !c.CompressReference {
		return 0
	}
	return c.JPEGQuality
}
