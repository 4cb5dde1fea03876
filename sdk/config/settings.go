// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// IniName is the settings file in the user's home folder. It holds the
// installation-level settings (server host, mirror credentials), as
// opposed to the JSON state store which holds mutable application
// state.
const IniName = ".dmpapp.ini"

// Viper keys for the settings below.
const (
	KeyServer       = "dmp_server"
	KeyAppName      = "dmp_app_name"
	KeyAwsAccessKey = "aws_access_key_id"
	KeyAwsSecretKey = "aws_secret_access_key"
	KeyAwsToken     = "aws_session_token"
	KeyAwsRegion    = "aws_region"
	KeyAwsEndpoint  = "aws_endpoint_url"
	KeyMirrorBucket = "mirror_bucket"
)

// Settings holds all logical keys. Tags:
// - vkey: Viper key
// - env: canonical env name (UPPER_SNAKE)
// - persist: "true" to write the key into the INI
// - default: optional default to set if the key is unset
// - secret: "true" if sensitive
type Settings struct {
	Server       string `vkey:"dmp_server"            env:"DMP_SERVER"            persist:"true" default:"data.ideafast.eu"`
	AppName      string `vkey:"dmp_app_name"          env:"DMP_APP_NAME"          persist:"true" default:"dmpapp"`
	AwsAccessKey string `vkey:"aws_access_key_id"     env:"AWS_ACCESS_KEY_ID"     persist:"true" secret:"true"`
	AwsSecretKey string `vkey:"aws_secret_access_key" env:"AWS_SECRET_ACCESS_KEY" persist:"true" secret:"true"`
	AwsToken     string `vkey:"aws_session_token"     env:"AWS_SESSION_TOKEN"     persist:"true" secret:"true"`
	AwsRegion    string `vkey:"aws_region"            env:"AWS_REGION"            persist:"true"`
	AwsEndpoint  string `vkey:"aws_endpoint_url"      env:"AWS_ENDPOINT_URL"      persist:"true"`
	MirrorBucket string `vkey:"mirror_bucket"         env:"DMP_MIRROR_BUCKET"     persist:"true"`
}

func iniPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, IniName)
}

// BindEnvFromStruct binds every tagged Settings field to its env
// variable and applies defaults for unset keys.
func BindEnvFromStruct() {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	rt := reflect.TypeOf(Settings{})
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		key := f.Tag.Get("vkey")
		if key == "" {
			continue
		}
		env := f.Tag.Get("env")
		if env == "" {
			env = strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		}
		_ = viper.BindEnv(key, env)
		if def := f.Tag.Get("default"); def != "" && !viper.IsSet(key) {
			viper.SetDefault(key, def)
		}
	}
}

// RegisterIniWithViper loads the [default] section of the settings INI
// into viper. A missing INI is not an error; env and defaults apply.
func RegisterIniWithViper() error {
	BindEnvFromStruct()
	cfg, err := ini.Load(iniPath())
	if err != nil {
		return nil
	}
	return loadIniIntoViper(cfg)
}

// loadIniIntoViper feeds the [default] section into viper's config
// layer (TOML in-memory), which sits above the struct-tag defaults and
// below bound env variables, so env still overrides on Get.
func loadIniIntoViper(cfg *ini.File) error {
	var buf bytes.Buffer
	for _, k := range cfg.Section("default").Keys() {
		v := strings.ReplaceAll(strings.ReplaceAll(k.Value(), `\`, `\\`), `"`, `\"`)
		fmt.Fprintf(&buf, "%s = \"%s\"\n", k.Name(), v)
	}
	viper.SetConfigType("toml")
	return viper.ReadConfig(&buf)
}

// WriteIniFromStruct persists the current viper values of all fields
// marked persist:"true" to the settings INI.
func WriteIniFromStruct() error {
	cfg := ini.Empty()
	sec := cfg.Section("default")

	rt := reflect.TypeOf(Settings{})
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.Tag.Get("persist") != "true" {
			continue
		}
		key := f.Tag.Get("vkey")
		if key == "" {
			continue
		}
		if val := viper.GetString(key); val != "" {
			sec.Key(key).SetValue(val)
		}
	}
	return cfg.SaveTo(iniPath())
}

// LoadConfig materializes a Config from the registered settings.
func LoadConfig() Config {
	return Config{
		Core: CoreConfig{
			Server:  viper.GetString(KeyServer),
			AppName: viper.GetString(KeyAppName),
		},
		S3: S3Config{
			AccessKey:   viper.GetString(KeyAwsAccessKey),
			SecretKey:   viper.GetString(KeyAwsSecretKey),
			AccessToken: viper.GetString(KeyAwsToken),
			Region:      viper.GetString(KeyAwsRegion),
			EndpointURL: viper.GetString(KeyAwsEndpoint),
			Bucket:      viper.GetString(KeyMirrorBucket),
		},
	}
}
