// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package config

// Config is the full configuration handed to the SDK (no viper/INI
// types leak past this package).
type Config struct {
	Core CoreConfig
	S3   S3Config
}

// CoreConfig locates the DMP server.
type CoreConfig struct {
	// Server is the host of the platform, e.g. "data.ideafast.eu".
	Server string
	// AppName determines where persisted state lives (~/.<AppName>).
	AppName string
}

// S3Config carries the credentials for the optional data folder
// mirror.
type S3Config struct {
	AccessKey   string
	SecretKey   string
	AccessToken string
	Region      string
	EndpointURL string
	Bucket      string
}
