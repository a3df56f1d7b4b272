/*
   Licensed under the MIT License <http://opensource.org/licenses/MIT>.

   Copyright © 2023-2025 Seagate Technology LLC and/or its Affiliates
   Copyright © 2020-2025 Microsoft Corporation. All rights reserved.

   Permission is hereby granted, free of charge, to any person obtaining a copy
   of this software and associated documentation files (the "Software"), to deal
   in the Software without restriction, including without limitation the rights
   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
   copies of the Software, and to permit persons to whom the Software is
   furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in all
   copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
   SOFTWARE
*/

package s3photos

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Seagate/photofuse/common"
	"github.com/Seagate/photofuse/common/config"
	"github.com/Seagate/photofuse/common/log"
)

// presigned source URIs must outlive the cache timeout of the layer above
const defaultPresignExpiry = 6 * 60 * 60

var errConfigFieldEmpty = errors.New("config field is empty")

type Options struct {
	BucketName     string `config:"bucket-name" yaml:"bucket-name,omitempty"`
	KeyID          string `config:"key-id" yaml:"key-id,omitempty"`
	SecretKey      string `config:"secret-key" yaml:"secret-key,omitempty"`
	Region         string `config:"region" yaml:"region,omitempty"`
	Endpoint       string `config:"endpoint" yaml:"endpoint,omitempty"`
	PrefixPath     string `config:"subdirectory" yaml:"subdirectory,omitempty"`
	CredentialFile string `config:"credential-file" yaml:"credential-file,omitempty"`
	Profile        string `config:"profile" yaml:"profile,omitempty"`
	UsePathStyle   bool   `config:"use-path-style" yaml:"use-path-style,omitempty"`
	PresignExpiry  uint32 `config:"presign-expiry-sec" yaml:"presign-expiry-sec,omitempty"`
}

type s3AuthConfig struct {
	BucketName string
	KeyID      string
	SecretKey  string
	Region     string
	Endpoint   string
}

type Config struct {
	authConfig    s3AuthConfig
	prefixPath    string
	usePathStyle  bool
	presignExpiry time.Duration
}

// RegisterEnvVariables : the usual AWS variables fill in whatever the config file leaves out
func RegisterEnvVariables() {
	config.BindEnv(compName+".key-id", "AWS_ACCESS_KEY_ID")
	config.BindEnv(compName+".secret-key", "AWS_SECRET_ACCESS_KEY")
	config.BindEnv(compName+".region", "AWS_REGION")
	config.BindEnv(compName+".endpoint", "AWS_ENDPOINT_URL")
	config.BindEnv(compName+".bucket-name", "PHOTOFUSE_BUCKET")
}

// ParseAndValidateConfig : Parse and validate config
func ParseAndValidateConfig(s3 *S3Photos, opt Options) error {
	log.Trace("ParseAndValidateConfig : Parsing config")

	if opt.BucketName == "" {
		return fmt.Errorf("bucket name not provided [%w]", errConfigFieldEmpty)
	}

	err := fillFromCredentialFile(&opt)
	if err != nil {
		return err
	}

	if opt.KeyID == "" {
		return fmt.Errorf("key id not provided [%w]", errConfigFieldEmpty)
	}
	if opt.SecretKey == "" {
		return fmt.Errorf("secret key not provided [%w]", errConfigFieldEmpty)
	}

	s3.stConfig.authConfig = s3AuthConfig{
		BucketName: opt.BucketName,
		KeyID:      opt.KeyID,
		SecretKey:  opt.SecretKey,
		Region:     opt.Region,
		Endpoint:   opt.Endpoint,
	}
	if opt.Endpoint == "" {
		log.Warn("ParseAndValidateConfig : endpoint not provided, resolving the AWS endpoint for region %s", opt.Region)
	}

	s3.stConfig.prefixPath = strings.Trim(common.NormalizeObjectName(opt.PrefixPath), "/")
	s3.stConfig.usePathStyle = opt.UsePathStyle

	s3.stConfig.presignExpiry = time.Duration(defaultPresignExpiry) * time.Second
	if opt.PresignExpiry != 0 {
		s3.stConfig.presignExpiry = time.Duration(opt.PresignExpiry) * time.Second
	}

	return nil
}

// fillFromCredentialFile : keys missing from config come from the ini credentials file.
// The default file is only consulted when it exists.
func fillFromCredentialFile(opt *Options) error {
	if opt.KeyID != "" && opt.SecretKey != "" {
		return nil
	}

	path := opt.CredentialFile
	if path == "" {
		path = common.DefaultCredentialFile
		if !common.FileExists(common.ExpandPath(path)) {
			return nil
		}
	}

	cred, err := common.ReadCredentialFile(path, opt.Profile)
	if err != nil {
		log.Err("ParseAndValidateConfig : %s", err.Error())
		return err
	}

	if opt.KeyID == "" {
		opt.KeyID = cred.KeyID
	}
	if opt.SecretKey == "" {
		opt.SecretKey = cred.SecretKey
	}
	if opt.Region == "" {
		opt.Region = cred.Region
	}
	if opt.Endpoint == "" {
		opt.Endpoint = cred.Endpoint
	}
	return nil
}
