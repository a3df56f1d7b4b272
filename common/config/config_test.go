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

package config

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type LoggingOpts struct {
	Type  string `config:"type"`
	Level string `config:"level"`
}

type CacheOpts struct {
	Timeout  uint32 `config:"timeout-sec"`
	PageSize uint32 `config:"page-size"`
	Nested   Nested `config:"nested"`
}

type Nested struct {
	Enabled bool   `config:"enabled"`
	Label   string `config:"label"`
}

type MountConfig struct {
	Components []string    `config:"components"`
	Logging    LoggingOpts `config:"logging"`
	Cache      CacheOpts   `config:"photo_cache"`
}

type ConfigTestSuite struct {
	suite.Suite
}

var mountConf = `
components:
  - libfuse
  - photo_cache
  - s3photos
logging:
  type: base
  level: log_debug
photo_cache:
  timeout-sec: 600
  page-size: 50
  nested:
    enabled: true
    label: shelf
`

var cacheConf = `
timeout-sec: 30
nested:
  label: drawer
`

func (suite *ConfigTestSuite) TestUnmarshalKeySubtrees() {
	defer suite.cleanupTest()
	assert := assert.New(suite.T())
	err := ReadConfigFromReader(strings.NewReader(mountConf))
	assert.NoError(err)

	nested := &Nested{}
	err = UnmarshalKey("photo_cache.nested", nested)
	assert.NoError(err)
	assert.Equal(&Nested{Enabled: true, Label: "shelf"}, nested)

	cache := &CacheOpts{}
	err = UnmarshalKey("photo_cache", cache)
	assert.NoError(err)
	assert.Equal(&CacheOpts{Timeout: 600, PageSize: 50, Nested: Nested{Enabled: true, Label: "shelf"}}, cache)

	logging := &LoggingOpts{}
	err = UnmarshalKey("logging", logging)
	assert.NoError(err)
	assert.Equal("base", logging.Type)
	assert.Equal("log_debug", logging.Level)

	// a list cannot be decoded into a scalar
	count := 0
	err = UnmarshalKey("components", &count)
	assert.Error(err)
}

func (suite *ConfigTestSuite) TestUnmarshalWhole() {
	defer suite.cleanupTest()
	assert := assert.New(suite.T())
	err := ReadConfigFromReader(strings.NewReader(mountConf))
	assert.NoError(err)

	opts := &MountConfig{}
	err = Unmarshal(opts)
	assert.NoError(err)
	assert.Equal([]string{"libfuse", "photo_cache", "s3photos"}, opts.Components)
	assert.EqualValues(600, opts.Cache.Timeout)

	randOpts := struct {
		NewName       string `config:"newname"`
		NotExistField int    `config:"notexists"`
	}{}
	err = Unmarshal(&randOpts)
	assert.NoError(err)
	assert.Empty(randOpts)
}

func (suite *ConfigTestSuite) TestIsSet() {
	defer suite.cleanupTest()
	assert := assert.New(suite.T())
	err := ReadConfigFromReader(strings.NewReader(mountConf))
	assert.NoError(err)

	assert.True(IsSet("photo_cache.timeout-sec"))
	assert.False(IsSet("photo_cache.remote-timeout-sec"))

	flag := AddUint32Flag("remote-timeout", 0, "remote timeout")
	BindPFlag("photo_cache.remote-timeout-sec", flag)
	assert.False(IsSet("photo_cache.remote-timeout-sec"))

	err = Flags().Set("remote-timeout", "5")
	assert.NoError(err)
	assert.True(IsSet("photo_cache.remote-timeout-sec"))
}

func (suite *ConfigTestSuite) TestEnvShadowedConfigReader() {
	defer suite.cleanupTest()
	assert := assert.New(suite.T())
	err := os.Setenv("PF_TEST_LABEL", "basement")
	assert.NoError(err)
	defer os.Unsetenv("PF_TEST_LABEL")

	err = ReadConfigFromReader(strings.NewReader(cacheConf))
	assert.NoError(err)
	BindEnv("nested.label", "PF_TEST_LABEL")
	BindEnv("nested.enabled", "PF_TEST_NOT_SET")

	opts := &CacheOpts{}
	err = Unmarshal(opts)
	assert.NoError(err)
	assert.EqualValues(30, opts.Timeout)
	assert.Equal("basement", opts.Nested.Label)
	assert.False(opts.Nested.Enabled)
}

func (suite *ConfigTestSuite) TestFlagShadowedConfigReader() {
	defer suite.cleanupTest()
	assert := assert.New(suite.T())
	err := ReadConfigFromReader(strings.NewReader(mountConf))
	assert.NoError(err)

	flag := AddUint32Flag("cache-timeout", 14400, "cache timeout")
	BindPFlag("photo_cache.timeout-sec", flag)
	pageFlag := AddUint32Flag("page-size", 100, "page size")
	BindPFlag("photo_cache.page-size", pageFlag)
	err = Flags().Set("cache-timeout", "90")
	assert.NoError(err)

	opts := &CacheOpts{}
	err = UnmarshalKey("photo_cache", opts)
	assert.NoError(err)
	assert.EqualValues(90, opts.Timeout)
	// unchanged flags do not override the file
	assert.EqualValues(50, opts.PageSize)
}

func (suite *ConfigTestSuite) TestChangeListener() {
	defer suite.cleanupTest()
	assert := assert.New(suite.T())

	calls := 0
	AddConfigChangeEventListener(ConfigChangeEventHandlerFunc(func() { calls++ }))
	OnConfigChange()
	OnConfigChange()
	assert.Equal(2, calls)
}

func (suite *ConfigTestSuite) TestReloadIgnoresBrokenFile() {
	defer suite.cleanupTest()
	assert := assert.New(suite.T())
	assert.NoError(ReadConfigFromReader(strings.NewReader(mountConf)))
	rememberMountKeys()

	calls := 0
	AddConfigChangeEventListener(ConfigChangeEventHandlerFunc(func() { calls++ }))

	path := suite.T().TempDir() + "/photofuse.yaml"
	assert.NoError(os.WriteFile(path, []byte("photo_cache:\n  page-size: [1\n"), 0600))
	assert.False(reloadConfig(path))
	assert.Equal(0, calls)

	assert.False(reloadConfig(path + ".gone"))
	assert.Equal(0, calls)

	assert.NoError(os.WriteFile(path, []byte("photo_cache:\n  page-size: 10\n"), 0600))
	assert.True(reloadConfig(path))
	assert.Equal(1, calls)
}

func (suite *ConfigTestSuite) TestChangedMountKeys() {
	defer suite.cleanupTest()
	assert := assert.New(suite.T())
	assert.Empty(changedMountKeys())

	assert.NoError(ReadConfigFromReader(strings.NewReader(mountConf)))
	rememberMountKeys()
	assert.Empty(changedMountKeys())

	edited := strings.Replace(mountConf, "  - s3photos\n", "", 1)
	edited = strings.Replace(edited, "page-size: 50", "page-size: 20", 1)
	assert.NoError(ReadConfigFromReader(strings.NewReader(edited)))
	assert.Equal([]string{"components"}, changedMountKeys())
}

func (suite *ConfigTestSuite) TestKeysTree() {
	assert := assert.New(suite.T())
	tree := NewTree()
	tree.Insert("a.b.c", "x")
	tree.Insert("a.d", "y")

	assert.NotNil(tree.Get("a.b"))
	assert.Equal("x", tree.Get("a.b.c").value)
	assert.Nil(tree.Get("a.e"))

	value := ""
	tree.MergeWithKey("a.d", &value, func(val interface{}) (interface{}, bool) { return val, true })
	assert.Equal("y", value)
}

func (suite *ConfigTestSuite) cleanupTest() {
	ResetConfig()
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
