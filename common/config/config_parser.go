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
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/Seagate/photofuse/common/log"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// A value is taken from its flag when the flag was set, then from its bound
// environment variable, then from the yaml config file.
// Bindings may be made from init functions. Reads only after the file is loaded.

// ConfigChangeEventHandler : told when the config file was edited and re-read
type ConfigChangeEventHandler interface {
	OnConfigChange()
}

type ConfigChangeEventHandlerFunc func()

func (handler ConfigChangeEventHandlerFunc) OnConfigChange() {
	handler()
}

// keys read only while mounting; editing them in a running mount has no effect
var mountKeys = []string{
	"mount-path",
	"components",
	"read-only",
	"scratch.path",
	"s3photos.bucket-name",
	"s3photos.endpoint",
	"s3photos.subdirectory",
}

type options struct {
	path      string
	listeners []ConfigChangeEventHandler
	flags     *pflag.FlagSet
	flagTree  *Tree
	envTree   *Tree

	// mountKeys as they were when the file was first read
	mounted map[string]interface{}
}

var userOptions options

// ReadFromConfigFile : load the yaml config file and reload it whenever it changes
func ReadFromConfigFile(configFilePath string) error {
	userOptions.path = configFilePath
	viper.SetConfigType("yaml")
	viper.SetConfigFile(configFilePath)
	err := viper.ReadInConfig()
	if err != nil {
		return err
	}

	rememberMountKeys()
	WatchConfig()
	return nil
}

// WatchConfig : viper re-reads the file on every write, then reloadConfig decides
// whether the listeners hear about it
func WatchConfig() {
	viper.OnConfigChange(func(event fsnotify.Event) {
		reloadConfig(event.Name)
	})
	viper.WatchConfig()
}

// reloadConfig : notify the listeners about a changed file at path.
// A file that no longer parses is ignored and the settings already in force stay.
func reloadConfig(path string) bool {
	log.Crit("WatchConfig : Config change detected in %s", path)

	data, err := os.ReadFile(path)
	if err == nil {
		parsed := make(map[string]interface{})
		err = yaml.Unmarshal(data, &parsed)
	}
	if err != nil {
		log.Err("WatchConfig : %s not reloaded, keeping the current settings [%s]", path, err.Error())
		return false
	}

	for _, key := range changedMountKeys() {
		log.Warn("WatchConfig : %s changed, it applies from the next mount", key)
	}
	OnConfigChange()
	return true
}

func rememberMountKeys() {
	userOptions.mounted = make(map[string]interface{}, len(mountKeys))
	for _, key := range mountKeys {
		userOptions.mounted[key] = viper.Get(key)
	}
}

// changedMountKeys : mountKeys whose value differs from the one read at mount
func changedMountKeys() []string {
	changed := make([]string, 0)
	if userOptions.mounted == nil {
		return changed
	}
	for _, key := range mountKeys {
		if !reflect.DeepEqual(viper.Get(key), userOptions.mounted[key]) {
			changed = append(changed, key)
		}
	}
	return changed
}

// ReadConfigFromReader : load yaml config from reader, used by tests and templates
func ReadConfigFromReader(reader io.Reader) error {
	viper.SetConfigType("yaml")
	return viper.ReadConfig(reader)
}

func AddConfigChangeEventListener(listener ConfigChangeEventHandler) {
	userOptions.listeners = append(userOptions.listeners, listener)
}

func OnConfigChange() {
	for _, listener := range userOptions.listeners {
		listener.OnConfigChange()
	}
}

// BindEnv : let environment variable envVarName supply the dotted key, e.g. "s3photos.key-id"
func BindEnv(key string, envVarName string) {
	userOptions.envTree.Insert(key, envVarName)
}

// BindPFlag : let flag supply the dotted key when it is set on the command line
func BindPFlag(key string, flag *pflag.Flag) {
	userOptions.flagTree.Insert(key, flag)
}

func withConfigTag(decodeConfig *mapstructure.DecoderConfig) {
	decodeConfig.TagName = STRUCT_TAG
}

func envValue(val interface{}) (interface{}, bool) {
	return os.LookupEnv(val.(string))
}

func flagValue(val interface{}) (interface{}, bool) {
	flag := val.(*pflag.Flag)
	if !flag.Changed {
		return "", false
	}
	return flag.Value.String(), true
}

// UnmarshalKey : decode the subtree under the dotted key into obj.
// Bound environment variables and set flags override what the file says.
func UnmarshalKey(key string, obj interface{}) error {
	err := viper.UnmarshalKey(key, obj, withConfigTag)
	if err != nil {
		return fmt.Errorf("config error: unmarshalling [%v]", err)
	}
	userOptions.envTree.MergeWithKey(key, obj, envValue)
	userOptions.flagTree.MergeWithKey(key, obj, flagValue)
	return nil
}

// Unmarshal : decode the whole config into obj. Unexported fields are left alone.
func Unmarshal(obj interface{}) error {
	err := viper.Unmarshal(obj, withConfigTag)
	if err != nil {
		return fmt.Errorf("config error: unmarshalling [%v]", err)
	}
	userOptions.envTree.Merge(obj, envValue)
	userOptions.flagTree.Merge(obj, flagValue)
	return nil
}

func Set(key string, val string) {
	viper.Set(key, val)
}

// IsSet : true when the file sets key or its bound flag was given
func IsSet(key string) bool {
	if viper.IsSet(key) {
		return true
	}
	node := userOptions.flagTree.Get(key)
	if node == nil {
		return false
	}
	flag, ok := node.value.(*pflag.Flag)
	return ok && flag.Changed
}

// AttachToFlagSet : expose the component flags on a command
func AttachToFlagSet(flagset *pflag.FlagSet) {
	flagset.AddFlagSet(userOptions.flags)
}

func resetOptions() {
	userOptions = options{
		listeners: make([]ConfigChangeEventHandler, 0),
		flags:     pflag.NewFlagSet("config-options", pflag.ContinueOnError),
		flagTree:  NewTree(),
		envTree:   NewTree(),
	}
}

// ResetConfig : forget the loaded file, the listeners and every binding
func ResetConfig() {
	viper.Reset()
	resetOptions()
}

func init() {
	resetOptions()
}
