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

package common

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// IsDirectoryMounted is a utility function that returns true if the directory is already mounted using fuse
func IsDirectoryMounted(path string) bool {
	mntList, err := os.ReadFile("/etc/mtab")
	if err != nil {
		return false
	}

	// removing trailing / from the path
	path = strings.TrimRight(path, "/")

	for _, line := range strings.Split(string(mntList), "\n") {
		if strings.TrimSpace(line) != "" {
			fields := strings.Split(line, " ")
			if len(fields) < 2 {
				continue
			}
			if path == fields[1] && strings.Contains(line, "fuse") {
				return true
			}
		}
	}

	return false
}

// ListMountPoints : mount points of every running photofuse instance
func ListMountPoints() ([]string, error) {
	mntList, err := os.ReadFile("/etc/mtab")
	if err != nil {
		return nil, err
	}

	mntPoints := make([]string, 0)
	for _, line := range strings.Split(string(mntList), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		// cgofuse reports fsname as the source, see libfuse initFuse
		if fields[0] == FileSystemName && strings.HasPrefix(fields[2], "fuse") {
			mntPoints = append(mntPoints, fields[1])
		}
	}
	return mntPoints, nil
}

// IsDirectoryEmpty is a utility function that returns true if the directory at that path is empty or not
func IsDirectoryEmpty(path string) bool {
	if !DirectoryExists(path) {
		// Directory does not exists so safe to assume its empty
		return true
	}

	f, _ := os.Open(path)
	defer f.Close()

	_, err := f.Readdirnames(1)
	// If there is nothing in the directory then it is empty
	return err == io.EOF
}

// TempCacheCleanup removes every first level child of path
func TempCacheCleanup(path string) error {
	if !IsDirectoryEmpty(path) {
		dirents, err := os.ReadDir(path)
		if err != nil {
			return fmt.Errorf("failed to list directory contents : %s", err.Error())
		}

		for _, entry := range dirents {
			os.RemoveAll(filepath.Join(path, entry.Name()))
		}
	}

	return nil
}

// DirectoryExists is a utility function that returns true if the directory at that path exists and returns false if it does not exist.
func DirectoryExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FileExists : regular file present at path
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func JoinUnixFilepath(elem ...string) string {
	return filepath.ToSlash(filepath.Join(elem...))
}

// NormalizeObjectName : convert all backslashes to forward slashes
func NormalizeObjectName(name string) string {
	return strings.ReplaceAll(name, `\`, "/")
}

// SplitPhotoPath : "/album/photo" -> ("album", "photo"), "/photo" -> ("", "photo")
func SplitPhotoPath(p string) (album string, photo string) {
	p = strings.TrimPrefix(NormalizeObjectName(p), "/")
	dir, file := path.Split(p)
	return strings.TrimSuffix(dir, "/"), file
}

// convert ~ to $HOME in path
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		path = JoinUnixFilepath(homeDir, path[2:])
	}

	path = os.ExpandEnv(path)
	path, _ = filepath.Abs(path)
	return JoinUnixFilepath(path)
}

func CreateDefaultDirectory() error {
	dir, err := os.Stat(ExpandPath(DefaultWorkDir))
	if err == nil && !dir.IsDir() {
		return err
	}

	if err != nil && os.IsNotExist(err) {
		// create the default work dir
		if err = os.MkdirAll(ExpandPath(DefaultWorkDir), 0755); err != nil {
			return err
		}
	}
	return nil
}

// Credentials read from an ini style credentials file
type Credentials struct {
	KeyID     string
	SecretKey string
	Region    string
	Endpoint  string
}

// ReadCredentialFile : load one profile section of the credentials file
//
//	[default]
//	key-id = ...
//	secret-key = ...
func ReadCredentialFile(path string, profile string) (*Credentials, error) {
	cfg, err := ini.Load(ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file %s [%s]", path, err.Error())
	}

	if profile == "" {
		profile = "default"
	}
	section, err := cfg.GetSection(profile)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found in %s", profile, path)
	}

	return &Credentials{
		KeyID:     section.Key("key-id").String(),
		SecretKey: section.Key("secret-key").String(),
		Region:    section.Key("region").String(),
		Endpoint:  section.Key("endpoint").String(),
	}, nil
}
