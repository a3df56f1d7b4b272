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
	"gopkg.in/yaml.v2"
)

// albumManifest : albums/<id>.yaml, the album title and its photo ids in album order
type albumManifest struct {
	Title string   `yaml:"title"`
	Items []string `yaml:"items"`
}

func decodeManifest(data []byte) (*albumManifest, error) {
	m := &albumManifest{}
	err := yaml.Unmarshal(data, m)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *albumManifest) encode() ([]byte, error) {
	return yaml.Marshal(m)
}

func (m *albumManifest) contains(id string) bool {
	for _, item := range m.Items {
		if item == id {
			return true
		}
	}
	return false
}

// add : false when the photo is already in the album
func (m *albumManifest) add(id string) bool {
	if id == "" || m.contains(id) {
		return false
	}
	m.Items = append(m.Items, id)
	return true
}

// remove : false when the photo was not in the album
func (m *albumManifest) remove(id string) bool {
	for i, item := range m.Items {
		if item == id {
			m.Items = append(m.Items[:i], m.Items[i+1:]...)
			return true
		}
	}
	return false
}
