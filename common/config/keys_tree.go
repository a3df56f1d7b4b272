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
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

// STRUCT_TAG is the tag used on option structs to name their config keys
const STRUCT_TAG = "config"

// TreeNode : one segment of a dotted config key
type TreeNode struct {
	children map[string]*TreeNode
	value    interface{}
	name     string
}

// Tree : keys like "photo_cache.timeout-sec" split on '.' and stored as a path of nodes.
// Leaves carry whatever was bound to the key (a flag, an env var name).
type Tree struct {
	head *TreeNode
}

func NewTreeNode(name string) *TreeNode {
	return &TreeNode{
		children: make(map[string]*TreeNode),
		name:     name,
	}
}

func NewTree() *Tree {
	return &Tree{head: NewTreeNode("")}
}

// Insert : bind a value to the dotted key, creating intermediate nodes as needed
func (tree *Tree) Insert(key string, value interface{}) {
	node := tree.head
	for _, piece := range strings.Split(key, ".") {
		child, ok := node.children[piece]
		if !ok {
			child = NewTreeNode(piece)
			node.children[piece] = child
		}
		node = child
	}
	node.value = value
}

// Get : return the node at the dotted key or nil
func (tree *Tree) Get(key string) *TreeNode {
	node := tree.head
	for _, piece := range strings.Split(key, ".") {
		node = node.children[piece]
		if node == nil {
			return nil
		}
	}
	return node
}

// Merge : overwrite fields of obj with the values the tree resolves.
// getValue decides whether a bound value should win over what obj already holds.
func (tree *Tree) Merge(obj interface{}, getValue func(val interface{}) (res interface{}, ok bool)) {
	mergeNode(tree.head, reflect.ValueOf(obj), getValue)
}

// MergeWithKey : same as Merge but only for the subtree rooted at key
func (tree *Tree) MergeWithKey(key string, obj interface{}, getValue func(val interface{}) (res interface{}, ok bool)) {
	node := tree.Get(key)
	if node == nil {
		return
	}
	target := reflect.ValueOf(obj)
	if node.value != nil && len(node.children) == 0 {
		// key names a scalar, obj points straight at it
		assignLeaf(node, target, getValue)
		return
	}
	mergeNode(node, target, getValue)
}

func mergeNode(node *TreeNode, target reflect.Value, getValue func(val interface{}) (interface{}, bool)) {
	for target.Kind() == reflect.Ptr || target.Kind() == reflect.Interface {
		if target.IsNil() {
			return
		}
		target = target.Elem()
	}
	if target.Kind() != reflect.Struct {
		return
	}

	targetType := target.Type()
	for i := 0; i < targetType.NumField(); i++ {
		field := targetType.Field(i)
		name := strings.Split(field.Tag.Get(STRUCT_TAG), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		child, ok := node.children[name]
		if !ok {
			continue
		}

		fieldVal := target.Field(i)
		if !fieldVal.CanSet() {
			continue
		}
		if len(child.children) > 0 {
			mergeNode(child, fieldVal.Addr(), getValue)
		} else {
			assignLeaf(child, fieldVal.Addr(), getValue)
		}
	}
}

func assignLeaf(node *TreeNode, target reflect.Value, getValue func(val interface{}) (interface{}, bool)) {
	if node.value == nil {
		return
	}
	res, ok := getValue(node.value)
	if !ok {
		return
	}
	for target.Kind() == reflect.Ptr {
		if target.IsNil() {
			return
		}
		target = target.Elem()
	}
	if !target.CanSet() {
		return
	}

	var converted interface{}
	var err error
	switch target.Kind() {
	case reflect.String:
		converted, err = cast.ToStringE(res)
	case reflect.Bool:
		converted, err = cast.ToBoolE(res)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var v int64
		v, err = cast.ToInt64E(res)
		converted = v
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var v uint64
		v, err = cast.ToUint64E(res)
		converted = v
	case reflect.Float32, reflect.Float64:
		converted, err = cast.ToFloat64E(res)
	case reflect.Slice:
		converted, err = cast.ToStringSliceE(res)
	default:
		return
	}
	if err != nil {
		return
	}
	target.Set(reflect.ValueOf(converted).Convert(target.Type()))
}
