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

package internal

import (
	"context"
	"reflect"

	"github.com/JeffreyRichter/enum/enum"
)

// ComponentPriority : position of a component in the pipeline.
// Producer sits on top (talks to the kernel), Consumer at the bottom (talks to the remote service).
type ComponentPriority int

var EComponentPriority = ComponentPriority(0).Producer()

func (ComponentPriority) Producer() ComponentPriority {
	return ComponentPriority(0)
}

func (ComponentPriority) LevelMid() ComponentPriority {
	return ComponentPriority(1)
}

func (ComponentPriority) Consumer() ComponentPriority {
	return ComponentPriority(2)
}

func (c ComponentPriority) String() string {
	return enum.StringInt(c, reflect.TypeOf(c))
}

func (c *ComponentPriority) Parse(s string) error {
	enumVal, err := enum.ParseInt(reflect.TypeOf(c), s, true, false)
	if enumVal != nil {
		*c = enumVal.(ComponentPriority)
	}
	return err
}

// Component : lifecycle shared by every stage of the pipeline.
// The data path is typed per layer: a component type-asserts its NextComponent
// to the interface it needs (Catalog, PhotoService) when it starts.
type Component interface {
	// Pipeline participation related methods
	Name() string
	SetName(string)
	Configure(isParent bool) error
	GenConfig() string
	Priority() ComponentPriority
	SetNextComponent(c Component)
	NextComponent() Component

	Start(context.Context) error
	Stop() error
}

// BaseComponent : bookkeeping every component embeds
type BaseComponent struct {
	compName string
	next     Component
}

var _ Component = &BaseComponent{}

func (base *BaseComponent) Name() string {
	return base.compName
}

func (base *BaseComponent) SetName(name string) {
	base.compName = name
}

func (base *BaseComponent) Configure(isParent bool) error {
	return nil
}

func (base *BaseComponent) GenConfig() string {
	return ""
}

func (base *BaseComponent) Priority() ComponentPriority {
	return EComponentPriority.LevelMid()
}

func (base *BaseComponent) SetNextComponent(c Component) {
	base.next = c
}

func (base *BaseComponent) NextComponent() Component {
	return base.next
}

func (base *BaseComponent) Start(ctx context.Context) error {
	return nil
}

func (base *BaseComponent) Stop() error {
	return nil
}
