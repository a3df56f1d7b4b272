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
	"fmt"
	"sort"

	"github.com/Seagate/photofuse/common/log"
)

// NewComponent : factory each component registers from its init()
type NewComponent func() Component

// Pipeline : ordered set of components, top (kernel facing) first
type Pipeline struct {
	components []Component
}

var registeredComponents map[string]NewComponent = make(map[string]NewComponent)

// AddComponent : register a component factory under name
func AddComponent(name string, init NewComponent) {
	registeredComponents[name] = init
}

// GetComponent : return a fresh instance of a registered component or nil
func GetComponent(name string) Component {
	init, ok := registeredComponents[name]
	if !ok {
		return nil
	}
	comp := init()
	comp.SetName(name)
	return comp
}

// RegisteredComponents : names of every registered component, sorted
func RegisteredComponents() []string {
	names := make([]string, 0, len(registeredComponents))
	for name := range registeredComponents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPipeline : create, configure and chain the named components in order
func NewPipeline(components []string, isParent bool) (*Pipeline, error) {
	comps := make([]Component, 0, len(components))
	lastPriority := EComponentPriority.Producer()

	for _, name := range components {
		comp := GetComponent(name)
		if comp == nil {
			log.Err("Pipeline: error [component %s not registered]", name)
			return nil, fmt.Errorf("component %s is not registered", name)
		}

		if comp.Priority() < lastPriority {
			log.Err("Pipeline::NewPipeline : Invalid component order [priority of %s can not be less then previous component]", name)
			return nil, fmt.Errorf("priority of %s can not be less then previous component", name)
		}
		lastPriority = comp.Priority()

		if err := comp.Configure(isParent); err != nil {
			log.Err("Pipeline: error creating pipeline component %s [%s]", name, err)
			return nil, err
		}

		comps = append(comps, comp)
	}

	// link each component with the one below it
	for i := 0; i+1 < len(comps); i++ {
		comps[i].SetNextComponent(comps[i+1])
	}

	return &Pipeline{components: comps}, nil
}

// Header : the top most component, the one the kernel talks to
func (p *Pipeline) Header() Component {
	if len(p.components) == 0 {
		return nil
	}
	return p.components[0]
}

// Start : start components bottom up so every component finds its dependency running
func (p *Pipeline) Start(ctx context.Context) error {
	for i := len(p.components) - 1; i >= 0; i-- {
		comp := p.components[i]
		log.Debug("Pipeline::Start : Starting component %s", comp.Name())
		if err := comp.Start(ctx); err != nil {
			log.Err("Pipeline::Start : error starting component %s [%s]", comp.Name(), err)
			return err
		}
	}
	return nil
}

// Stop : stop components top down
func (p *Pipeline) Stop() error {
	for _, comp := range p.components {
		log.Debug("Pipeline::Stop : Stopping component %s", comp.Name())
		if err := comp.Stop(); err != nil {
			log.Err("Pipeline::Stop : error stopping component %s [%s]", comp.Name(), err)
			return err
		}
	}
	return nil
}
