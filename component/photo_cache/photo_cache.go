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

package photo_cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Seagate/photofuse/common"
	"github.com/Seagate/photofuse/common/config"
	"github.com/Seagate/photofuse/common/log"
	"github.com/Seagate/photofuse/internal"

	"go.uber.org/atomic"
	"golang.org/x/sync/singleflight"
)

// By default the album listing is trusted for four hours
const defaultCacheTimeout uint32 = (4 * 60 * 60)

// photos requested per listing call
const defaultPageSize uint32 = 100

// S3 lists at most this many keys per call
const maxPageSize uint32 = 1000

// Common structure for PhotoCache Component
type PhotoCache struct {
	internal.BaseComponent
	cacheTimeout time.Duration // guarded by cacheLock
	// read outside of cacheLock
	pageSize      atomic.Int32
	remoteTimeout atomic.Duration

	remote    internal.PhotoService
	store     *entryStore
	cacheLock sync.RWMutex

	sweepFlight    singleflight.Group
	populateFlight singleflight.Group

	clock func() time.Time
	stats cacheStats
}

// Structure defining your config parameters
type PhotoCacheOptions struct {
	Timeout       uint32 `config:"timeout-sec" yaml:"timeout-sec,omitempty"`
	PageSize      uint32 `config:"page-size" yaml:"page-size,omitempty"`
	RemoteTimeout uint32 `config:"remote-timeout-sec" yaml:"remote-timeout-sec,omitempty"`
}

// counters of remote traffic, readable while the cache is running
type cacheStats struct {
	listCollections atomic.Int64
	listItemPages   atomic.Int64
	remoteCalls     atomic.Int64
	remoteFailures  atomic.Int64
	sweeps          atomic.Int64
	populates       atomic.Int64
}

// Stats : snapshot of cacheStats
type Stats struct {
	ListCollections int64
	ListItemPages   int64
	RemoteCalls     int64
	RemoteFailures  int64
	Sweeps          int64
	Populates       int64
}

const compName = "photo_cache"

// Verification to check satisfaction criteria with Component and Catalog Interface
var _ internal.Component = &PhotoCache{}
var _ internal.Catalog = &PhotoCache{}
var _ internal.ListingTTL = &PhotoCache{}

// New : a cache over remote that is usable without a pipeline.
// Zero options take their defaults. Call Start before use and Stop when done.
func New(remote internal.PhotoService, opts PhotoCacheOptions) (*PhotoCache, error) {
	pc := &PhotoCache{remote: remote}
	pc.SetName(compName)
	err := pc.applyOptions(opts, opts.Timeout != 0, opts.PageSize != 0)
	if err != nil {
		return nil, fmt.Errorf("config error in %s [%s]", pc.Name(), err.Error())
	}
	return pc, nil
}

func (pc *PhotoCache) Name() string {
	return compName
}

func (pc *PhotoCache) SetName(name string) {
	pc.BaseComponent.SetName(name)
}

func (pc *PhotoCache) SetNextComponent(nc internal.Component) {
	pc.BaseComponent.SetNextComponent(nc)
}

func (pc *PhotoCache) Priority() internal.ComponentPriority {
	return internal.EComponentPriority.LevelMid()
}

// Start : Pipeline calls this method to start the component functionality
//
//	this shall not block the call otherwise pipeline will not start
func (pc *PhotoCache) Start(ctx context.Context) error {
	log.Trace("PhotoCache::Start : Starting component %s", pc.Name())

	if pc.remote == nil {
		remote, ok := pc.NextComponent().(internal.PhotoService)
		if !ok {
			log.Err("PhotoCache::Start : next component does not serve photos")
			return fmt.Errorf("%s requires a photo service below it", pc.Name())
		}
		pc.remote = remote
	}
	if pc.clock == nil {
		pc.clock = time.Now
	}

	pc.cacheLock.Lock()
	pc.store = newEntryStore()
	pc.cacheLock.Unlock()

	return nil
}

// Stop : Stop the component functionality and kill all threads started
func (pc *PhotoCache) Stop() error {
	log.Trace("PhotoCache::Stop : Stopping component %s", pc.Name())

	pc.cacheLock.Lock()
	defer pc.cacheLock.Unlock()
	if pc.store == nil {
		return nil
	}
	dirty := 0
	for _, c := range pc.store.collections {
		for _, item := range c.items {
			if item.dirty() {
				dirty++
			}
		}
	}
	if dirty > 0 {
		log.Warn("PhotoCache::Stop : dropping %d photos never committed to the photo service", dirty)
	}
	pc.store = newEntryStore()
	return nil
}

// Configure : Pipeline will call this method after constructor so that you can read config and initialize yourself
//
//	Return failure if any config is not valid to exit the process
func (pc *PhotoCache) Configure(_ bool) error {
	log.Trace("PhotoCache::Configure : %s", pc.Name())

	conf := PhotoCacheOptions{}
	err := config.UnmarshalKey(pc.Name(), &conf)
	if err != nil {
		log.Err("PhotoCache::Configure : config error [invalid config attributes]")
		return fmt.Errorf("config error in %s [%s]", pc.Name(), err.Error())
	}

	err = pc.applyOptions(conf, config.IsSet(compName+".timeout-sec"), config.IsSet(compName+".page-size"))
	if err != nil {
		log.Err("PhotoCache::Configure : config error [%s]", err.Error())
		return fmt.Errorf("config error in %s [%s]", pc.Name(), err.Error())
	}

	return nil
}

// applyOptions : validate conf and only then replace the running options.
// A rejected conf leaves the previous options in place.
func (pc *PhotoCache) applyOptions(conf PhotoCacheOptions, timeoutSet bool, pageSizeSet bool) error {
	cacheTimeout := time.Duration(defaultCacheTimeout) * time.Second
	if timeoutSet {
		cacheTimeout = time.Duration(conf.Timeout) * time.Second
	}

	pageSize := defaultPageSize
	if pageSizeSet {
		pageSize = conf.PageSize
	}
	if pageSize == 0 || pageSize > maxPageSize {
		return fmt.Errorf("page-size must be between 1 and %d, got %d", maxPageSize, pageSize)
	}

	remoteTimeout := time.Duration(conf.RemoteTimeout) * time.Second

	pc.cacheLock.Lock()
	pc.cacheTimeout = cacheTimeout
	pc.cacheLock.Unlock()
	pc.pageSize.Store(int32(pageSize))
	pc.remoteTimeout.Store(remoteTimeout)

	log.Info("PhotoCache::Configure : cache-timeout %v, page-size %d, remote-timeout %v",
		cacheTimeout, pageSize, remoteTimeout)
	return nil
}

// GenConfig : defaults for gen-config
func (pc *PhotoCache) GenConfig() string {
	return fmt.Sprintf("\n%s:\n  timeout-sec: %d\n  page-size: %d\n  # remote-timeout-sec: 30\n",
		compName, defaultCacheTimeout, defaultPageSize)
}

// OnConfigChange : If component has registered, on config file change this method is called
func (pc *PhotoCache) OnConfigChange() {
	log.Trace("PhotoCache::OnConfigChange : %s", pc.Name())
	err := pc.Configure(true)
	if err != nil {
		log.Err("PhotoCache::OnConfigChange : keeping previous options [%s]", err.Error())
	}
}

// ListingTTL : how long an album listing is trusted before it is fetched again
func (pc *PhotoCache) ListingTTL() time.Duration {
	pc.cacheLock.RLock()
	defer pc.cacheLock.RUnlock()
	return pc.cacheTimeout
}

// Stats : remote traffic so far
func (pc *PhotoCache) Stats() Stats {
	return Stats{
		ListCollections: pc.stats.listCollections.Load(),
		ListItemPages:   pc.stats.listItemPages.Load(),
		RemoteCalls:     pc.stats.remoteCalls.Load(),
		RemoteFailures:  pc.stats.remoteFailures.Load(),
		Sweeps:          pc.stats.sweeps.Load(),
		Populates:       pc.stats.populates.Load(),
	}
}

// callRemote : run one photo service call under the configured deadline.
// Errors come back as ErrNotFound when the service says so, ErrRemoteUnavailable otherwise.
func (pc *PhotoCache) callRemote(ctx context.Context, op string, call func(ctx context.Context) error) error {
	if timeout := pc.remoteTimeout.Load(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	pc.stats.remoteCalls.Inc()
	err := call(ctx)
	if err == nil {
		return nil
	}

	pc.stats.remoteFailures.Inc()
	if errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("%w: %s [%s]", common.ErrNotFound, op, err.Error())
	}
	return fmt.Errorf("%w: %s [%s]", common.ErrRemoteUnavailable, op, err.Error())
}

// ------------------------- Factory -------------------------------------------

// Pipeline will call this method to create your object, initialize your variables here
func NewPhotoCacheComponent() internal.Component {
	comp := &PhotoCache{clock: time.Now}
	comp.SetName(compName)

	config.AddConfigChangeEventListener(comp)
	return comp
}

// On init register this component to pipeline and supply your constructor
func init() {
	internal.AddComponent(compName, NewPhotoCacheComponent)

	cacheTimeout := config.AddUint32Flag("cache-timeout", defaultCacheTimeout, "seconds the album listing is trusted")
	config.BindPFlag(compName+".timeout-sec", cacheTimeout)

	pageSize := config.AddUint32Flag("page-size", defaultPageSize, "photos requested per listing call")
	config.BindPFlag(compName+".page-size", pageSize)
	pageSize.Hidden = true

	remoteTimeout := config.AddUint32Flag("remote-timeout", 0, "deadline in seconds for one photo service call, 0 for none")
	config.BindPFlag(compName+".remote-timeout-sec", remoteTimeout)
}
