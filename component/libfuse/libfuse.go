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

package libfuse

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Seagate/photofuse/common"
	"github.com/Seagate/photofuse/common/config"
	"github.com/Seagate/photofuse/common/log"
	"github.com/Seagate/photofuse/component/scratch"
	"github.com/Seagate/photofuse/internal"
	"github.com/Seagate/photofuse/internal/handlemap"

	"github.com/winfsp/cgofuse/fuse"
)

/* NOTES:
   - Albums are the only directories, one level below the root.
   - Photos that belong to no album sit directly in the root.
   - Photo bytes are served from scratch copies, uploads happen on release.
*/

// Common structure for Component
type Libfuse struct {
	internal.BaseComponent
	catalog             internal.Catalog
	scratch             *scratch.Scratch
	host                *fuse.FileSystemHost
	ctx                 context.Context
	cancel              context.CancelFunc
	mountPath           string
	dirPermission       uint
	filePermission      uint
	readOnly            bool
	attributeExpiration uint32
	entryExpiration     uint32
	negativeTimeout     uint32
	allowOther          bool
	allowRoot           bool
	ownerUID            uint32
	ownerGID            uint32
	traceEnable         bool
	nonEmptyMount       bool
	maxFuseThreads      uint32
	umask               uint32
	directIO            bool
}

// Structure defining your config parameters
type LibfuseOptions struct {
	mountPath               string
	DefaultPermission       uint32 `config:"default-permission" yaml:"default-permission,omitempty"`
	AttributeExpiration     uint32 `config:"attribute-expiration-sec" yaml:"attribute-expiration-sec,omitempty"`
	EntryExpiration         uint32 `config:"entry-expiration-sec" yaml:"entry-expiration-sec,omitempty"`
	NegativeEntryExpiration uint32 `config:"negative-entry-expiration-sec" yaml:"negative-entry-expiration-sec,omitempty"`
	EnableFuseTrace         bool   `config:"fuse-trace" yaml:"fuse-trace,omitempty"`
	allowOther              bool   `config:"allow-other" yaml:"-"`
	allowRoot               bool   `config:"allow-root" yaml:"-"`
	readOnly                bool   `config:"read-only" yaml:"-"`
	nonEmptyMount           bool   `config:"nonempty" yaml:"-"`
	Uid                     uint32 `config:"uid" yaml:"uid,omitempty"`
	Gid                     uint32 `config:"gid" yaml:"gid,omitempty"`
	MaxFuseThreads          uint32 `config:"max-fuse-threads" yaml:"max-fuse-threads,omitempty"`
	DirectIO                bool   `config:"direct-io" yaml:"direct-io,omitempty"`
	Umask                   uint32 `config:"umask" yaml:"umask,omitempty"`
}

const compName = "libfuse"

// photos are read-write for the owner, albums are listable
const defaultPermission = 0755
const defaultAttrExpiration = 120
const defaultEntryExpiration = 120
const defaultNegativeEntryExpiration = 120
const defaultMaxFuseThreads = 128

// the component serving the kernel callbacks
var fuseFS *Libfuse

// Verification to check satisfaction criteria with Component Interface
var _ internal.Component = &Libfuse{}

func (lf *Libfuse) Priority() internal.ComponentPriority {
	return internal.EComponentPriority.Producer()
}

// Start : resolve the catalog below us, start scratch and mount
func (lf *Libfuse) Start(ctx context.Context) error {
	log.Trace("Libfuse::Start : Starting component %s", lf.Name())

	if lf.catalog == nil {
		catalog, ok := lf.NextComponent().(internal.Catalog)
		if !ok {
			log.Err("Libfuse::Start : %s needs a photo catalog below it", lf.Name())
			return fmt.Errorf("%s needs a photo catalog below it", lf.Name())
		}
		lf.catalog = catalog
	}

	lf.ctx, lf.cancel = context.WithCancel(ctx)
	fuseFS = lf

	err := lf.scratch.Start()
	if err != nil {
		return err
	}

	err = lf.initFuse()
	if err != nil {
		log.Err("Libfuse::Start : Failed to init fuse [%s]", err.Error())
		return err
	}

	return nil
}

// Stop : unmount, then drop scratch copies that hold nothing unsaved
func (lf *Libfuse) Stop() error {
	log.Trace("Libfuse::Stop : Stopping component %s", lf.Name())

	if lf.host != nil {
		_ = lf.destroyFuse()
	}
	if lf.cancel != nil {
		lf.cancel()
	}
	if lf.scratch != nil {
		lf.scratch.Stop()
		if pending := lf.scratch.Pending(); len(pending) > 0 {
			log.Warn("Libfuse::Stop : %d photos were never uploaded, copies kept under %s", len(pending), lf.scratch.Path())
		}
	}
	if count := handlemap.Count(); count > 0 {
		log.Warn("Libfuse::Stop : %d handles still open", count)
	}
	return nil
}

// Validate : Validate all the config params
func (lf *Libfuse) Validate(opt *LibfuseOptions) error {
	lf.mountPath = opt.mountPath
	lf.readOnly = opt.readOnly
	lf.traceEnable = opt.EnableFuseTrace
	lf.allowOther = opt.allowOther
	lf.allowRoot = opt.allowRoot
	lf.nonEmptyMount = opt.nonEmptyMount
	lf.umask = opt.Umask
	lf.directIO = opt.DirectIO

	if opt.allowOther && opt.allowRoot {
		return fmt.Errorf("allow-other and allow-root are mutually exclusive")
	}

	if opt.DefaultPermission != 0 {
		lf.filePermission = uint(opt.DefaultPermission)
		lf.dirPermission = uint(opt.DefaultPermission)
	} else {
		lf.filePermission = uint(defaultPermission)
		lf.dirPermission = uint(defaultPermission)
	}

	if config.IsSet(compName + ".entry-expiration-sec") {
		lf.entryExpiration = opt.EntryExpiration
	} else {
		lf.entryExpiration = defaultEntryExpiration
	}

	if config.IsSet(compName + ".attribute-expiration-sec") {
		lf.attributeExpiration = opt.AttributeExpiration
	} else {
		lf.attributeExpiration = defaultAttrExpiration
	}

	if config.IsSet(compName + ".negative-entry-expiration-sec") {
		lf.negativeTimeout = opt.NegativeEntryExpiration
	} else {
		lf.negativeTimeout = defaultNegativeEntryExpiration
	}

	if opt.MaxFuseThreads != 0 {
		lf.maxFuseThreads = opt.MaxFuseThreads
	} else {
		lf.maxFuseThreads = defaultMaxFuseThreads
	}

	if config.IsSet(compName + ".uid") {
		lf.ownerUID = opt.Uid
	} else {
		lf.ownerUID = uint32(os.Getuid())
	}
	if config.IsSet(compName + ".gid") {
		lf.ownerGID = opt.Gid
	} else {
		lf.ownerGID = uint32(os.Getgid())
	}

	return nil
}

// Configure : Pipeline will call this method after constructor so that you can read config and initialize yourself
//
//	Return failure if any config is not valid to exit the process
func (lf *Libfuse) Configure(_ bool) error {
	log.Trace("Libfuse::Configure : %s", lf.Name())

	conf := LibfuseOptions{}
	err := config.UnmarshalKey(lf.Name(), &conf)
	if err != nil {
		log.Err("Libfuse::Configure : config error [invalid config attributes]")
		return fmt.Errorf("config error in %s [%s]", lf.Name(), err.Error())
	}

	err = config.UnmarshalKey("mount-path", &conf.mountPath)
	if err != nil {
		log.Err("Libfuse::Configure : config error [unable to obtain mount-path]")
		return fmt.Errorf("config error in %s [%s]", lf.Name(), err.Error())
	}
	_ = config.UnmarshalKey("read-only", &conf.readOnly)
	_ = config.UnmarshalKey("allow-other", &conf.allowOther)
	_ = config.UnmarshalKey("allow-root", &conf.allowRoot)
	_ = config.UnmarshalKey("nonempty", &conf.nonEmptyMount)

	err = lf.Validate(&conf)
	if err != nil {
		log.Err("Libfuse::Configure : config error [invalid config settings]")
		return fmt.Errorf("config error in %s [%s]", lf.Name(), err.Error())
	}

	scratchOpts, err := scratch.ReadOptions()
	if err != nil {
		return err
	}
	lf.scratch, err = scratch.New(scratchOpts)
	if err != nil {
		log.Err("Libfuse::Configure : scratch space unusable [%s]", err.Error())
		return fmt.Errorf("config error in %s [%s]", lf.Name(), err.Error())
	}

	lf.ctx = context.Background()

	log.Info("Libfuse::Configure : read-only %t, allow-other %t, allow-root %t, default-perm %d, entry-timeout %d, attr-time %d, negative-timeout %d, max-fuse-threads %d, direct-io %t, scratch %s",
		lf.readOnly, lf.allowOther, lf.allowRoot, lf.filePermission, lf.entryExpiration, lf.attributeExpiration,
		lf.negativeTimeout, lf.maxFuseThreads, lf.directIO, lf.scratch.Path())

	return nil
}

// kernelTimeouts : attr, entry and negative timeouts in seconds.
// The kernel never caches a name longer than the catalog trusts its listing.
func (lf *Libfuse) kernelTimeouts() (uint32, uint32, uint32) {
	attr, entry, negative := lf.attributeExpiration, lf.entryExpiration, lf.negativeTimeout

	ttlCatalog, ok := lf.catalog.(internal.ListingTTL)
	if !ok {
		return attr, entry, negative
	}
	limit := uint32(ttlCatalog.ListingTTL() / time.Second)
	if attr > limit || entry > limit || negative > limit {
		log.Info("Libfuse::kernelTimeouts : kernel timeouts capped at the %ds listing ttl", limit)
	}
	return min(attr, limit), min(entry, limit), min(negative, limit)
}

// GenConfig : default section for gen-config
func (lf *Libfuse) GenConfig() string {
	return fmt.Sprintf("\n%s:\n  attribute-expiration-sec: %d\n  entry-expiration-sec: %d\n  negative-entry-expiration-sec: %d\n",
		lf.Name(), defaultAttrExpiration, defaultEntryExpiration, defaultNegativeEntryExpiration)
}

// ------------------------- Factory -------------------------------------------

// Pipeline will call this method to create your object, initialize your variables here
// << DO NOT DO ANY INITIALIZATION HERE >>
func NewLibfuseComponent() internal.Component {
	comp := &Libfuse{}
	comp.SetName(compName)
	return comp
}

// On init register this component to pipeline and supply your constructor
func init() {
	internal.AddComponent(compName, NewLibfuseComponent)

	attributeExpiration := config.AddUint32Flag("attr-timeout", defaultAttrExpiration, "The attribute timeout in seconds")
	config.BindPFlag(compName+".attribute-expiration-sec", attributeExpiration)

	entryExpiration := config.AddUint32Flag("entry-timeout", defaultEntryExpiration, "The entry timeout in seconds.")
	config.BindPFlag(compName+".entry-expiration-sec", entryExpiration)

	negativeEntryExpiration := config.AddUint32Flag("negative-timeout", defaultNegativeEntryExpiration, "The negative entry timeout in seconds.")
	config.BindPFlag(compName+".negative-entry-expiration-sec", negativeEntryExpiration)

	allowOther := config.AddBoolFlag("allow-other", false, "Allow other users to access this mount point.")
	config.BindPFlag("allow-other", allowOther)

	readOnly := config.AddBoolFlag("read-only", false, "Mount the album tree read only.")
	config.BindPFlag("read-only", readOnly)

	debug := config.AddBoolPFlag("d", false, "Mount with foreground and FUSE logs on.")
	config.BindPFlag(compName+".fuse-trace", debug)
	debug.Hidden = true

	scratchPath := config.AddStringFlag("scratch-path", "", "Directory holding local copies of open photos.")
	config.BindPFlag("scratch.path", scratchPath)
}
