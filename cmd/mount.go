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

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/Seagate/photofuse/common"
	"github.com/Seagate/photofuse/common/config"
	"github.com/Seagate/photofuse/common/log"
	"github.com/Seagate/photofuse/internal"

	"github.com/spf13/cobra"
)

type LogOptions struct {
	Type           string `config:"type"             yaml:"type,omitempty"`
	LogLevel       string `config:"level"            yaml:"level,omitempty"`
	LogFilePath    string `config:"file-path"        yaml:"file-path,omitempty"`
	MaxLogFileSize uint64 `config:"max-file-size-mb" yaml:"max-file-size-mb,omitempty"`
	LogFileCount   uint64 `config:"file-count"       yaml:"file-count,omitempty"`
	TimeTracker    bool   `config:"track-time"       yaml:"track-time,omitempty"`
}

type mountOptions struct {
	MountPath      string
	inputMountPath string
	ConfigFile     string

	DryRun            bool
	Logging           LogOptions    `config:"logging"`
	Components        []string      `config:"components"`
	Foreground        bool          `config:"foreground"`
	NonEmpty          bool          `config:"nonempty"`
	DefaultWorkingDir string        `config:"default-working-dir"`
	CPUProfile        string        `config:"cpu-profile"`
	MemProfile        string        `config:"mem-profile"`
	DynamicProfiler   bool          `config:"dynamic-profile"`
	ProfilerPort      int           `config:"profiler-port"`
	ProfilerIP        string        `config:"profiler-ip"`
	WaitForMount      time.Duration `config:"wait-for-mount"`

	LibfuseOptions []string `config:"libfuse-options"`
}

var options mountOptions

// the pipeline used when the config names none
var defaultComponents = []string{"libfuse", "photo_cache", "s3photos"}

// FuseAllowedFlags : reported when -o carries something we cannot honour
const fuseAllowedFlags = "invalid FUSE options. Allowed FUSE configurations are: `-o attr_timeout=TIMEOUT`, `-o negative_timeout=TIMEOUT`, `-o entry_timeout=TIMEOUT` `-o allow_other`, `-o allow_root`, `-o umask=PERMISSIONS -o default_permissions`, `-o ro`, `-o nonempty`, `-o uid=UID`, `-o gid=GID`, `-o direct_io`"

// fstab options that mean nothing to a photo mount
func fuseIgnoredFlags() []string {
	return []string{"default_permissions", "rw", "dev", "nodev", "suid", "nosuid", "delay_connect", "auto", "noauto", "user", "nouser", "exec", "noexec", "_netdev"}
}

func (opt *mountOptions) validate(skipNonEmptyMount bool) error {
	if opt.MountPath == "" {
		return fmt.Errorf("mount path not provided")
	}

	if _, err := os.Stat(opt.MountPath); os.IsNotExist(err) {
		return fmt.Errorf("mount directory does not exist")
	} else if common.IsDirectoryMounted(opt.MountPath) {
		return fmt.Errorf("directory is already mounted")
	} else if !skipNonEmptyMount && !common.IsDirectoryEmpty(opt.MountPath) {
		return fmt.Errorf("mount directory is not empty")
	}

	if err := common.ELogLevel.Parse(opt.Logging.LogLevel); err != nil {
		return fmt.Errorf("invalid log level [%s]", err.Error())
	}

	if opt.DefaultWorkingDir != "" {
		if opt.Logging.LogFilePath == common.DefaultLogFilePath {
			// log next to everything else unless a log path was given
			opt.Logging.LogFilePath = common.JoinUnixFilepath(opt.DefaultWorkingDir, common.DefaultLogFile)
		}
		common.DefaultLogFilePath = common.JoinUnixFilepath(opt.DefaultWorkingDir, common.DefaultLogFile)
	}

	err := common.CreateDefaultDirectory()
	if err != nil {
		return fmt.Errorf("failed to create default work dir [%s]", err.Error())
	}

	opt.Logging.LogFilePath = common.ExpandPath(opt.Logging.LogFilePath)
	if !common.DirectoryExists(filepath.Dir(opt.Logging.LogFilePath)) {
		err := os.MkdirAll(filepath.Dir(opt.Logging.LogFilePath), os.FileMode(0776)|os.ModeDir)
		if err != nil {
			return fmt.Errorf("invalid log file path [%s]", err.Error())
		}
	}

	// A user provided value of 0 doesn't make sense for MaxLogFileSize or LogFileCount.
	if opt.Logging.MaxLogFileSize == 0 {
		opt.Logging.MaxLogFileSize = common.DefaultMaxLogFileSize
	}

	if opt.Logging.LogFileCount == 0 {
		opt.Logging.LogFileCount = common.DefaultLogFileCount
	}

	return nil
}

func OnConfigChange() {
	newLogOptions := &LogOptions{}
	err := config.UnmarshalKey("logging", newLogOptions)
	if err != nil {
		log.Err("Mount::OnConfigChange : Invalid logging options [%s]", err.Error())
	}

	var logLevel common.LogLevel
	err = logLevel.Parse(newLogOptions.LogLevel)
	if err != nil {
		log.Err("Mount::OnConfigChange : Invalid log level [%s]", newLogOptions.LogLevel)
	}

	err = log.SetConfig(common.LogConfig{
		Level:       logLevel,
		FilePath:    common.ExpandPath(newLogOptions.LogFilePath),
		MaxFileSize: newLogOptions.MaxLogFileSize,
		FileCount:   newLogOptions.LogFileCount,
		TimeTracker: newLogOptions.TimeTracker,
	})

	if err != nil {
		log.Err("Mount::OnConfigChange : Unable to reset Logging options [%s]", err.Error())
	}
}

// parseConfig : load the config file, when there is one. Without it every setting
// has to come from flags or the environment.
func parseConfig() error {
	if options.ConfigFile == "" {
		_, err := os.Stat(common.DefaultConfigFilePath)
		if err != nil && os.IsNotExist(err) {
			log.Info("parseConfig : no config file, relying on flags and environment")
			return nil
		}
		options.ConfigFile = common.DefaultConfigFilePath
	}

	options.ConfigFile = common.ExpandPath(options.ConfigFile)
	err := config.ReadFromConfigFile(options.ConfigFile)
	if err != nil {
		return fmt.Errorf("invalid config file [%s]", err.Error())
	}
	return nil
}

// applyLibfuseOptions : fold "-o" mount options into the config
func applyLibfuseOptions(opts []string) error {
	for _, v := range opts {
		v = strings.TrimSpace(v)
		parameter := strings.Split(v, "=")
		if len(parameter) > 2 || len(parameter) <= 0 {
			return errors.New(fuseAllowedFlags)
		}

		if ignoreFuseOptions(v) {
			continue
		} else if v == "allow_other" || v == "allow_other=true" {
			config.Set("allow-other", "true")
		} else if v == "allow_root" || v == "allow_root=true" {
			config.Set("allow-root", "true")
		} else if v == "ro" || v == "ro=true" {
			config.Set("read-only", "true")
		} else if v == "nonempty" || v == "nonempty=true" {
			options.NonEmpty = true
			config.Set("nonempty", "true")
		} else if v == "direct_io" || v == "direct_io=true" {
			config.Set("libfuse.direct-io", "true")
		} else if strings.HasPrefix(v, "attr_timeout=") {
			config.Set("libfuse.attribute-expiration-sec", parameter[1])
		} else if strings.HasPrefix(v, "entry_timeout=") {
			config.Set("libfuse.entry-expiration-sec", parameter[1])
		} else if strings.HasPrefix(v, "negative_timeout=") {
			config.Set("libfuse.negative-entry-expiration-sec", parameter[1])
		} else if strings.HasPrefix(v, "umask=") {
			umask, err := strconv.ParseUint(parameter[1], 10, 32)
			if err != nil {
				return fmt.Errorf("failed to parse umask [%s]", err.Error())
			}
			config.Set("libfuse.umask", fmt.Sprint(umask))
		} else if strings.HasPrefix(v, "uid=") {
			val, err := strconv.ParseUint(parameter[1], 10, 32)
			if err != nil {
				return fmt.Errorf("failed to parse uid [%s]", err.Error())
			}
			config.Set("libfuse.uid", fmt.Sprint(val))
		} else if strings.HasPrefix(v, "gid=") {
			val, err := strconv.ParseUint(parameter[1], 10, 32)
			if err != nil {
				return fmt.Errorf("failed to parse gid [%s]", err.Error())
			}
			config.Set("libfuse.gid", fmt.Sprint(val))
		} else {
			return errors.New(fuseAllowedFlags)
		}
	}
	return nil
}

// We use the cobra library to provide a CLI for Photofuse.
// Look at https://cobra.dev/ for more information
var mountCmd = &cobra.Command{
	Use:        "mount <mount path>",
	Short:      "Mount the photo collection as a filesystem",
	Long:       "Mount the photo collection as a filesystem",
	SuggestFor: []string{"mnt", "mout"},
	Args:       cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		options.inputMountPath = args[0]
		options.MountPath = common.ExpandPath(args[0])
		common.MountPath = options.MountPath

		err := parseConfig()
		if err != nil {
			return err
		}

		err = config.Unmarshal(&options)
		if err != nil {
			return fmt.Errorf("failed to unmarshal config [%s]", err.Error())
		}

		options.Foreground = options.Foreground || options.DryRun

		if len(options.Components) == 0 {
			options.Components = defaultComponents
		}

		if config.IsSet("libfuse-options") {
			err = applyLibfuseOptions(options.LibfuseOptions)
			if err != nil {
				return err
			}
		}

		if !config.IsSet("logging.file-path") {
			options.Logging.LogFilePath = common.DefaultLogFilePath
		}

		if !config.IsSet("logging.level") {
			options.Logging.LogLevel = "LOG_WARNING"
		}

		err = options.validate(options.NonEmpty)
		if err != nil {
			return err
		}

		var logLevel common.LogLevel
		err = logLevel.Parse(options.Logging.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level [%s]", err.Error())
		}

		err = log.SetDefaultLogger(options.Logging.Type, common.LogConfig{
			FilePath:    options.Logging.LogFilePath,
			MaxFileSize: options.Logging.MaxLogFileSize,
			FileCount:   options.Logging.LogFileCount,
			Level:       logLevel,
			TimeTracker: options.Logging.TimeTracker,
		})

		if err != nil {
			return fmt.Errorf("failed to initialize logger [%s]", err.Error())
		}

		config.Set("mount-path", options.MountPath)

		log.Crit("Starting Photofuse Mount : %s on %s", common.PhotofuseVersion, common.OsArch)
		log.Info("Mount Command: %s", os.Args)
		log.Crit("Logging level set to : %s", logLevel.String())
		log.Debug("Mount allowed on nonempty path : %v", options.NonEmpty)

		common.ForegroundMount = options.Foreground

		pipeline, err := internal.NewPipeline(options.Components, !isDaemonChild())
		if err != nil {
			log.Err("mount : failed to initialize new pipeline [%v]", err)
			return Destroy(fmt.Sprintf("mount : failed to initialize new pipeline [%s]", err.Error()))
		}

		// Dry run ends here
		if options.DryRun {
			log.Trace("Dry-run complete")
			return nil
		}

		log.Info("mount: Mounting photofuse on %s", options.MountPath)
		if !options.Foreground {
			pidFile := strings.ReplaceAll(options.MountPath, "/", "_") + ".pid"
			pidFileName := filepath.Join(common.ExpandPath(common.DefaultWorkDir), pidFile)

			// A stale pid file makes daemonizing fail
			err := os.Remove(pidFileName)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("mount: failed to remove pidFile [%v]", err.Error())
			}

			fname := fmt.Sprintf("/tmp/photofuse.%v", os.Getpid())
			err = createDaemon(pipeline, context.Background(), pidFileName, 0644, 022, fname)
			if err != nil {
				return fmt.Errorf("mount: failed to create daemon [%v]", err.Error())
			}
			return nil
		}

		if options.CPUProfile != "" {
			os.Remove(options.CPUProfile)
			f, err := os.Create(options.CPUProfile)
			if err != nil {
				fmt.Printf("Error opening file for cpuprofile [%s]", err.Error())
			}
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				fmt.Printf("Failed to start cpuprofile [%s]", err.Error())
			}
			defer pprof.StopCPUProfile()
		}

		setGOConfig()
		go startDynamicProfiler()

		log.Debug("mount: foreground enabled")
		err = runPipeline(pipeline, context.Background())
		if err != nil {
			return err
		}

		if options.MemProfile != "" {
			writeMemProfile(options.MemProfile)
		}
		return nil
	},
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveDefault
	},
}

var mountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all photofuse mount points",
	Long:  "List all photofuse mount points",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lstMnt, err := common.ListMountPoints()
		if err != nil {
			return fmt.Errorf("failed to list mount points [%s]", err.Error())
		}

		out := cmd.OutOrStdout()
		if len(lstMnt) == 0 {
			fmt.Fprintln(out, "Nothing is mounted from this system")
			return nil
		}
		fmt.Fprintln(out, "List of mount points mounted by photofuse:")
		for i, mntPath := range lstMnt {
			fmt.Fprintf(out, "%d : %s\n", i+1, mntPath)
		}
		return nil
	},
}

func ignoreFuseOptions(opt string) bool {
	for _, o := range fuseIgnoredFlags() {
		if opt == o {
			return true
		}
	}
	return false
}

// runPipeline : Start blocks while the filesystem is mounted
func runPipeline(pipeline *internal.Pipeline, ctx context.Context) error {
	log.Debug("Mount::runPipeline : photofuse pid = %v", os.Getpid())

	err := pipeline.Start(ctx)
	if err != nil {
		log.Err("mount: error unable to start pipeline [%s]", err.Error())
		_ = pipeline.Stop()
		return Destroy(fmt.Sprintf("unable to start pipeline [%s]", err.Error()))
	}

	err = pipeline.Stop()
	if err != nil {
		log.Err("mount: error unable to stop pipeline [%s]", err.Error())
		return Destroy(fmt.Sprintf("unable to stop pipeline [%s]", err.Error()))
	}

	_ = log.Destroy()
	return nil
}

func writeMemProfile(path string) {
	os.Remove(path)
	f, err := os.Create(path)
	if err != nil {
		fmt.Printf("Error opening file for memprofile [%s]", err.Error())
		return
	}
	defer f.Close()
	runtime.GC()
	if err = pprof.WriteHeapProfile(f); err != nil {
		fmt.Printf("Error memory profiling [%s]", err.Error())
	}
}

func setGOConfig() {
	// Ensure we always have more than 1 OS thread running goroutines, since there are issues with having just 1.
	isOnlyOne := runtime.GOMAXPROCS(0) == 1
	if isOnlyOne {
		runtime.GOMAXPROCS(2)
	}

	// Golang's default behaviour is to GC when new objects = (100% of) total of objects surviving previous GC.
	// Set it to lower level so that memory if freed up early
	debug.SetGCPercent(80)
}

func startDynamicProfiler() {
	if !options.DynamicProfiler {
		return
	}

	if options.ProfilerIP == "" {
		options.ProfilerIP = "localhost"
	}

	if options.ProfilerPort == 0 {
		// This is default go profiler port
		options.ProfilerPort = 6060
	}

	connStr := fmt.Sprintf("%s:%d", options.ProfilerIP, options.ProfilerPort)
	log.Info("Mount::startDynamicProfiler : Staring profiler on [%s]", connStr)

	// http://<ip>:<port>/debug/pprof, or go tool pprof http://localhost:6060/debug/pprof/heap
	err := http.ListenAndServe(connStr, nil)
	if err != nil {
		log.Err("Mount::startDynamicProfiler : Failed to start dynamic profiler [%s]", err.Error())
	}
}

func init() {
	rootCmd.AddCommand(mountCmd)

	options = mountOptions{}

	mountCmd.AddCommand(mountListCmd)

	mountCmd.PersistentFlags().StringVar(&options.ConfigFile, "config-file", "",
		"Configures the path for the file where the photo service settings are provided. Default is config.yaml in current directory.")
	_ = mountCmd.MarkPersistentFlagFilename("config-file", "yaml")

	mountCmd.PersistentFlags().
		String("log-type", "base", "Type of logger to be used by the system. Set to base by default. Allowed values are silent|syslog|base.")
	config.BindPFlag("logging.type", mountCmd.PersistentFlags().Lookup("log-type"))
	_ = mountCmd.RegisterFlagCompletionFunc(
		"log-type",
		func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return []string{"silent", "base", "syslog"}, cobra.ShellCompDirectiveNoFileComp
		},
	)

	mountCmd.PersistentFlags().String("log-level", "LOG_WARNING",
		"Enables logs written to syslog. Set to LOG_WARNING by default. Allowed values are LOG_OFF|LOG_CRIT|LOG_ERR|LOG_WARNING|LOG_INFO|LOG_DEBUG")
	config.BindPFlag("logging.level", mountCmd.PersistentFlags().Lookup("log-level"))
	_ = mountCmd.RegisterFlagCompletionFunc(
		"log-level",
		func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return []string{"LOG_OFF", "LOG_CRIT", "LOG_ERR", "LOG_WARNING", "LOG_INFO", "LOG_TRACE", "LOG_DEBUG"}, cobra.ShellCompDirectiveNoFileComp
		},
	)

	mountCmd.PersistentFlags().String("log-file-path",
		common.DefaultLogFilePath, "Configures the path for log files. Default is "+common.DefaultLogFilePath)
	config.BindPFlag("logging.file-path", mountCmd.PersistentFlags().Lookup("log-file-path"))
	_ = mountCmd.MarkPersistentFlagDirname("log-file-path")

	mountCmd.PersistentFlags().
		Bool("foreground", false, "Mount the system in foreground mode. Default value false.")
	config.BindPFlag("foreground", mountCmd.PersistentFlags().Lookup("foreground"))

	mountCmd.Flags().BoolVar(&options.DryRun, "dry-run", false,
		"Test mount configuration and credentials, but don't mount anything. Implies foreground.")
	config.BindPFlag("dry-run", mountCmd.Flags().Lookup("dry-run"))

	mountCmd.PersistentFlags().
		String("default-working-dir", "", "Default working directory for storing log files and other photofuse information")
	mountCmd.PersistentFlags().Lookup("default-working-dir").Hidden = true
	config.BindPFlag("default-working-dir", mountCmd.PersistentFlags().Lookup("default-working-dir"))
	_ = mountCmd.MarkPersistentFlagDirname("default-working-dir")

	mountCmd.PersistentFlags().
		StringSliceVarP(&options.LibfuseOptions, "o", "o", []string{}, "FUSE options.")
	config.BindPFlag("libfuse-options", mountCmd.PersistentFlags().ShorthandLookup("o"))
	mountCmd.PersistentFlags().ShorthandLookup("o").Hidden = true

	mountCmd.PersistentFlags().
		DurationVar(&options.WaitForMount, "wait-for-mount", 5*time.Second, "Let parent process wait for given timeout before exit")

	config.AttachToFlagSet(mountCmd.PersistentFlags())
	config.AddConfigChangeEventListener(config.ConfigChangeEventHandlerFunc(OnConfigChange))
}

func Destroy(message string) error {
	_ = log.Destroy()
	if message != "" {
		return fmt.Errorf("%s", message)
	}

	return nil
}
