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
	"errors"
	"os"
	"strings"

	"github.com/Seagate/photofuse/common"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "photofuse",
	Short:        "Photofuse presents a photo collection as a filesystem.",
	Long:         "Photofuse presents a photo collection as a filesystem. Albums are directories and photos are files; photos that belong to no album sit at the top level. It uses the FUSE protocol to communicate with the operating system and an S3 bucket as the photo service.",
	Version:      common.PhotofuseVersion,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return errors.New("missing command options\n\nDid you mean this?\n\tphotofuse mount\n\nRun 'photofuse --help' for usage")
	},
}

// ignoreCommand : There are command implicitly added by cobra itself, while parsing we need to ignore these commands
func ignoreCommand(cmdArgs []string) bool {
	ignoreCmds := []string{"completion", "help"}
	if len(cmdArgs) > 0 {
		for _, c := range ignoreCmds {
			if c == cmdArgs[0] {
				return true
			}
		}
	}
	return false
}

// parseArgs : Depending upon inputs are coming from /etc/fstab or CLI, parameter style may vary.
// -- /etc/fstab example : photofuse mount <dir> -o suid,nodev,--config-file=config.yaml,allow_other
// -- cli command        : photofuse mount <dir> -o suid,nodev --config-file=config.yaml -o allow_other
// -- As we need to support both the ways, here we convert the /etc/fstab style (comma separated list) to standard cli ways
func parseArgs(cmdArgs []string) []string {
	// Ignore binary name, rest all are arguments to photofuse
	cmdArgs = cmdArgs[1:]

	cmd, _, err := rootCmd.Find(cmdArgs)
	if err != nil && cmd == rootCmd && !ignoreCommand(cmdArgs) {
		// fstab lines carry no subcommand, so anything we do not recognise is a mount point
		cmdArgs = append([]string{"mount"}, cmdArgs...)
	}

	args := make([]string, 0)
	for i := 0; i < len(cmdArgs); i++ {
		// /etc/fstab will give everything in comma separated list with -o option
		if cmdArgs[i] == "-o" {
			i++
			if i < len(cmdArgs) {
				pfuseArgs := make([]string, 0)
				lfuseArgs := make([]string, 0)

				// photofuse options in the list start with "--", the rest go to libfuse
				opts := strings.Split(cmdArgs[i], ",")
				for _, o := range opts {
					if strings.HasPrefix(o, "--") {
						pfuseArgs = append(pfuseArgs, o)
					} else {
						lfuseArgs = append(lfuseArgs, o)
					}
				}

				if len(lfuseArgs) > 0 {
					args = append(args, "-o", strings.Join(lfuseArgs, ","))
				}
				if len(pfuseArgs) > 0 {
					args = append(args, pfuseArgs...)
				}
			}
		} else {
			// If any option is without -o then keep it as is (assuming its directly from cli)
			args = append(args, cmdArgs[i])
		}
	}

	return args
}

// Execute : Actual command execution starts from here
func Execute() error {
	parsedArgs := parseArgs(os.Args)
	rootCmd.SetArgs(parsedArgs)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
	return err
}
