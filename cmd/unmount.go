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
	"bytes"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Seagate/photofuse/common"
	"github.com/Seagate/photofuse/common/log"

	"github.com/spf13/cobra"
)

var unmountCmd = &cobra.Command{
	Use:        "unmount <mount path>",
	Short:      "Unmount a photo collection",
	Long:       "Unmount a photo collection. A path containing '*' is a pattern matched against every photofuse mount.",
	SuggestFor: []string{"unmount", "unmnt"},
	Args:       cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lazy, _ := cmd.Flags().GetBool("lazy")
		if strings.Contains(args[0], "*") {
			mntPathPrefix := args[0]

			lstMnt, _ := common.ListMountPoints()
			for _, mntPath := range lstMnt {
				match, _ := regexp.MatchString(mntPathPrefix, mntPath)
				if match {
					err := unmountPhotofuse(mntPath, lazy, false)
					if err != nil {
						return fmt.Errorf("failed to unmount %s [%s]", mntPath, err.Error())
					}
				}
			}
			return nil
		}

		return unmountPhotofuse(common.ExpandPath(args[0]), lazy, false)
	},
	ValidArgsFunction: func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if toComplete == "" {
			mntPts, _ := common.ListMountPoints()
			return mntPts, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveDefault
	},
}

var umntAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Unmount all instances of photofuse",
	Long:  "Unmount all instances of photofuse",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lazy, _ := cmd.Flags().GetBool("lazy")
		lstMnt, _ := common.ListMountPoints()

		mountfound := 0
		unmounted := 0
		errMsg := "failed to unmount - \n"
		for _, mntPath := range lstMnt {
			mountfound++
			err := unmountPhotofuse(mntPath, lazy, true)
			if err == nil {
				unmounted++
			} else {
				errMsg += " " + mntPath + " - [" + err.Error() + "]\n"
			}
		}

		if mountfound == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to unmount")
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d mounts were successfully unmounted\n", unmounted, mountfound)
		}

		if unmounted < mountfound {
			return fmt.Errorf("%s", errMsg)
		}
		return nil
	},
}

// unmountPhotofuse : fusermount3 first, fusermount for fuse2 installs
func unmountPhotofuse(mntPath string, lazy bool, silent bool) error {
	unmountCmd := []string{"fusermount3", "fusermount"}

	var errb bytes.Buffer
	var err error
	for _, umntCmd := range unmountCmd {
		var args []string
		if lazy {
			args = append(args, "-z")
		}
		args = append(args, "-u", mntPath)
		cliOut := exec.Command(umntCmd, args...)
		cliOut.Stderr = &errb
		_, err = cliOut.Output()

		if err == nil {
			log.Info("unmountPhotofuse : successfully unmounted %s", mntPath)
			if !silent {
				fmt.Println("Successfully unmounted", mntPath)
			}
			return nil
		}

		if !strings.Contains(err.Error(), "executable file not found") {
			log.Err("unmountPhotofuse : failed to unmount %s (%s : %s)", mntPath, err.Error(), errb.String())
			break
		}
	}

	return fmt.Errorf("%s", errb.String()+" "+err.Error())
}

func init() {
	rootCmd.AddCommand(unmountCmd)
	unmountCmd.AddCommand(umntAllCmd)
	unmountCmd.PersistentFlags().BoolP("lazy", "z", false, "Use lazy unmount")
}
