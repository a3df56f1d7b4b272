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
	"github.com/spf13/pflag"
)

// Flags registered here are attached to the mount command through AttachToFlagSet.
// Components bind them with BindPFlag so that a set flag overrides the config file.

func AddStringFlag(name string, value string, usage string) *pflag.Flag {
	userOptions.flags.String(name, value, usage)
	return userOptions.flags.Lookup(name)
}

func AddBoolFlag(name string, value bool, usage string) *pflag.Flag {
	userOptions.flags.Bool(name, value, usage)
	return userOptions.flags.Lookup(name)
}

func AddBoolPFlag(name string, value bool, usage string) *pflag.Flag {
	userOptions.flags.BoolP(name, name[:1], value, usage)
	return userOptions.flags.Lookup(name)
}

func AddUint32Flag(name string, value uint32, usage string) *pflag.Flag {
	userOptions.flags.Uint32(name, value, usage)
	return userOptions.flags.Lookup(name)
}

// Flags returns the set of flags registered by components
func Flags() *pflag.FlagSet {
	return userOptions.flags
}
