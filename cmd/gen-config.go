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
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Seagate/photofuse/common"
	"github.com/Seagate/photofuse/component/scratch"
	"github.com/Seagate/photofuse/internal"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

type genConfigParams struct {
	readOnly    bool   `config:"ro"           yaml:"ro,omitempty"`
	scratchPath string `config:"scratch-path" yaml:"scratch-path,omitempty"`
	outputFile  string `config:"o"            yaml:"o,omitempty"`

	templatePath     string
	outputConfigPath string
}

// generatedHeader is the part of the config that does not belong to any one component
type generatedHeader struct {
	Foreground bool            `yaml:"foreground"`
	ReadOnly   bool            `yaml:"read-only,omitempty"`
	Logging    LogOptions      `yaml:"logging"`
	Components []string        `yaml:"components"`
	Scratch    scratch.Options `yaml:"scratch"`
}

var optsGenCfg genConfigParams

var templateParam = regexp.MustCompile(`\{\{[^{}]*\}\}|\{[^{}]*\}`)

var generatedConfig = &cobra.Command{
	Use:        "gen-config",
	Short:      "Generate default config file.",
	Long:       "Generate a config file for the default photofuse pipeline, or fill in a config template.",
	SuggestFor: []string{"generate default config", "generate config"},
	Args:       cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		if optsGenCfg.templatePath != "" {
			return fillTemplate()
		}

		if optsGenCfg.scratchPath == "" {
			return fmt.Errorf("scratch path is required. Use flag --scratch-path to provide the path")
		}

		out, err := generateConfig(defaultComponents)
		if err != nil {
			return err
		}

		if optsGenCfg.outputFile == "console" {
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}

		filePath := optsGenCfg.outputFile
		if filePath == "" {
			filePath = "./photofuse.yaml"
		}
		return os.WriteFile(filePath, []byte(out), 0644)
	},
}

func generateConfig(pipeline []string) (string, error) {
	header := generatedHeader{
		ReadOnly: optsGenCfg.readOnly,
		Logging: LogOptions{
			Type:        "syslog",
			LogLevel:    "log_warning",
			LogFilePath: common.DefaultLogFilePath,
		},
		Components: pipeline,
		Scratch: scratch.Options{
			Path:           optsGenCfg.scratchPath,
			CleanupOnStart: true,
		},
	}

	data, err := yaml.Marshal(&header)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config [%s]", err.Error())
	}

	var sb strings.Builder
	sb.WriteString("# Logger type: syslog|silent|base, level: log_off|log_crit|log_err|log_warning|log_info|log_trace|log_debug\n")
	sb.Write(data)

	for _, name := range pipeline {
		c := internal.GetComponent(name)
		if c == nil {
			return "", fmt.Errorf("generatedConfig:: error getting component [%s]", name)
		}
		sb.WriteString(c.GenConfig())
	}

	return sb.String(), nil
}

// fillTemplate : replace { 0 } with the scratch path and {{ NAME }} with the environment variable NAME
func fillTemplate() error {
	if optsGenCfg.outputConfigPath == "" {
		return fmt.Errorf("output file is required with --template. Use flag --output-file")
	}

	templateConfig, err := os.ReadFile(optsGenCfg.templatePath)
	if err != nil {
		return fmt.Errorf("failed to read file [%s]", err.Error())
	}

	newConfig := templateParam.ReplaceAllStringFunc(string(templateConfig), func(param string) string {
		if param == "{ 0 }" {
			return optsGenCfg.scratchPath
		}
		return os.Getenv(strings.TrimSpace(strings.Trim(param, "{}")))
	})

	err = os.WriteFile(optsGenCfg.outputConfigPath, []byte(newConfig), 0600)
	if err != nil {
		return fmt.Errorf("failed to write file [%s]", err.Error())
	}
	return nil
}

func init() {
	rootCmd.AddCommand(generatedConfig)

	generatedConfig.Flags().BoolVar(&optsGenCfg.readOnly, "ro", false, "Mount in read-only mode")
	generatedConfig.Flags().
		StringVar(&optsGenCfg.scratchPath, "scratch-path", "", "Local directory holding materialized photos")
	generatedConfig.Flags().StringVar(&optsGenCfg.outputFile, "o", "", "Output file location, or 'console'")

	generatedConfig.Flags().
		StringVar(&optsGenCfg.templatePath, "template", "", "Config template to fill in.")
	generatedConfig.Flags().
		StringVar(&optsGenCfg.outputConfigPath, "output-file", "", "Output path for the filled template.")
}
