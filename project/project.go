// Package project loads the TOML manifest describing a lowering job: which
// semantic IR file to lower, what to call the resulting module, and where
// to write it.
package project

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"sable/common"
	"sable/util"

	"github.com/pelletier/go-toml"
)

// tomlProject represents a Sable project as it is encoded in TOML.
type tomlProject struct {
	Name     string `toml:"name"`
	Input    string `toml:"input"`
	Output   string `toml:"output"`
	Trace    bool   `toml:"trace"`
	LogLevel string `toml:"log-level"`
}

// Project is a validated lowering job.
type Project struct {
	// Name is the name given to the lowered module.
	Name string

	// InputPath is the absolute path to the semantic IR file to lower.
	InputPath string

	// OutputPath is the absolute path the textual LLVM module is written to.
	OutputPath string

	// Trace indicates whether per-node lowering traces should be emitted.
	Trace bool

	// LogLevel is one of the log level names accepted by the reporter.
	LogLevel string
}

// logLevelNames is the set of log level names a project file may select.
var logLevelNames = []string{"silent", "error", "warn", "verbose"}

// Load loads and validates the project file in the given directory.
// `abspath` is the absolute path to the project directory.
func Load(abspath string) (*Project, error) {
	f, err := os.Open(filepath.Join(abspath, common.SableProjectFileName))
	if err != nil {
		return nil, fmt.Errorf("unable to open project file in `%s`: %w", abspath, err)
	}
	defer f.Close()

	buff, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("error reading project file in `%s`: %w", abspath, err)
	}

	tomlProj := &tomlProject{}
	if err := toml.Unmarshal(buff, tomlProj); err != nil {
		return nil, fmt.Errorf("error parsing project file in `%s`: %w", abspath, err)
	}

	return validate(abspath, tomlProj)
}

// validate checks the raw TOML project and fills in defaults, producing the
// final project.
func validate(abspath string, tomlProj *tomlProject) (*Project, error) {
	if tomlProj.Name == "" {
		return nil, fmt.Errorf("project missing required field `name`")
	}

	input := tomlProj.Input
	if input == "" {
		input = tomlProj.Name + common.SableIRFileExt
	} else if !strings.HasSuffix(input, common.SableIRFileExt) {
		return nil, fmt.Errorf("project input `%s` must be a `%s` file", input, common.SableIRFileExt)
	}

	output := tomlProj.Output
	if output == "" {
		output = tomlProj.Name + common.LLVMFileExt
	}

	logLevel := tomlProj.LogLevel
	if logLevel == "" {
		logLevel = "verbose"
	} else if !util.Contains(logLevelNames, logLevel) {
		return nil, fmt.Errorf("unknown log level: `%s`", logLevel)
	}

	return &Project{
		Name:       tomlProj.Name,
		InputPath:  resolve(abspath, input),
		OutputPath: resolve(abspath, output),
		Trace:      tomlProj.Trace,
		LogLevel:   logLevel,
	}, nil
}

// resolve makes a project-relative path absolute.
func resolve(abspath, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(abspath, path)
}
