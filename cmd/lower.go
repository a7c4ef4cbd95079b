package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"sable/common"
	"sable/lower"
	"sable/project"
	"sable/report"
	"sable/semir"

	"github.com/ComedicChimera/olive"
)

// logLevels maps log level names to reporter log levels.
var logLevels = map[string]int{
	"silent":  report.LogLevelSilent,
	"error":   report.LogLevelError,
	"warn":    report.LogLevelWarn,
	"verbose": report.LogLevelVerbose,
}

// execLowerCommand executes the lower subcommand and handles all errors.
func execLowerCommand(result *olive.ArgParseResult, logLevel string) {
	inputPath, _ := result.PrimaryArg()
	absPath, err := filepath.Abs(inputPath)
	if err != nil {
		report.ReportFatal("unable to resolve input path `%s`: %s", inputPath, err.Error())
	}

	job := loadJob(absPath, result)
	applyLogLevel(job, logLevel)
	report.InitReporter(logLevels[job.LogLevel])

	runJob(job)
	if !report.ShouldProceed() {
		os.Exit(1)
	}

	report.DisplayInfoMessage("Lowered", job.OutputPath)
}

// applyLogLevel resolves the effective log level: an explicit command line
// selection wins over the project file, which wins over the default.
func applyLogLevel(job *project.Project, override string) {
	if override != "" {
		job.LogLevel = override
	}

	if job.LogLevel == "" {
		job.LogLevel = "verbose"
	}
}

// loadJob builds the lowering job description from the primary argument:
// either a project directory containing a `sable-mod.toml` or a bare `.sir`
// file, with command-line overrides applied on top.
func loadJob(absPath string, result *olive.ArgParseResult) *project.Project {
	var job *project.Project

	finfo, err := os.Stat(absPath)
	if err != nil {
		report.ReportFatal("unable to stat input path `%s`: %s", absPath, err.Error())
	}

	if finfo.IsDir() {
		job, err = project.Load(absPath)
		if err != nil {
			report.ReportFatal(err.Error())
		}
	} else {
		if !strings.HasSuffix(absPath, common.SableIRFileExt) {
			report.ReportFatal("input file `%s` must be a `%s` file", absPath, common.SableIRFileExt)
		}

		name := strings.TrimSuffix(filepath.Base(absPath), common.SableIRFileExt)
		job = &project.Project{
			Name:       name,
			InputPath:  absPath,
			OutputPath: filepath.Join(filepath.Dir(absPath), name+common.LLVMFileExt),
			LogLevel:   "verbose",
		}
	}

	if outArg, ok := result.Arguments["output"]; ok {
		outPath, err := filepath.Abs(outArg.(string))
		if err != nil {
			report.ReportFatal("unable to resolve output path: %s", err.Error())
		}
		job.OutputPath = outPath
	}

	if result.HasFlag("trace") {
		job.Trace = true
	}

	return job
}

// runJob decodes the semantic IR, lowers it, and writes the textual LLVM
// module to the job's output path.  Recoverable I/O and decode errors are
// reported and leave the reporter in a failed state rather than exiting
// directly.
func runJob(job *project.Project) {
	f, err := os.Open(job.InputPath)
	if err != nil {
		report.ReportStdError("Input", err)
		return
	}
	defer f.Close()

	sem, err := semir.Decode(f)
	if err != nil {
		report.ReportStdError("Input", err)
		return
	}

	if sem.NumFunctions() == 0 {
		report.ReportWarning("semantic IR `%s` contains no functions", job.InputPath)
	}

	var trace io.Writer
	if job.Trace {
		trace = os.Stderr
	}

	// lowering failures are internal consistency panics: catch them at the
	// job boundary and report them as fatal errors
	defer func() {
		if r := recover(); r != nil {
			report.ReportFatal("%v", r)
		}
	}()

	mod := lower.NewContext(job.Name, sem, trace).Run()

	if err := os.WriteFile(job.OutputPath, []byte(mod.String()), 0o644); err != nil {
		report.ReportStdError("Output", err)
	}
}
