package cmd

import (
	"os"

	"sable/common"
	"sable/report"

	"github.com/ComedicChimera/olive"
)

// Execute is the main entry point for the `sable` CLI utility.
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("sable", "sable lowers checked Sable semantic IR to LLVM IR", true)
	cli.AddSelectorArg("loglevel", "ll", "the tool log level", false, []string{"silent", "error", "warn", "verbose"})

	lowerCmd := cli.AddSubcommand("lower", "lower a semantic IR file to LLVM IR", true)
	lowerCmd.AddPrimaryArg("input-path", "the path to a project directory or `.sir` file", true)
	lowerCmd.AddStringArg("output", "o", "the path to write the LLVM module to", false)
	lowerCmd.AddFlag("trace", "t", "print each node as it is lowered")

	cli.AddSubcommand("version", "print the Sable version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.ReportFatal(err.Error())
	}

	// the log level argument is only present when explicitly selected; an
	// absent selection lets the project file's log level apply
	var logLevel string
	if lvlArg, ok := result.Arguments["loglevel"]; ok {
		logLevel = lvlArg.(string)
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "lower":
		execLowerCommand(subResult, logLevel)
	case "version":
		report.DisplayInfoMessage("Sable Version", common.SableVersion)
	}
}
