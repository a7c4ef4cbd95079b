package report

import (
	"fmt"
	"os"
)

// ReportFatal reports a fatal error and exits the program.  It also
// automatically formats error messages as necessary.
func ReportFatal(msg string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++
	displayFatalError(fmt.Sprintf(msg, args...))

	os.Exit(1)
}

// ReportStdError reports a standard Go error prefixed with the given tag.
func ReportStdError(tag string, err error) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++
	if rep.logLevel >= LogLevelError {
		displayErrorMessage(tag, err.Error())
	}
}

// ReportWarning reports a warning message.
func ReportWarning(msg string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel >= LogLevelWarn {
		displayWarningMessage("Warning", fmt.Sprintf(msg, args...))
	}
}

// DisplayInfoMessage displays an informational message to the user.  It only
// runs if the log level is verbose.
func DisplayInfoMessage(tag, msg string) {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel == LogLevelVerbose {
		displayInfoMessage(tag, msg)
	}
}
