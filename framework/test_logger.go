package framework

type TestLogger interface {
	StepStarted(id StepID)
	StepError(id StepID, err error)
	StepFinished(id StepID, result StepResult, failed bool, debugOutput CapturedOutput)
	StepSkipped(id StepID, reason string)
	BrowserSkipped(browser string, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) StepStarted(StepID)                                    {}
func (n nullTestLogger) StepError(StepID, error)                               {}
func (n nullTestLogger) StepFinished(StepID, StepResult, bool, CapturedOutput) {}
func (n nullTestLogger) StepSkipped(StepID, string)                            {}
func (n nullTestLogger) BrowserSkipped(string, string)                         {}

func NullTestLogger() TestLogger { return nullTestLogger{} }

// MultiTestLogger returns a TestLogger that forwards every call to all of the specified loggers.
func MultiTestLogger(loggers ...TestLogger) TestLogger {
	var ret multiTestLogger
	for _, l := range loggers {
		if l != nil {
			ret = append(ret, l)
		}
	}
	return ret
}

type multiTestLogger []TestLogger

func (m multiTestLogger) StepStarted(id StepID) {
	for _, l := range m {
		l.StepStarted(id)
	}
}

func (m multiTestLogger) StepError(id StepID, err error) {
	for _, l := range m {
		l.StepError(id, err)
	}
}

func (m multiTestLogger) StepFinished(id StepID, result StepResult, failed bool, debugOutput CapturedOutput) {
	for _, l := range m {
		l.StepFinished(id, result, failed, debugOutput)
	}
}

func (m multiTestLogger) StepSkipped(id StepID, reason string) {
	for _, l := range m {
		l.StepSkipped(id, reason)
	}
}

func (m multiTestLogger) BrowserSkipped(browser string, reason string) {
	for _, l := range m {
		l.BrowserSkipped(browser, reason)
	}
}
