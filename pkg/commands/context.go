package commands

import (
	"sdb_cli/pkg/debugger"
	"sdb_cli/pkg/output"
)

// Context contains all the context needed for command execution
type Context struct {
	Session debugger.Session
	Sink    output.Sink
}

// NewContext creates a new command context
func NewContext(sess debugger.Session, sink output.Sink) *Context {
	if sess == nil {
		sess = &debugger.StaticSession{}
	}
	return &Context{
		Session: sess,
		Sink:    sink,
	}
}
