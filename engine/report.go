package engine

import (
	"log"
	"os"

	"github.com/sqlbind/sqlbind/database"
)

// GenericErrorCode is stored when the database layer holds no error of its
// own and the reporter synthesizes one from the caller's message.
const GenericErrorCode = "SB000"

// Handler receives every reported failure. The default handler is fatal;
// install a non-fatal handler to make engine errors recoverable.
type Handler interface {
	Handle(statementID, message string)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(statementID, message string)

func (f HandlerFunc) Handle(statementID, message string) {
	f(statementID, message)
}

// Fatal returns the default handler: it writes the message and aborts the
// process.
func Fatal() Handler {
	return HandlerFunc(func(statementID, message string) {
		log.Printf("sqlbind: statement %s: %s", statementID, message)
		os.Exit(1)
	})
}

// Logging returns a non-fatal handler that writes the message and returns
// control, leaving propagation to the call sites.
func Logging() Handler {
	return HandlerFunc(func(statementID, message string) {
		log.Printf("sqlbind: statement %s: %s", statementID, message)
	})
}

// Reporter centralizes failure capture. It records the database layer's
// last error when one is held, otherwise synthesizes a generic code from
// the caller's message, then dispatches to the installed handler.
type Reporter struct {
	conn    database.Conn
	handler Handler
	last    database.Error
}

func NewReporter(conn database.Conn, handler Handler) *Reporter {
	if handler == nil {
		handler = Fatal()
	}
	return &Reporter{conn: conn, handler: handler}
}

// SetHandler replaces the failure handler.
func (r *Reporter) SetHandler(h Handler) {
	if h != nil {
		r.handler = h
	}
}

// LastError returns the captured error of the most recent report.
func (r *Reporter) LastError() database.Error {
	return r.last
}

// Report captures the failure and invokes the handler. It always returns a
// non-nil error so call sites can propagate regardless of what the handler
// does.
func (r *Reporter) Report(statementID, message string) error {
	if r.conn != nil {
		if le := r.conn.LastError(); !le.IsZero() {
			r.last = le
		} else {
			r.last = database.Error{Code: GenericErrorCode, Text: message}
		}
	} else {
		r.last = database.Error{Code: GenericErrorCode, Text: message}
	}
	r.handler.Handle(statementID, message)
	return r.last
}
