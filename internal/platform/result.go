package platform

import "fmt"

// ResultKind tags the outcome of a single automation attempt. The zero
// value is not a success.
type ResultKind int

const (
	KindSuccess ResultKind = iota + 1
	KindNotFound
	KindError
	KindException
)

func (k ResultKind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindNotFound:
		return "not_found"
	case KindError:
		return "error"
	case KindException:
		return "exception"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is the outcome of one strategy attempt.
//
// NotFound means the target window or tab is absent. Error means the
// automation facility ran but reported a failure. Exception means the call
// itself could not complete (spawn failure, timeout, cancellation).
type Result struct {
	Kind   ResultKind
	Detail string
}

func Success() Result { return Result{Kind: KindSuccess} }

func NotFound(detail string) Result { return Result{Kind: KindNotFound, Detail: detail} }

func Error(detail string) Result { return Result{Kind: KindError, Detail: detail} }

func Exception(detail string) Result { return Result{Kind: KindException, Detail: detail} }

// OK reports whether the attempt succeeded.
func (r Result) OK() bool { return r.Kind == KindSuccess }

func (r Result) String() string {
	if r.Detail == "" {
		return r.Kind.String()
	}
	return r.Kind.String() + ": " + r.Detail
}

// resultFromRun maps a command outcome to Exception or Error. It returns
// false when the command ran and exited zero, leaving the caller to
// interpret stdout.
func resultFromRun(out CommandResult, err error) (Result, bool) {
	if err != nil {
		return Exception(err.Error()), true
	}
	if out.ExitCode != 0 {
		detail := out.Stderr
		if detail == "" {
			detail = fmt.Sprintf("exit status %d", out.ExitCode)
		}
		return Error(detail), true
	}
	return Result{}, false
}
