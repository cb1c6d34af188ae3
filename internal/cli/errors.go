package cli

import (
	"errors"
	"fmt"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func errUsage(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func hintFor(err error) string {
	var nf notFoundError
	if errors.As(err, &nf) && nf.kind == "domain" {
		return "Hint: run `breachtrack ls` to see tracked domains"
	}
	var ue usageError
	if errors.As(err, &ue) {
		return "Hint: run `breachtrack --help` for usage"
	}
	return ""
}
